package generation

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/geomingle/internal/llm"
)

func TestSummarize_UsesModel(t *testing.T) {
	client := &mockLLMClient{response: `{"summary":"Coffee at a classic Left Bank café."}`}
	got := NewSummarizer(client).Summarize(context.Background(), "Breakfast at Café de Flore, a famous café.")
	assert.Equal(t, "Coffee at a classic Left Bank café.", got)
	assert.Equal(t, llm.TaskSummarize, client.last.Task)
}

func TestSummarize_FallsBack(t *testing.T) {
	details := "Walk along the Seine. Stop for crêpes."
	tests := []struct {
		name   string
		client llm.LLMClient
	}{
		{"client error", &mockLLMClient{err: llm.ErrUnavailable}},
		{"empty summary", &mockLLMClient{response: `{"summary":"  "}`}},
		{"garbage", &mockLLMClient{response: "no idea"}},
		{"nil client", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSummarizer(tt.client).Summarize(context.Background(), details)
			assert.Equal(t, "Walk along the Seine.", got)
		})
	}
}

func TestDeterministicSummary(t *testing.T) {
	assert.Equal(t, "", DeterministicSummary("   "))
	assert.Equal(t, "Dinner at 7.30 with friends", DeterministicSummary("Dinner at 7.30   with friends"))
	assert.Equal(t, "Wow!", DeterministicSummary("Wow! Great view."))

	long := DeterministicSummary(strings.Repeat("word ", 60))
	assert.Equal(t, MaxSummaryRunes, utf8.RuneCountInString(long))
	assert.True(t, strings.HasSuffix(long, "…"))
}
