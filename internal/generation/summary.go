package generation

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/geomingle/internal/llm"
)

// MaxSummaryRunes bounds the deterministic fallback summary.
const MaxSummaryRunes = 140

// Summarizer condenses activity details into a short summary. It never
// fails; when the model cannot answer, a deterministic summary is used.
type Summarizer interface {
	Summarize(ctx context.Context, details string) string
}

type llmSummarizer struct {
	client llm.LLMClient
}

// NewSummarizer returns a Summarizer backed by client. A nil client always
// uses the deterministic summary.
func NewSummarizer(client llm.LLMClient) Summarizer {
	return &llmSummarizer{client: client}
}

type summaryPayload struct {
	Summary string `json:"summary"`
}

func (s *llmSummarizer) Summarize(ctx context.Context, details string) string {
	details = strings.TrimSpace(details)
	if details == "" || s.client == nil {
		return DeterministicSummary(details)
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSummarize,
		SystemPrompt: summarySystemPrompt,
		UserPrompt:   details,
		JSONMode:     true,
	})
	if err != nil {
		return DeterministicSummary(details)
	}

	out, err := llm.ExtractJSON[summaryPayload](resp.Text, func(p summaryPayload) error {
		if strings.TrimSpace(p.Summary) == "" {
			return errEmptySummary
		}
		return nil
	})
	if err != nil {
		return DeterministicSummary(details)
	}
	return strings.TrimSpace(out.Summary)
}

var errEmptySummary = errors.New("summary is empty")

// DeterministicSummary returns the first sentence of details, truncated to
// MaxSummaryRunes with an ellipsis.
func DeterministicSummary(details string) string {
	details = strings.Join(strings.Fields(details), " ")
	details = firstSentence(details)
	if utf8.RuneCountInString(details) <= MaxSummaryRunes {
		return details
	}
	runes := []rune(details)
	return strings.TrimRight(string(runes[:MaxSummaryRunes-1]), " ") + "…"
}

const summarySystemPrompt = `Summarize the activity details you are given in one concise, informative sentence.
Respond with JSON only: {"summary":"..."}`

// firstSentence cuts s after the first '.', '!' or '?' that ends a word.
func firstSentence(s string) string {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', '!', '?':
			if i+1 == len(s) || s[i+1] == ' ' {
				return s[:i+1]
			}
		}
	}
	return s
}
