package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"9:00 AM", 9 * 60, true},
		{"12:15 am", 15, true},
		{"12:30 PM", 12*60 + 30, true},
		{"7:45PM", 19*60 + 45, true},
		{"19:05", 19*60 + 5, true},
		{"00:00", 0, true},
		{"13:00 PM", 0, false},
		{"noon", 0, false},
		{"24:00", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimeOfDay(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMatchesClock(t *testing.T) {
	assert.True(t, MatchesClock("9:00 AM", Clock12h))
	assert.False(t, MatchesClock("21:00", Clock12h))
	assert.True(t, MatchesClock("21:00", Clock24h))
	assert.False(t, MatchesClock("9:00 PM", Clock24h))
}

func TestTimelineSummary(t *testing.T) {
	acts := []Activity{
		{Time: "1:30 PM"},
		{Time: "9:00 AM"},
		{Time: "sometime"},
		{Time: "7:00 PM"},
	}
	got := TimelineSummary(acts, Clock12h)
	assert.Equal(t, Timeline{Start: "9:00 AM", End: "7:00 PM", Duration: "10h"}, got)

	got = TimelineSummary(acts, Clock24h)
	assert.Equal(t, "09:00", got.Start)
	assert.Equal(t, "19:00", got.End)
}

func TestTimelineSummary_Edges(t *testing.T) {
	assert.True(t, TimelineSummary(nil, Clock12h).Empty())
	assert.True(t, TimelineSummary([]Activity{{Time: "later"}}, Clock12h).Empty())

	single := TimelineSummary([]Activity{{Time: "10:00 AM"}}, Clock12h)
	assert.Equal(t, "10:00 AM", single.Start)
	assert.Empty(t, single.Duration)
}

func TestFormatSpan(t *testing.T) {
	assert.Equal(t, "2h 30m", FormatSpan(150))
	assert.Equal(t, "45m", FormatSpan(45))
	assert.Equal(t, "3h", FormatSpan(180))
	assert.Equal(t, "", FormatSpan(0))
}
