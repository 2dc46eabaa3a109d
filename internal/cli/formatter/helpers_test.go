package formatter

import (
	"strings"
	"testing"

	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "Louvre", 10, "Louvre"},
		{"exact", "Louvre", 6, "Louvre"},
		{"cut", "Musée d'Orsay", 6, "Musée…"},
		{"one", "Louvre", 1, "…"},
		{"zero keeps", "Louvre", 0, "Louvre"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.n))
		})
	}
}

func TestFormatTimeline(t *testing.T) {
	assert.Contains(t, FormatTimeline(domain.Timeline{}), "no times")
	assert.Equal(t, "9:00 AM", FormatTimeline(domain.Timeline{Start: "9:00 AM", End: "9:00 AM"}))
	assert.Equal(t, "9:00 AM → 3:00 PM · 6h total",
		FormatTimeline(domain.Timeline{Start: "9:00 AM", End: "3:00 PM", Duration: "6h"}))
}

func TestTruncID(t *testing.T) {
	assert.Contains(t, TruncID("0123456789abcdef"), "01234567")
	assert.NotContains(t, TruncID("0123456789abcdef"), "89")
	assert.Contains(t, TruncID("short"), "short")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"A", "B"}, [][]string{{"long cell", "x"}, {"s", "y"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[2], "x"), strings.Index(lines[3], "y"))
	assert.Empty(t, RenderTable(nil, nil))
}
