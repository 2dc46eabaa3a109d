package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/alexanderramin/geomingle/internal/domain"
)

// TextRenderer writes a plain-text itinerary suitable for pasting.
type TextRenderer struct{}

func (TextRenderer) Format() string { return "text" }

func (TextRenderer) Render(w io.Writer, it domain.Itinerary, opts Options) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "Geo Mingle")
	fmt.Fprintln(bw, ShareTitle(it, opts.City))
	if tl := timelineText(it, opts.Clock); tl != "" {
		fmt.Fprintln(bw, tl)
	}
	if it.Prompt != "" {
		fmt.Fprintf(bw, "%q\n", it.Prompt)
	}
	fmt.Fprintln(bw)

	lines := layout(it)
	if len(lines) == 0 {
		fmt.Fprintln(bw, "  (no activities)")
	}
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l.Time)))
	}
	for _, l := range lines {
		desc := l.Description
		if l.Meal != domain.MealNone {
			desc += " [" + string(l.Meal) + "]"
		}
		fmt.Fprintf(bw, "  %*s  %s\n", width, l.Time, desc)
		if l.Location != "" {
			fmt.Fprintf(bw, "  %*s  @ %s\n", width, "", l.Location)
		}
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, ShareText)
	return bw.Flush()
}
