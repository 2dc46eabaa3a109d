// Package export renders one itinerary into a shareable artifact.
package export

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/alexanderramin/geomingle/internal/domain"
)

// ShareText accompanies a shared itinerary.
const ShareText = "Check out my travel plans from Geo Mingle!"

// ErrUnknownFormat is returned by NewRenderer for unsupported formats.
var ErrUnknownFormat = errors.New("unknown export format")

// Options control rendering. City, when set, replaces the title with a
// share headline.
type Options struct {
	Clock domain.Clock
	City  string
}

// Renderer writes an itinerary to w. Renderers never modify the itinerary.
type Renderer interface {
	Format() string
	Render(w io.Writer, it domain.Itinerary, opts Options) error
}

// Formats lists the supported format names.
var Formats = []string{"text", "png", "pdf"}

// NewRenderer returns the renderer for format.
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "text", "txt":
		return TextRenderer{}, nil
	case "png":
		return PNGRenderer{}, nil
	case "pdf":
		return PDFRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

// ShareTitle is the headline shown on exported artifacts.
func ShareTitle(it domain.Itinerary, city string) string {
	if city = strings.TrimSpace(city); city != "" {
		return "Your one day Trip in " + city
	}
	return it.Title
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName suggests a file name such as
// "geomingle-itinerary-my-custom-plan.png".
func FileName(it domain.Itinerary, ext string) string {
	slug := whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(it.Title)), "-")
	return "geomingle-itinerary-" + slug + "." + strings.TrimPrefix(ext, ".")
}

// line is one activity prepared for layout.
type line struct {
	Time        string
	Description string
	Location    string
	Meal        domain.Meal
}

func layout(it domain.Itinerary) []line {
	out := make([]line, len(it.Activities))
	for i, a := range it.Activities {
		out[i] = line{Time: a.Time, Description: a.Description, Location: a.Location, Meal: domain.MealOf(a.Description)}
	}
	return out
}

// timelineText renders "9:00 AM → 3:00 PM · 6h total", or "" when no time
// is parseable.
func timelineText(it domain.Itinerary, clock domain.Clock) string {
	tl := domain.TimelineSummary(it.Activities, clock)
	if tl.Empty() {
		return ""
	}
	s := tl.Start + " → " + tl.End
	if tl.Duration != "" {
		s += " · " + tl.Duration + " total"
	}
	return s
}
