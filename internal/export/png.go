package export

import (
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/alexanderramin/geomingle/internal/domain"
)

// Card geometry at 1x; the image is upscaled by pngScale.
const (
	cardWidth  = 375
	cardPad    = 16
	lineHeight = 16
	iconSize   = 24
	timeCol    = 64
	pngScale   = 2
)

var (
	colorBackground = color.NRGBA{R: 0xfb, G: 0xf7, B: 0xf0, A: 0xff}
	colorForeground = color.NRGBA{R: 0x28, G: 0x28, B: 0x28, A: 0xff}
	colorMuted      = color.NRGBA{R: 0x92, G: 0x83, B: 0x74, A: 0xff}
	colorAccent     = color.NRGBA{R: 0xfe, G: 0x80, B: 0x19, A: 0xff}
	mealColors      = map[domain.Meal]color.NRGBA{
		domain.MealBreakfast: {R: 0x83, G: 0xa5, B: 0x98, A: 0xff},
		domain.MealLunch:     {R: 0xfa, G: 0xbd, B: 0x2f, A: 0xff},
		domain.MealDinner:    {R: 0xd3, G: 0x86, B: 0x9b, A: 0xff},
	}
	colorPlace = color.NRGBA{R: 0xd5, G: 0xc4, B: 0xa1, A: 0xff}
)

// PNGRenderer draws the itinerary as a share card.
type PNGRenderer struct{}

func (PNGRenderer) Format() string { return "png" }

func (PNGRenderer) Render(w io.Writer, it domain.Itinerary, opts Options) error {
	return imaging.Encode(w, drawCard(it, opts), imaging.PNG)
}

// drawCard lays the card out at 1x and scales it up for crisp sharing.
func drawCard(it domain.Itinerary, opts Options) image.Image {
	face := basicfont.Face7x13
	textCols := (cardWidth - 2*cardPad - timeCol - iconSize - 8) / face.Advance

	type row struct {
		act   line
		lines []string
	}
	rows := make([]row, 0, len(it.Activities))
	height := cardPad + 3*lineHeight + cardPad
	if it.Prompt != "" {
		height += lineHeight
	}
	for _, l := range layout(it) {
		text := wrap(l.Description, textCols)
		if l.Location != "" {
			text = append(text, wrap("@ "+l.Location, textCols)...)
		}
		rows = append(rows, row{act: l, lines: text})
		height += max(len(text)*lineHeight, iconSize) + 8
	}
	height += lineHeight + cardPad

	img := imaging.New(cardWidth, height, colorBackground)
	pen := &textPen{dst: img, face: face}

	y := cardPad + lineHeight
	pen.draw(cardPad, y, "Geo Mingle", colorAccent)
	y += lineHeight + 4
	pen.draw(cardPad, y, ShareTitle(it, opts.City), colorForeground)
	y += lineHeight
	if tl := timelineText(it, opts.Clock); tl != "" {
		pen.draw(cardPad, y, asciiOnly(tl), colorMuted)
	}
	y += lineHeight
	if it.Prompt != "" {
		pen.draw(cardPad, y, "\""+it.Prompt+"\"", colorMuted)
		y += lineHeight
	}
	y += 8

	for _, r := range rows {
		top := y - lineHeight + 4
		pen.draw(cardPad, y, r.act.Time, colorMuted)

		fill := colorPlace
		if c, ok := mealColors[r.act.Meal]; ok {
			fill = c
		}
		icon := imaging.New(iconSize, iconSize, fill)
		img = imaging.Paste(img, icon, image.Pt(cardPad+timeCol, top))
		pen.dst = img

		tx := cardPad + timeCol + iconSize + 8
		for i, text := range r.lines {
			pen.draw(tx, y+i*lineHeight, text, colorForeground)
		}
		y += max(len(r.lines)*lineHeight, iconSize) + 8
	}
	pen.draw(cardPad, y+lineHeight/2, ShareText, colorMuted)

	return imaging.Resize(img, cardWidth*pngScale, 0, imaging.NearestNeighbor)
}

type textPen struct {
	dst  *image.NRGBA
	face font.Face
}

func (p *textPen) draw(x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  p.dst,
		Src:  image.NewUniform(c),
		Face: p.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// wrap splits s into lines of at most cols runes, breaking on spaces.
func wrap(s string, cols int) []string {
	if cols <= 0 {
		return []string{s}
	}
	var out []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		wr := []rune(word)
		for len(wr) > cols {
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = nil
			}
			out = append(out, string(wr[:cols]))
			wr = wr[cols:]
		}
		switch {
		case len(cur) == 0:
			cur = wr
		case len(cur)+1+len(wr) <= cols:
			cur = append(append(cur, ' '), wr...)
		default:
			out = append(out, string(cur))
			cur = wr
		}
	}
	if len(cur) > 0 || len(out) == 0 {
		out = append(out, string(cur))
	}
	return out
}

// asciiOnly swaps the arrow and separator the bitmap font cannot draw.
func asciiOnly(s string) string {
	return strings.NewReplacer("→", "->", "·", "-").Replace(s)
}
