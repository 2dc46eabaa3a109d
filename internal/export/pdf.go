package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/alexanderramin/geomingle/internal/domain"
)

// maxQRPayload keeps the share code scannable at medium recovery.
const maxQRPayload = 900

// PDFRenderer writes a one-page A4 handout with a QR code carrying the
// plan as text.
type PDFRenderer struct{}

func (PDFRenderer) Format() string { return "pdf" }

func (PDFRenderer) Render(w io.Writer, it domain.Itinerary, opts Options) error {
	qrPNG, err := qrcode.Encode(SharePayload(it, opts), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encoding share code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(ShareTitle(it, opts.City), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(0xfe, 0x80, 0x19)
	pdf.Cell(0, 10, "Geo Mingle")
	pdf.Ln(12)

	pdf.SetTextColor(0x28, 0x28, 0x28)
	pdf.SetFont("Arial", "B", 14)
	pdf.MultiCell(120, 7, tr(ShareTitle(it, opts.City)), "", "L", false)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0x92, 0x83, 0x74)
	if tl := timelineText(it, opts.Clock); tl != "" {
		pdf.Cell(0, 6, tr(asciiOnly(tl)))
		pdf.Ln(6)
	}
	if it.Prompt != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(120, 5, tr("\""+it.Prompt+"\""), "", "L", false)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("share", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("share", 150, 20, 40, 40, false, imageOpts, 0, "")

	pdf.SetY(max(pdf.GetY()+6, 66))
	pdf.SetTextColor(0x28, 0x28, 0x28)
	lines := layout(it)
	if len(lines) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(0, 8, "No activities yet.")
		pdf.Ln(8)
	}
	for _, l := range lines {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(28, 7, tr(l.Time), "", 0, "R", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		desc := l.Description
		if l.Meal != domain.MealNone {
			desc += " (" + string(l.Meal) + ")"
		}
		x := pdf.GetX() + 4
		pdf.SetX(x)
		pdf.MultiCell(0, 7, tr(desc), "", "L", false)
		if l.Location != "" {
			pdf.SetX(x)
			pdf.SetFont("Arial", "I", 10)
			pdf.SetTextColor(0x92, 0x83, 0x74)
			pdf.MultiCell(0, 5, tr("@ "+l.Location), "", "L", false)
			pdf.SetTextColor(0x28, 0x28, 0x28)
		}
		pdf.Ln(2)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0x92, 0x83, 0x74)
	pdf.Cell(0, 5, ShareText)

	return pdf.Output(w)
}

// SharePayload is the plain-text plan embedded in the QR code, cut to
// maxQRPayload bytes on a line boundary.
func SharePayload(it domain.Itinerary, opts Options) string {
	var b strings.Builder
	b.WriteString(ShareTitle(it, opts.City))
	for _, a := range it.Activities {
		entry := "\n" + a.Time + " " + a.Description
		if a.Location != "" {
			entry += " @ " + a.Location
		}
		if b.Len()+len(entry) > maxQRPayload {
			const more = "\n…"
			if b.Len()+len(more) <= maxQRPayload {
				b.WriteString(more)
			}
			break
		}
		b.WriteString(entry)
	}
	return b.String()
}
