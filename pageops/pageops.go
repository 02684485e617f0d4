// Package pageops provides page-level passes over a document under
// construction: stamping footers on every emitted page once the final page
// count is known, and drawing an imported letterhead behind page content.
//
// Letterheads are imported with the gofpdi contrib package, so any existing
// single-page PDF can serve as stationery.
package pageops

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	leadmagnet "github.com/lvillar/leadmagnet"
)

// Position specifies where to place a stamp on a page.
type Position int

const (
	BottomCenter Position = iota
	BottomLeft
	BottomRight
	TopLeft
	TopCenter
	TopRight
	Center
)

// Stamp is one line of text drawn on every page in the second pass.
// Text may contain the {page} and {pages} placeholders.
type Stamp struct {
	Text     string
	Position Position
	FontSize float64          // points (default: 8)
	Color    leadmagnet.Color // default: black
	Margin   float64          // distance from the page edge in document units (default: 10)
	Y        float64          // absolute baseline; overrides Position's vertical placement
}

// Expand replaces the page placeholders in text.
func Expand(text string, page, pages int) string {
	r := strings.NewReplacer("{page}", strconv.Itoa(page), "{pages}", strconv.Itoa(pages))
	return r.Replace(text)
}

// StampPages revisits every page already emitted in pdf and draws stamps on
// it. tr translates UTF-8 text for the core fonts; nil leaves text as is.
// The current page is restored afterwards.
func StampPages(pdf *gofpdf.Fpdf, tr func(string) string, stamps ...Stamp) error {
	if pdf.Err() {
		return pdf.Error()
	}
	if tr == nil {
		tr = func(s string) string { return s }
	}
	pages := pdf.PageCount()
	if pages == 0 {
		return fmt.Errorf("pageops: document has no pages")
	}
	current := pdf.PageNo()
	pageW, pageH := pdf.GetPageSize()

	for i := 1; i <= pages; i++ {
		pdf.SetPage(i)
		for _, st := range stamps {
			if st.FontSize == 0 {
				st.FontSize = 8
			}
			if st.Margin == 0 {
				st.Margin = 10
			}
			text := tr(Expand(st.Text, i, pages))
			pdf.SetFont("Helvetica", "", st.FontSize)
			pdf.SetTextColor(st.Color.R, st.Color.G, st.Color.B)

			textW := pdf.GetStringWidth(text)
			x, y := calculatePosition(st.Position, pageW, pageH, textW, st.FontSize*25.4/72, st.Margin)
			if st.Y > 0 {
				y = st.Y
			}
			pdf.Text(x, y, text)
		}
	}
	pdf.SetTextColor(0, 0, 0)
	if current > 0 {
		pdf.SetPage(current)
	}

	if pdf.Err() {
		return fmt.Errorf("pageops: stamping: %w", pdf.Error())
	}
	return nil
}

// calculatePosition returns x, y baseline coordinates for text placement.
func calculatePosition(pos Position, pageW, pageH, textW, textH, margin float64) (x, y float64) {
	switch pos {
	case TopLeft:
		return margin, margin + textH
	case TopCenter:
		return (pageW - textW) / 2, margin + textH
	case TopRight:
		return pageW - textW - margin, margin + textH
	case BottomLeft:
		return margin, pageH - margin
	case BottomRight:
		return pageW - textW - margin, pageH - margin
	case Center:
		return (pageW - textW) / 2, pageH / 2
	default: // BottomCenter
		return (pageW - textW) / 2, pageH - margin
	}
}
