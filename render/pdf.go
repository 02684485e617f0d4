package render

import (
	"bytes"
	"strings"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/doctpl"
	"github.com/lvillar/leadmagnet/form"
)

// Page heights in millimetres. Footer and break lines are placed relative
// to the bottom edge so Letter and Legal pages keep the A4 proportions.
var pageHeights = map[string]float64{
	"A4":     297,
	"LETTER": 279.4,
	"LEGAL":  355.6,
}

func pageHeight(size string) float64 {
	if h, ok := pageHeights[strings.ToUpper(size)]; ok {
		return h
	}
	return pageHeights["A4"]
}

func color(c leadmagnet.Color) *doctpl.Color {
	return &doctpl.Color{R: c.R, G: c.G, B: c.B}
}

var white = &doctpl.Color{R: 255, G: 255, B: 255}

func font(style string, size float64) *doctpl.Font {
	return &doctpl.Font{Family: "Helvetica", Style: style, Size: size}
}

// newDocument returns a document carrying the brand's page settings.
func (r *Registry) newDocument(title string, s form.State) *doctpl.Document {
	return &doctpl.Document{
		Title:      title,
		Author:     s.Context().Name,
		Subject:    s.Type().Name(),
		PageSize:   r.brand.PageSize,
		Margin:     &doctpl.Margin{Top: 20, Right: 20, Bottom: 20, Left: 20},
		Font:       font("", 10),
		Letterhead: r.brand.LetterheadPath,
	}
}

// logoBlock places the brand logo in the top right corner of the current page.
func (r *Registry) logoBlock(y float64) []doctpl.Block {
	if r.logo == nil {
		return nil
	}
	const width = 30.0
	return []doctpl.Block{{
		Kind:      doctpl.Image,
		ImageData: r.logo.Data,
		ImageType: "PNG",
		Width:     width,
		Height:    width * float64(r.logo.Height) / float64(r.logo.Width),
		Align:     "R",
		At:        y,
	}}
}

// websiteBlocks adds a scannable link to the business website.
func websiteBlocks(b form.Business, accent leadmagnet.Color) []doctpl.Block {
	if b.WebsiteURL == "" {
		return nil
	}
	return []doctpl.Block{
		{Kind: doctpl.QR, ID: "website-qr", Text: b.WebsiteURL, Height: 28, SpaceBefore: 8, Align: "C"},
		{Kind: doctpl.Paragraph, Text: b.WebsiteURL, Font: font("", 9), Color: color(accent), Align: "C", SpaceBefore: 2},
	}
}

// renderPDF lays out doc and wraps any failure in a RenderError.
func renderPDF(artifact, filename string, doc *doctpl.Document) (*Artifact, *doctpl.Layout, error) {
	var buf bytes.Buffer
	layout, err := doctpl.Render(&buf, doc)
	if err != nil {
		return nil, nil, &leadmagnet.RenderError{Artifact: artifact, Err: err}
	}
	return &Artifact{Filename: filename, ContentType: PDF.ContentType(), Data: buf.Bytes()}, layout, nil
}
