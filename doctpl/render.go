package doctpl

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/barcode"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/pageops"
	"github.com/lvillar/leadmagnet/table"
)

// Render lays out doc and writes the resulting PDF to w.
func Render(w io.Writer, doc *Document) (*Layout, error) {
	pdf, layout, err := Build(doc)
	if err != nil {
		return nil, err
	}
	if err := pdf.Output(w); err != nil {
		return nil, fmt.Errorf("doctpl: writing output: %w", err)
	}
	return layout, nil
}

// Build lays out doc into a new gofpdf document without serializing it.
func Build(doc *Document) (*gofpdf.Fpdf, *Layout, error) {
	if doc == nil {
		return nil, nil, fmt.Errorf("doctpl: nil document")
	}
	f := newFlow(doc)
	if doc.Letterhead != "" {
		lh, err := pageops.ImportLetterhead(f.pdf, doc.Letterhead)
		if err != nil {
			return nil, nil, fmt.Errorf("doctpl: %w", err)
		}
		f.letterhead = lh
	}

	f.newPage()
	for i, b := range doc.Blocks {
		if err := f.place(b); err != nil {
			return nil, nil, fmt.Errorf("doctpl: block %d (%s): %w", i+1, b.Kind, err)
		}
		if f.pdf.Err() {
			return nil, nil, fmt.Errorf("doctpl: block %d (%s): %w", i+1, b.Kind, f.pdf.Error())
		}
	}

	if len(doc.Footer) > 0 {
		stamps := make([]pageops.Stamp, len(doc.Footer))
		for i, s := range doc.Footer {
			c := Color{150, 150, 150}
			if s.Color != nil {
				c = *s.Color
			}
			stamps[i] = pageops.Stamp{
				Text:     s.Text,
				Y:        s.Y,
				FontSize: s.Size,
				Color:    leadmagnet.Color{R: c.R, G: c.G, B: c.B},
			}
		}
		if err := pageops.StampPages(f.pdf, f.tr, stamps...); err != nil {
			return nil, nil, fmt.Errorf("doctpl: footer: %w", err)
		}
	}

	if f.pdf.Err() {
		return nil, nil, fmt.Errorf("doctpl: %w", f.pdf.Error())
	}
	f.layout.Pages = f.pdf.PageCount()
	return f.pdf, f.layout, nil
}

type flow struct {
	pdf        *gofpdf.Fpdf
	tr         func(string) string
	letterhead *pageops.Letterhead
	layout     *Layout

	font     Font
	left     float64
	contentW float64
	pageW    float64
	topY     float64
	breakY   float64

	y      float64
	images int
}

func newFlow(doc *Document) *flow {
	pageSize := doc.PageSize
	if pageSize == "" {
		pageSize = "A4"
	}
	pdf := gofpdf.New("P", "mm", pageSize, "")
	pdf.SetAutoPageBreak(false, 0)

	m := Margin{Top: 20, Right: 20, Bottom: 20, Left: 20}
	if doc.Margin != nil {
		m = *doc.Margin
	}
	pdf.SetMargins(m.Left, m.Top, m.Right)

	if doc.Title != "" {
		pdf.SetTitle(doc.Title, true)
	}
	if doc.Author != "" {
		pdf.SetAuthor(doc.Author, true)
	}
	if doc.Subject != "" {
		pdf.SetSubject(doc.Subject, true)
	}

	font := Font{Family: "Helvetica", Size: 11}
	if doc.Font != nil {
		font = resolveFont(font, doc.Font)
	}

	pageW, pageH := pdf.GetPageSize()
	f := &flow{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		layout:   &Layout{},
		font:     font,
		left:     m.Left,
		contentW: pageW - m.Left - m.Right,
		pageW:    pageW,
		topY:     doc.TopY,
		breakY:   doc.BreakY,
	}
	if f.topY == 0 {
		f.topY = m.Top
	}
	if f.breakY == 0 {
		f.breakY = pageH - 20
	}
	return f
}

// newPage starts a page and returns the cursor position on it.
func (f *flow) newPage() float64 {
	f.pdf.AddPage()
	f.letterhead.Apply(f.pdf)
	f.y = f.topY
	return f.y
}

func (f *flow) atTop() bool { return f.y <= f.topY }

func (f *flow) place(b Block) error {
	switch b.Kind {
	case Heading, Paragraph:
		f.placeText(b)
	case Checkbox:
		f.placeCheckbox(b)
	case Band:
		f.placeBand(b)
	case Table:
		return f.placeTable(b)
	case QR:
		return f.placeQR(b)
	case Image:
		return f.placeImage(b)
	case Spacer:
		if !f.atTop() {
			f.y += b.Height
		}
	case PageBreak:
		f.newPage()
	default:
		return fmt.Errorf("unknown block kind %q", b.Kind)
	}
	return nil
}

// run is a stretch of wrapped lines sharing one style.
type run struct {
	font  Font
	color Color
	x, w  float64
	lh    float64
	align string
	gap   float64 // space above the run
	lines [][]byte
}

func (r run) height() float64 {
	return r.gap + float64(len(r.lines))*r.lh
}

func resolveFont(base Font, over *Font) Font {
	if over == nil {
		return base
	}
	if over.Family != "" {
		base.Family = over.Family
	}
	if over.Style != "" {
		base.Style = over.Style
	}
	if over.Size > 0 {
		base.Size = over.Size
	}
	return base
}

func (f *flow) makeRun(b Block, text string, font Font, color Color, x, w float64) run {
	lh := b.LineHeight
	if lh == 0 {
		lh = font.Size * 0.5
	}
	align := "L"
	if b.Align != "" {
		align = strings.ToUpper(b.Align)
	}
	r := run{font: font, color: color, x: x, w: w, lh: lh, align: align}
	if strings.TrimSpace(text) == "" {
		return r
	}
	f.pdf.SetFont(font.Family, font.Style, font.Size)
	r.lines = f.pdf.SplitLines([]byte(f.tr(text)), w)
	return r
}

func (f *flow) geometry(b Block, indent float64) (x, w float64) {
	x = f.left
	if b.X > 0 {
		x = b.X
	}
	x += indent
	w = b.Width
	if w == 0 {
		w = f.contentW - (x - f.left)
	}
	return x, w
}

// placeRuns draws runs as one unit. onFirst is called with the y of the
// first line once its page is settled.
func (f *flow) placeRuns(b Block, runs []run, onFirst func(y float64)) {
	total := 0.0
	lines := 0
	for _, r := range runs {
		if len(r.lines) > 0 {
			total += r.height()
			lines += len(r.lines)
		}
	}
	if lines == 0 {
		return
	}

	if b.At > 0 {
		f.y = b.At
	} else {
		if !f.atTop() {
			f.y += b.SpaceBefore
		}
		f.y = max(f.y, b.MinY)
		if b.Keep && f.y+total > f.breakY && !f.atTop() {
			f.newPage()
		}
	}

	p := Placement{ID: b.ID, LineCount: lines}
	first := true
	for _, r := range runs {
		if len(r.lines) == 0 {
			continue
		}
		if !first {
			f.y += r.gap
		}
		f.pdf.SetFont(r.font.Family, r.font.Style, r.font.Size)
		f.pdf.SetTextColor(r.color.R, r.color.G, r.color.B)
		for _, line := range r.lines {
			if b.At == 0 && f.y+r.lh > f.breakY && !f.atTop() {
				f.newPage()
				f.pdf.SetFont(r.font.Family, r.font.Style, r.font.Size)
				f.pdf.SetTextColor(r.color.R, r.color.G, r.color.B)
			}
			if first {
				p.Page, p.Y = f.pdf.PageNo(), f.y
				if onFirst != nil {
					onFirst(f.y)
				}
				first = false
			}
			f.pdf.SetXY(r.x, f.y)
			f.pdf.CellFormat(r.w, r.lh, string(line), "", 0, r.align, false, 0, "")
			f.y += r.lh
		}
	}
	f.y += b.SpaceAfter
	f.pdf.SetTextColor(0, 0, 0)

	p.EndPage = f.pdf.PageNo()
	f.record(p)
}

func (f *flow) record(p Placement) {
	if p.ID != "" {
		f.layout.Placements = append(f.layout.Placements, p)
	}
}

func (f *flow) placeText(b Block) {
	font := f.font
	if b.Kind == Heading {
		font.Style, font.Size = "B", 18
	}
	font = resolveFont(font, b.Font)
	var color Color
	if b.Color != nil {
		color = *b.Color
	}
	x, w := f.geometry(b, 0)
	f.placeRuns(b, []run{f.makeRun(b, b.Text, font, color, x, w)}, nil)
}

// placeCheckbox draws a 5mm square at the block's x with the item text in
// bold beside it and the detail below in a muted color. Checkbox items are
// always kept together.
func (f *flow) placeCheckbox(b Block) {
	const box = 5.0
	x, w := f.geometry(b, 2*box)

	itemFont := resolveFont(Font{Family: f.font.Family, Style: "B", Size: 11}, b.Font)
	itemColor := Color{}
	if b.Color != nil {
		itemColor = *b.Color
	}
	item := f.makeRun(Block{LineHeight: 6}, b.Text, itemFont, itemColor, x, w)

	detail := f.makeRun(Block{LineHeight: 5}, b.Detail, Font{Family: f.font.Family, Size: 9}, Color{80, 80, 80}, x, w)
	detail.gap = 2

	after := 10.0
	if len(detail.lines) > 0 {
		after = 8
	}
	b.Keep = true
	if b.SpaceAfter == 0 {
		b.SpaceAfter = after
	}

	boxX := f.left
	if b.X > 0 {
		boxX = b.X
	}
	f.placeRuns(b, []run{item, detail}, func(y float64) {
		f.pdf.SetLineWidth(0.5)
		f.pdf.SetDrawColor(0, 0, 0)
		f.pdf.Rect(boxX, y+0.5, box, box, "D")
		f.pdf.SetLineWidth(0.2)
	})
}

func (f *flow) placeBand(b Block) {
	c := Color{}
	if b.FillColor != nil {
		c = *b.FillColor
	}
	f.pdf.SetFillColor(c.R, c.G, c.B)
	f.pdf.Rect(0, b.At, f.pageW, b.Height, "F")
	f.pdf.SetFillColor(255, 255, 255)
}

func (f *flow) placeTable(b Block) error {
	if len(b.Rows) == 0 {
		return nil
	}
	if !f.atTop() {
		f.y += b.SpaceBefore
	}
	x, w := f.geometry(b, 0)

	header := Color{63, 81, 181}
	if b.FillColor != nil {
		header = *b.FillColor
	}
	bodyFont := resolveFont(Font{Family: f.font.Family, Size: 10}, b.Font)
	f.pdf.SetFont(bodyFont.Family, bodyFont.Style, bodyFont.Size)

	cols := make([]table.Column, len(b.Columns))
	for i, c := range b.Columns {
		cols[i] = table.Column{Header: c.Header, Width: c.Width, Align: c.Align}
	}
	tb := table.New(f.pdf, cols...).
		SetTranslator(f.tr).
		SetBounds(x, w).
		SetPageBreak(f.breakY, f.newPage).
		SetStyle(table.Style{
			Font:       &table.Font{Family: bodyFont.Family, Style: bodyFont.Style, Size: bodyFont.Size},
			Padding:    2,
			Rule:       &leadmagnet.Color{R: 200, G: 200, B: 200},
			HeaderFill: &leadmagnet.Color{R: header.R, G: header.G, B: header.B},
			HeaderText: &leadmagnet.Color{R: 255, G: 255, B: 255},
			Stripe:     &leadmagnet.Color{R: 245, G: 245, B: 245},
		}).
		OnPlaced(func(id string, page int, y float64) {
			f.record(Placement{ID: id, Page: page, EndPage: page, Y: y, LineCount: 1})
		})

	for _, r := range b.Rows {
		row := tb.AddRow().SetID(r.ID).SetMinHeight(r.MinHeight).SetBold(r.Bold)
		if r.Fill != nil {
			row.SetFill(&leadmagnet.Color{R: r.Fill.R, G: r.Fill.G, B: r.Fill.B})
		}
		if r.Span {
			row.Span(strings.Join(r.Cells, " "))
			continue
		}
		for _, c := range r.Cells {
			row.AddCell(c)
		}
	}

	startPage := f.pdf.PageNo()
	f.pdf.SetY(f.y)
	if err := tb.Render(); err != nil {
		return err
	}
	f.y = f.pdf.GetY() + b.SpaceAfter
	f.record(Placement{ID: b.ID, Page: startPage, EndPage: f.pdf.PageNo(), Y: f.y, LineCount: len(b.Rows)})
	return nil
}

func (f *flow) blockX(b Block, w float64) float64 {
	switch strings.ToUpper(b.Align) {
	case "C":
		return (f.pageW - w) / 2
	case "R":
		return f.left + f.contentW - w
	}
	if b.X > 0 {
		return b.X
	}
	return f.left
}

// placeQR draws a QR code for b.Text linked to the same target.
func (f *flow) placeQR(b Block) error {
	if strings.TrimSpace(b.Text) == "" {
		return nil
	}
	size := b.Height
	if size == 0 {
		size = 30
	}
	if !f.atTop() {
		f.y += b.SpaceBefore
	}
	if f.y+size > f.breakY && !f.atTop() {
		f.newPage()
	}
	key := barcode.RegisterQR(f.pdf, b.Text, qr.M, qr.Auto)
	if f.pdf.Err() {
		return f.pdf.Error()
	}
	x := f.blockX(b, size)
	barcode.Barcode(f.pdf, key, x, f.y, size, size, false)
	f.pdf.LinkString(x, f.y, size, size, b.Text)
	f.record(Placement{ID: b.ID, Page: f.pdf.PageNo(), EndPage: f.pdf.PageNo(), Y: f.y, LineCount: 1})
	f.y += size + b.SpaceAfter
	return nil
}

// placeImage registers b.ImageData and draws it b.Width wide.
func (f *flow) placeImage(b Block) error {
	if len(b.ImageData) == 0 {
		return nil
	}
	f.images++
	name := fmt.Sprintf("doctpl-image-%d", f.images)
	opts := gofpdf.ImageOptions{ImageType: b.ImageType}
	info := f.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(b.ImageData))
	if f.pdf.Err() || info == nil {
		return fmt.Errorf("registering image: %w", f.pdf.Error())
	}

	w := b.Width
	if w == 0 {
		w = 40
	}
	h := b.Height
	if h == 0 && info.Width() > 0 {
		h = w * info.Height() / info.Width()
	}
	y := b.At
	if y == 0 {
		if !f.atTop() {
			f.y += b.SpaceBefore
		}
		if f.y+h > f.breakY && !f.atTop() {
			f.newPage()
		}
		y = f.y
		f.y += h + b.SpaceAfter
	}
	f.pdf.ImageOptions(name, f.blockX(b, w), y, w, h, false, opts, 0, "")
	f.record(Placement{ID: b.ID, Page: f.pdf.PageNo(), EndPage: f.pdf.PageNo(), Y: y, LineCount: 1})
	return nil
}
