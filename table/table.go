package table

import (
	"github.com/jung-kurt/gofpdf"

	leadmagnet "github.com/lvillar/leadmagnet"
)

// Column describes one column. A zero Width shares the space left over by
// the fixed columns. A non-empty Header on any column adds a header row.
type Column struct {
	Header string
	Width  float64
	Align  string // "L", "C", "R"
}

// Table lays out rows of text cells on a gofpdf document.
type Table struct {
	pdf     *gofpdf.Fpdf
	tr      func(string) string
	columns []Column
	rows    []*Row
	style   Style

	x, width float64 // zero means the page margins

	breakY   float64
	newPage  func() float64
	onPlaced func(id string, page int, y float64)
}

// New creates a table with the given columns on pdf.
func New(pdf *gofpdf.Fpdf, cols ...Column) *Table {
	return &Table{
		pdf:     pdf,
		tr:      func(s string) string { return s },
		columns: cols,
		style:   Style{Padding: defaultPad},
	}
}

// SetTranslator sets the function applied to cell text before it is
// measured and drawn, typically gofpdf's UnicodeTranslatorFromDescriptor.
func (t *Table) SetTranslator(tr func(string) string) *Table {
	if tr != nil {
		t.tr = tr
	}
	return t
}

// SetStyle sets the table look.
func (t *Table) SetStyle(s Style) *Table {
	t.style = s
	return t
}

// SetBounds places the table between x and x+width.
func (t *Table) SetBounds(x, width float64) *Table {
	t.x, t.width = x, width
	return t
}

// SetPageBreak makes the table start a new page whenever a body row would
// end below y. newPage adds the page and returns the y to continue at.
// Without it the bottom margin of the document is used with pdf.AddPage.
func (t *Table) SetPageBreak(y float64, newPage func() float64) *Table {
	t.breakY = y
	t.newPage = newPage
	return t
}

// OnPlaced registers a hook called with the page and y of every row that
// has an id.
func (t *Table) OnPlaced(fn func(id string, page int, y float64)) *Table {
	t.onPlaced = fn
	return t
}

// AddRow appends a body row.
func (t *Table) AddRow() *Row {
	r := &Row{}
	t.rows = append(t.rows, r)
	return r
}

// layout is the geometry shared by every row of one Render call.
type layout struct {
	x      float64
	widths []float64
}

// Render draws the table at the current y and leaves the cursor below it.
func (t *Table) Render() error {
	if t.pdf.Err() {
		return t.pdf.Error()
	}
	lay := t.geometry()
	if len(lay.widths) == 0 {
		return nil
	}

	header := t.headerRow()
	limit := t.breakY
	if limit == 0 {
		_, pageH := t.pdf.GetPageSize()
		_, _, _, bottom := t.pdf.GetMargins()
		limit = pageH - bottom
	}

	headerH := 0.0
	if header != nil {
		headerH = t.height(header, -1, lay)
	}
	// keep the header with at least the first body row
	if len(t.rows) > 0 && t.pdf.GetY()+headerH+t.height(t.rows[0], 0, lay) > limit {
		t.breakPage()
	}
	if header != nil {
		t.draw(header, -1, lay)
	}

	for i, r := range t.rows {
		if t.pdf.GetY()+t.height(r, i, lay) > limit {
			t.breakPage()
			if header != nil {
				t.draw(header, -1, lay)
			}
		}
		if r.id != "" && t.onPlaced != nil {
			t.onPlaced(r.id, t.pdf.PageNo(), t.pdf.GetY())
		}
		t.draw(r, i, lay)
	}
	return t.pdf.Error()
}

func (t *Table) breakPage() {
	if t.newPage != nil {
		t.pdf.SetY(t.newPage())
		return
	}
	t.pdf.AddPage()
}

func (t *Table) headerRow() *Row {
	var r *Row
	for _, c := range t.columns {
		if c.Header != "" {
			r = &Row{header: true}
			break
		}
	}
	if r == nil {
		return nil
	}
	for _, c := range t.columns {
		r.AddAlignedCell(c.Header, c.Align)
	}
	return r
}

// geometry resolves the left edge and the column widths.
func (t *Table) geometry() layout {
	left, _, right, _ := t.pdf.GetMargins()
	lay := layout{x: t.x}
	if lay.x == 0 {
		lay.x = left
	}
	total := t.width
	if total == 0 {
		pageW, _ := t.pdf.GetPageSize()
		total = pageW - left - right
	}

	cols := t.columns
	if len(cols) == 0 && len(t.rows) > 0 {
		cols = make([]Column, len(t.rows[0].cells))
	}
	fixed, auto := 0.0, 0
	for _, c := range cols {
		if c.Width > 0 {
			fixed += c.Width
		} else {
			auto++
		}
	}
	share := 0.0
	if auto > 0 {
		share = max(total-fixed, 0) / float64(auto)
	}
	lay.widths = make([]float64, len(cols))
	for i, c := range cols {
		lay.widths[i] = c.Width
		if c.Width == 0 {
			lay.widths[i] = share
		}
	}
	return lay
}

// placed is one cell resolved to its column span.
type placed struct {
	cell
	x, w float64
	col  int
}

func (lay layout) place(r *Row) []placed {
	out := make([]placed, 0, len(r.cells))
	x := lay.x
	for i, c := range r.cells {
		if i >= len(lay.widths) {
			break
		}
		w := lay.widths[i]
		if c.span {
			w = 0
			for _, cw := range lay.widths {
				w += cw
			}
		}
		out = append(out, placed{cell: c, x: x, w: w, col: i})
		x += w
	}
	return out
}

func (t *Table) setFont(f Font) {
	t.pdf.SetFont(f.Family, f.Style, f.Size)
}

// lineHeight is the leading of the current font in user units.
func (t *Table) lineHeight() float64 {
	_, size := t.pdf.GetFontSize()
	return size * leading
}

func (t *Table) lines(text string, w float64) [][]byte {
	return t.pdf.SplitLines([]byte(t.tr(text)), max(w-2*t.style.Padding, 1))
}

// height measures a row: the tallest wrapped cell plus padding.
func (t *Table) height(r *Row, bodyIdx int, lay layout) float64 {
	t.setFont(t.look(r, bodyIdx).font)
	lineH := t.lineHeight()
	h := max(minRowH, r.minH)
	for _, p := range lay.place(r) {
		n := max(len(t.lines(p.text, p.w)), 1)
		h = max(h, float64(n)*lineH+2*t.style.Padding)
	}
	return h
}

func (t *Table) draw(r *Row, bodyIdx int, lay layout) {
	h := t.height(r, bodyIdx, lay)
	l := t.look(r, bodyIdx)
	y := t.pdf.GetY()
	pad := t.style.Padding

	t.setFont(l.font)
	lineH := t.lineHeight()
	for _, p := range lay.place(r) {
		if l.fill != nil {
			setFill(t.pdf, *l.fill)
			t.pdf.Rect(p.x, y, p.w, h, "F")
		}
		if rule := t.style.Rule; rule != nil {
			t.pdf.SetDrawColor(rule.R, rule.G, rule.B)
			t.pdf.SetLineWidth(ruleWidth)
			t.pdf.Rect(p.x, y, p.w, h, "D")
		}
		align := p.align
		if align == "" && !p.span && p.col < len(t.columns) {
			align = t.columns[p.col].Align
		}
		if align == "" {
			align = "L"
		}
		t.pdf.SetTextColor(l.text.R, l.text.G, l.text.B)
		for i, line := range t.lines(p.text, p.w) {
			t.pdf.SetXY(p.x+pad, y+pad+float64(i)*lineH)
			t.pdf.CellFormat(p.w-2*pad, lineH, string(line), "", 0, align, false, 0, "")
		}
	}

	t.pdf.SetDrawColor(black.R, black.G, black.B)
	setFill(t.pdf, white)
	t.pdf.SetTextColor(black.R, black.G, black.B)
	t.pdf.SetXY(lay.x, y+h)
}

func setFill(pdf *gofpdf.Fpdf, c leadmagnet.Color) {
	pdf.SetFillColor(c.R, c.G, c.B)
}
