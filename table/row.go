package table

import leadmagnet "github.com/lvillar/leadmagnet"

type cell struct {
	text  string
	span  bool
	align string
}

// Row is one line of a table. Its setters return the row for chaining.
type Row struct {
	id     string
	cells  []cell
	header bool
	bold   bool
	fill   *leadmagnet.Color
	minH   float64
}

// AddCell appends a cell to the next free column.
func (r *Row) AddCell(text string) *Row {
	r.cells = append(r.cells, cell{text: text})
	return r
}

// AddAlignedCell appends a cell with its own alignment ("L", "C", "R").
func (r *Row) AddAlignedCell(text, align string) *Row {
	r.cells = append(r.cells, cell{text: text, align: align})
	return r
}

// Span replaces the row's cells with one right-aligned cell covering every
// column, as used for subtotals.
func (r *Row) Span(text string) *Row {
	r.cells = []cell{{text: text, span: true, align: "R"}}
	return r
}

// SetID tags the row so its placement is reported to the OnPlaced hook.
func (r *Row) SetID(id string) *Row {
	r.id = id
	return r
}

// SetBold draws the row in the bold face of the table font.
func (r *Row) SetBold(bold bool) *Row {
	r.bold = bold
	return r
}

// SetFill overrides the stripe fill for this row.
func (r *Row) SetFill(c *leadmagnet.Color) *Row {
	r.fill = c
	return r
}

// SetMinHeight sets the smallest height of the row in mm.
func (r *Row) SetMinHeight(h float64) *Row {
	r.minH = h
	return r
}
