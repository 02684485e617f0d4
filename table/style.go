// Package table draws the score sheets of printable scorecards.
//
// A header row built from the column titles repeats after every page break,
// body rows alternate fills, and a spanning row can carry a subtotal. Rows
// tagged with an id report where they were placed so callers can build a
// page layout record.
package table

import leadmagnet "github.com/lvillar/leadmagnet"

// Font selects one of the core PDF fonts.
type Font struct {
	Family string
	Style  string  // "", "B", "I", "BI"
	Size   float64 // in points
}

// DefaultFont is used when a Style carries no font.
var DefaultFont = Font{Family: "Helvetica", Size: 10}

// Style is the look of a table. Nil colors are not drawn.
type Style struct {
	Font       *Font
	Padding    float64           // inside every cell, in mm
	Rule       *leadmagnet.Color // cell borders
	HeaderFill *leadmagnet.Color
	HeaderText *leadmagnet.Color
	Stripe     *leadmagnet.Color // fill of every second body row
}

var (
	white = leadmagnet.Color{R: 255, G: 255, B: 255}
	black = leadmagnet.Color{}
)

const (
	leading    = 1.5 // line height as a multiple of the font size
	minRowH    = 5.0
	ruleWidth  = 0.2
	defaultPad = 1.0
)

// cellLook is the resolved appearance of one row.
type cellLook struct {
	font Font
	fill *leadmagnet.Color
	text leadmagnet.Color
}

func (t *Table) look(r *Row, bodyIdx int) cellLook {
	l := cellLook{font: DefaultFont, text: black}
	if t.style.Font != nil {
		l.font = *t.style.Font
	}
	switch {
	case r.header:
		l.font.Style = "B"
		l.fill = t.style.HeaderFill
		if t.style.HeaderText != nil {
			l.text = *t.style.HeaderText
		}
		return l
	case r.fill != nil:
		l.fill = r.fill
	case t.style.Stripe != nil && bodyIdx%2 == 1:
		l.fill = t.style.Stripe
	}
	if r.bold {
		l.font.Style = "B"
	}
	return l
}
