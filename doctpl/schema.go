// Package doctpl lays out declarative documents as paginated PDFs.
//
// A Document is an ordered list of blocks (headings, paragraphs, checkbox
// items, tables, QR codes, images...). Blocks flow top to bottom from a
// cursor; text is wrapped to the content width and a page break is emitted
// whenever the next line or kept block would cross the document's break
// line. Once all blocks are placed, footer stamps are drawn on every page
// in a second pass so that "Page X of N" knows N.
//
// Rendering returns a Layout recording the page every identified block
// started and ended on, so pagination can be checked without parsing the
// PDF.
//
//	doc := &doctpl.Document{
//		BreakY: 270,
//		Blocks: []doctpl.Block{
//			{Kind: doctpl.Heading, Text: "Introduction"},
//			{Kind: doctpl.Paragraph, ID: "intro", Text: intro},
//		},
//		Footer: []doctpl.Stamp{{Text: "Page {page} of {pages}", Y: 285}},
//	}
//	layout, err := doctpl.Render(w, doc)
package doctpl

// Kind selects how a block is drawn.
type Kind string

const (
	Heading   Kind = "heading"
	Paragraph Kind = "paragraph"
	Checkbox  Kind = "checkbox"  // square followed by bold Text and an optional muted Detail
	Band      Kind = "band"      // filled full-width rectangle at At, cursor unchanged
	Table     Kind = "table"     // rows of text cells
	QR        Kind = "qr"        // QR code encoding Text
	Image     Kind = "image"     // registered image bytes
	Spacer    Kind = "spacer"    // vertical gap of Height
	PageBreak Kind = "pagebreak" // forces a new page
)

// Document is the template for a whole PDF.
type Document struct {
	Title    string
	Author   string
	Subject  string
	PageSize string  // A4, Letter, Legal (default: A4)
	Margin   *Margin // left/top/right; Bottom is unused, see BreakY
	Font     *Font   // default body font

	// BreakY is the lowest y content may reach. A line or kept block that
	// would end below it moves to a new page. Default: page height - 20.
	BreakY float64
	// TopY is where the cursor restarts after a break. Default: Margin.Top.
	TopY float64

	// Letterhead is an optional PDF whose first page is drawn behind every page.
	Letterhead string

	Blocks []Block
	Footer []Stamp
}

// Margin defines page margins in millimetres.
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Font specifies a font face.
type Font struct {
	Family string  // Helvetica, Courier, Times
	Style  string  // "" (regular), "B" (bold), "I" (italic), "BI"
	Size   float64 // points
}

// Color is an RGB color.
type Color struct {
	R, G, B int
}

// Block is one unit of flowed content. Kind determines which fields apply.
type Block struct {
	ID   string // reported in the Layout when set
	Kind Kind

	Text   string
	Detail string // checkbox description
	Font   *Font
	Color  *Color
	Align  string // L, C, R (default: L)

	X          float64 // left edge (default: left margin)
	Width      float64 // text width (default: content width)
	LineHeight float64 // default: 0.5 * font size in points
	At         float64 // absolute y; the block is placed there without a break check
	MinY       float64 // the cursor moves down to MinY first when it is above it

	SpaceBefore float64 // dropped at the top of a page
	SpaceAfter  float64

	// Keep moves the whole block to the next page when it does not fit on
	// the current one. Blocks taller than a page still split line by line.
	Keep bool

	FillColor *Color  // band fill, table header fill
	Height    float64 // band height, spacer height, QR/image size

	Columns []TableColumn
	Rows    []TableRow

	ImageData []byte
	ImageType string // "PNG", "JPG"
}

// TableColumn defines a column in a table block.
type TableColumn struct {
	Header string
	Width  float64 // 0 = auto
	Align  string  // L, C, R
}

// TableRow is one body row of a table block. Rows with an ID are reported
// in the Layout.
type TableRow struct {
	ID    string
	Cells []string
	Span  bool // single cell spanning every column
	Bold  bool
	Fill  *Color
	// MinHeight is the smallest row height in mm.
	MinHeight float64
}

// Stamp is a footer line drawn on every page after layout. Text may use
// the {page} and {pages} placeholders.
type Stamp struct {
	Text  string
	Y     float64 // baseline
	Size  float64 // points (default: 8)
	Color *Color  // default: 150, 150, 150
}

// Placement records where a block was drawn.
type Placement struct {
	ID        string
	Page      int // page of the first line
	EndPage   int // page of the last line
	Y         float64
	LineCount int
}

// Layout is the page map of a rendered document.
type Layout struct {
	Pages      int
	Placements []Placement
}

// Find returns the placement recorded for id.
func (l *Layout) Find(id string) (Placement, bool) {
	for _, p := range l.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// PageOf returns the page id started on, or 0 when it was not placed.
func (l *Layout) PageOf(id string) int {
	p, _ := l.Find(id)
	return p.Page
}
