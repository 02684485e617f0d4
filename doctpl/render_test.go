package doctpl

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func render(t *testing.T, doc *Document) (*Layout, []byte) {
	t.Helper()
	pdf, layout, err := Build(doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	pdf.SetCompression(false)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	return layout, buf.Bytes()
}

func TestRenderMinimalDocument(t *testing.T) {
	doc := &Document{Blocks: []Block{{Kind: Paragraph, Text: "Hello, World!"}}}

	var buf bytes.Buffer
	layout, err := Render(&buf, doc)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
	if layout.Pages != 1 {
		t.Fatalf("expected 1 page, got %d", layout.Pages)
	}
}

func TestRenderNilDocument(t *testing.T) {
	if _, err := Render(&bytes.Buffer{}, nil); err == nil {
		t.Fatal("expected error for nil document")
	}
}

func TestRenderUnknownKind(t *testing.T) {
	doc := &Document{Blocks: []Block{{Kind: "nonexistent"}}}
	_, err := Render(&bytes.Buffer{}, doc)
	if err == nil {
		t.Fatal("expected error for unknown block kind")
	}
	if !strings.Contains(err.Error(), "unknown block kind") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckboxesPaginateInOrder(t *testing.T) {
	const n = 20
	doc := &Document{TopY: 30, BreakY: 265}
	doc.Blocks = append(doc.Blocks, Block{Kind: Heading, Text: "Launch checklist", At: 40, Align: "C"})
	for i := range n {
		doc.Blocks = append(doc.Blocks, Block{
			ID:     fmt.Sprintf("item-%d", i+1),
			Kind:   Checkbox,
			Text:   fmt.Sprintf("%d. Confirm the landing page headline", i+1),
			Detail: "Make sure the promise is specific, measurable and speaks to one audience.",
			X:      20,
		})
	}

	layout, _ := render(t, doc)
	if layout.Pages < 2 {
		t.Fatalf("expected at least 2 pages for %d items, got %d", n, layout.Pages)
	}
	if len(layout.Placements) != n {
		t.Fatalf("expected %d placements, got %d", n, len(layout.Placements))
	}

	lastPage, lastY := 0, 0.0
	for i, p := range layout.Placements {
		if want := fmt.Sprintf("item-%d", i+1); p.ID != want {
			t.Fatalf("placement %d: got id %q, want %q", i, p.ID, want)
		}
		if p.Page != p.EndPage {
			t.Errorf("%s split across pages %d-%d", p.ID, p.Page, p.EndPage)
		}
		if p.Page < lastPage || (p.Page == lastPage && p.Y <= lastY) {
			t.Errorf("%s out of order: page %d y %.1f after page %d y %.1f", p.ID, p.Page, p.Y, lastPage, lastY)
		}
		if p.Page > lastPage && lastPage > 0 && p.Y != 30 {
			t.Errorf("%s opens page %d at y %.1f, want 30", p.ID, p.Page, p.Y)
		}
		lastPage, lastY = p.Page, p.Y
	}
}

func TestLongParagraphSplitsAcrossPages(t *testing.T) {
	text := strings.Repeat("Every section of the guide keeps flowing onto the next page. ", 200)
	doc := &Document{BreakY: 270, Blocks: []Block{{ID: "body", Kind: Paragraph, Text: text, Font: &Font{Size: 10}}}}

	layout, _ := render(t, doc)
	p, ok := layout.Find("body")
	if !ok {
		t.Fatal("body not placed")
	}
	if p.Page != 1 || p.EndPage < 2 {
		t.Fatalf("expected body to start on page 1 and continue, got pages %d-%d", p.Page, p.EndPage)
	}
	if p.EndPage != layout.Pages {
		t.Fatalf("expected body to end on last page %d, got %d", layout.Pages, p.EndPage)
	}
}

func TestKeepMovesBlockToNextPage(t *testing.T) {
	doc := &Document{BreakY: 100, Blocks: []Block{
		{Kind: Paragraph, Text: "intro"},
		{Kind: Spacer, Height: 70},
		{ID: "kept", Kind: Paragraph, Keep: true, Text: strings.Repeat("kept together ", 40)},
	}}

	layout, _ := render(t, doc)
	p, _ := layout.Find("kept")
	if p.Page != 2 || p.EndPage != 2 {
		t.Fatalf("expected kept block on page 2 only, got %d-%d", p.Page, p.EndPage)
	}
}

func TestBlankTextIsSkipped(t *testing.T) {
	doc := &Document{Blocks: []Block{
		{ID: "blank", Kind: Paragraph, Text: "   "},
		{ID: "empty", Kind: Checkbox},
		{ID: "qr", Kind: QR},
	}}
	layout, _ := render(t, doc)
	if len(layout.Placements) != 0 {
		t.Fatalf("expected no placements, got %+v", layout.Placements)
	}
}

func TestFooterOnEveryPage(t *testing.T) {
	doc := &Document{
		Blocks: []Block{
			{Kind: Paragraph, Text: "one"},
			{Kind: PageBreak},
			{Kind: Paragraph, Text: "two"},
			{Kind: PageBreak},
			{Kind: Paragraph, Text: "three"},
		},
		Footer: []Stamp{
			{Text: "Acme | Page {page} of {pages}", Y: 285},
			{Text: "Generated by BuildLead", Y: 290},
		},
	}

	layout, out := render(t, doc)
	if layout.Pages != 3 {
		t.Fatalf("expected 3 pages, got %d", layout.Pages)
	}
	for i := 1; i <= 3; i++ {
		want := fmt.Sprintf("Acme | Page %d of 3", i)
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("missing footer %q", want)
		}
	}
	if got := bytes.Count(out, []byte("Generated by BuildLead")); got != 3 {
		t.Errorf("expected brand line on 3 pages, got %d", got)
	}
}

func TestTableRowsReportPlacement(t *testing.T) {
	rows := make([]TableRow, 60)
	for i := range rows {
		rows[i] = TableRow{ID: fmt.Sprintf("row-%d", i), Cells: []string{"Lead response time", "7 / 10"}}
	}
	rows = append(rows, TableRow{ID: "total", Cells: []string{"Total: 420 / 600"}, Span: true, Bold: true})
	doc := &Document{BreakY: 270, Blocks: []Block{{
		ID:   "metrics",
		Kind: Table,
		Columns: []TableColumn{
			{Header: "Metric"},
			{Header: "Score", Width: 30, Align: "R"},
		},
		Rows: rows,
	}}}

	layout, _ := render(t, doc)
	tbl, ok := layout.Find("metrics")
	if !ok {
		t.Fatal("table not placed")
	}
	if tbl.EndPage < 2 {
		t.Fatalf("expected table to span pages, ended on %d", tbl.EndPage)
	}
	if got := layout.PageOf("total"); got != tbl.EndPage {
		t.Fatalf("total row on page %d, want %d", got, tbl.EndPage)
	}
	if layout.PageOf("row-0") != 1 {
		t.Fatalf("first row on page %d", layout.PageOf("row-0"))
	}
}

func TestQRAndBand(t *testing.T) {
	doc := &Document{Blocks: []Block{
		{Kind: Band, Height: 100, FillColor: &Color{20, 184, 166}},
		{ID: "code", Kind: QR, Text: "https://example.com/book", Height: 25, Align: "C"},
	}}
	layout, out := render(t, doc)
	p, ok := layout.Find("code")
	if !ok {
		t.Fatal("QR not placed")
	}
	if p.Page != 1 {
		t.Fatalf("QR on page %d", p.Page)
	}
	if !bytes.Contains(out, []byte("https://example.com/book")) {
		t.Error("QR link annotation missing")
	}
}

func TestTranslatesLatin1(t *testing.T) {
	_, out := render(t, &Document{Blocks: []Block{{Kind: Paragraph, Text: "Café"}}})
	if !bytes.Contains(out, []byte("Caf\xe9")) {
		t.Fatal("expected cp1252 encoded text")
	}
}

func TestLayoutFindMissing(t *testing.T) {
	var l Layout
	if _, ok := l.Find("nope"); ok {
		t.Fatal("expected no placement")
	}
	if l.PageOf("nope") != 0 {
		t.Fatal("expected page 0")
	}
}
