package pageops

import (
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

// Letterhead is the first page of an existing PDF imported as a template
// and drawn full-bleed behind the content of each new page.
type Letterhead struct {
	imp   *gofpdi.Importer
	tplID int
}

// ImportLetterhead imports page 1 of the PDF at path into pdf.
func ImportLetterhead(pdf *gofpdf.Fpdf, path string) (lh *Letterhead, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("pageops: letterhead: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("pageops: letterhead: %s is a directory", path)
	}

	// the importer panics on unreadable input
	defer func() {
		if r := recover(); r != nil {
			lh, err = nil, fmt.Errorf("pageops: letterhead %s: %v", path, r)
		}
	}()

	imp := gofpdi.NewImporter()
	tplID := imp.ImportPage(pdf, path, 1, "/MediaBox")
	return &Letterhead{imp: imp, tplID: tplID}, nil
}

// Apply draws the letterhead over the whole current page. Call it right
// after AddPage so that page content is drawn on top.
func (l *Letterhead) Apply(pdf *gofpdf.Fpdf) {
	if l == nil {
		return
	}
	w, h := pdf.GetPageSize()
	l.imp.UseImportedTemplate(pdf, l.tplID, 0, 0, w, h)
}
