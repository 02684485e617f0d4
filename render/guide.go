package render

import (
	"fmt"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/doctpl"
	"github.com/lvillar/leadmagnet/form"
)

// GuideDocument builds the ebook template: cover, table of contents,
// introduction, one page per section, next steps and contact details.
// Every page carries "<business> | Page X of N" and the brand line.
func (r *Registry) GuideDocument(g *form.Guide) *doctpl.Document {
	pageH := pageHeight(r.brand.PageSize)
	accent := r.brand.Accent

	doc := r.newDocument(g.Title, g)
	doc.TopY = 20
	doc.BreakY = pageH - 22

	heading := func(id, text string) doctpl.Block {
		return doctpl.Block{ID: id, Kind: doctpl.Heading, Text: text, Font: font("B", 18), Color: color(accent), At: 24}
	}
	body := func(id, text string) doctpl.Block {
		return doctpl.Block{ID: id, Kind: doctpl.Paragraph, Text: text, Font: font("", 10), Color: color(leadmagnet.Body), LineHeight: 5, SpaceBefore: 8}
	}

	// cover
	doc.Blocks = append(doc.Blocks, doctpl.Block{Kind: doctpl.Band, Height: 100, FillColor: color(accent)})
	doc.Blocks = append(doc.Blocks, r.logoBlock(8)...)
	doc.Blocks = append(doc.Blocks,
		doctpl.Block{ID: "cover", Kind: doctpl.Heading, Text: g.Title, Font: font("B", 32), Color: white, Align: "C", LineHeight: 12, At: 32},
		doctpl.Block{Kind: doctpl.Paragraph, Text: g.Subtitle, Font: font("", 16), Color: white, Align: "C", LineHeight: 8, SpaceBefore: 2},
		doctpl.Block{Kind: doctpl.Paragraph, Text: g.Name, Font: font("", 14), Color: color(leadmagnet.Body), Align: "C", At: 114},
	)
	if g.AuthorName != "" {
		doc.Blocks = append(doc.Blocks, doctpl.Block{
			Kind: doctpl.Paragraph, Text: "By " + g.AuthorName,
			Font: font("", 12), Color: color(leadmagnet.Muted), Align: "C", At: 130,
		})
	}

	// contents
	doc.Blocks = append(doc.Blocks,
		doctpl.Block{Kind: doctpl.PageBreak},
		doctpl.Block{ID: "toc", Kind: doctpl.Heading, Text: "Table of Contents", Font: font("B", 20), Color: color(accent), At: 23},
	)
	toc := func(text string) doctpl.Block {
		return doctpl.Block{Kind: doctpl.Paragraph, Text: text, Font: font("", 11), Color: color(leadmagnet.Body), X: 25, LineHeight: 8, MinY: 44}
	}
	if g.Introduction != "" {
		doc.Blocks = append(doc.Blocks, toc("Introduction"))
	}
	for i, s := range g.Sections {
		doc.Blocks = append(doc.Blocks, toc(fmt.Sprintf("%d. %s", i+1, s.Title)))
	}
	if g.CallToAction != "" {
		doc.Blocks = append(doc.Blocks, toc("Next Steps"))
	}

	if g.Introduction != "" {
		doc.Blocks = append(doc.Blocks,
			doctpl.Block{Kind: doctpl.PageBreak},
			heading("introduction", "Introduction"),
			body("introduction-body", g.Introduction),
		)
	}

	for i, s := range g.Sections {
		n := i + 1
		doc.Blocks = append(doc.Blocks,
			doctpl.Block{Kind: doctpl.PageBreak},
			heading(fmt.Sprintf("section-%d", n), fmt.Sprintf("%d. %s", n, s.Title)),
			body(fmt.Sprintf("section-%d-body", n), s.Content),
		)
	}

	if g.CallToAction != "" {
		doc.Blocks = append(doc.Blocks,
			doctpl.Block{Kind: doctpl.PageBreak},
			heading("next-steps", "Next Steps"),
			body("next-steps-body", g.CallToAction),
		)
	}

	if g.ContactInfo != "" {
		contact := doctpl.Block{
			ID: "contact", Kind: doctpl.Heading, Text: "Get in Touch",
			Font: font("B", 12), Color: color(accent), Keep: true,
		}
		if g.CallToAction != "" {
			contact.SpaceBefore = 15
			contact.MinY = 94
		} else {
			doc.Blocks = append(doc.Blocks, doctpl.Block{Kind: doctpl.PageBreak})
			contact.At = 24
		}
		c := body("contact-body", g.ContactInfo)
		c.SpaceBefore = 4
		doc.Blocks = append(doc.Blocks, contact, c)
	}
	if g.CallToAction != "" || g.ContactInfo != "" {
		doc.Blocks = append(doc.Blocks, websiteBlocks(g.Business, accent)...)
	}

	doc.Footer = []doctpl.Stamp{
		{Text: g.Name + " | Page {page} of {pages}", Y: pageH - 12},
		{Text: r.brand.Line, Y: pageH - 7},
	}
	return doc
}

func (r *Registry) guidePDF(s form.State) (*Artifact, error) {
	g, ok := s.(*form.Guide)
	if !ok {
		return nil, unexpected(form.TypeGuide, s)
	}
	a, _, err := renderPDF("guide", filename(g.Title, ".pdf"), r.GuideDocument(g))
	return a, err
}
