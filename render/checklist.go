package render

import (
	"fmt"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/doctpl"
	"github.com/lvillar/leadmagnet/form"
)

// ChecklistDocument builds the page template of a checklist: a centred
// title block, one checkbox per item starting at 110mm, a closing call to
// action and the brand line on every page.
func (r *Registry) ChecklistDocument(c *form.Checklist) *doctpl.Document {
	pageH := pageHeight(r.brand.PageSize)
	accent := r.brand.Accent

	doc := r.newDocument(c.Title, c)
	doc.TopY = 30
	doc.BreakY = pageH - 32

	doc.Blocks = append(doc.Blocks, r.logoBlock(10)...)
	doc.Blocks = append(doc.Blocks,
		doctpl.Block{ID: "title", Kind: doctpl.Heading, Text: c.Title, Font: font("B", 24), Color: color(accent), Align: "C", At: 34},
		doctpl.Block{
			ID: "business", Kind: doctpl.Paragraph, Text: c.Name,
			Font: font("", 14), Color: color(leadmagnet.Muted), Align: "C", SpaceBefore: 4, MinY: 50,
		},
	)
	if c.TargetAudience != "" {
		doc.Blocks = append(doc.Blocks, doctpl.Block{
			ID: "audience", Kind: doctpl.Paragraph, Text: "For: " + c.TargetAudience,
			Font: font("", 11), Color: color(leadmagnet.Muted), Align: "C", SpaceBefore: 4, MinY: 61,
		})
	}
	if c.Description != "" {
		doc.Blocks = append(doc.Blocks, doctpl.Block{
			Kind: doctpl.Paragraph, Text: c.Description,
			Font: font("", 10), Color: color(leadmagnet.Body), Align: "C", MinY: 76,
		})
	}

	for i, it := range c.Items {
		b := doctpl.Block{
			ID:     fmt.Sprintf("item-%d", i+1),
			Kind:   doctpl.Checkbox,
			Text:   fmt.Sprintf("%d. %s", i+1, it.Item),
			Detail: it.Description,
			X:      20,
		}
		if i == 0 {
			b.MinY = 106
		}
		doc.Blocks = append(doc.Blocks, b)
	}

	doc.Blocks = append(doc.Blocks,
		doctpl.Block{
			ID: "cta", Kind: doctpl.Heading, Text: "Need Help Implementing This Checklist?",
			Font: font("B", 12), Color: color(accent), SpaceBefore: 10, Keep: true,
		},
		doctpl.Block{
			Kind: doctpl.Paragraph, Text: "Contact us to learn how we can help you achieve these results faster.",
			Font: font("", 10), Color: color(leadmagnet.Body), SpaceBefore: 3,
		},
	)
	doc.Blocks = append(doc.Blocks, websiteBlocks(c.Business, accent)...)

	doc.Footer = []doctpl.Stamp{{Text: r.brand.Line, Y: pageH - 17}}
	return doc
}

func (r *Registry) checklistPDF(s form.State) (*Artifact, error) {
	c, ok := s.(*form.Checklist)
	if !ok {
		return nil, unexpected(form.TypeChecklist, s)
	}
	a, _, err := renderPDF("checklist", filename(c.Name, "-checklist.pdf"), r.ChecklistDocument(c))
	return a, err
}
