package render

import (
	"fmt"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/doctpl"
	"github.com/lvillar/leadmagnet/form"
	"github.com/lvillar/leadmagnet/score"
)

const scorecardInstructions = "Rate yourself honestly on each metric from 0-10. " +
	"Add up each category, then your total, and compare it with the scoring key at the end."

// ScorecardDocument builds the printable scorecard: one table of metrics per
// category with a blank score column and subtotal row, followed by the
// scoring key.
func (r *Registry) ScorecardDocument(sc *form.Scorecard) *doctpl.Document {
	pageH := pageHeight(r.brand.PageSize)
	accent := r.brand.Accent

	doc := r.newDocument(sc.Title, sc)
	doc.TopY = 20
	doc.BreakY = pageH - 27

	doc.Blocks = append(doc.Blocks, r.logoBlock(10)...)
	doc.Blocks = append(doc.Blocks,
		doctpl.Block{Kind: doctpl.Heading, Text: sc.Title, Font: font("B", 22), Color: color(accent), Align: "C", At: 30},
		doctpl.Block{Kind: doctpl.Paragraph, Text: sc.Name, Font: font("", 13), Color: color(leadmagnet.Muted), Align: "C", SpaceBefore: 2},
		doctpl.Block{Kind: doctpl.Paragraph, Text: sc.Description, Font: font("", 10), Color: color(leadmagnet.Body), Align: "C", SpaceBefore: 4},
		doctpl.Block{Kind: doctpl.Paragraph, Text: scorecardInstructions, Font: font("I", 10), Color: color(leadmagnet.Body), SpaceBefore: 8},
	)

	for i, cat := range sc.Categories {
		n := i + 1
		rows := make([]doctpl.TableRow, 0, len(cat.Metrics)+1)
		for j, m := range cat.Metrics {
			rows = append(rows, doctpl.TableRow{
				ID:        fmt.Sprintf("category-%d-metric-%d", n, j+1),
				Cells:     []string{m.Metric, fmt.Sprintf("____ / %d", form.MetricMaxScore)},
				MinHeight: 9,
			})
		}
		rows = append(rows, doctpl.TableRow{
			Cells: []string{fmt.Sprintf("Category score: ____ / %d", cat.MaxScore())},
			Span:  true,
			Bold:  true,
		})

		doc.Blocks = append(doc.Blocks,
			doctpl.Block{
				ID: fmt.Sprintf("category-%d", n), Kind: doctpl.Heading, Text: fmt.Sprintf("%d. %s", n, cat.Name),
				Font: font("B", 14), Color: color(accent), SpaceBefore: 10, Keep: true,
			},
			doctpl.Block{Kind: doctpl.Paragraph, Text: cat.Description, Font: font("", 9), Color: color(leadmagnet.Muted), SpaceBefore: 1},
			doctpl.Block{
				Kind: doctpl.Table, SpaceBefore: 3, FillColor: color(accent),
				Columns: []doctpl.TableColumn{{Header: "Metric"}, {Header: "Score", Width: 35, Align: "C"}},
				Rows:    rows,
			},
		)
	}

	doc.Blocks = append(doc.Blocks, doctpl.Block{
		ID: "total", Kind: doctpl.Heading, Text: fmt.Sprintf("Total score: ____ / %d", sc.MaxScore()),
		Font: font("B", 13), SpaceBefore: 10, Keep: true,
	})

	key := make([]doctpl.TableRow, len(score.Tiers))
	for i, t := range score.Tiers {
		key[i] = doctpl.TableRow{Cells: []string{tierRange(i), t.Title, t.Message}}
	}
	doc.Blocks = append(doc.Blocks,
		doctpl.Block{ID: "scoring-key", Kind: doctpl.Heading, Text: "Scoring Key", Font: font("B", 14), Color: color(accent), SpaceBefore: 10, Keep: true},
		doctpl.Block{
			Kind: doctpl.Table, SpaceBefore: 3, FillColor: color(accent),
			Columns: []doctpl.TableColumn{{Header: "Score", Width: 30}, {Header: "Result", Width: 40}, {Header: "What it means"}},
			Rows:    key,
		},
	)
	doc.Blocks = append(doc.Blocks, websiteBlocks(sc.Business, accent)...)

	doc.Footer = []doctpl.Stamp{
		{Text: sc.Name + " | Page {page} of {pages}", Y: pageH - 12},
		{Text: r.brand.Line, Y: pageH - 7},
	}
	return doc
}

// tierRange describes the percentage band of score.Tiers[i].
func tierRange(i int) string {
	lo := score.Tiers[i].MinPercent
	if i == 0 {
		return fmt.Sprintf("%.0f%% and above", lo)
	}
	hi := score.Tiers[i-1].MinPercent
	if lo == 0 {
		return fmt.Sprintf("Below %.0f%%", hi)
	}
	return fmt.Sprintf("%.0f-%.0f%%", lo, hi-1)
}

func (r *Registry) scorecardPDF(s form.State) (*Artifact, error) {
	sc, ok := s.(*form.Scorecard)
	if !ok {
		return nil, unexpected(form.TypeScorecard, s)
	}
	a, _, err := renderPDF("scorecard", filename(sc.Name, "-scorecard.pdf"), r.ScorecardDocument(sc))
	return a, err
}
