// Package score holds the scoring rules shared by the interactive pages.
//
// The same rules are embedded as JavaScript in the rendered HTML; these Go
// functions are the reference the pages are checked against and are used by
// the CLI and MCP surfaces to preview results.
package score

import (
	"fmt"
	"math"

	"github.com/lvillar/leadmagnet/form"
)

// Band names a result message slot.
type Band string

const (
	High   Band = "high"
	Medium Band = "medium"
	Low    Band = "low"
)

// Quiz band thresholds in percent.
const (
	QuizHighPercent   = 70
	QuizMediumPercent = 40
)

// Value equation band thresholds.
const (
	ValueHigh   = 5.0
	ValueMedium = 2.5
)

// Slider ranges for the value calculator.
const (
	SliderMin     = 1
	SliderMax     = 10
	SliderDefault = 5
)

// QuizResult is the outcome of a finished quiz.
type QuizResult struct {
	Score      int
	Total      int
	Percentage float64
	Band       Band
}

// Quiz counts answers matching each question's correct answer. answers[i]
// is the option index chosen for question i; missing or negative answers
// count as wrong.
func Quiz(questions []form.Question, answers []int) QuizResult {
	r := QuizResult{Total: len(questions)}
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			r.Score++
		}
	}
	if r.Total > 0 {
		r.Percentage = float64(r.Score) / float64(r.Total) * 100
	}
	r.Band = QuizBand(r.Percentage)
	return r
}

// QuizBand maps a percentage to a band.
func QuizBand(pct float64) Band {
	switch {
	case pct >= QuizHighPercent:
		return High
	case pct >= QuizMediumPercent:
		return Medium
	}
	return Low
}

// Value computes (dream * likelihood) / (time + effort) rounded to one
// decimal. Inputs outside the slider range are clamped.
func Value(dream, likelihood, time, effort int) float64 {
	d, l := clamp(dream), clamp(likelihood)
	t, e := clamp(time), clamp(effort)
	v := float64(d*l) / float64(t+e)
	return math.Round(v*10) / 10
}

// ValueBand maps a value equation score to a band. 2.5 is medium.
func ValueBand(v float64) Band {
	switch {
	case v >= ValueHigh:
		return High
	case v >= ValueMedium:
		return Medium
	}
	return Low
}

func clamp(v int) int {
	return min(max(v, SliderMin), SliderMax)
}

// Tier is one of the four fixed scorecard interpretations.
type Tier struct {
	MinPercent float64 `json:"minPercent"`
	Title      string  `json:"title"`
	Message    string  `json:"message"`
}

// Tiers lists the scorecard interpretations from best to worst.
var Tiers = []Tier{
	{80, "Excellent!", "You're performing at a high level. Focus on optimization and scaling your strengths."},
	{60, "Good Progress", "Solid foundation. Identify your weakest areas for targeted improvement."},
	{40, "Developing", "Room for growth. Focus on foundational improvements in your lowest-scoring categories."},
	{0, "Needs Attention", "Significant opportunity for improvement. Let's work together to elevate your performance."},
}

// TierFor returns the tier a total percentage falls in.
func TierFor(pct float64) Tier {
	for _, t := range Tiers {
		if pct >= t.MinPercent {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}

// CategoryResult is the subtotal of one scorecard category.
type CategoryResult struct {
	Name  string
	Score int
	Max   int
}

// ScorecardResult is the full scorecard evaluation.
type ScorecardResult struct {
	Categories []CategoryResult
	Score      int
	Max        int
	Percentage float64
	Tier       Tier
}

// Scorecard sums metric ratings. ratings[c][m] is the 0-10 rating of metric
// m in category c. Missing ratings count as zero and values are clamped to
// [0, form.MetricMaxScore]. The result depends only on the final ratings.
func Scorecard(sc *form.Scorecard, ratings [][]int) (ScorecardResult, error) {
	if sc == nil {
		return ScorecardResult{}, fmt.Errorf("score: nil scorecard")
	}
	var r ScorecardResult
	for c, cat := range sc.Categories {
		cr := CategoryResult{Name: cat.Name, Max: cat.MaxScore()}
		for m := range cat.Metrics {
			if c < len(ratings) && m < len(ratings[c]) {
				cr.Score += min(max(ratings[c][m], 0), form.MetricMaxScore)
			}
		}
		r.Categories = append(r.Categories, cr)
		r.Score += cr.Score
		r.Max += cr.Max
	}
	if r.Max > 0 {
		r.Percentage = float64(r.Score) / float64(r.Max) * 100
	}
	r.Tier = TierFor(r.Percentage)
	return r, nil
}
