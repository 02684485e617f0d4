package form

import (
	"fmt"
	"slices"

	leadmagnet "github.com/lvillar/leadmagnet"
)

// Scorecard limits. Every metric is scored out of MetricMaxScore.
const (
	MaxCategories         = 7
	MaxMetricsPerCategory = 10
	MetricMaxScore        = 10
)

// Scorecard is a self-assessment grouped in categories of 0-10 metrics.
// It renders either as interactive HTML or as a printable PDF.
type Scorecard struct {
	Business    `yaml:",inline"`
	Title       string     `json:"scorecardTitle" yaml:"scorecardTitle" validate:"required,notblank"`
	Description string     `json:"scorecardDescription,omitempty" yaml:"scorecardDescription,omitempty"`
	Categories  []Category `json:"categories" yaml:"categories" validate:"min=1,max=7,dive"`
}

// Category groups related metrics.
type Category struct {
	Name        string   `json:"name" yaml:"name" validate:"required,notblank"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Metrics     []Metric `json:"metrics" yaml:"metrics" validate:"min=1,max=10,dive"`
}

// Metric is one measurable statement rated from 0 to MetricMaxScore.
type Metric struct {
	Metric string `json:"metric" yaml:"metric" validate:"required,notblank"`
}

// MaxScore returns the highest score the category can reach.
func (c Category) MaxScore() int { return len(c.Metrics) * MetricMaxScore }

// NewScorecard returns an empty scorecard with one category holding one metric.
func NewScorecard() *Scorecard {
	return &Scorecard{Categories: []Category{{Metrics: []Metric{{}}}}}
}

func (s *Scorecard) Type() Type          { return TypeScorecard }
func (s *Scorecard) Context() Business   { return s.Business }
func (s *Scorecard) MagnetTitle() string { return s.Title }

func (s *Scorecard) Clone() State {
	out := *s
	out.Categories = cloneCategories(s.Categories)
	return &out
}

// MaxScore returns the highest total score across all categories.
func (s *Scorecard) MaxScore() int {
	total := 0
	for _, c := range s.Categories {
		total += c.MaxScore()
	}
	return total
}

// AddCategory appends a category with one blank metric.
func (s *Scorecard) AddCategory() error {
	cats, err := appendBounded(s.Categories, Category{Metrics: []Metric{{}}}, MaxCategories)
	s.Categories = cats
	return err
}

// RemoveCategory deletes category i. The last remaining category cannot be removed.
func (s *Scorecard) RemoveCategory(i int) error {
	cats, err := removeBounded(s.Categories, i)
	s.Categories = cats
	return err
}

// AddMetric appends a blank metric to category cat.
func (s *Scorecard) AddMetric(cat int) error {
	if cat < 0 || cat >= len(s.Categories) {
		return fmt.Errorf("%w: no category %d", leadmagnet.ErrListBounds, cat+1)
	}
	metrics, err := appendBounded(s.Categories[cat].Metrics, Metric{}, MaxMetricsPerCategory)
	s.Categories[cat].Metrics = metrics
	return err
}

// RemoveMetric deletes metric i of category cat.
func (s *Scorecard) RemoveMetric(cat, i int) error {
	if cat < 0 || cat >= len(s.Categories) {
		return fmt.Errorf("%w: no category %d", leadmagnet.ErrListBounds, cat+1)
	}
	metrics, err := removeBounded(s.Categories[cat].Metrics, i)
	s.Categories[cat].Metrics = metrics
	return err
}

func cloneCategories(in []Category) []Category {
	if in == nil {
		return nil
	}
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Metrics = slices.Clone(c.Metrics)
	}
	return out
}
