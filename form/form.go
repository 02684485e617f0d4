// Package form holds the editable state behind every lead magnet type.
//
// Each magnet type has its own struct (Checklist, Quiz, Scorecard, Guide,
// Calculator) sharing the Business context. A State is created empty with
// New, mutated by edits and by Fill (AI autofill merge), checked once with
// Validate and then handed to a renderer.
package form

import (
	"fmt"
	"strings"
	"unicode"

	leadmagnet "github.com/lvillar/leadmagnet"
)

// Type identifies one of the supported magnet templates.
type Type string

const (
	TypeCalculator Type = "value-calculator"
	TypeQuiz       Type = "quiz"
	TypeChecklist  Type = "checklist"
	TypeScorecard  Type = "scorecard"
	TypeGuide      Type = "pdf-guide"
)

// Types lists every magnet type in presentation order.
var Types = []Type{TypeCalculator, TypeQuiz, TypeChecklist, TypeScorecard, TypeGuide}

var typeNames = map[Type]string{
	TypeCalculator: "Value Calculator",
	TypeQuiz:       "Interactive Quiz",
	TypeChecklist:  "Action Checklist",
	TypeScorecard:  "Business Scorecard",
	TypeGuide:      "PDF Guide/Ebook",
}

var typeDescriptions = map[Type]string{
	TypeCalculator: "Hormozi's Value Equation - Calculate ROI for prospects",
	TypeQuiz:       "Engage and qualify leads with personalized assessments",
	TypeChecklist:  "Simple, actionable steps that provide immediate value",
	TypeScorecard:  "Priestley's scorecard methodology for benchmarking",
	TypeGuide:      "Professional downloadable guides with proven frameworks",
}

// ParseType converts an identifier such as "quiz" or "pdf-guide" into a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := typeNames[t]; !ok {
		return "", fmt.Errorf("%w: %q", leadmagnet.ErrUnknownType, s)
	}
	return t, nil
}

// Name returns the human readable name of the type.
func (t Type) Name() string { return typeNames[t] }

// Description returns the one-line pitch shown when choosing a type.
func (t Type) Description() string { return typeDescriptions[t] }

// Niches is the fixed list of industries a business can belong to.
var Niches = []string{
	"SaaS/Software", "Coaching/Consulting", "Ecommerce", "Real Estate",
	"Fitness/Health", "Finance/Investing", "Marketing Agency", "Legal Services",
	"Education/Training", "Healthcare", "B2B Services", "Restaurant/Food",
	"Beauty/Wellness", "Construction", "Automotive", "Other",
}

// IsNiche reports whether s is one of Niches.
func IsNiche(s string) bool {
	for _, n := range Niches {
		if n == s {
			return true
		}
	}
	return false
}

// Business is the context shared by every magnet type.
type Business struct {
	Name       string `json:"businessName" yaml:"businessName" validate:"required,notblank"`
	Niche      string `json:"niche" yaml:"niche" validate:"required,niche"`
	WebsiteURL string `json:"websiteUrl,omitempty" yaml:"websiteUrl,omitempty" validate:"omitempty,url"`
}

// ResultMessage is the copy shown for one scoring band.
type ResultMessage struct {
	Title   string `json:"title" yaml:"title" validate:"required,notblank"`
	Message string `json:"message" yaml:"message" validate:"required,notblank"`
	CTA     string `json:"cta" yaml:"cta" validate:"required,notblank"`
}

// ResultMessages holds exactly three bands.
type ResultMessages struct {
	High   ResultMessage `json:"high" yaml:"high"`
	Medium ResultMessage `json:"medium" yaml:"medium"`
	Low    ResultMessage `json:"low" yaml:"low"`
}

// Band returns the message for a band name ("high", "medium" or "low").
func (r ResultMessages) Band(name string) ResultMessage {
	switch name {
	case "high":
		return r.High
	case "medium":
		return r.Medium
	default:
		return r.Low
	}
}

// State is implemented by every magnet form.
type State interface {
	Type() Type
	Context() Business
	MagnetTitle() string
	Clone() State
}

// New creates the empty form for t, with one blank content unit.
func New(t Type) (State, error) {
	switch t {
	case TypeChecklist:
		return NewChecklist(), nil
	case TypeQuiz:
		return NewQuiz(), nil
	case TypeScorecard:
		return NewScorecard(), nil
	case TypeGuide:
		return NewGuide(), nil
	case TypeCalculator:
		return NewCalculator(), nil
	}
	return nil, fmt.Errorf("%w: %q", leadmagnet.ErrUnknownType, t)
}

// Slugify lower-cases s and joins its runs of letters and digits with
// single hyphens. Everything else, path separators and dots included, only
// separates words, so the result is always a plain file name.
func Slugify(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, "-")
}

func appendBounded[T any](list []T, v T, max int) ([]T, error) {
	if len(list) >= max {
		return list, fmt.Errorf("%w: at most %d entries", leadmagnet.ErrListBounds, max)
	}
	return append(list, v), nil
}

func removeBounded[T any](list []T, i int) ([]T, error) {
	if i < 0 || i >= len(list) {
		return list, fmt.Errorf("%w: no entry %d", leadmagnet.ErrListBounds, i+1)
	}
	if len(list) <= 1 {
		return list, fmt.Errorf("%w: at least 1 entry is required", leadmagnet.ErrListBounds)
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}
