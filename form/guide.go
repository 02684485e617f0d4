package form

import "slices"

// MaxSections caps the number of guide sections.
const MaxSections = 10

// Guide is a multi-page PDF ebook.
type Guide struct {
	Business     `yaml:",inline"`
	Title        string    `json:"guideTitle" yaml:"guideTitle" validate:"required,notblank"`
	Subtitle     string    `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	AuthorName   string    `json:"authorName,omitempty" yaml:"authorName,omitempty"`
	Introduction string    `json:"introduction,omitempty" yaml:"introduction,omitempty"`
	Sections     []Section `json:"sections" yaml:"sections" validate:"min=1,max=10,dive"`
	CallToAction string    `json:"callToAction,omitempty" yaml:"callToAction,omitempty"`
	ContactInfo  string    `json:"contactInfo,omitempty" yaml:"contactInfo,omitempty"`
}

// Section is one chapter of the guide.
type Section struct {
	Title   string `json:"title" yaml:"title" validate:"required,notblank"`
	Content string `json:"content" yaml:"content" validate:"required,notblank"`
}

// NewGuide returns an empty guide with one blank section.
func NewGuide() *Guide {
	return &Guide{Sections: []Section{{}}}
}

func (g *Guide) Type() Type          { return TypeGuide }
func (g *Guide) Context() Business   { return g.Business }
func (g *Guide) MagnetTitle() string { return g.Title }

func (g *Guide) Clone() State {
	out := *g
	out.Sections = slices.Clone(g.Sections)
	return &out
}

// AddSection appends a blank section.
func (g *Guide) AddSection() error {
	sections, err := appendBounded(g.Sections, Section{}, MaxSections)
	g.Sections = sections
	return err
}

// RemoveSection deletes section i. The last remaining section cannot be removed.
func (g *Guide) RemoveSection(i int) error {
	sections, err := removeBounded(g.Sections, i)
	g.Sections = sections
	return err
}
