package form

import "slices"

// MaxChecklistItems caps the number of checklist items.
const MaxChecklistItems = 20

// Checklist is an ordered list of action items rendered as a PDF.
type Checklist struct {
	Business       `yaml:",inline"`
	Title          string          `json:"checklistTitle" yaml:"checklistTitle" validate:"required,notblank"`
	Description    string          `json:"checklistDescription,omitempty" yaml:"checklistDescription,omitempty"`
	TargetAudience string          `json:"targetAudience,omitempty" yaml:"targetAudience,omitempty"`
	Items          []ChecklistItem `json:"items" yaml:"items" validate:"min=1,max=20,dive"`
}

// ChecklistItem is one actionable step.
type ChecklistItem struct {
	Item        string `json:"item" yaml:"item" validate:"required,notblank"`
	Description string `json:"description" yaml:"description"`
}

// NewChecklist returns an empty checklist with one blank item.
func NewChecklist() *Checklist {
	return &Checklist{Items: []ChecklistItem{{}}}
}

func (c *Checklist) Type() Type          { return TypeChecklist }
func (c *Checklist) Context() Business   { return c.Business }
func (c *Checklist) MagnetTitle() string { return c.Title }

func (c *Checklist) Clone() State {
	out := *c
	out.Items = slices.Clone(c.Items)
	return &out
}

// AddItem appends a blank item.
func (c *Checklist) AddItem() error {
	items, err := appendBounded(c.Items, ChecklistItem{}, MaxChecklistItems)
	c.Items = items
	return err
}

// RemoveItem deletes item i. The last remaining item cannot be removed.
func (c *Checklist) RemoveItem(i int) error {
	items, err := removeBounded(c.Items, i)
	c.Items = items
	return err
}
