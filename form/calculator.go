package form

// Calculator scores perceived value with the Value Equation:
// (Dream Outcome x Likelihood) / (Time Delay + Effort).
type Calculator struct {
	Business            `yaml:",inline"`
	Title               string         `json:"calculatorTitle" yaml:"calculatorTitle" validate:"required,notblank"`
	Description         string         `json:"calculatorDescription,omitempty" yaml:"calculatorDescription,omitempty"`
	DreamOutcome        Variable       `json:"dreamOutcome" yaml:"dreamOutcome"`
	PerceivedLikelihood Variable       `json:"perceivedLikelihood" yaml:"perceivedLikelihood"`
	TimeDelay           Variable       `json:"timeDelay" yaml:"timeDelay"`
	EffortSacrifice     Variable       `json:"effortSacrifice" yaml:"effortSacrifice"`
	Results             ResultMessages `json:"resultMessages" yaml:"resultMessages"`
}

// Variable describes one slider of the calculator.
type Variable struct {
	Label       string `json:"label" yaml:"label" validate:"required,notblank"`
	Description string `json:"description" yaml:"description"`
	Placeholder string `json:"placeholder" yaml:"placeholder"`
}

// NewCalculator returns a calculator preloaded with the generic variable copy.
func NewCalculator() *Calculator {
	return &Calculator{
		DreamOutcome: Variable{
			Label:       "Dream Outcome",
			Description: "What result does your prospect want?",
			Placeholder: "e.g., Lose 20 pounds",
		},
		PerceivedLikelihood: Variable{
			Label:       "Perceived Likelihood of Success",
			Description: "How confident are they in achieving it?",
			Placeholder: "e.g., Success rate %",
		},
		TimeDelay: Variable{
			Label:       "Time Delay",
			Description: "How long until they see results?",
			Placeholder: "e.g., Weeks to goal",
		},
		EffortSacrifice: Variable{
			Label:       "Effort & Sacrifice",
			Description: "How much work is required?",
			Placeholder: "e.g., Hours per week",
		},
	}
}

func (c *Calculator) Type() Type          { return TypeCalculator }
func (c *Calculator) Context() Business   { return c.Business }
func (c *Calculator) MagnetTitle() string { return c.Title }

func (c *Calculator) Clone() State {
	out := *c
	return &out
}
