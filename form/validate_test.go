package form_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/form"
)

func missingFields(t *testing.T, s form.State) []string {
	t.Helper()
	err := form.Validate(s)
	if err == nil {
		return nil
	}
	var ve *leadmagnet.ValidationError
	require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
	return ve.Missing
}

func TestValidatePassesCompleteForms(t *testing.T) {
	forms := []form.State{
		validChecklist(1),
		validChecklist(form.MaxChecklistItems),
		validQuiz(1),
		validQuiz(form.MaxQuestions),
		validScorecard(),
		validGuide(form.MaxSections),
		validCalculator(),
	}
	for _, s := range forms {
		assert.NoError(t, form.Validate(s), "%s", s.Type())
	}
}

func TestValidateReportsHumanLabels(t *testing.T) {
	tests := []struct {
		name   string
		state  func() form.State
		labels []string
	}{
		{
			name:   "empty checklist",
			state:  func() form.State { return form.NewChecklist() },
			labels: []string{"Business name", "Business niche", "Checklist title", "Item 1"},
		},
		{
			name: "blank quiz option",
			state: func() form.State {
				q := validQuiz(2)
				q.Questions[1].Options[2] = "   "
				return q
			},
			labels: []string{"Question 2 option C"},
		},
		{
			name: "correct answer out of range",
			state: func() form.State {
				q := validQuiz(1)
				q.Questions[0].CorrectAnswer = 4
				return q
			},
			labels: []string{"Question 1 correct answer (out of range)"},
		},
		{
			name: "quiz result band",
			state: func() form.State {
				q := validQuiz(1)
				q.Results.Medium.CTA = ""
				return q
			},
			labels: []string{"Medium result call to action"},
		},
		{
			name: "scorecard metric",
			state: func() form.State {
				s := validScorecard()
				s.Categories[1].Metrics[0].Metric = ""
				s.Categories[0].Name = ""
				return s
			},
			labels: []string{"Category 1 name", "Category 2 metric 1"},
		},
		{
			name: "guide section",
			state: func() form.State {
				g := validGuide(3)
				g.Sections[2].Content = ""
				return g
			},
			labels: []string{"Section 3 content"},
		},
		{
			name: "calculator label",
			state: func() form.State {
				c := validCalculator()
				c.TimeDelay.Label = ""
				return c
			},
			labels: []string{"Time delay label"},
		},
		{
			name: "too many items",
			state: func() form.State {
				return validChecklist(form.MaxChecklistItems + 1)
			},
			labels: []string{"Items (at most 20)"},
		},
		{
			name: "no sections",
			state: func() form.State {
				g := validGuide(0)
				return g
			},
			labels: []string{"Sections (at least 1)"},
		},
		{
			name: "unknown niche",
			state: func() form.State {
				c := validChecklist(1)
				c.Niche = "Crypto"
				return c
			},
			labels: []string{"Business niche (unknown niche)"},
		},
		{
			name: "bad website",
			state: func() form.State {
				c := validChecklist(1)
				c.WebsiteURL = "not a url"
				return c
			},
			labels: []string{"Business website URL (invalid URL)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.labels, missingFields(t, tt.state()))
		})
	}
}

// Blanking any single required field of a valid form must fail validation,
// and restoring it must pass again.
func TestValidateIffRequiredFieldsPresent(t *testing.T) {
	q := validQuiz(3)
	fields := []*string{
		&q.Name, &q.Title,
		&q.Questions[0].Question, &q.Questions[2].Options[3],
		&q.Results.High.Title, &q.Results.Low.Message,
	}
	for i, f := range fields {
		saved := *f
		*f = ""
		assert.Error(t, form.Validate(q), "field %d blanked", i)
		*f = saved
		assert.NoError(t, form.Validate(q), "field %d restored", i)
	}
}

func TestValidateNil(t *testing.T) {
	assert.Error(t, form.Validate(nil))
}

func ExampleValidate() {
	c := form.NewChecklist()
	c.Name = "Acme"
	c.Niche = "Ecommerce"
	fmt.Println(form.Validate(c))
	// Output: please fill in all required fields: Checklist title, Item 1
}
