package autofill

import (
	"fmt"
	"strings"
	"text/template"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/form"
)

// Request is one generation call.
type Request struct {
	Prompt      string
	MaxTokens   int32
	Temperature float32
}

const temperature = 0.7

var maxTokens = map[form.Type]int32{
	form.TypeChecklist:  2048,
	form.TypeQuiz:       3072,
	form.TypeScorecard:  2048,
	form.TypeGuide:      3072,
	form.TypeCalculator: 2048,
}

// titleNouns names the title field in the missing-context notice.
var titleNouns = map[form.Type]string{
	form.TypeChecklist:  "Checklist",
	form.TypeQuiz:       "Quiz",
	form.TypeScorecard:  "Scorecard",
	form.TypeGuide:      "Guide",
	form.TypeCalculator: "Calculator",
}

type promptData struct {
	Business string
	Niche    string
	Title    string
	Audience string
}

var prompts = template.Must(template.New("prompts").Parse(`
{{define "checklist"}}You are an expert in Alex Hormozi's actionable step-by-step frameworks.

Create a 10-item action checklist for:
Business: {{.Business}}
Niche: {{.Niche}}
Topic: {{.Title}}
Target Audience: {{with .Audience}}{{.}}{{else}}General audience{{end}}

Requirements:
- Use Hormozi's step-by-step action frameworks
- Each item should be specific and actionable
- Include brief descriptions (1-2 sentences) explaining why each step matters
- Order items logically from first to last step
- Make it practical and immediately implementable

Return ONLY a valid JSON array with this EXACT structure:
[
  {
    "item": "Action item text",
    "description": "Brief explanation of why this matters (1-2 sentences)"
  }
]

No additional text or formatting.{{end}}

{{define "quiz"}}You are an expert in Alex Hormozi's lead qualification frameworks.

Create a qualifying quiz for:
Business: {{.Business}}
Niche: {{.Niche}}
Topic: {{.Title}}

Requirements:
- Create 10 qualification questions that identify ideal customers
- Each question has 4 multiple choice options (A, B, C, D)
- Use Hormozi's qualification methodology (budget, urgency, fit)
- Questions should reveal: readiness to buy, budget level, commitment level
- Include result messages for high/medium/low scorers

Return ONLY a valid JSON object with this EXACT structure:
{
  "questions": [
    {
      "question": "Question text here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0
    }
  ],
  "resultMessages": {
    "high": {"title": "You're Ready!", "message": "Based on your answers, you're an ideal fit...", "cta": "Book Your Free Consultation Now"},
    "medium": {"title": "You're Close!", "message": "You're on the right track but...", "cta": "Learn More About Our Program"},
    "low": {"title": "Let's Start Here", "message": "Based on your current situation...", "cta": "Download Our Free Guide"}
  }
}

The "correctAnswer" is the index (0-3) of the best answer that indicates they're a qualified lead.

No additional text or formatting.{{end}}

{{define "scorecard"}}You are an expert in Daniel Priestley's Key Person of Influence scorecard methodology.

Create a business scorecard for:
Business: {{.Business}}
Niche: {{.Niche}}
Focus: {{.Title}}

Requirements:
- Create 5-7 categories based on Priestley's KPI framework
- Each category should have 3-5 specific metrics
- Metrics should be measurable (rated 0-10)
- Use categories like: Pitch, Publish, Product, Profile, Partnership
- Or use: Clarity, Credibility, Scalability, Visibility, Connectivity
- Make it specific to {{.Niche}}

Return ONLY a valid JSON array with this EXACT structure:
[
  {
    "name": "Category Name",
    "description": "What this category measures",
    "metrics": [
      {"metric": "Specific measurable metric"}
    ]
  }
]

No additional text or formatting.{{end}}

{{define "pdf-guide"}}You are an expert in Alex Hormozi and Daniel Priestley's frameworks.

Create a comprehensive PDF guide outline for:
Business: {{.Business}}
Niche: {{.Niche}}
Topic: {{.Title}}

Requirements:
- Create 5-7 main sections
- Use Hormozi's value-first and Priestley's authority-building frameworks
- Each section should have a clear title and 2-3 paragraphs of content
- Include an introduction and call-to-action
- Make it specific to {{.Niche}} and valuable for the target audience

Return ONLY a valid JSON object with this EXACT structure:
{
  "title": "{{.Title}}",
  "subtitle": "Compelling subtitle here",
  "introduction": "2-3 paragraphs introducing the guide",
  "sections": [
    {
      "title": "Section Title",
      "content": "2-3 paragraphs of valuable content for this section"
    }
  ],
  "callToAction": "Strong CTA paragraph encouraging next steps"
}

No additional text or formatting.{{end}}

{{define "value-calculator"}}You are an expert in Alex Hormozi's Value Equation framework from $100M Offers.

Create a Value Calculator for:
Business: {{.Business}}
Niche: {{.Niche}}
Calculator: {{.Title}}

The Value Equation is: Value = (Dream Outcome x Perceived Likelihood) / (Time Delay + Effort & Sacrifice)

Create customized labels and descriptions for each variable specific to {{.Niche}}.

Also create result messages for high/medium/low value scores.

Return ONLY a valid JSON object with this EXACT structure:
{
  "dreamOutcome": {"label": "Custom label for dream outcome", "description": "What this measures in their context", "placeholder": "Example input"},
  "perceivedLikelihood": {"label": "Custom label for likelihood", "description": "What this measures", "placeholder": "Example input"},
  "timeDelay": {"label": "Custom label for time", "description": "What this measures", "placeholder": "Example input"},
  "effortSacrifice": {"label": "Custom label for effort", "description": "What this measures", "placeholder": "Example input"},
  "resultMessages": {
    "high": {"title": "High Value Result", "message": "Message for high value scores...", "cta": "Call to action"},
    "medium": {"title": "Medium Value Result", "message": "Message for medium scores...", "cta": "Call to action"},
    "low": {"title": "Low Value Result", "message": "Message for low scores...", "cta": "Call to action"}
  }
}

No additional text or formatting.{{end}}
`))

// CheckContext reports ErrMissingContext unless the business name, niche
// and magnet title are filled in.
func CheckContext(s form.State) error {
	if s == nil {
		return fmt.Errorf("%w: no form", leadmagnet.ErrMissingContext)
	}
	b := s.Context()
	if blank(b.Name) || blank(b.Niche) || blank(s.MagnetTitle()) {
		return fmt.Errorf("%w: please fill in Business Name, Niche, and %s Title first",
			leadmagnet.ErrMissingContext, titleNouns[s.Type()])
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Prompt builds the generation request for s. The form must carry its
// business context (see CheckContext).
func Prompt(s form.State) (Request, error) {
	if err := CheckContext(s); err != nil {
		return Request{}, err
	}
	data := promptData{
		Business: s.Context().Name,
		Niche:    s.Context().Niche,
		Title:    s.MagnetTitle(),
	}
	if c, ok := s.(*form.Checklist); ok {
		data.Audience = c.TargetAudience
	}

	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, string(s.Type()), data); err != nil {
		return Request{}, fmt.Errorf("autofill: building prompt: %w", err)
	}
	return Request{
		Prompt:      b.String(),
		MaxTokens:   maxTokens[s.Type()],
		Temperature: temperature,
	}, nil
}
