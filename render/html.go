package render

import (
	"bytes"
	"embed"
	"html/template"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/form"
	"github.com/lvillar/leadmagnet/score"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"inc":    func(i int) int { return i + 1 },
	"letter": func(i int) string { return string(rune('A' + i)) },
}).ParseFS(templateFS, "templates/*.html.tmpl"))

type thresholds struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
}

// ctaURL is where result call-to-action buttons point.
func ctaURL(b form.Business) string {
	if b.WebsiteURL != "" {
		return b.WebsiteURL
	}
	return "#"
}

func execute(name, artifact, filename string, data any) (*Artifact, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, &leadmagnet.RenderError{Artifact: artifact, Err: err}
	}
	return &Artifact{Filename: filename, ContentType: HTML.ContentType(), Data: buf.Bytes()}, nil
}

type quizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type quizData struct {
	Questions      []quizQuestion      `json:"questions"`
	ResultMessages form.ResultMessages `json:"resultMessages"`
	Thresholds     thresholds          `json:"thresholds"`
}

type quizPage struct {
	*form.Quiz
	CTAURL string
	Data   quizData
}

func quizHTML(s form.State) (*Artifact, error) {
	q, ok := s.(*form.Quiz)
	if !ok {
		return nil, unexpected(form.TypeQuiz, s)
	}
	data := quizData{
		ResultMessages: q.Results,
		Thresholds:     thresholds{High: score.QuizHighPercent, Medium: score.QuizMediumPercent},
	}
	for _, qu := range q.Questions {
		data.Questions = append(data.Questions, quizQuestion{
			Question:      qu.Question,
			Options:       qu.Options[:],
			CorrectAnswer: qu.CorrectAnswer,
		})
	}
	page := quizPage{Quiz: q, CTAURL: ctaURL(q.Business), Data: data}
	return execute("quiz.html.tmpl", "quiz", filename(q.Title, "-quiz.html"), page)
}

type scorecardCategory struct {
	Name     string   `json:"name"`
	Metrics  []string `json:"metrics"`
	MaxScore int      `json:"maxScore"`
}

type scorecardData struct {
	Categories    []scorecardCategory `json:"categories"`
	MaxScore      int                 `json:"maxScore"`
	SliderDefault int                 `json:"sliderDefault"`
	Tiers         []score.Tier        `json:"tiers"`
}

type scorecardPage struct {
	*form.Scorecard
	MetricMax     int
	SliderDefault int
	Data          scorecardData
}

func scorecardHTML(s form.State) (*Artifact, error) {
	sc, ok := s.(*form.Scorecard)
	if !ok {
		return nil, unexpected(form.TypeScorecard, s)
	}
	data := scorecardData{
		MaxScore:      sc.MaxScore(),
		SliderDefault: score.SliderDefault,
	}
	for _, c := range sc.Categories {
		cat := scorecardCategory{Name: c.Name, MaxScore: c.MaxScore()}
		for _, m := range c.Metrics {
			cat.Metrics = append(cat.Metrics, m.Metric)
		}
		data.Categories = append(data.Categories, cat)
	}
	data.Tiers = score.Tiers
	page := scorecardPage{
		Scorecard:     sc,
		MetricMax:     form.MetricMaxScore,
		SliderDefault: score.SliderDefault,
		Data:          data,
	}
	return execute("scorecard.html.tmpl", "scorecard", filename(sc.Name, "-scorecard.html"), page)
}

type calculatorVariable struct {
	ID string
	form.Variable
}

type calculatorData struct {
	ResultMessages form.ResultMessages `json:"resultMessages"`
	Thresholds     thresholds          `json:"thresholds"`
}

type calculatorPage struct {
	*form.Calculator
	Variables     []calculatorVariable
	SliderMin     int
	SliderMax     int
	SliderDefault int
	CTAURL        string
	Data          calculatorData
}

func calculatorHTML(s form.State) (*Artifact, error) {
	c, ok := s.(*form.Calculator)
	if !ok {
		return nil, unexpected(form.TypeCalculator, s)
	}
	page := calculatorPage{
		Calculator: c,
		Variables: []calculatorVariable{
			{"dreamOutcome", c.DreamOutcome},
			{"perceivedLikelihood", c.PerceivedLikelihood},
			{"timeDelay", c.TimeDelay},
			{"effortSacrifice", c.EffortSacrifice},
		},
		SliderMin:     score.SliderMin,
		SliderMax:     score.SliderMax,
		SliderDefault: score.SliderDefault,
		CTAURL:        ctaURL(c.Business),
		Data: calculatorData{
			ResultMessages: c.Results,
			Thresholds:     thresholds{High: score.ValueHigh, Medium: score.ValueMedium},
		},
	}
	return execute("calculator.html.tmpl", "calculator", filename(c.Name, "-value-calculator.html"), page)
}
