package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	leadmagnet "github.com/lvillar/leadmagnet"
)

// Response shapes returned by the text generator, one per magnet type.
// Pointer fields distinguish "omitted" from "empty".

type checklistReply []struct {
	Item        string `json:"item"`
	Description string `json:"description"`
}

type questionReply struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer"`
}

type resultReply struct {
	Title   *string `json:"title"`
	Message *string `json:"message"`
	CTA     *string `json:"cta"`
}

type resultsReply struct {
	High   *resultReply `json:"high"`
	Medium *resultReply `json:"medium"`
	Low    *resultReply `json:"low"`
}

type quizReply struct {
	Questions      []questionReply `json:"questions"`
	ResultMessages *resultsReply   `json:"resultMessages"`
}

type scorecardReply []struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Metrics     []struct {
		Metric   string `json:"metric"`
		MaxScore *int   `json:"maxScore"`
	} `json:"metrics"`
}

type guideReply struct {
	Title        *string `json:"title"`
	Subtitle     *string `json:"subtitle"`
	Introduction *string `json:"introduction"`
	Sections     []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"sections"`
	CallToAction *string `json:"callToAction"`
}

type variableReply struct {
	Label       *string `json:"label"`
	Description *string `json:"description"`
	Placeholder *string `json:"placeholder"`
}

type calculatorReply struct {
	DreamOutcome        *variableReply `json:"dreamOutcome"`
	PerceivedLikelihood *variableReply `json:"perceivedLikelihood"`
	TimeDelay           *variableReply `json:"timeDelay"`
	EffortSacrifice     *variableReply `json:"effortSacrifice"`
	ResultMessages      *resultsReply  `json:"resultMessages"`
}

// ReplyIsArray reports whether the generator answers t with a JSON array
// rather than an object.
func ReplyIsArray(t Type) bool {
	return t == TypeChecklist || t == TypeScorecard
}

// Fill merges a raw generator reply into a copy of s and returns the copy.
// Lists in the reply replace the existing lists whole; scalar fields the
// reply omits or leaves blank keep their current value. When the reply
// cannot be parsed or has the wrong shape Fill returns a
// *leadmagnet.AutofillParseError and s is left untouched.
func Fill(s State, raw string) (State, error) {
	if s == nil {
		return nil, leadmagnet.NewMagnetError("fill", leadmagnet.ErrUnknownType)
	}
	payload, err := extractJSON(raw, ReplyIsArray(s.Type()))
	if err != nil {
		return s, err
	}
	out := s.Clone()
	switch f := out.(type) {
	case *Checklist:
		err = fillChecklist(f, payload)
	case *Quiz:
		err = fillQuiz(f, payload)
	case *Scorecard:
		err = fillScorecard(f, payload)
	case *Guide:
		err = fillGuide(f, payload)
	case *Calculator:
		err = fillCalculator(f, payload)
	default:
		err = fmt.Errorf("%w: %T", leadmagnet.ErrUnknownType, s)
	}
	if err != nil {
		var pe *leadmagnet.AutofillParseError
		if !errors.As(err, &pe) {
			err = &leadmagnet.AutofillParseError{Reason: "unexpected shape", Err: err}
		}
		return s, err
	}
	return out, nil
}

// extractJSON returns the span from the first opening bracket to the last
// matching closing bracket.
func extractJSON(raw string, array bool) ([]byte, error) {
	open, closing, kind := "{", "}", "object"
	if array {
		open, closing, kind = "[", "]", "array"
	}
	start := strings.Index(raw, open)
	end := strings.LastIndex(raw, closing)
	if start < 0 || end <= start {
		return nil, &leadmagnet.AutofillParseError{Reason: "no JSON " + kind + " found"}
	}
	return []byte(raw[start : end+1]), nil
}

func decodeStrict(payload []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &leadmagnet.AutofillParseError{Reason: "invalid JSON", Err: err}
	}
	if dec.More() {
		return &leadmagnet.AutofillParseError{Reason: "trailing data after JSON value"}
	}
	return nil
}

func shapeError(format string, args ...any) error {
	return &leadmagnet.AutofillParseError{Reason: fmt.Sprintf(format, args...)}
}

func checkCount(what string, n, max int) error {
	if n < 1 || n > max {
		return shapeError("%s: got %d, want 1 to %d", what, n, max)
	}
	return nil
}

func fillChecklist(c *Checklist, payload []byte) error {
	var reply checklistReply
	if err := decodeStrict(payload, &reply); err != nil {
		return err
	}
	if err := checkCount("items", len(reply), MaxChecklistItems); err != nil {
		return err
	}
	items := make([]ChecklistItem, len(reply))
	for i, r := range reply {
		if strings.TrimSpace(r.Item) == "" {
			return shapeError("item %d has no text", i+1)
		}
		items[i] = ChecklistItem{Item: r.Item, Description: r.Description}
	}
	c.Items = items
	return nil
}

func fillQuiz(q *Quiz, payload []byte) error {
	var reply quizReply
	if err := decodeStrict(payload, &reply); err != nil {
		return err
	}
	if reply.Questions != nil {
		if err := checkCount("questions", len(reply.Questions), MaxQuestions); err != nil {
			return err
		}
		questions := make([]Question, len(reply.Questions))
		for i, r := range reply.Questions {
			if strings.TrimSpace(r.Question) == "" {
				return shapeError("question %d has no text", i+1)
			}
			if len(r.Options) != OptionsPerQuiz {
				return shapeError("question %d: got %d options, want %d", i+1, len(r.Options), OptionsPerQuiz)
			}
			if r.CorrectAnswer == nil || *r.CorrectAnswer < 0 || *r.CorrectAnswer >= OptionsPerQuiz {
				return shapeError("question %d: correct answer must be an index from 0 to 3", i+1)
			}
			questions[i].Question = r.Question
			copy(questions[i].Options[:], r.Options)
			questions[i].CorrectAnswer = *r.CorrectAnswer
		}
		q.Questions = questions
	}
	mergeResults(&q.Results, reply.ResultMessages)
	return nil
}

func fillScorecard(s *Scorecard, payload []byte) error {
	var reply scorecardReply
	if err := decodeStrict(payload, &reply); err != nil {
		return err
	}
	if err := checkCount("categories", len(reply), MaxCategories); err != nil {
		return err
	}
	cats := make([]Category, len(reply))
	for i, r := range reply {
		if strings.TrimSpace(r.Name) == "" {
			return shapeError("category %d has no name", i+1)
		}
		if err := checkCount(fmt.Sprintf("category %d metrics", i+1), len(r.Metrics), MaxMetricsPerCategory); err != nil {
			return err
		}
		cats[i] = Category{Name: r.Name, Description: r.Description, Metrics: make([]Metric, len(r.Metrics))}
		for j, m := range r.Metrics {
			if m.MaxScore != nil && *m.MaxScore != MetricMaxScore {
				return shapeError("category %d metric %d: max score must be %d", i+1, j+1, MetricMaxScore)
			}
			cats[i].Metrics[j] = Metric{Metric: m.Metric}
		}
	}
	s.Categories = cats
	return nil
}

func fillGuide(g *Guide, payload []byte) error {
	var reply guideReply
	if err := decodeStrict(payload, &reply); err != nil {
		return err
	}
	if reply.Sections != nil {
		if err := checkCount("sections", len(reply.Sections), MaxSections); err != nil {
			return err
		}
		sections := make([]Section, len(reply.Sections))
		for i, r := range reply.Sections {
			if strings.TrimSpace(r.Title) == "" {
				return shapeError("section %d has no title", i+1)
			}
			sections[i] = Section{Title: r.Title, Content: r.Content}
		}
		g.Sections = sections
	}
	// the title is echoed back by the generator; the user's own title wins
	mergeString(&g.Subtitle, reply.Subtitle)
	mergeString(&g.Introduction, reply.Introduction)
	mergeString(&g.CallToAction, reply.CallToAction)
	return nil
}

func fillCalculator(c *Calculator, payload []byte) error {
	var reply calculatorReply
	if err := decodeStrict(payload, &reply); err != nil {
		return err
	}
	mergeVariable(&c.DreamOutcome, reply.DreamOutcome)
	mergeVariable(&c.PerceivedLikelihood, reply.PerceivedLikelihood)
	mergeVariable(&c.TimeDelay, reply.TimeDelay)
	mergeVariable(&c.EffortSacrifice, reply.EffortSacrifice)
	mergeResults(&c.Results, reply.ResultMessages)
	return nil
}

func mergeString(dst *string, src *string) {
	if src != nil && strings.TrimSpace(*src) != "" {
		*dst = *src
	}
}

func mergeVariable(dst *Variable, src *variableReply) {
	if src == nil {
		return
	}
	mergeString(&dst.Label, src.Label)
	mergeString(&dst.Description, src.Description)
	mergeString(&dst.Placeholder, src.Placeholder)
}

func mergeResult(dst *ResultMessage, src *resultReply) {
	if src == nil {
		return
	}
	mergeString(&dst.Title, src.Title)
	mergeString(&dst.Message, src.Message)
	mergeString(&dst.CTA, src.CTA)
}

func mergeResults(dst *ResultMessages, src *resultsReply) {
	if src == nil {
		return
	}
	mergeResult(&dst.High, src.High)
	mergeResult(&dst.Medium, src.Medium)
	mergeResult(&dst.Low, src.Low)
}
