package form

import (
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	leadmagnet "github.com/lvillar/leadmagnet"
)

// Quiz limits.
const (
	MaxQuestions   = 20
	OptionsPerQuiz = 4
)

// Quiz is a multiple-choice qualification quiz rendered as interactive HTML.
type Quiz struct {
	Business    `yaml:",inline"`
	Title       string         `json:"quizTitle" yaml:"quizTitle" validate:"required,notblank"`
	Description string         `json:"quizDescription,omitempty" yaml:"quizDescription,omitempty"`
	Questions   []Question     `json:"questions" yaml:"questions" validate:"min=1,max=20,dive"`
	Results     ResultMessages `json:"resultMessages" yaml:"resultMessages"`
}

// Question has exactly four options; CorrectAnswer indexes the qualifying one.
type Question struct {
	Question      string    `json:"question" yaml:"question" validate:"required,notblank"`
	Options       [4]string `json:"options" yaml:"options" validate:"dive,required,notblank"`
	CorrectAnswer int       `json:"correctAnswer" yaml:"correctAnswer" validate:"min=0,max=3"`
}

// questionWire is a Question as it is written in form files, with the
// options as a plain list.
type questionWire struct {
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer int      `json:"correctAnswer" yaml:"correctAnswer"`
}

// set fills q from w. Missing options stay blank for Validate to report;
// extra options are an error.
func (q *Question) set(w questionWire) error {
	if len(w.Options) > OptionsPerQuiz {
		return fmt.Errorf("%w: question %q has %d options, want %d",
			leadmagnet.ErrListBounds, w.Question, len(w.Options), OptionsPerQuiz)
	}
	*q = Question{Question: w.Question, CorrectAnswer: w.CorrectAnswer}
	copy(q.Options[:], w.Options)
	return nil
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return q.set(w)
}

func (q *Question) UnmarshalYAML(n *yaml.Node) error {
	var w questionWire
	if err := n.Decode(&w); err != nil {
		return err
	}
	return q.set(w)
}

// NewQuiz returns an empty quiz with one blank question.
func NewQuiz() *Quiz {
	return &Quiz{Questions: []Question{{}}}
}

func (q *Quiz) Type() Type          { return TypeQuiz }
func (q *Quiz) Context() Business   { return q.Business }
func (q *Quiz) MagnetTitle() string { return q.Title }

func (q *Quiz) Clone() State {
	out := *q
	out.Questions = slices.Clone(q.Questions)
	return &out
}

// AddQuestion appends a blank question.
func (q *Quiz) AddQuestion() error {
	questions, err := appendBounded(q.Questions, Question{}, MaxQuestions)
	q.Questions = questions
	return err
}

// RemoveQuestion deletes question i. The last remaining question cannot be removed.
func (q *Quiz) RemoveQuestion(i int) error {
	questions, err := removeBounded(q.Questions, i)
	q.Questions = questions
	return err
}
