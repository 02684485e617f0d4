package form

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	leadmagnet "github.com/lvillar/leadmagnet"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("niche", func(fl validator.FieldLevel) bool {
		return IsNiche(fl.Field().String())
	})
	return v
}

// Validate checks that s is complete enough to render. It returns nil or a
// *leadmagnet.ValidationError listing every offending field in form order.
func Validate(s State) error {
	if s == nil {
		return &leadmagnet.ValidationError{Missing: []string{"Magnet type"}}
	}
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return leadmagnet.NewMagnetError("validate", err)
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, describe(s.Type(), fe))
	}
	return &leadmagnet.ValidationError{Missing: missing}
}

var typeNouns = map[Type]string{
	TypeCalculator: "Calculator",
	TypeQuiz:       "Quiz",
	TypeChecklist:  "Checklist",
	TypeScorecard:  "Scorecard",
	TypeGuide:      "Guide",
}

// singular names for indexed list entries
var entryWords = map[string]string{
	"Items":      "item",
	"Questions":  "question",
	"Options":    "option",
	"Categories": "category",
	"Metrics":    "metric",
	"Sections":   "section",
}

var fieldWords = map[string]string{
	"Business":            "business",
	"Name":                "name",
	"Niche":               "niche",
	"WebsiteURL":          "website URL",
	"Title":               "title",
	"Message":             "message",
	"CTA":                 "call to action",
	"Content":             "content",
	"Label":               "label",
	"CorrectAnswer":       "correct answer",
	"Results":             "",
	"High":                "high result",
	"Medium":              "medium result",
	"Low":                 "low result",
	"DreamOutcome":        "dream outcome",
	"PerceivedLikelihood": "perceived likelihood",
	"TimeDelay":           "time delay",
	"EffortSacrifice":     "effort & sacrifice",
}

// describe turns a namespace such as "Quiz.Questions[1].Options[2]" into
// "Question 2 option C".
func describe(t Type, fe validator.FieldError) string {
	segs := strings.Split(fe.StructNamespace(), ".")[1:]
	var words []string
	parent := ""
	for i, seg := range segs {
		name, idx := splitIndex(seg)
		switch {
		case idx >= 0 && name == "Options":
			words = append(words, "option "+string(rune('A'+idx)))
		case idx >= 0:
			words = append(words, entryWords[name]+" "+strconv.Itoa(idx+1))
		case i == 0 && name == "Title":
			words = append(words, typeNouns[t]+" title")
		case entryWords[parent] != "" && strings.EqualFold(entryWords[parent], name):
			// "Items[0].Item" reads as "Item 1"
		case fieldWords[name] != "" || name == "Results":
			if w := fieldWords[name]; w != "" {
				words = append(words, w)
			}
		default:
			if _, isList := entryWords[name]; isList {
				words = append(words, strings.ToLower(name))
			} else {
				words = append(words, name)
			}
		}
		parent = name
	}
	label := capitalize(strings.Join(words, " "))
	switch fe.Tag() {
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s (at least %s)", label, fe.Param())
		}
		return label + " (out of range)"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s (at most %s)", label, fe.Param())
		}
		return label + " (out of range)"
	case "niche":
		return label + " (unknown niche)"
	case "url":
		return label + " (invalid URL)"
	}
	return label
}

func splitIndex(seg string) (string, int) {
	open := strings.IndexByte(seg, '[')
	if open < 0 || !strings.HasSuffix(seg, "]") {
		return seg, -1
	}
	n, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil {
		return seg, -1
	}
	return seg[:open], n
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
