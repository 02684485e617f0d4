package form_test

import (
	"fmt"

	"github.com/lvillar/leadmagnet/form"
)

var acme = form.Business{Name: "Acme Fitness", Niche: "Fitness/Health"}

var bands = form.ResultMessages{
	High:   form.ResultMessage{Title: "You're Ready!", Message: "Ideal fit.", CTA: "Book a call"},
	Medium: form.ResultMessage{Title: "You're Close!", Message: "Almost there.", CTA: "Learn more"},
	Low:    form.ResultMessage{Title: "Let's Start Here", Message: "Early days.", CTA: "Read the guide"},
}

func validChecklist(n int) *form.Checklist {
	c := &form.Checklist{Business: acme, Title: "30 Day Kickstart"}
	for i := range n {
		c.Items = append(c.Items, form.ChecklistItem{
			Item:        fmt.Sprintf("Step %d", i+1),
			Description: "Why this step matters.",
		})
	}
	return c
}

func validQuiz(n int) *form.Quiz {
	q := &form.Quiz{Business: acme, Title: "Are You Ready?", Results: bands}
	for i := range n {
		q.Questions = append(q.Questions, form.Question{
			Question:      fmt.Sprintf("Question %d?", i+1),
			Options:       [4]string{"A", "B", "C", "D"},
			CorrectAnswer: i % 4,
		})
	}
	return q
}

func validScorecard() *form.Scorecard {
	return &form.Scorecard{
		Business: acme,
		Title:    "Gym Growth Scorecard",
		Categories: []form.Category{
			{Name: "Pitch", Metrics: []form.Metric{{Metric: "Clear offer"}, {Metric: "Strong hook"}}},
			{Name: "Profile", Description: "Visibility", Metrics: []form.Metric{{Metric: "Reviews"}}},
		},
	}
}

func validGuide(n int) *form.Guide {
	g := &form.Guide{Business: acme, Title: "The Lean Gym Playbook", AuthorName: "Sam"}
	for i := range n {
		g.Sections = append(g.Sections, form.Section{
			Title:   fmt.Sprintf("Chapter %d", i+1),
			Content: "Some useful content.",
		})
	}
	return g
}

func validCalculator() *form.Calculator {
	c := form.NewCalculator()
	c.Business = acme
	c.Title = "Membership Value"
	c.Results = bands
	return c
}
