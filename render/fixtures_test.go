package render_test

import (
	"fmt"
	"strings"

	"github.com/lvillar/leadmagnet/form"
)

var studio = form.Business{Name: "Acme Studio", Niche: "Coaching/Consulting", WebsiteURL: "https://acme.example/book"}

var results = form.ResultMessages{
	High:   form.ResultMessage{Title: "You're Ready!", Message: "You are an ideal fit.", CTA: "Book a strategy call"},
	Medium: form.ResultMessage{Title: "You're Close!", Message: "A few gaps remain.", CTA: "Get the workbook"},
	Low:    form.ResultMessage{Title: "Let's Start Here", Message: "Start with the basics.", CTA: "Read the starter guide"},
}

const paragraph = "Write down the outcome your client expects and the date they expect it by. " +
	"Share it with them before the first session so both sides agree on what success looks like. "

func checklist(n int) *form.Checklist {
	c := &form.Checklist{
		Business:       studio,
		Title:          "Client Onboarding Checklist",
		Description:    "Everything to do in the first two weeks.",
		TargetAudience: "New coaches",
	}
	for i := range n {
		c.Items = append(c.Items, form.ChecklistItem{
			Item:        fmt.Sprintf("Complete onboarding step %d", i+1),
			Description: paragraph,
		})
	}
	return c
}

func quiz(n int) *form.Quiz {
	q := &form.Quiz{Business: studio, Title: "Are You Ready To Scale", Description: "Ten quick questions.", Results: results}
	for i := range n {
		q.Questions = append(q.Questions, form.Question{
			Question:      fmt.Sprintf("How do you handle situation %d?", i+1),
			Options:       [4]string{"Ignore it", "Delegate it", "Systemize it", "Do it myself"},
			CorrectAnswer: 2,
		})
	}
	return q
}

func scorecard() *form.Scorecard {
	sc := &form.Scorecard{Business: studio, Title: "Key Person of Influence Scorecard"}
	for _, name := range []string{"Pitch", "Publish", "Product", "Profile", "Partnership"} {
		cat := form.Category{Name: name, Description: "How strong is your " + strings.ToLower(name) + "?"}
		for j := range 4 {
			cat.Metrics = append(cat.Metrics, form.Metric{Metric: fmt.Sprintf("%s metric %d", name, j+1)})
		}
		sc.Categories = append(sc.Categories, cat)
	}
	return sc
}

func guide(n int) *form.Guide {
	g := &form.Guide{
		Business:     studio,
		Title:        "The Coaching Growth Playbook",
		Subtitle:     "Seven moves to a full calendar",
		AuthorName:   "Jordan Lee",
		Introduction: paragraph,
		CallToAction: "Book a call to map out your next ninety days.",
		ContactInfo:  "hello@acme.example",
	}
	for i := range n {
		g.Sections = append(g.Sections, form.Section{
			Title:   fmt.Sprintf("Move %d", i+1),
			Content: strings.Repeat(paragraph, 6),
		})
	}
	return g
}

func calculator() *form.Calculator {
	c := form.NewCalculator()
	c.Business = studio
	c.Title = "Coaching Value Calculator"
	c.Results = results
	return c
}
