package autofill_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/time/rate"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/autofill"
	"github.com/lvillar/leadmagnet/form"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var acme = form.Business{Name: "Acme Fitness", Niche: "Fitness/Health"}

// fixed returns a generator that records the request and answers reply.
func fixed(reply string, seen *autofill.Request) autofill.Generator {
	return autofill.GeneratorFunc(func(_ context.Context, req autofill.Request) (string, error) {
		if seen != nil {
			*seen = req
		}
		return reply, nil
	})
}

func TestAutofillChecklist(t *testing.T) {
	c := form.NewChecklist()
	c.Business = acme
	c.Title = "30 Day Kickstart"
	c.TargetAudience = "New gym owners"

	var req autofill.Request
	reply := "Sure! ```json\n" +
		`[{"item":"Set a goal","description":"Focus."},{"item":"Book sessions","description":"Commit."}]` +
		"\n```"
	out, err := autofill.New(fixed(reply, &req)).Autofill(context.Background(), c)
	require.NoError(t, err)

	got := out.(*form.Checklist)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Book sessions", got.Items[1].Item)
	assert.Equal(t, "30 Day Kickstart", got.Title)
	assert.Len(t, c.Items, 1, "input form must not change")

	assert.Contains(t, req.Prompt, "Business: Acme Fitness")
	assert.Contains(t, req.Prompt, "Target Audience: New gym owners")
	assert.EqualValues(t, 2048, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-6)
}

func TestPromptPerType(t *testing.T) {
	tests := []struct {
		typ    form.Type
		tokens int32
		want   string
	}{
		{form.TypeChecklist, 2048, "Target Audience: General audience"},
		{form.TypeQuiz, 3072, `"correctAnswer" is the index (0-3)`},
		{form.TypeScorecard, 2048, "Make it specific to Fitness/Health"},
		{form.TypeGuide, 3072, `"title": "Playbook"`},
		{form.TypeCalculator, 2048, "Value = (Dream Outcome x Perceived Likelihood)"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			s := withContext(t, tt.typ, "Playbook")
			req, err := autofill.Prompt(s)
			require.NoError(t, err)
			assert.Equal(t, tt.tokens, req.MaxTokens)
			assert.Contains(t, req.Prompt, tt.want)
			assert.Contains(t, req.Prompt, "No additional text or formatting.")
		})
	}
}

func withContext(t *testing.T, typ form.Type, title string) form.State {
	t.Helper()
	s, err := form.New(typ)
	require.NoError(t, err)
	switch f := s.(type) {
	case *form.Checklist:
		f.Business, f.Title = acme, title
	case *form.Quiz:
		f.Business, f.Title = acme, title
	case *form.Scorecard:
		f.Business, f.Title = acme, title
	case *form.Guide:
		f.Business, f.Title = acme, title
	case *form.Calculator:
		f.Business, f.Title = acme, title
	}
	return s
}

func TestAutofillMissingContext(t *testing.T) {
	var calls atomic.Int32
	gen := autofill.GeneratorFunc(func(context.Context, autofill.Request) (string, error) {
		calls.Add(1)
		return "[]", nil
	})
	q := form.NewQuiz()
	q.Business = form.Business{Name: "Acme", Niche: "Fitness/Health"}

	out, err := autofill.New(gen).Autofill(context.Background(), q)
	require.ErrorIs(t, err, leadmagnet.ErrMissingContext)
	assert.Contains(t, err.Error(), "Business Name, Niche, and Quiz Title")
	assert.Same(t, q, out)
	assert.Zero(t, calls.Load(), "no request without business context")
}

func TestAutofillRejectsBadReply(t *testing.T) {
	s := withContext(t, form.TypeScorecard, "Gym Growth")
	before := s.Clone()

	out, err := autofill.New(fixed(`{"name":"not an array"}`, nil)).Autofill(context.Background(), s)
	var pe *leadmagnet.AutofillParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, before, out)
}

func TestAutofillGeneratorError(t *testing.T) {
	upstream := &leadmagnet.NetworkError{Service: "gemini", StatusCode: 503}
	gen := autofill.GeneratorFunc(func(context.Context, autofill.Request) (string, error) {
		return "", upstream
	})
	s := withContext(t, form.TypeGuide, "Playbook")

	_, err := autofill.New(gen).Autofill(context.Background(), s)
	var ne *leadmagnet.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, 503, ne.StatusCode)
}

func TestAutofillRateLimitCancelled(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(0.001), 1)
	require.True(t, limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := autofill.New(fixed("[]", nil), autofill.WithLimiter(limiter))

	_, err := c.Autofill(ctx, withContext(t, form.TypeChecklist, "Kickstart"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "rate limit"))
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := autofill.NewGemini(context.Background(), "", "")
	assert.ErrorIs(t, err, leadmagnet.ErrNotConfigured)
}
