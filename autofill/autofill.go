// Package autofill drafts magnet content with a text generator and merges
// the reply into a form.
package autofill

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/form"
	"github.com/lvillar/leadmagnet/internal/logger"
)

// ErrUnavailable is reported when no generator is configured.
var ErrUnavailable = fmt.Errorf("%w: autofill needs GEMINI_API_KEY", leadmagnet.ErrNotConfigured)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Client runs autofill requests against a Generator.
type Client struct {
	gen     Generator
	limiter *rate.Limiter
	log     *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit caps generator calls at perMinute with the given burst.
func WithRateLimit(perMinute, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)
	}
}

// WithLimiter sets the limiter directly.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a Client. The default limit is 30 requests per minute.
func New(gen Generator, opts ...Option) *Client {
	c := &Client{
		gen:     gen,
		limiter: rate.NewLimiter(rate.Limit(0.5), 3),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Autofill asks the generator for content matching s and returns the
// merged copy. s itself is never modified. Missing business context
// yields ErrMissingContext before any request is made; a reply that does
// not match the expected shape yields *leadmagnet.AutofillParseError.
func (c *Client) Autofill(ctx context.Context, s form.State) (form.State, error) {
	req, err := Prompt(s)
	if err != nil {
		return s, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return s, fmt.Errorf("autofill: rate limit wait: %w", err)
	}

	start := time.Now()
	raw, err := c.gen.Generate(ctx, req)
	if err != nil {
		c.log.Error("autofill generation failed", "type", s.Type(), "error", err)
		return s, err
	}
	c.log.Debug("autofill reply received",
		"type", s.Type(),
		"reply_length", len(raw),
		"duration_ms", time.Since(start).Milliseconds())

	out, err := form.Fill(s, raw)
	if err != nil {
		c.log.Warn("autofill reply rejected", "type", s.Type(), "error", err)
		return s, err
	}
	return out, nil
}
