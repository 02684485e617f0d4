// Package render turns a validated form into a downloadable artifact.
//
// Every (magnet type, format) pair is served by one Renderer. Checklists,
// guides and scorecards become paginated PDFs laid out with doctpl; quizzes,
// scorecards and value calculators become self-contained HTML pages with
// their scoring logic embedded.
package render

import (
	"errors"
	"fmt"
	"strings"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/form"
)

// Format selects the artifact kind.
type Format string

const (
	PDF  Format = "pdf"
	HTML Format = "html"
)

// ParseFormat converts "pdf" or "html" (any case) into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PDF, HTML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", leadmagnet.ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == PDF {
		return "application/pdf"
	}
	return "text/html; charset=utf-8"
}

// Artifact is a rendered file ready for download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Renderer produces an artifact from a form. Renderers assume the form has
// passed validation.
type Renderer interface {
	Render(s form.State) (*Artifact, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(s form.State) (*Artifact, error)

func (f RendererFunc) Render(s form.State) (*Artifact, error) { return f(s) }

type key struct {
	t form.Type
	f Format
}

// defaultFormats is the format used when the caller does not ask for one.
var defaultFormats = map[form.Type]Format{
	form.TypeCalculator: HTML,
	form.TypeQuiz:       HTML,
	form.TypeChecklist:  PDF,
	form.TypeScorecard:  HTML,
	form.TypeGuide:      PDF,
}

// DefaultFormat returns the format a type renders to by default.
func DefaultFormat(t form.Type) Format { return defaultFormats[t] }

// Registry maps (type, format) pairs to renderers sharing one Brand.
type Registry struct {
	brand     leadmagnet.Brand
	logo      *Logo
	renderers map[key]Renderer
}

// New creates a Registry with the built-in renderers. The brand logo, if
// configured, is loaded and scaled once here.
func New(opts ...leadmagnet.Option) (*Registry, error) {
	r := &Registry{
		brand:     leadmagnet.NewBrand(opts...),
		renderers: make(map[key]Renderer),
	}
	if r.brand.LogoPath != "" {
		logo, err := LoadLogo(r.brand.LogoPath, maxLogoPixels)
		if err != nil {
			return nil, leadmagnet.NewMagnetError("LoadLogo", err)
		}
		r.logo = logo
	}

	r.Register(form.TypeChecklist, PDF, RendererFunc(r.checklistPDF))
	r.Register(form.TypeGuide, PDF, RendererFunc(r.guidePDF))
	r.Register(form.TypeScorecard, PDF, RendererFunc(r.scorecardPDF))
	r.Register(form.TypeQuiz, HTML, RendererFunc(quizHTML))
	r.Register(form.TypeScorecard, HTML, RendererFunc(scorecardHTML))
	r.Register(form.TypeCalculator, HTML, RendererFunc(calculatorHTML))
	return r, nil
}

// Brand returns the presentation settings the registry renders with.
func (r *Registry) Brand() leadmagnet.Brand { return r.brand }

// Register installs or replaces the renderer for (t, f).
func (r *Registry) Register(t form.Type, f Format, rd Renderer) {
	r.renderers[key{t, f}] = rd
}

// Formats lists the formats available for t.
func (r *Registry) Formats(t form.Type) []Format {
	var out []Format
	for _, f := range []Format{PDF, HTML} {
		if _, ok := r.renderers[key{t, f}]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Lookup returns the renderer for (t, f). An empty format selects the
// type's default.
func (r *Registry) Lookup(t form.Type, f Format) (Renderer, error) {
	if f == "" {
		f = DefaultFormat(t)
	}
	rd, ok := r.renderers[key{t, f}]
	if !ok {
		return nil, fmt.Errorf("%w: %s as %q", leadmagnet.ErrUnsupportedFormat, t, f)
	}
	return rd, nil
}

// Render validates s and renders it as f. Nothing is returned unless both
// steps succeed.
func (r *Registry) Render(s form.State, f Format) (*Artifact, error) {
	if err := form.Validate(s); err != nil {
		return nil, err
	}
	rd, err := r.Lookup(s.Type(), f)
	if err != nil {
		return nil, err
	}
	a, err := rd.Render(s)
	if err != nil {
		var re *leadmagnet.RenderError
		if !errors.As(err, &re) {
			err = &leadmagnet.RenderError{Artifact: string(s.Type()), Err: err}
		}
		return nil, err
	}
	return a, nil
}

// unexpected reports a renderer called with the wrong form type.
func unexpected(want form.Type, s form.State) error {
	got := form.Type("<nil>")
	if s != nil {
		got = s.Type()
	}
	return &leadmagnet.RenderError{Artifact: string(want), Err: fmt.Errorf("got %s form", got)}
}

// filename builds an artifact file name from the slug of name. Names with
// no letters or digits fall back to a generic stem.
func filename(name, suffix string) string {
	stem := form.Slugify(name)
	if stem == "" {
		stem = "lead-magnet"
	}
	return stem + suffix
}
