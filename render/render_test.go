package render_test

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/doctpl"
	"github.com/lvillar/leadmagnet/form"
	"github.com/lvillar/leadmagnet/render"
)

func newRegistry(t *testing.T, opts ...leadmagnet.Option) *render.Registry {
	t.Helper()
	r, err := render.New(opts...)
	require.NoError(t, err)
	return r
}

// layout renders doc uncompressed so text can be searched in the output.
func layout(t *testing.T, doc *doctpl.Document) (*doctpl.Layout, []byte) {
	t.Helper()
	pdf, l, err := doctpl.Build(doc)
	require.NoError(t, err)
	pdf.SetCompression(false)
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return l, buf.Bytes()
}

func TestParseFormat(t *testing.T) {
	f, err := render.ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, render.PDF, f)

	_, err = render.ParseFormat("docx")
	assert.ErrorIs(t, err, leadmagnet.ErrUnsupportedFormat)
}

func TestRegistryFormats(t *testing.T) {
	r := newRegistry(t)
	tests := []struct {
		typ  form.Type
		want []render.Format
	}{
		{form.TypeChecklist, []render.Format{render.PDF}},
		{form.TypeGuide, []render.Format{render.PDF}},
		{form.TypeScorecard, []render.Format{render.PDF, render.HTML}},
		{form.TypeQuiz, []render.Format{render.HTML}},
		{form.TypeCalculator, []render.Format{render.HTML}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Formats(tt.typ), tt.typ)
		assert.Contains(t, tt.want, render.DefaultFormat(tt.typ), tt.typ)
	}
}

func TestRenderFilenames(t *testing.T) {
	r := newRegistry(t)
	tests := []struct {
		state  form.State
		format render.Format
		want   string
	}{
		{checklist(3), render.PDF, "acme-studio-checklist.pdf"},
		{guide(2), render.PDF, "the-coaching-growth-playbook.pdf"},
		{scorecard(), render.PDF, "acme-studio-scorecard.pdf"},
		{scorecard(), render.HTML, "acme-studio-scorecard.html"},
		{quiz(3), render.HTML, "are-you-ready-to-scale-quiz.html"},
		{calculator(), render.HTML, "acme-studio-value-calculator.html"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			a, err := r.Render(tt.state, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Filename)
			assert.Equal(t, tt.format.ContentType(), a.ContentType)
			if tt.format == render.PDF {
				assert.True(t, bytes.HasPrefix(a.Data, []byte("%PDF")), "missing PDF header")
			} else {
				assert.True(t, bytes.HasPrefix(a.Data, []byte("<!DOCTYPE html>")), "missing doctype")
			}
		})
	}
}

func TestRenderFilenamesStayInsideDirectory(t *testing.T) {
	r := newRegistry(t)
	tests := []struct {
		name, want string
	}{
		{"Acme/Fitness", "acme-fitness-checklist.pdf"},
		{"../../escaped", "escaped-checklist.pdf"},
		{"..", "lead-magnet-checklist.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := checklist(1)
			c.Name = tt.name
			a, err := r.Render(c, render.PDF)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Filename)
			assert.Equal(t, a.Filename, filepath.Base(a.Filename))
		})
	}
}

func TestRenderRequiresValidForm(t *testing.T) {
	r := newRegistry(t)
	c := checklist(2)
	c.Items[1].Item = "  "

	a, err := r.Render(c, render.PDF)
	assert.Nil(t, a)
	var ve *leadmagnet.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"Item 2"}, ve.Missing)
}

func TestRenderUnsupportedFormat(t *testing.T) {
	r := newRegistry(t)
	_, err := r.Render(quiz(2), render.PDF)
	assert.ErrorIs(t, err, leadmagnet.ErrUnsupportedFormat)
}

func TestRendererWrongForm(t *testing.T) {
	r := newRegistry(t)
	rd, err := r.Lookup(form.TypeChecklist, "")
	require.NoError(t, err)

	_, err = rd.Render(quiz(1))
	var re *leadmagnet.RenderError
	assert.ErrorAs(t, err, &re)
}

func TestRegisterOverrides(t *testing.T) {
	r := newRegistry(t)
	boom := errors.New("boom")
	r.Register(form.TypeQuiz, render.HTML, render.RendererFunc(func(form.State) (*render.Artifact, error) {
		return nil, boom
	}))

	_, err := r.Render(quiz(1), render.HTML)
	assert.ErrorIs(t, err, boom)
	var re *leadmagnet.RenderError
	assert.ErrorAs(t, err, &re, "renderer failures are reported as RenderError")
}

func TestChecklistHeaderFollowsTitle(t *testing.T) {
	r := newRegistry(t)
	tests := []struct {
		name     string
		title    string
		minLines int
	}{
		{"one line", "Client Onboarding Checklist", 1},
		{"wrapped", "The Complete New Client Onboarding Checklist For Busy Coaches And Consultants", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := checklist(2)
			c.Title = tt.title
			l, _ := layout(t, r.ChecklistDocument(c))

			title, ok := l.Find("title")
			require.True(t, ok)
			require.GreaterOrEqual(t, title.LineCount, tt.minLines)
			business, ok := l.Find("business")
			require.True(t, ok)
			audience, ok := l.Find("audience")
			require.True(t, ok)

			titleBottom := title.Y + float64(title.LineCount)*12
			assert.GreaterOrEqual(t, business.Y, titleBottom, "business name overlaps the title")
			assert.GreaterOrEqual(t, business.Y, 50.0)
			assert.GreaterOrEqual(t, audience.Y, business.Y+7, "audience overlaps the business name")
			if title.LineCount == 1 {
				assert.InDelta(t, 50, business.Y, 0.01)
				assert.InDelta(t, 61, audience.Y, 0.01)
			}
		})
	}
}

func TestChecklistPaginatesEveryItemOnce(t *testing.T) {
	r := newRegistry(t)
	c := checklist(form.MaxChecklistItems)
	c.WebsiteURL = ""

	l, out := layout(t, r.ChecklistDocument(c))
	require.GreaterOrEqual(t, l.Pages, 2)

	var ids []string
	for _, p := range l.Placements {
		if strings.HasPrefix(p.ID, "item-") {
			ids = append(ids, p.ID)
			assert.Equal(t, p.Page, p.EndPage, "%s split across pages", p.ID)
		}
	}
	want := make([]string, len(c.Items))
	for i := range want {
		want[i] = fmt.Sprintf("item-%d", i+1)
	}
	assert.Equal(t, want, ids)

	assert.Equal(t, l.Pages, l.PageOf("cta"), "call to action closes the document")
	assert.Equal(t, l.Pages, bytes.Count(out, []byte("Generated by BuildLead")), "brand line on every page")
	assert.Contains(t, string(out), "For: New coaches")
}

func TestChecklistSkipsEmptyOptionalFields(t *testing.T) {
	r := newRegistry(t)
	c := checklist(1)
	c.TargetAudience = ""
	c.Description = ""
	c.WebsiteURL = ""

	l, out := layout(t, r.ChecklistDocument(c))
	assert.NotContains(t, string(out), "For:")
	_, ok := l.Find("website-qr")
	assert.False(t, ok)
	assert.Equal(t, 1, l.Pages)
}

func TestGuideStructure(t *testing.T) {
	r := newRegistry(t, leadmagnet.WithBrandLine("Made with Acme"))
	g := guide(4)

	l, out := layout(t, r.GuideDocument(g))
	assert.Equal(t, 1, l.PageOf("cover"))
	assert.Equal(t, 2, l.PageOf("toc"))
	assert.Equal(t, 3, l.PageOf("introduction"))

	last := l.PageOf("introduction")
	for i := range g.Sections {
		id := fmt.Sprintf("section-%d", i+1)
		page := l.PageOf(id)
		assert.Greater(t, page, last, "%s starts on a new page", id)
		body, ok := l.Find(id + "-body")
		require.True(t, ok, id)
		assert.Equal(t, page, body.Page)
		last = body.EndPage
	}
	assert.Greater(t, l.PageOf("next-steps"), last)
	assert.Equal(t, l.PageOf("next-steps"), l.PageOf("contact"))

	for i := 1; i <= l.Pages; i++ {
		assert.Contains(t, string(out), fmt.Sprintf("Acme Studio | Page %d of %d", i, l.Pages))
	}
	assert.Equal(t, l.Pages, bytes.Count(out, []byte("Made with Acme")))
}

func TestGuideLongSectionContinues(t *testing.T) {
	r := newRegistry(t)
	g := guide(1)
	g.Sections[0].Content = strings.Repeat(paragraph, 60)

	l, _ := layout(t, r.GuideDocument(g))
	body, ok := l.Find("section-1-body")
	require.True(t, ok)
	assert.Greater(t, body.EndPage, body.Page)
}

func TestGuideContactWithoutCallToAction(t *testing.T) {
	r := newRegistry(t)
	g := guide(1)
	g.CallToAction = ""

	l, out := layout(t, r.GuideDocument(g))
	_, ok := l.Find("next-steps")
	assert.False(t, ok)
	assert.Equal(t, l.Pages, l.PageOf("contact"))
	assert.Greater(t, l.PageOf("contact"), l.PageOf("section-1"))
	assert.NotContains(t, string(out), "Next Steps")
}

func TestScorecardDocument(t *testing.T) {
	r := newRegistry(t)
	sc := scorecard()

	l, out := layout(t, r.ScorecardDocument(sc))
	for i := range sc.Categories {
		_, ok := l.Find(fmt.Sprintf("category-%d", i+1))
		assert.True(t, ok)
	}
	total, ok := l.Find("total")
	require.True(t, ok)
	assert.GreaterOrEqual(t, l.PageOf("scoring-key"), total.Page)
	assert.Contains(t, string(out), "Total score: ____ / 200")
	assert.Contains(t, string(out), "Category score: ____ / 40")
	assert.Contains(t, string(out), "Needs Attention")
}

func TestLetterPageSize(t *testing.T) {
	r := newRegistry(t, leadmagnet.WithPageSize("Letter"))
	doc := r.ChecklistDocument(checklist(form.MaxChecklistItems))
	assert.Equal(t, "Letter", doc.PageSize)
	assert.InDelta(t, 279.4-17, doc.Footer[0].Y, 0.001)
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, h/2, color.RGBA{R: 20, G: 184, B: 166, A: 255})
	}
	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadLogoScalesDown(t *testing.T) {
	logo, err := render.LoadLogo(writePNG(t, 1200, 400), 600)
	require.NoError(t, err)
	assert.Equal(t, 600, logo.Width)
	assert.Equal(t, 200, logo.Height)

	cfg, err := png.DecodeConfig(bytes.NewReader(logo.Data))
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Width)
}

func TestLoadLogoKeepsSmallImages(t *testing.T) {
	logo, err := render.LoadLogo(writePNG(t, 120, 60), 600)
	require.NoError(t, err)
	assert.Equal(t, 120, logo.Width)
	assert.Equal(t, 60, logo.Height)
}

func TestRegistryWithLogo(t *testing.T) {
	r := newRegistry(t, leadmagnet.WithLogo(writePNG(t, 800, 200)))
	a, err := r.Render(guide(1), render.PDF)
	require.NoError(t, err)
	assert.NotEmpty(t, a.Data)

	_, err = render.New(leadmagnet.WithLogo(filepath.Join(t.TempDir(), "missing.png")))
	assert.Error(t, err)
}
