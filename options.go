package leadmagnet

// Color is an RGB color.
type Color struct {
	R, G, B int
}

// Default palette used by the generated artifacts.
var (
	Teal  = Color{R: 20, G: 184, B: 166}
	Muted = Color{R: 100, G: 100, B: 100}
	Body  = Color{R: 60, G: 60, B: 60}
	Faint = Color{R: 150, G: 150, B: 150}
)

// Brand carries the presentation settings shared by every renderer.
type Brand struct {
	Line           string // footer brand line
	Accent         Color
	PageSize       string // A4, Letter, Legal
	LogoPath       string // optional PNG or JPEG placed on title blocks
	LetterheadPath string // optional PDF whose first page is drawn behind every page
}

// Option is a functional option for configuring a Brand via NewBrand.
type Option func(*Brand)

// WithBrandLine sets the footer line printed on every PDF page.
func WithBrandLine(line string) Option {
	return func(b *Brand) {
		b.Line = line
	}
}

// WithAccentColor sets the accent color for titles, headings and bands.
func WithAccentColor(c Color) Option {
	return func(b *Brand) {
		b.Accent = c
	}
}

// WithPageSize sets the page size by name.
// Use "A4", "Letter" or "Legal".
func WithPageSize(size string) Option {
	return func(b *Brand) {
		b.PageSize = size
	}
}

// WithLogo sets an image file placed at the top of title blocks.
func WithLogo(path string) Option {
	return func(b *Brand) {
		b.LogoPath = path
	}
}

// WithLetterhead sets a PDF whose first page is used as background for every page.
func WithLetterhead(path string) Option {
	return func(b *Brand) {
		b.LetterheadPath = path
	}
}

// NewBrand creates a Brand using functional options.
// If no options are specified, defaults to the BuildLead line, teal accent and A4 pages.
//
// Example:
//
//	brand := leadmagnet.NewBrand(
//	    leadmagnet.WithBrandLine("Generated by Acme"),
//	    leadmagnet.WithAccentColor(leadmagnet.Color{R: 63, G: 81, B: 181}),
//	)
func NewBrand(opts ...Option) Brand {
	b := Brand{
		Line:     "Generated by BuildLead",
		Accent:   Teal,
		PageSize: "A4",
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}
