package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// maxLogoPixels bounds the longest side of an embedded logo.
const maxLogoPixels = 600

// Logo is a brand image re-encoded as PNG, ready to embed in a PDF.
type Logo struct {
	Data          []byte
	Width, Height int // pixels
}

// LoadLogo reads a PNG or JPEG and scales it down so that neither side
// exceeds maxSide pixels. Smaller images are only re-encoded.
func LoadLogo(path string, maxSide int) (*Logo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening logo: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding logo %s: %w", path, err)
	}
	return scaleLogo(src, maxSide)
}

func scaleLogo(src image.Image, maxSide int) (*Logo, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("logo has no pixels")
	}

	img := src
	if longest := max(w, h); maxSide > 0 && longest > maxSide {
		w, h = max(w*maxSide/longest, 1), max(h*maxSide/longest, 1)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding logo: %w", err)
	}
	return &Logo{Data: buf.Bytes(), Width: w, Height: h}, nil
}
