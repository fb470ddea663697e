// Package render rasterizes stroke parses into grayscale masks for
// inspection and debugging. Each stroke polyline is stroked as a run of
// quads and filled with the rasterizer from golang.org/x/image/vector.
package render

import (
	"image"
	"image/png"
	"io"

	"golang.org/x/image/vector"

	"github.com/motorlab/parseset"
)

// Options controls rasterization.
type Options struct {
	// Width and Height are the canvas size in pixels. Default: 105x105.
	Width, Height int

	// LineWidth is the stroked line width in pixels. Default: 2.0.
	LineWidth float64
}

// DefaultOptions returns the default rasterization options.
func DefaultOptions() Options {
	return Options{
		Width:     105,
		Height:    105,
		LineWidth: 2.0,
	}
}

// Parse rasterizes a parse into an alpha mask. Points are taken as
// image pixel coordinates; anything outside the canvas is clipped.
func Parse(p parseset.Parse, o Options) *image.Alpha {
	if o.Width <= 0 {
		o.Width = 105
	}
	if o.Height <= 0 {
		o.Height = 105
	}
	if o.LineWidth <= 0 {
		o.LineWidth = 2.0
	}

	z := vector.NewRasterizer(o.Width, o.Height)
	half := o.LineWidth / 2
	for _, s := range p {
		strokePolyline(z, s, half)
	}

	dst := image.NewAlpha(image.Rect(0, 0, o.Width, o.Height))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}

// strokePolyline adds filled quads covering each segment of s. A
// single-point stroke becomes a small square dot.
func strokePolyline(z *vector.Rasterizer, s parseset.Stroke, half float64) {
	if len(s) == 1 {
		p := s[0]
		quad(z,
			parseset.Pt(p.X-half, p.Y-half),
			parseset.Pt(p.X+half, p.Y-half),
			parseset.Pt(p.X+half, p.Y+half),
			parseset.Pt(p.X-half, p.Y+half))
		return
	}
	for i := 1; i < len(s); i++ {
		a, b := s[i-1], s[i]
		dir := b.Sub(a).Normalize()
		if dir == (parseset.Point{}) {
			// Zero-length segment; nothing to cover.
			continue
		}
		n := parseset.Pt(-dir.Y, dir.X).Mul(half)
		quad(z, a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
	}
}

func quad(z *vector.Rasterizer, p0, p1, p2, p3 parseset.Point) {
	z.MoveTo(float32(p0.X), float32(p0.Y))
	z.LineTo(float32(p1.X), float32(p1.Y))
	z.LineTo(float32(p2.X), float32(p2.Y))
	z.LineTo(float32(p3.X), float32(p3.Y))
	z.ClosePath()
}

// WritePNG encodes img as PNG to w.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
