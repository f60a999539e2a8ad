// Package raster turns rendered glyph coverage into premultiplied ARGB frames.
//
// Every buffer handled here is a top-down 32-bit bitmap with a stride of
// width×4 bytes. Three of the four byte lanes hold colour and the fourth holds
// alpha; which lane holds which colour depends on the surface and is found at
// runtime with DetectChannelOrder.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Limits on a single surface. The overlay is a banner, not a screen.
const (
	MaxDimension = 16384
	MaxPixels    = 1 << 26
)

// ErrSurfaceSize is returned for surfaces with an empty, negative or
// oversized extent.
var ErrSurfaceSize = errors.New("raster: invalid surface size")

// CheckSize reports whether a w×h surface may be allocated.
func CheckSize(w, h int) error {
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension || w*h > MaxPixels {
		return fmt.Errorf("%w: %dx%d", ErrSurfaceSize, w, h)
	}
	return nil
}

// Surface is a writable 32bpp pixel buffer.
type Surface interface {
	// Size returns the width and height in pixels.
	Size() (w, h int)
	// Pix returns the pixel bytes, top-down, 4 bytes per pixel.
	Pix() []byte
	// SetPixelRGB writes one pixel through the surface's own colour primitive.
	SetPixelRGB(x, y int, r, g, b uint8)
}

// ChannelOrder gives the byte lane of each channel within a pixel.
type ChannelOrder struct {
	R, G, B, A int
}

var (
	// BGRA is the conventional layout of a 32bpp device-independent bitmap.
	BGRA = ChannelOrder{R: 2, G: 1, B: 0, A: 3}
	// RGBA is the layout of image.RGBA.
	RGBA = ChannelOrder{R: 0, G: 1, B: 2, A: 3}
)

// DetectChannelOrder draws a pure red pixel at the origin and inspects the
// first three bytes to find the red lane. When no lane reads exactly 255 it
// returns BGRA and false. The test pixel is reset to black before returning.
func DetectChannelOrder(s Surface) (ChannelOrder, bool) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return BGRA, false
	}

	s.SetPixelRGB(0, 0, 255, 0, 0)
	p := s.Pix()
	order, ok := BGRA, false
	if len(p) >= 3 {
		switch {
		case p[0] == 255:
			order, ok = ChannelOrder{R: 0, G: 1, B: 2, A: 3}, true
		case p[1] == 255:
			order, ok = ChannelOrder{R: 1, G: 0, B: 2, A: 3}, true
		case p[2] == 255:
			order, ok = ChannelOrder{R: 2, G: 1, B: 0, A: 3}, true
		}
	}
	s.SetPixelRGB(0, 0, 0, 0, 0)
	return order, ok
}

// MemSurface is an in-memory Surface with a fixed channel order.
type MemSurface struct {
	w, h  int
	pix   []byte
	order ChannelOrder
}

// NewMemSurface allocates a zeroed w×h surface whose SetPixelRGB writes
// colours in the given order. Sizes rejected by CheckSize fail.
func NewMemSurface(w, h int, order ChannelOrder) (*MemSurface, error) {
	if err := CheckSize(w, h); err != nil {
		return nil, err
	}
	return newMemSurface(w, h, order), nil
}

func newMemSurface(w, h int, order ChannelOrder) *MemSurface {
	return &MemSurface{w: w, h: h, pix: make([]byte, max(w, 0)*max(h, 0)*4), order: order}
}

// Size implements Surface.
func (m *MemSurface) Size() (int, int) { return m.w, m.h }

// Pix implements Surface.
func (m *MemSurface) Pix() []byte { return m.pix }

// SetPixelRGB implements Surface.
func (m *MemSurface) SetPixelRGB(x, y int, r, g, b uint8) {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return
	}
	o := (y*m.w + x) * 4
	m.pix[o+m.order.R] = r
	m.pix[o+m.order.G] = g
	m.pix[o+m.order.B] = b
}

// Clear zeroes every byte.
func (m *MemSurface) Clear() {
	clear(m.pix)
}

// Coverage returns the coverage of pixel (x, y), the maximum of its three
// colour lanes.
func Coverage(s Surface, x, y int) uint8 {
	w, h := s.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return 0
	}
	o := (y*w + x) * 4
	return uint8(maxLane(s.Pix()[o : o+4]))
}

// ToRGBA copies a premultiplied frame laid out in order into an image.RGBA.
func ToRGBA(s Surface, order ChannelOrder) *image.RGBA {
	w, h := s.Size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	src := s.Pix()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := (y*w + x) * 4
			img.SetRGBA(x, y, color.RGBA{
				R: src[o+order.R],
				G: src[o+order.G],
				B: src[o+order.B],
				A: src[o+order.A],
			})
		}
	}
	return img
}

func maxLane(p []byte) uint32 {
	m := p[0]
	if p[1] > m {
		m = p[1]
	}
	if p[2] > m {
		m = p[2]
	}
	return uint32(m)
}
