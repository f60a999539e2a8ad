package fonts

import (
	"errors"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/NaveLIL/lyrics-overlay/layout"
	"github.com/NaveLIL/lyrics-overlay/raster"
	"github.com/NaveLIL/lyrics-overlay/style"
)

// ErrForeignFace is returned when a canvas is asked to draw with a face
// opened by another backend.
var ErrForeignFace = errors.New("fonts: face not opened by this backend")

// Canvas is an in-memory BGRA canvas. It implements raster.Canvas.
type Canvas struct {
	*raster.MemSurface
	mask *image.Alpha
}

// NewCanvas allocates a black w×h canvas. Sizes rejected by
// raster.CheckSize fail.
func NewCanvas(w, h int) (*Canvas, error) {
	m, err := raster.NewMemSurface(w, h, raster.BGRA)
	if err != nil {
		return nil, err
	}
	return &Canvas{MemSurface: m, mask: image.NewAlpha(image.Rect(0, 0, w, h))}, nil
}

// Clear implements raster.Canvas.
func (c *Canvas) Clear() {
	c.MemSurface.Clear()
	clear(c.mask.Pix)
}

// Release implements raster.Canvas. Memory canvases hold no native resources.
func (c *Canvas) Release() {}

// DrawText implements raster.Canvas.
func (c *Canvas) DrawText(face raster.Face, text string, r image.Rectangle, align style.Align, mode layout.LineMode) error {
	f, ok := face.(*Face)
	if !ok {
		return ErrForeignFace
	}
	r = r.Intersect(c.mask.Rect)
	if r.Empty() {
		return nil
	}

	var (
		lines    []string
		baseline int
	)
	if mode == layout.SingleLine {
		lines = []string{f.fit(singleLine(text), r.Dx())}
		baseline = r.Min.Y + (r.Dy()-(f.ascent+f.descent))/2 + f.ascent
	} else {
		lines = f.wrap(text, r.Dx(), r.Dy()/f.lineHeight)
		baseline = r.Min.Y + f.ascent
	}

	clip := c.mask.SubImage(r).(*image.Alpha)
	d := font.Drawer{Dst: clip, Src: image.Opaque, Face: f.Face}
	for i, line := range lines {
		if line == "" {
			continue
		}
		w := d.MeasureString(line).Ceil()
		x := r.Min.X
		switch align {
		case style.AlignCenter:
			x += (r.Dx() - w) / 2
		case style.AlignRight:
			x = r.Max.X - w
		}
		d.Dot = fixed.P(x, baseline+i*f.lineHeight)
		d.DrawString(line)
	}

	c.flush(r)
	return nil
}

// flush copies mask coverage into the colour lanes as white.
func (c *Canvas) flush(r image.Rectangle) {
	w, _ := c.Size()
	pix := c.Pix()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v := c.mask.Pix[c.mask.PixOffset(x, y)]
			if v == 0 {
				continue
			}
			o := (y*w + x) * 4
			for lane := 0; lane < 3; lane++ {
				if v > pix[o+lane] {
					pix[o+lane] = v
				}
			}
		}
	}
}
