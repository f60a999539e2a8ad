package raster

import (
	"errors"
	"fmt"
	"image"

	"github.com/NaveLIL/lyrics-overlay/layout"
	"github.com/NaveLIL/lyrics-overlay/style"
)

// ErrNoFace is returned when rendering is attempted without an open face.
var ErrNoFace = errors.New("raster: no font face")

// Face is an opened font at a fixed size and weight.
type Face interface {
	// LineHeight returns the pixel distance between baselines of
	// consecutive lines, including external leading.
	LineHeight() int
	Close() error
}

// Canvas is an offscreen surface a backend can draw text into.
type Canvas interface {
	Surface
	// Clear fills the canvas with black.
	Clear()
	// DrawText draws text in white inside r. In SingleLine mode the text
	// is vertically centred and truncated with an ellipsis; in MultiLine
	// mode it word-wraps from the top and the last visible line ends with
	// an ellipsis when the text does not fit.
	DrawText(face Face, text string, r image.Rectangle, align style.Align, mode layout.LineMode) error
	// Release frees any native resources.
	Release()
}

// Backend opens fonts and allocates canvases.
type Backend interface {
	OpenFace(spec style.FontSpec) (Face, error)
	NewCanvas(w, h int) (Canvas, error)
}

// Job describes one text frame.
type Job struct {
	Face        Face
	Text        string
	Rect        image.Rectangle
	Align       style.Align
	Mode        layout.LineMode
	StrokeWidth int
	Paint       Paint
}

// Frame is a composed premultiplied frame. Release it when done.
type Frame struct {
	Canvas
	Order ChannelOrder
	// Detected is false when channel detection was inconclusive and
	// BGRA was assumed.
	Detected bool
}

// RenderMasks draws job.Text into c as a white-on-black fill mask and
// returns the stroke mask derived from it, or nil when job has no stroke.
func RenderMasks(c Canvas, job Job) (Surface, error) {
	if job.Face == nil {
		return nil, ErrNoFace
	}
	c.Clear()
	if err := c.DrawText(job.Face, job.Text, job.Rect, job.Align, job.Mode); err != nil {
		return nil, fmt.Errorf("draw text: %w", err)
	}
	if job.StrokeWidth <= 0 {
		return nil, nil
	}
	return Dilate(c, job.StrokeWidth), nil
}

// Render allocates a w×h canvas, renders the masks for job and composes
// them into a premultiplied frame in place.
func Render(b Backend, w, h int, job Job) (*Frame, error) {
	if job.Face == nil {
		return nil, ErrNoFace
	}
	if err := CheckSize(w, h); err != nil {
		return nil, err
	}
	c, err := b.NewCanvas(w, h)
	if err != nil {
		return nil, fmt.Errorf("allocate canvas: %w", err)
	}

	order, ok := DetectChannelOrder(c)
	stroke, err := RenderMasks(c, job)
	if err != nil {
		c.Release()
		return nil, err
	}
	if err := Compose(c, order, c, stroke, job.Paint); err != nil {
		c.Release()
		return nil, err
	}
	return &Frame{Canvas: c, Order: order, Detected: ok}, nil
}
