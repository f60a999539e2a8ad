package raster

import (
	"errors"

	"github.com/NaveLIL/lyrics-overlay/style"
)

// ErrSizeMismatch is returned when the buffers passed to Compose differ in size.
var ErrSizeMismatch = errors.New("raster: surface size mismatch")

// Paint holds the colours and global opacity applied to coverage masks.
type Paint struct {
	Fill    style.Color
	Stroke  style.Color
	Opacity uint8
}

// mul255 computes a*b/255 with rounding.
func mul255(a, b uint32) uint32 {
	return (a*b + 127) / 255
}

// Compose writes the premultiplied frame for fill and stroke coverage into
// dst, placing colour in the lanes given by order. Fill is composited over
// stroke; stroke may be nil. dst may be the same surface as fill.
func Compose(dst Surface, order ChannelOrder, fill, stroke Surface, p Paint) error {
	w, h := dst.Size()
	if fw, fh := fill.Size(); fw != w || fh != h {
		return ErrSizeMismatch
	}
	var sp []byte
	if stroke != nil {
		if sw, sh := stroke.Size(); sw != w || sh != h {
			return ErrSizeMismatch
		}
		sp = stroke.Pix()
	}

	out := dst.Pix()
	fp := fill.Pix()
	op := uint32(p.Opacity)
	fr, fg, fb := uint32(p.Fill.R), uint32(p.Fill.G), uint32(p.Fill.B)
	sr, sg, sb := uint32(p.Stroke.R), uint32(p.Stroke.G), uint32(p.Stroke.B)

	for i, n := 0, w*h; i < n; i++ {
		o := i * 4
		fa := mul255(maxLane(fp[o:o+4]), op)
		var sa uint32
		if sp != nil {
			sa = mul255(maxLane(sp[o:o+4]), op)
		}

		if fa == 0 && sa == 0 {
			out[o], out[o+1], out[o+2], out[o+3] = 0, 0, 0, 0
			continue
		}

		inv := 255 - fa
		r := mul255(fr, fa) + mul255(mul255(sr, sa), inv)
		g := mul255(fg, fa) + mul255(mul255(sg, sa), inv)
		b := mul255(fb, fa) + mul255(mul255(sb, sa), inv)
		a := fa + mul255(sa, inv)

		out[o+order.R] = uint8(r)
		out[o+order.G] = uint8(g)
		out[o+order.B] = uint8(b)
		out[o+order.A] = uint8(a)
	}
	return nil
}
