// Package layout derives overlay geometry from font metrics and decides what
// work a style change requires.
package layout

import "image"

// MaxLines is the largest number of text lines the overlay reserves room for.
const MaxLines = 10

// LineMode selects how text is placed inside the text rectangle.
type LineMode int

const (
	// SingleLine centres one line vertically and truncates it with an ellipsis.
	SingleLine LineMode = iota
	// MultiLine wraps words from the top and ellipsizes the last visible line.
	MultiLine
)

// String returns the mode name.
func (m LineMode) String() string {
	if m == MultiLine {
		return "multi"
	}
	return "single"
}

// ModeFor returns the line mode used for the given line count.
func ModeFor(lines int) LineMode {
	if lines <= 1 {
		return SingleLine
	}
	return MultiLine
}

// Height returns the surface height for the given padding, font line height
// and line count. A line count below one counts as one.
func Height(padding, lineHeight, lines int) int {
	if lines < 1 {
		lines = 1
	}
	if padding < 0 {
		padding = 0
	}
	if lineHeight < 0 {
		lineHeight = 0
	}
	return 2*padding + lineHeight*lines
}

// TextRect returns the area of a w×h surface that text may occupy.
func TextRect(w, h, padding int) image.Rectangle {
	if padding < 0 {
		padding = 0
	}
	r := image.Rect(padding, padding, w-padding, h-padding)
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return image.Rect(0, 0, w, h)
	}
	return r
}

// Change is a set of style attributes modified by one operation.
type Change uint32

const (
	ChangeText Change = 1 << iota
	ChangeFont
	ChangePadding
	ChangeLines
	ChangeWidth
	ChangePaint
	ChangeAlign
	ChangePosition
	ChangeBackdrop
	ChangeInput
)

// Has reports whether c contains all bits of other.
func (c Change) Has(other Change) bool {
	return c&other == other
}

// Actions is the work a Change requires.
type Actions struct {
	// ReopenFont means the font handle must be recreated.
	ReopenFont bool
	// Resize means the height must be recomputed and both surfaces resized.
	Resize bool
	// Move means both surfaces must be repositioned.
	Move bool
	// Recompose means the text surface needs a new frame.
	Recompose bool
	// Backdrop means the backdrop alpha must be reapplied.
	Backdrop bool
	// Input means input transparency must be reapplied.
	Input bool
}

// Plan maps a change set to the actions it needs.
func Plan(c Change) Actions {
	var a Actions
	if c.Has(ChangeFont) {
		a.ReopenFont = true
	}
	if c&(ChangeFont|ChangePadding|ChangeLines|ChangeWidth) != 0 {
		a.Resize = true
		a.Recompose = true
	}
	if c&(ChangeText|ChangePaint|ChangeAlign) != 0 {
		a.Recompose = true
	}
	if c.Has(ChangePosition) {
		a.Move = true
	}
	if c.Has(ChangeBackdrop) {
		a.Backdrop = true
	}
	if c.Has(ChangeInput) {
		a.Input = true
		a.Backdrop = true
	}
	return a
}
