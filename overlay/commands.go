package overlay

import (
	"errors"
	"image"

	"golang.org/x/text/unicode/norm"

	"github.com/NaveLIL/lyrics-overlay/layout"
	"github.com/NaveLIL/lyrics-overlay/style"
)

// ErrInvalidWidth is returned by SetWidth for non-positive widths.
var ErrInvalidWidth = errors.New("width must be positive")

// SetText replaces the displayed text.
func (o *Overlay) SetText(text string) error {
	text = norm.NFC.String(text)
	return o.update(layout.ChangeText, func(s *style.State) {
		s.Text = text
	})
}

// SetFontFamily changes the font family. An empty name selects the default.
func (o *Overlay) SetFontFamily(family string) error {
	return o.update(layout.ChangeFont, func(s *style.State) {
		s.SetFontFamily(family)
	})
}

// SetFontSize changes the font size in points. Zero selects the default size.
func (o *Overlay) SetFontSize(pt int) error {
	return o.update(layout.ChangeFont, func(s *style.State) {
		s.SetFontSize(pt)
	})
}

// SetFontWeight sets an explicit weight, clamped to 100..900.
func (o *Overlay) SetFontWeight(w int) error {
	return o.update(layout.ChangeFont, func(s *style.State) {
		s.SetFontWeight(w)
	})
}

// SetBold toggles bold.
func (o *Overlay) SetBold(on bool) error {
	return o.update(layout.ChangeFont, func(s *style.State) {
		s.SetBold(on)
	})
}

// SetTextColor sets the glyph fill colour.
func (o *Overlay) SetTextColor(c style.Color) error {
	return o.update(layout.ChangePaint, func(s *style.State) {
		s.TextColor = c
	})
}

// SetStroke sets the outline width (clamped to 0..20) and colour.
func (o *Overlay) SetStroke(width int, c style.Color) error {
	return o.update(layout.ChangePaint, func(s *style.State) {
		s.SetStroke(width, c)
	})
}

// SetTextAlign sets the horizontal alignment.
func (o *Overlay) SetTextAlign(a style.Align) error {
	return o.update(layout.ChangeAlign, func(s *style.State) {
		s.Align = a
	})
}

// SetTextOpacity sets the glyph opacity, clamped to 0..255.
func (o *Overlay) SetTextOpacity(alpha int) error {
	return o.update(layout.ChangePaint, func(s *style.State) {
		s.SetTextOpacity(alpha)
	})
}

// SetOverlayOpacity sets the backdrop alpha, clamped to 0..255. While
// click-through is on the value is stored and applied when it is turned off.
func (o *Overlay) SetOverlayOpacity(alpha int) error {
	return o.update(layout.ChangeBackdrop, func(s *style.State) {
		s.SetBackdropAlpha(alpha)
	})
}

// SetBackdropColor sets the backdrop fill colour.
func (o *Overlay) SetBackdropColor(c style.Color) error {
	return o.update(layout.ChangeBackdrop, func(s *style.State) {
		s.BackdropColor = c
	})
}

// SetPosition moves both surfaces.
func (o *Overlay) SetPosition(x, y int) error {
	return o.update(layout.ChangePosition, func(s *style.State) {
		s.Position = image.Pt(x, y)
	})
}

// SetWidth sets the surface width.
func (o *Overlay) SetWidth(w int) error {
	if w <= 0 {
		return ErrInvalidWidth
	}
	return o.update(layout.ChangeWidth, func(s *style.State) {
		s.SetWidth(w)
	})
}

// SetPadding sets the inner margin, clamped to 0..style.MaxPadding.
func (o *Overlay) SetPadding(p int) error {
	return o.update(layout.ChangePadding, func(s *style.State) {
		s.SetPadding(p)
	})
}

// SetLines sets the number of text lines, clamped to 1..10.
func (o *Overlay) SetLines(n int) error {
	return o.update(layout.ChangeLines, func(s *style.State) {
		s.SetLines(n)
	})
}

// SetClickThrough toggles input transparency on both surfaces. Enabling it
// hides the backdrop; disabling restores the configured backdrop alpha.
func (o *Overlay) SetClickThrough(on bool) error {
	return o.update(layout.ChangeInput, func(s *style.State) {
		s.ClickThrough = on
	})
}
