// Package style holds the mutable overlay style: font, colours, opacity,
// geometry and interaction mode.
//
// A State is owned by a single goroutine (the UI loop). Setters enforce the
// value ranges; the surface height is derived from font metrics through
// Relayout and cannot be set directly.
package style

import (
	"image"

	"github.com/NaveLIL/lyrics-overlay/layout"
)

// Align is the horizontal text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns the alignment name.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Value ranges.
const (
	MinWeight      = 100
	MaxWeight      = 900
	BoldWeight     = 700
	NormalWeight   = 400
	MaxStrokeWidth = 20
	MaxWidth       = 8192
	MaxPadding     = 256
	MaxFontSize    = 200
)

// Defaults used by New.
const (
	DefaultX             = 100
	DefaultY             = 100
	DefaultWidth         = 600
	DefaultHeight        = 64
	DefaultPadding       = 8
	DefaultBackdropAlpha = 230
	DefaultFontFamily    = "Segoe UI"
	DefaultFontSize      = 14
)

// FontSpec identifies a font handle. Two equal specs produce the same face.
type FontSpec struct {
	Family string
	SizePt int
	Weight int
}

// State is the complete overlay style.
type State struct {
	Position image.Point
	Padding  int
	Align    Align
	Text     string

	TextColor     Color
	StrokeColor   Color
	BackdropColor Color
	ClickThrough  bool

	width         int
	height        int
	lines         int
	backdropAlpha uint8
	textOpacity   uint8
	fontFamily    string
	fontSize      int
	weight        int // 0 when unset
	bold          bool
	strokeWidth   int
}

// New returns a State with the default style.
func New() *State {
	return &State{
		Position:      image.Pt(DefaultX, DefaultY),
		Padding:       DefaultPadding,
		Align:         AlignLeft,
		TextColor:     White,
		StrokeColor:   Black,
		BackdropColor: Black,
		width:         DefaultWidth,
		height:        DefaultHeight,
		lines:         1,
		backdropAlpha: DefaultBackdropAlpha,
		textOpacity:   255,
		fontFamily:    DefaultFontFamily,
		fontSize:      DefaultFontSize,
	}
}

// Clone returns a copy of s.
func (s *State) Clone() *State {
	c := *s
	return &c
}

// Width returns the explicit surface width.
func (s *State) Width() int { return s.width }

// Height returns the derived surface height.
func (s *State) Height() int { return s.height }

// Size returns the surface size.
func (s *State) Size() image.Point { return image.Pt(s.width, s.height) }

// Bounds returns the screen rectangle shared by both surfaces.
func (s *State) Bounds() image.Rectangle {
	return image.Rectangle{Min: s.Position, Max: s.Position.Add(s.Size())}
}

// SetWidth sets the surface width, clamped to MaxWidth. Non-positive
// values are ignored and reported as false.
func (s *State) SetWidth(w int) bool {
	if w <= 0 {
		return false
	}
	s.width = min(w, MaxWidth)
	return true
}

// SetPadding sets the inner margin, clamped to 0..MaxPadding.
func (s *State) SetPadding(p int) {
	s.Padding = clamp(p, 0, MaxPadding)
}

// Lines returns the number of text lines.
func (s *State) Lines() int { return s.lines }

// SetLines sets the line count, clamped to 1..layout.MaxLines.
func (s *State) SetLines(n int) {
	s.lines = clamp(n, 1, layout.MaxLines)
}

// LineMode returns the text placement mode for the current line count.
func (s *State) LineMode() layout.LineMode {
	return layout.ModeFor(s.lines)
}

// Relayout recomputes the derived height from the font line height and
// reports whether it changed.
func (s *State) Relayout(lineHeight int) bool {
	h := layout.Height(s.Padding, lineHeight, s.lines)
	if h == s.height {
		return false
	}
	s.height = h
	return true
}

// BackdropAlpha returns the configured backdrop alpha.
func (s *State) BackdropAlpha() uint8 { return s.backdropAlpha }

// SetBackdropAlpha sets the backdrop alpha, clamped to 0..255.
func (s *State) SetBackdropAlpha(a int) {
	s.backdropAlpha = uint8(clamp(a, 0, 255))
}

// EffectiveBackdropAlpha is the alpha to apply to the backdrop surface:
// zero while click-through is enabled, the configured value otherwise.
func (s *State) EffectiveBackdropAlpha() uint8 {
	if s.ClickThrough {
		return 0
	}
	return s.backdropAlpha
}

// TextOpacity returns the global glyph opacity.
func (s *State) TextOpacity() uint8 { return s.textOpacity }

// SetTextOpacity sets the glyph opacity, clamped to 0..255.
func (s *State) SetTextOpacity(a int) {
	s.textOpacity = uint8(clamp(a, 0, 255))
}

// FontFamily returns the font family name.
func (s *State) FontFamily() string { return s.fontFamily }

// SetFontFamily sets the family. An empty name selects the default family.
func (s *State) SetFontFamily(family string) {
	if family == "" {
		family = DefaultFontFamily
	}
	s.fontFamily = family
}

// FontSize returns the font size in points.
func (s *State) FontSize() int { return s.fontSize }

// SetFontSize sets the size in points, clamped to 0..MaxFontSize. Zero
// selects the backend's default size.
func (s *State) SetFontSize(pt int) {
	s.fontSize = clamp(pt, 0, MaxFontSize)
}

// Weight returns the effective font weight.
func (s *State) Weight() int {
	switch {
	case s.weight != 0:
		return s.weight
	case s.bold:
		return BoldWeight
	default:
		return NormalWeight
	}
}

// Bold reports whether the effective weight is bold.
func (s *State) Bold() bool {
	return s.Weight() >= BoldWeight
}

// SetFontWeight sets an explicit weight, clamped to 100..900.
func (s *State) SetFontWeight(w int) {
	s.weight = clamp(w, MinWeight, MaxWeight)
	s.bold = s.weight >= BoldWeight
}

// SetBold toggles bold. Enabling bold with no explicit weight yields weight
// 700; disabling it drops an explicit bold weight back to normal.
func (s *State) SetBold(on bool) {
	s.bold = on
	if on {
		if s.weight == 0 {
			s.weight = BoldWeight
		}
		return
	}
	if s.weight >= BoldWeight {
		s.weight = 0
	}
}

// Font returns the spec of the font handle this state needs.
func (s *State) Font() FontSpec {
	return FontSpec{Family: s.fontFamily, SizePt: s.fontSize, Weight: s.Weight()}
}

// StrokeWidth returns the outline width in pixels, 0 when disabled.
func (s *State) StrokeWidth() int { return s.strokeWidth }

// SetStroke sets the outline width (clamped to 0..20) and colour.
func (s *State) SetStroke(width int, c Color) {
	s.strokeWidth = clamp(width, 0, MaxStrokeWidth)
	s.StrokeColor = c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
