package overlay

import (
	"image"

	"github.com/NaveLIL/lyrics-overlay/raster"
	"github.com/NaveLIL/lyrics-overlay/style"
)

// Handle identifies a native surface.
type Handle uintptr

// Role distinguishes the two surfaces of the pair.
type Role int

const (
	// RoleBackdrop is the lower surface with the uniform translucent fill.
	RoleBackdrop Role = iota
	// RoleText is the upper per-pixel-alpha surface carrying the glyphs.
	RoleText
)

// String returns the role name.
func (r Role) String() string {
	if r == RoleText {
		return "text"
	}
	return "backdrop"
}

// ExStyle is a set of extended surface style flags.
type ExStyle uint32

const (
	ExLayered ExStyle = 1 << iota
	ExTopmost
	ExToolWindow
	ExNoActivate
)

// String lists the flags, e.g. "layered|topmost".
func (e ExStyle) String() string {
	names := []struct {
		bit  ExStyle
		name string
	}{
		{ExLayered, "layered"},
		{ExTopmost, "topmost"},
		{ExToolWindow, "toolwindow"},
		{ExNoActivate, "noactivate"},
	}
	s := ""
	for _, n := range names {
		if e&n.bit == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n.name
	}
	if s == "" {
		return "none"
	}
	return s
}

// CreationLadder lists the style combinations tried, in order, when a
// surface is created. Some sessions reject the stricter combinations.
var CreationLadder = []ExStyle{
	ExLayered | ExTopmost | ExToolWindow | ExNoActivate,
	ExLayered | ExTopmost | ExToolWindow,
	ExLayered | ExTopmost,
}

// SurfaceState is the lifecycle state of one surface.
type SurfaceState int

const (
	Unborn SurfaceState = iota
	Created
	Shown
	Hidden
	Destroyed
)

// String returns the state name.
func (s SurfaceState) String() string {
	switch s {
	case Created:
		return "created"
	case Shown:
		return "shown"
	case Hidden:
		return "hidden"
	case Destroyed:
		return "destroyed"
	default:
		return "unborn"
	}
}

// ZOrder is the stacking change applied by SetBounds. The zero value
// leaves the stacking order unchanged.
type ZOrder struct {
	// Below restacks the surface directly beneath this surface.
	Below Handle
	// Raise brings the surface to the top of the topmost band.
	Raise bool
}

// Platform is the native windowing layer. All methods are called on the UI
// loop thread.
type Platform interface {
	// CreateSurface creates a borderless popup surface with the given
	// extended style. It must not show the surface.
	CreateSurface(role Role, ex ExStyle, bounds image.Rectangle) (Handle, error)
	DestroySurface(h Handle) error
	ShowSurface(h Handle, show bool) error
	// SetBounds moves and resizes a surface without activating it and
	// applies the stacking change z. The resulting move may be reported
	// synchronously through the EventSink.
	SetBounds(h Handle, bounds image.Rectangle, z ZOrder) error
	SetInputTransparent(h Handle, on bool) error
	// SetBackdrop sets the fill colour and constant alpha of a backdrop surface.
	SetBackdrop(h Handle, fill style.Color, alpha uint8) error
	// UpdateSurface submits a premultiplied frame with per-pixel alpha.
	UpdateSurface(h Handle, bounds image.Rectangle, frame *raster.Frame) error
	// SetEventSink registers the receiver of input and move events.
	SetEventSink(sink EventSink)
}

// EventSink receives native events for the surfaces of a pair.
type EventSink interface {
	// BeginDrag reports whether a primary-button press on h should start
	// the native move gesture.
	BeginDrag(h Handle) bool
	// Moved reports the new top-left of h after a move.
	Moved(h Handle, pos image.Point)
}
