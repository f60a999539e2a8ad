// Package headless implements overlay.Platform without a display. Surfaces
// are tracked in memory and the latest text frame can be written out as a
// PNG for inspection.
package headless

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/NaveLIL/lyrics-overlay/logger"
	"github.com/NaveLIL/lyrics-overlay/overlay"
	"github.com/NaveLIL/lyrics-overlay/raster"
	"github.com/NaveLIL/lyrics-overlay/style"
)

// ErrInvalidHandle is returned for handles this platform did not create.
var ErrInvalidHandle = errors.New("invalid surface handle")

// Options configures the headless platform.
type Options struct {
	// DumpDir, when set, receives text.png after every frame update.
	DumpDir string
}

// Surface is the recorded state of one surface.
type Surface struct {
	Handle           overlay.Handle
	Role             overlay.Role
	ExStyle          overlay.ExStyle
	Bounds           image.Rectangle
	Visible          bool
	InputTransparent bool
	Fill             style.Color
	Alpha            uint8
	Frame            *image.RGBA
	Updates          int
}

// Platform keeps surfaces in memory.
type Platform struct {
	opts Options
	log  *logrus.Entry

	mu       sync.Mutex
	next     overlay.Handle
	surfaces map[overlay.Handle]*Surface
	stack    []overlay.Handle // bottom to top
	sink     overlay.EventSink
}

// New creates a headless platform.
func New(opts Options) *Platform {
	return &Platform{
		opts:     opts,
		log:      logger.Get().Component("headless"),
		surfaces: make(map[overlay.Handle]*Surface),
	}
}

func (p *Platform) get(h overlay.Handle) (*Surface, error) {
	s, ok := p.surfaces[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return s, nil
}

// CreateSurface implements overlay.Platform.
func (p *Platform) CreateSurface(role overlay.Role, ex overlay.ExStyle, bounds image.Rectangle) (overlay.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	p.surfaces[p.next] = &Surface{Handle: p.next, Role: role, ExStyle: ex, Bounds: bounds}
	p.stack = append(p.stack, p.next)
	p.log.WithFields(logrus.Fields{"role": role, "handle": p.next}).Debug("Surface created")
	return p.next, nil
}

// DestroySurface implements overlay.Platform.
func (p *Platform) DestroySurface(h overlay.Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.get(h); err != nil {
		return err
	}
	delete(p.surfaces, h)
	p.unstack(h)
	return nil
}

func (p *Platform) unstack(h overlay.Handle) {
	if i := slices.Index(p.stack, h); i >= 0 {
		p.stack = slices.Delete(p.stack, i, i+1)
	}
}

func (p *Platform) raise(h overlay.Handle) {
	p.unstack(h)
	p.stack = append(p.stack, h)
}

// ShowSurface implements overlay.Platform.
func (p *Platform) ShowSurface(h overlay.Handle, show bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, err := p.get(h)
	if err != nil {
		return err
	}
	s.Visible = show
	return nil
}

// SetBounds implements overlay.Platform.
func (p *Platform) SetBounds(h overlay.Handle, bounds image.Rectangle, z overlay.ZOrder) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, err := p.get(h)
	if err != nil {
		return err
	}
	switch {
	case z.Below != 0:
		if _, err := p.get(z.Below); err != nil {
			return err
		}
		p.unstack(h)
		p.stack = slices.Insert(p.stack, slices.Index(p.stack, z.Below), h)
	case z.Raise:
		p.raise(h)
	}
	s.Bounds = bounds
	return nil
}

// SetInputTransparent implements overlay.Platform.
func (p *Platform) SetInputTransparent(h overlay.Handle, on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, err := p.get(h)
	if err != nil {
		return err
	}
	s.InputTransparent = on
	return nil
}

// SetBackdrop implements overlay.Platform.
func (p *Platform) SetBackdrop(h overlay.Handle, fill style.Color, alpha uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, err := p.get(h)
	if err != nil {
		return err
	}
	s.Fill, s.Alpha = fill, alpha
	return nil
}

// UpdateSurface implements overlay.Platform.
func (p *Platform) UpdateSurface(h overlay.Handle, bounds image.Rectangle, frame *raster.Frame) error {
	img := raster.ToRGBA(frame, frame.Order)

	p.mu.Lock()
	s, err := p.get(h)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	s.Bounds = bounds
	s.Frame = img
	s.Updates++
	p.mu.Unlock()

	if p.opts.DumpDir == "" {
		return nil
	}
	return p.dump(img)
}

func (p *Platform) dump(img image.Image) error {
	if err := os.MkdirAll(p.opts.DumpDir, 0755); err != nil {
		return fmt.Errorf("create dump dir: %w", err)
	}
	path := filepath.Join(p.opts.DumpDir, "text.png")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame dump: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode frame dump: %w", err)
	}
	return f.Close()
}

// SetEventSink implements overlay.Platform.
func (p *Platform) SetEventSink(sink overlay.EventSink) {
	p.mu.Lock()
	p.sink = sink
	p.mu.Unlock()
}

// Surface returns a copy of the recorded state of h.
func (p *Platform) Surface(h overlay.Handle) (Surface, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.surfaces[h]
	if !ok {
		return Surface{}, false
	}
	return *s, true
}

// ByRole returns the live surface with the given role.
func (p *Platform) ByRole(role overlay.Role) (Surface, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.surfaces {
		if s.Role == role {
			return *s, true
		}
	}
	return Surface{}, false
}

// Len returns the number of live surfaces.
func (p *Platform) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.surfaces)
}

// Drag simulates the user dragging h to pos. It reports false when the
// sink refused to start the gesture. Like any sink callback it must run on
// the UI loop.
func (p *Platform) Drag(h overlay.Handle, pos image.Point) bool {
	p.mu.Lock()
	sink := p.sink
	s, ok := p.surfaces[h]
	p.mu.Unlock()
	if !ok || sink == nil || !sink.BeginDrag(h) {
		return false
	}

	// The move gesture brings the dragged surface to the top.
	p.mu.Lock()
	p.raise(h)
	s.Bounds = s.Bounds.Add(pos.Sub(s.Bounds.Min))
	p.mu.Unlock()
	sink.Moved(h, pos)
	return true
}

// Stack returns the live handles from bottom to top.
func (p *Platform) Stack() []overlay.Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.stack)
}
