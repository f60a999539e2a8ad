package overlay

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/NaveLIL/lyrics-overlay/layout"
	"github.com/NaveLIL/lyrics-overlay/raster"
	"github.com/NaveLIL/lyrics-overlay/style"
)

type fakeSurface struct {
	role        Role
	ex          ExStyle
	bounds      image.Rectangle
	shown       bool
	transparent bool
	fill        style.Color
	alpha       uint8
	frame       []byte
	order       raster.ChannelOrder
	updates     int
	moves       int
}

// fakePlatform records every call and can inject creation failures and
// echo programmatic moves back to the sink like a real window manager.
type fakePlatform struct {
	next     Handle
	surfaces map[Handle]*fakeSurface
	attempts map[Role][]ExStyle
	// failFirst is the number of ladder steps that fail per role.
	failFirst map[Role]int
	echo      bool
	ops       []string
	sink      EventSink
	// stack lists live handles from bottom to top.
	stack []Handle
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		surfaces:  make(map[Handle]*fakeSurface),
		attempts:  make(map[Role][]ExStyle),
		failFirst: make(map[Role]int),
	}
}

func (p *fakePlatform) record(format string, args ...any) {
	p.ops = append(p.ops, fmt.Sprintf(format, args...))
}

func (p *fakePlatform) CreateSurface(role Role, ex ExStyle, bounds image.Rectangle) (Handle, error) {
	p.attempts[role] = append(p.attempts[role], ex)
	if len(p.attempts[role]) <= p.failFirst[role] {
		p.record("create-fail %s", role)
		return 0, errors.New("access denied")
	}
	p.next++
	p.surfaces[p.next] = &fakeSurface{role: role, ex: ex, bounds: bounds}
	p.stack = append(p.stack, p.next)
	p.record("create %s", role)
	return p.next, nil
}

func (p *fakePlatform) DestroySurface(h Handle) error {
	s, ok := p.surfaces[h]
	if !ok {
		return errors.New("invalid handle")
	}
	p.record("destroy %s", s.role)
	delete(p.surfaces, h)
	p.unstack(h)
	return nil
}

func (p *fakePlatform) unstack(h Handle) {
	if i := p.level(h); i >= 0 {
		p.stack = slices.Delete(p.stack, i, i+1)
	}
}

// raise moves h to the top of the stack.
func (p *fakePlatform) raise(h Handle) {
	p.unstack(h)
	p.stack = append(p.stack, h)
}

// level returns the stacking position of h, higher is nearer the top.
func (p *fakePlatform) level(h Handle) int {
	return slices.Index(p.stack, h)
}

func (p *fakePlatform) ShowSurface(h Handle, show bool) error {
	s, ok := p.surfaces[h]
	if !ok {
		return errors.New("invalid handle")
	}
	s.shown = show
	if show {
		p.record("show %s", s.role)
	} else {
		p.record("hide %s", s.role)
	}
	return nil
}

func (p *fakePlatform) SetBounds(h Handle, bounds image.Rectangle, z ZOrder) error {
	s, ok := p.surfaces[h]
	if !ok {
		return errors.New("invalid handle")
	}
	switch {
	case z.Below != 0:
		if _, ok := p.surfaces[z.Below]; !ok {
			return errors.New("invalid insert-after handle")
		}
		p.unstack(h)
		p.stack = slices.Insert(p.stack, p.level(z.Below), h)
	case z.Raise:
		p.raise(h)
	}
	s.bounds = bounds
	s.moves++
	p.record("bounds %s", s.role)
	if p.echo && p.sink != nil {
		p.sink.Moved(h, bounds.Min)
	}
	return nil
}

func (p *fakePlatform) SetInputTransparent(h Handle, on bool) error {
	s, ok := p.surfaces[h]
	if !ok {
		return errors.New("invalid handle")
	}
	s.transparent = on
	p.record("input %s %v", s.role, on)
	return nil
}

func (p *fakePlatform) SetBackdrop(h Handle, fill style.Color, alpha uint8) error {
	s, ok := p.surfaces[h]
	if !ok {
		return errors.New("invalid handle")
	}
	s.fill, s.alpha = fill, alpha
	p.record("backdrop %d", alpha)
	return nil
}

func (p *fakePlatform) UpdateSurface(h Handle, bounds image.Rectangle, frame *raster.Frame) error {
	s, ok := p.surfaces[h]
	if !ok {
		return errors.New("invalid handle")
	}
	s.frame = append([]byte(nil), frame.Pix()...)
	s.order = frame.Order
	s.bounds = bounds
	s.updates++
	p.record("update %s", s.role)
	return nil
}

func (p *fakePlatform) SetEventSink(sink EventSink) { p.sink = sink }

// drag simulates the user moving surface h to pos. Like the native move
// gesture it brings h to the top first.
func (p *fakePlatform) drag(h Handle, pos image.Point) {
	p.raise(h)
	s := p.surfaces[h]
	s.bounds = s.bounds.Add(pos.Sub(s.bounds.Min))
	p.sink.Moved(h, pos)
}

func (p *fakePlatform) byRole(role Role) (Handle, *fakeSurface) {
	for h, s := range p.surfaces {
		if s.role == role {
			return h, s
		}
	}
	return 0, nil
}

func (p *fakePlatform) index(op string) int {
	for i, o := range p.ops {
		if o == op {
			return i
		}
	}
	return -1
}

// stubBackend has a line height of size+4 and draws each text as a solid
// block of full coverage over the text rectangle.
type stubBackend struct {
	failFamily string
	opened     int
	closed     int
	// failCanvas makes NewCanvas fail; panicCanvas makes it panic.
	failCanvas  bool
	panicCanvas bool
}

type stubFace struct {
	b  *stubBackend
	lh int
}

func (f *stubFace) LineHeight() int { return f.lh }
func (f *stubFace) Close() error {
	f.b.closed++
	return nil
}

type stubCanvas struct {
	*raster.MemSurface
}

func (c stubCanvas) Clear() { c.MemSurface.Clear() }
func (c stubCanvas) Release() {}

func (c stubCanvas) DrawText(_ raster.Face, text string, r image.Rectangle, _ style.Align, _ layout.LineMode) error {
	if text == "" {
		return nil
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.SetPixelRGB(x, y, 255, 255, 255)
		}
	}
	return nil
}

func (b *stubBackend) OpenFace(spec style.FontSpec) (raster.Face, error) {
	if spec.Family == b.failFamily && b.failFamily != "" {
		return nil, errors.New("no such font")
	}
	size := spec.SizePt
	if size == 0 {
		size = style.DefaultFontSize
	}
	b.opened++
	return &stubFace{b: b, lh: size + 4}, nil
}

func (b *stubBackend) NewCanvas(w, h int) (raster.Canvas, error) {
	if b.panicCanvas {
		panic(fmt.Sprintf("canvas %dx%d", w, h))
	}
	if b.failCanvas {
		return nil, errors.New("out of device contexts")
	}
	m, err := raster.NewMemSurface(w, h, raster.BGRA)
	if err != nil {
		return nil, err
	}
	return stubCanvas{m}, nil
}
