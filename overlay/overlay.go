// Package overlay manages the backdrop/text surface pair and applies style
// changes to it.
//
// An Overlay is owned by the UI loop goroutine. Every method, and every
// EventSink callback from the Platform, must run on that goroutine; other
// goroutines go through Loop.Do.
package overlay

import (
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/NaveLIL/lyrics-overlay/layout"
	"github.com/NaveLIL/lyrics-overlay/logger"
	"github.com/NaveLIL/lyrics-overlay/raster"
	"github.com/NaveLIL/lyrics-overlay/style"
)

var (
	// ErrCreateFailed means no style on the creation ladder produced a
	// surface. Nothing is left partially created.
	ErrCreateFailed = errors.New("failed to create overlay window")
	// ErrNoWindowHandle means the operation needs a live window pair.
	ErrNoWindowHandle = errors.New("native window handle not available")
)

type surface struct {
	role   Role
	handle Handle
	state  SurfaceState
}

func (s *surface) alive() bool {
	return s.state == Created || s.state == Shown || s.state == Hidden
}

// Overlay is the window pair manager.
type Overlay struct {
	style    *style.State
	platform Platform
	backend  raster.Backend
	log      *logrus.Entry

	face     raster.Face
	faceSpec style.FontSpec
	backdrop surface
	text     surface

	// syncing is set while the follower surface is being repositioned.
	syncing        bool
	// redrawFailures counts consecutive failed redraws after style changes.
	redrawFailures int

	onMove func(image.Point)
}

// New creates an overlay for s. No surfaces exist until Create or Show.
// The font is opened immediately so the height is known.
func New(s *style.State, p Platform, b raster.Backend) (*Overlay, error) {
	o := &Overlay{
		style:    s,
		platform: p,
		backend:  b,
		log:      logger.Get().Component("overlay"),
		backdrop: surface{role: RoleBackdrop},
		text:     surface{role: RoleText},
	}
	if err := o.reopenFont(); err != nil {
		return nil, err
	}
	o.style.Relayout(o.face.LineHeight())
	p.SetEventSink(o)
	return o, nil
}

// Style returns the live style state. Callers must not mutate it.
func (o *Overlay) Style() *style.State { return o.style }

// OnMove registers a callback run after the pair is dragged to a new
// position.
func (o *Overlay) OnMove(fn func(image.Point)) { o.onMove = fn }

// Exists reports whether both surfaces are alive.
func (o *Overlay) Exists() bool {
	return o.backdrop.alive() && o.text.alive()
}

// Visible reports whether the pair is shown.
func (o *Overlay) Visible() bool {
	return o.Exists() && o.backdrop.state == Shown && o.text.state == Shown
}

// States returns the lifecycle state of the backdrop and text surfaces.
func (o *Overlay) States() (backdrop, text SurfaceState) {
	return o.backdrop.state, o.text.state
}

// Create creates and shows the pair. It is a no-op when the pair exists.
func (o *Overlay) Create() error {
	if o.Exists() {
		return nil
	}
	// A half-alive pair is rebuilt from scratch.
	o.Destroy()

	bounds := o.style.Bounds()
	o.log.WithFields(logrus.Fields{
		"x": bounds.Min.X, "y": bounds.Min.Y,
		"w": bounds.Dx(), "h": bounds.Dy(),
	}).Info("Creating overlay")

	if err := o.createSurface(&o.backdrop, bounds); err != nil {
		return err
	}
	if err := o.createSurface(&o.text, bounds); err != nil {
		o.destroySurface(&o.backdrop)
		return err
	}

	o.applyBackdrop()
	o.applyInput()
	o.showSurface(&o.backdrop, true)
	o.showSurface(&o.text, true)
	o.recompose()
	return nil
}

func (o *Overlay) createSurface(s *surface, bounds image.Rectangle) error {
	var lastErr error
	for i, ex := range CreationLadder {
		h, err := o.platform.CreateSurface(s.role, ex, bounds)
		if err == nil && h == 0 {
			err = errors.New("null handle")
		}
		if err == nil {
			s.handle, s.state = h, Created
			o.log.WithFields(logrus.Fields{
				"role":     s.role,
				"ex_style": ex,
			}).Info("Surface created")
			return nil
		}
		lastErr = err
		o.log.WithFields(logrus.Fields{
			"role":     s.role,
			"ex_style": ex,
			"attempt":  i + 1,
		}).Warnf("Surface creation failed: %v", err)
	}

	o.log.WithField("role", s.role).Errorf("All creation attempts failed: %v", lastErr)
	return fmt.Errorf("%w: %s surface: %v", ErrCreateFailed, s.role, lastErr)
}

// Destroy tears down both surfaces. The style is kept, so a later Create
// restores the same overlay.
func (o *Overlay) Destroy() {
	if !o.backdrop.alive() && !o.text.alive() {
		return
	}
	o.destroySurface(&o.text)
	o.destroySurface(&o.backdrop)
	o.log.Info("Overlay destroyed")
}

func (o *Overlay) destroySurface(s *surface) {
	if !s.alive() {
		return
	}
	if err := o.platform.DestroySurface(s.handle); err != nil {
		o.log.WithField("role", s.role).Warnf("Failed to destroy surface: %v", err)
	}
	s.handle, s.state = 0, Destroyed
}

// Show shows the pair, creating it first when needed.
func (o *Overlay) Show() error {
	if !o.Exists() {
		return o.Create()
	}
	o.showSurface(&o.backdrop, true)
	o.showSurface(&o.text, true)
	return nil
}

// Hide hides the pair. Hiding a missing pair is not an error.
func (o *Overlay) Hide() {
	if !o.Exists() {
		return
	}
	o.showSurface(&o.backdrop, false)
	o.showSurface(&o.text, false)
}

func (o *Overlay) showSurface(s *surface, show bool) {
	if err := o.platform.ShowSurface(s.handle, show); err != nil {
		o.log.WithField("role", s.role).Warnf("Failed to change visibility: %v", err)
		return
	}
	if show {
		s.state = Shown
	} else {
		s.state = Hidden
	}
}

// Redraw recomposes the text surface.
func (o *Overlay) Redraw() error {
	if !o.Exists() {
		return ErrNoWindowHandle
	}
	err := o.recompose()
	if err == nil {
		o.redrawFailures = 0
	}
	return err
}

// Close destroys the pair and releases the font.
func (o *Overlay) Close() {
	o.Destroy()
	if o.face != nil {
		o.face.Close()
		o.face = nil
	}
}

// BeginDrag implements EventSink.
func (o *Overlay) BeginDrag(h Handle) bool {
	if o.style.ClickThrough || !o.Exists() {
		return false
	}
	return h == o.backdrop.handle || h == o.text.handle
}

// Moved implements EventSink. The surface that moved leads; the other is
// assigned the same bounds directly. Notifications raised by that
// assignment, or carrying the current position, are ignored.
func (o *Overlay) Moved(h Handle, pos image.Point) {
	if o.syncing || !o.Exists() {
		return
	}

	var follower *surface
	switch h {
	case o.backdrop.handle:
		follower = &o.text
	case o.text.handle:
		follower = &o.backdrop
	default:
		return
	}
	if pos == o.style.Position {
		return
	}

	o.style.Position = pos
	o.syncing = true
	bounds := o.style.Bounds()
	if err := o.place(follower, bounds); err != nil {
		o.log.WithField("role", follower.role).Warnf("Failed to follow move: %v", err)
	}
	o.syncing = false

	if o.onMove != nil {
		o.onMove(pos)
	}
}

// update applies mutate to the style and performs the work c requires.
// If the work fails, or panics, the style and surface geometry are restored
// before the failure propagates. A redraw failure after a successful change
// keeps the change; it is reported once it repeats.
func (o *Overlay) update(c layout.Change, mutate func(s *style.State)) error {
	prev := o.style.Clone()
	defer func() {
		if r := recover(); r != nil {
			o.rollback(prev)
			panic(r)
		}
	}()

	mutate(o.style)
	if err := o.apply(c); err != nil {
		o.rollback(prev)
		return err
	}
	if !layout.Plan(c).Recompose || !o.text.alive() {
		return nil
	}
	return o.redrawAfterChange()
}

// rollback restores prev and puts the surfaces and font back in line with it.
func (o *Overlay) rollback(prev *style.State) {
	*o.style = *prev
	if o.faceSpec != prev.Font() {
		if err := o.reopenFont(); err != nil {
			o.log.Errorf("Failed to restore font: %v", err)
		}
	}
	o.syncBounds()
	o.log.Warn("Style change rolled back")
}

// redrawAfterChange recomposites after a style change. A single failure is
// only logged; consecutive failures are returned to the caller.
func (o *Overlay) redrawAfterChange() error {
	err := o.recompose()
	if err == nil {
		o.redrawFailures = 0
		return nil
	}
	o.redrawFailures++
	if o.redrawFailures > 1 {
		return fmt.Errorf("%w (%d consecutive failures)", err, o.redrawFailures)
	}
	return nil
}

func (o *Overlay) apply(c layout.Change) error {
	a := layout.Plan(c)
	if a.ReopenFont {
		if err := o.reopenFont(); err != nil {
			return err
		}
	}
	if a.Resize {
		if o.style.Relayout(o.face.LineHeight()) {
			o.log.WithField("height", o.style.Height()).Debug("Height changed")
		}
	}
	if a.Resize || a.Move {
		o.syncBounds()
	}
	if a.Input {
		o.applyInput()
	}
	if a.Backdrop {
		o.applyBackdrop()
	}
	return nil
}

// reopenFont opens the face for the current style, then closes the old one.
func (o *Overlay) reopenFont() error {
	spec := o.style.Font()
	face, err := o.backend.OpenFace(spec)
	if err != nil {
		o.log.WithField("family", spec.Family).Errorf("Failed to open font: %v", err)
		return fmt.Errorf("open font %q: %w", spec.Family, err)
	}
	old := o.face
	o.face, o.faceSpec = face, spec
	if old != nil {
		old.Close()
	}
	o.log.WithFields(logrus.Fields{
		"family":      spec.Family,
		"size":        spec.SizePt,
		"weight":      spec.Weight,
		"line_height": face.LineHeight(),
	}).Debug("Font opened")
	return nil
}

func (o *Overlay) syncBounds() {
	if !o.Exists() {
		return
	}
	bounds := o.style.Bounds()
	o.syncing = true
	defer func() { o.syncing = false }()
	for _, s := range []*surface{&o.text, &o.backdrop} {
		if err := o.place(s, bounds); err != nil {
			o.log.WithField("role", s.role).Warnf("Failed to set bounds: %v", err)
		}
	}
}

// place moves s to bounds and restacks it so the text surface stays above
// the backdrop: the text is raised, the backdrop goes directly beneath it.
// A move gesture may have raised the leader, so the follower is always
// restacked.
func (o *Overlay) place(s *surface, bounds image.Rectangle) error {
	z := ZOrder{Raise: true}
	if s == &o.backdrop {
		z = ZOrder{Below: o.text.handle}
	}
	return o.platform.SetBounds(s.handle, bounds, z)
}

func (o *Overlay) applyInput() {
	for _, s := range []*surface{&o.backdrop, &o.text} {
		if !s.alive() {
			continue
		}
		if err := o.platform.SetInputTransparent(s.handle, o.style.ClickThrough); err != nil {
			o.log.WithField("role", s.role).Warnf("Failed to set input transparency: %v", err)
		}
	}
}

func (o *Overlay) applyBackdrop() {
	if !o.backdrop.alive() {
		return
	}
	alpha := o.style.EffectiveBackdropAlpha()
	if err := o.platform.SetBackdrop(o.backdrop.handle, o.style.BackdropColor, alpha); err != nil {
		o.log.Warnf("Failed to set backdrop alpha %d: %v", alpha, err)
	}
}

// recompose renders the current text and submits it to the text surface.
func (o *Overlay) recompose() error {
	if !o.text.alive() {
		return ErrNoWindowHandle
	}

	s := o.style
	w, h := s.Width(), s.Height()
	frame, err := raster.Render(o.backend, w, h, raster.Job{
		Face:        o.face,
		Text:        s.Text,
		Rect:        layout.TextRect(w, h, s.Padding),
		Align:       s.Align,
		Mode:        s.LineMode(),
		StrokeWidth: s.StrokeWidth(),
		Paint: raster.Paint{
			Fill:    s.TextColor,
			Stroke:  s.StrokeColor,
			Opacity: s.TextOpacity(),
		},
	})
	if err != nil {
		o.log.Warnf("Failed to render text: %v", err)
		return err
	}
	defer frame.Release()

	if !frame.Detected {
		o.log.Warn("Pixel format detection inconclusive, assuming BGRA")
	}
	if err := o.platform.UpdateSurface(o.text.handle, s.Bounds(), frame); err != nil {
		o.log.Warnf("Failed to update text surface: %v", err)
		return err
	}
	return nil
}
