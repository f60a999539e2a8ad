package headless

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/NaveLIL/lyrics-overlay/fonts"
	"github.com/NaveLIL/lyrics-overlay/overlay"
	"github.com/NaveLIL/lyrics-overlay/style"
)

func newOverlay(t *testing.T, opts Options) (*overlay.Overlay, *Platform) {
	t.Helper()
	p := New(opts)
	o, err := overlay.New(style.New(), p, fonts.NewBackend(fonts.Options{}))
	if err != nil {
		t.Fatalf("overlay.New: %v", err)
	}
	t.Cleanup(o.Close)
	return o, p
}

func TestOverlayLifecycle(t *testing.T) {
	o, p := newOverlay(t, Options{})
	if err := o.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("Expected 2 surfaces, got %d", p.Len())
	}

	bd, _ := p.ByRole(overlay.RoleBackdrop)
	txt, _ := p.ByRole(overlay.RoleText)
	if !bd.Visible || !txt.Visible {
		t.Error("Expected both surfaces visible")
	}
	if bd.Alpha != style.DefaultBackdropAlpha {
		t.Errorf("Expected alpha %d, got %d", style.DefaultBackdropAlpha, bd.Alpha)
	}
	if txt.Frame == nil || txt.Frame.Bounds().Dx() != style.DefaultWidth {
		t.Errorf("Expected a %d px wide frame", style.DefaultWidth)
	}

	o.Destroy()
	if p.Len() != 0 {
		t.Errorf("Expected no surfaces after Destroy, got %d", p.Len())
	}
}

func TestDragMovesPair(t *testing.T) {
	o, p := newOverlay(t, Options{})
	if err := o.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	bd, _ := p.ByRole(overlay.RoleBackdrop)

	if !p.Drag(bd.Handle, image.Pt(250, 40)) {
		t.Fatal("Expected drag to start")
	}
	txt, _ := p.ByRole(overlay.RoleText)
	if txt.Bounds.Min != image.Pt(250, 40) {
		t.Errorf("Expected text surface at (250,40), got %v", txt.Bounds.Min)
	}

	o.SetClickThrough(true)
	if p.Drag(bd.Handle, image.Pt(0, 0)) {
		t.Error("Expected drag refused while click-through")
	}
}

func TestDragKeepsTextOnTop(t *testing.T) {
	o, p := newOverlay(t, Options{})
	if err := o.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	bd, _ := p.ByRole(overlay.RoleBackdrop)
	txt, _ := p.ByRole(overlay.RoleText)
	want := []overlay.Handle{bd.Handle, txt.Handle}

	if got := p.Stack(); !slices.Equal(got, want) {
		t.Fatalf("Expected backdrop under text after Create, got %v", got)
	}
	for _, h := range []overlay.Handle{txt.Handle, bd.Handle, txt.Handle} {
		pos := image.Pt(int(h)*30, 60)
		if !p.Drag(h, pos) {
			t.Fatalf("Expected drag of %d to start", h)
		}
		if got := p.Stack(); !slices.Equal(got, want) {
			t.Errorf("Drag of %d: expected backdrop under text, got %v", h, got)
		}
	}
}

func TestInvalidHandle(t *testing.T) {
	p := New(Options{})
	if err := p.ShowSurface(42, true); err == nil {
		t.Error("Expected error for unknown handle")
	}
}

func TestFrameDump(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	o, _ := newOverlay(t, Options{DumpDir: dir})
	if err := o.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := o.SetText("dump"); err != nil {
		t.Fatalf("SetText: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "text.png"))
	if err != nil {
		t.Fatalf("Expected frame dump: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := img.Bounds().Size(); got != o.Style().Size() {
		t.Errorf("Expected dump size %v, got %v", o.Style().Size(), got)
	}
}
