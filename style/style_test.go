package style

import (
	"image"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	s := New()
	if s.Position != image.Pt(100, 100) {
		t.Errorf("Expected position (100,100), got %v", s.Position)
	}
	if s.Width() != 600 || s.Height() != 64 {
		t.Errorf("Expected size 600x64, got %dx%d", s.Width(), s.Height())
	}
	if s.Padding != 8 {
		t.Errorf("Expected padding 8, got %d", s.Padding)
	}
	if s.BackdropAlpha() != 230 {
		t.Errorf("Expected backdrop alpha 230, got %d", s.BackdropAlpha())
	}
	if s.TextOpacity() != 255 {
		t.Errorf("Expected text opacity 255, got %d", s.TextOpacity())
	}
	if s.Weight() != NormalWeight || s.Bold() {
		t.Errorf("Expected normal weight, got %d", s.Weight())
	}
	if s.TextColor != White {
		t.Errorf("Expected white text, got %v", s.TextColor)
	}
}

func TestOpacityClamp(t *testing.T) {
	s := New()
	for a := 0; a <= 255; a++ {
		s.SetTextOpacity(a)
		s.SetBackdropAlpha(a)
		if int(s.TextOpacity()) != a || int(s.BackdropAlpha()) != a {
			t.Fatalf("Expected round trip of %d, got text=%d backdrop=%d", a, s.TextOpacity(), s.BackdropAlpha())
		}
	}

	s.SetTextOpacity(-5)
	if s.TextOpacity() != 0 {
		t.Errorf("Expected clamp to 0, got %d", s.TextOpacity())
	}
	s.SetBackdropAlpha(1000)
	if s.BackdropAlpha() != 255 {
		t.Errorf("Expected clamp to 255, got %d", s.BackdropAlpha())
	}
}

func TestClickThroughBackdropAlpha(t *testing.T) {
	s := New()
	s.SetBackdropAlpha(120)

	s.ClickThrough = true
	if s.EffectiveBackdropAlpha() != 0 {
		t.Errorf("Expected effective alpha 0 while click-through, got %d", s.EffectiveBackdropAlpha())
	}
	if s.BackdropAlpha() != 120 {
		t.Errorf("Configured alpha must be kept, got %d", s.BackdropAlpha())
	}

	s.ClickThrough = false
	if s.EffectiveBackdropAlpha() != 120 {
		t.Errorf("Expected alpha 120 restored, got %d", s.EffectiveBackdropAlpha())
	}
}

func TestWeightAndBold(t *testing.T) {
	s := New()

	s.SetBold(true)
	if s.Weight() != 700 || !s.Bold() {
		t.Errorf("Expected bold to force weight 700, got %d", s.Weight())
	}

	s.SetBold(false)
	if s.Weight() != 400 || s.Bold() {
		t.Errorf("Expected weight 400 after unbold, got %d", s.Weight())
	}

	s.SetFontWeight(800)
	if !s.Bold() {
		t.Error("Weight 800 should imply bold")
	}

	s.SetFontWeight(300)
	s.SetBold(true)
	if s.Weight() != 300 {
		t.Errorf("Explicit weight must win over bold flag, got %d", s.Weight())
	}

	s.SetFontWeight(50)
	if s.Weight() != 100 {
		t.Errorf("Expected weight clamp to 100, got %d", s.Weight())
	}
	s.SetFontWeight(1200)
	if s.Weight() != 900 {
		t.Errorf("Expected weight clamp to 900, got %d", s.Weight())
	}
}

func TestStrokeClamp(t *testing.T) {
	s := New()
	s.SetStroke(50, RGB(0x123456))
	if s.StrokeWidth() != 20 {
		t.Errorf("Expected stroke clamp to 20, got %d", s.StrokeWidth())
	}
	if s.StrokeColor != RGB(0x123456) {
		t.Errorf("Expected stroke colour #123456, got %v", s.StrokeColor)
	}
	s.SetStroke(-1, Black)
	if s.StrokeWidth() != 0 {
		t.Errorf("Expected stroke clamp to 0, got %d", s.StrokeWidth())
	}
}

func TestRelayout(t *testing.T) {
	s := New()
	if !s.Relayout(18) {
		t.Error("Expected height change from default 64")
	}
	if s.Height() != 34 {
		t.Errorf("Expected height 34, got %d", s.Height())
	}
	if s.Relayout(18) {
		t.Error("Expected no change on identical relayout")
	}

	s.SetLines(3)
	s.Relayout(18)
	if s.Height() != 70 {
		t.Errorf("Expected height 70 for 3 lines, got %d", s.Height())
	}

	s.SetLines(99)
	if s.Lines() != 10 {
		t.Errorf("Expected lines clamp to 10, got %d", s.Lines())
	}
}

func TestSetWidth(t *testing.T) {
	s := New()
	if s.SetWidth(0) {
		t.Error("Expected zero width to be rejected")
	}
	if !s.SetWidth(480) || s.Width() != 480 {
		t.Errorf("Expected width 480, got %d", s.Width())
	}
	if s.Bounds() != image.Rect(100, 100, 580, 164) {
		t.Errorf("Unexpected bounds %v", s.Bounds())
	}
	if !s.SetWidth(1<<36) || s.Width() != MaxWidth {
		t.Errorf("Expected width clamp to %d, got %d", MaxWidth, s.Width())
	}
}

func TestGeometryClamp(t *testing.T) {
	s := New()
	s.SetPadding(-4)
	if s.Padding != 0 {
		t.Errorf("Expected padding 0, got %d", s.Padding)
	}
	s.SetPadding(1 << 20)
	if s.Padding != MaxPadding {
		t.Errorf("Expected padding %d, got %d", MaxPadding, s.Padding)
	}
	s.SetFontSize(1 << 20)
	if s.FontSize() != MaxFontSize {
		t.Errorf("Expected font size %d, got %d", MaxFontSize, s.FontSize())
	}
	s.SetFontSize(-1)
	if s.FontSize() != 0 {
		t.Errorf("Expected font size 0, got %d", s.FontSize())
	}
}
