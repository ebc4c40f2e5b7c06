package display

import (
	"errors"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/lens"
)

func TestFilterForKey(t *testing.T) {
	tests := []struct {
		key    ebiten.Key
		active lens.FilterID
		want   lens.FilterID
		ok     bool
	}{
		{ebiten.Key1, lens.FilterRipple, lens.FilterIdentity, true},
		{ebiten.Key4, lens.FilterIdentity, lens.FilterKaleidoscope, true},
		{ebiten.Key6, lens.FilterIdentity, lens.FilterASCII, true},
		{ebiten.Key7, lens.FilterIdentity, 0, false},
		{ebiten.KeyNumpad2, lens.FilterIdentity, lens.FilterTrail, true},
		{ebiten.KeyArrowRight, lens.FilterASCII, lens.FilterIdentity, true},
		{ebiten.KeyArrowLeft, lens.FilterIdentity, lens.FilterASCII, true},
		{ebiten.KeyA, lens.FilterIdentity, 0, false},
	}
	for _, tt := range tests {
		got, ok := filterForKey(tt.key, tt.active)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("filterForKey(%v, %v) = %v, %v; want %v, %v", tt.key, tt.active, got, ok, tt.want, tt.ok)
		}
	}
}

func newTestHUD() *HUD {
	h := NewHUD(true)
	h.actualFPS = func() float64 { return 59.5 }
	h.actualTPS = func() float64 { return 60 }
	return h
}

func TestHUDBannerHoldsThenFades(t *testing.T) {
	h := newTestHUD()
	h.ShowBanner("Kaleidoscope")

	h.Update(0.5)
	if text, a := h.Banner(); text != "Kaleidoscope" || a != 1 {
		t.Fatalf("during hold: %q alpha %v", text, a)
	}
	h.Update(0.75) // 0.25s into the fade
	_, a := h.Banner()
	if a <= 0 || a >= 1 {
		t.Errorf("mid-fade alpha = %v, want between 0 and 1", a)
	}
	h.Update(1)
	if _, a := h.Banner(); a != 0 {
		t.Errorf("alpha after fade = %v, want 0", a)
	}
}

func TestHUDBannerRestartsOnSwitch(t *testing.T) {
	h := newTestHUD()
	h.ShowBanner("Pixelate")
	h.Update(1.3)
	h.ShowBanner("Water Ripple")
	if text, a := h.Banner(); text != "Water Ripple" || a != 1 {
		t.Errorf("banner = %q alpha %v", text, a)
	}
}

func TestHUDFPSText(t *testing.T) {
	h := newTestHUD()
	h.Update(0.01)
	if got := h.FPSText(); got != "FPS: 59.5\nTPS: 60.0" {
		t.Errorf("FPSText() = %q", got)
	}
	h.actualFPS = func() float64 { return 30 }
	h.Update(0.1)
	if got := h.FPSText(); got != "FPS: 59.5\nTPS: 60.0" {
		t.Errorf("refreshed too early: %q", got)
	}
}

func TestHUDHiddenFPS(t *testing.T) {
	h := newTestHUD()
	h.ShowFPS = false
	h.Update(1)
	if h.FPSText() != "" {
		t.Errorf("FPSText() = %q, want empty", h.FPSText())
	}
}

func TestWindowLayoutDefaults(t *testing.T) {
	w := NewWindow(Config{Width: 320, Height: 200})
	if lw, lh := w.Layout(1000, 1000); lw != 320 || lh != 200 {
		t.Errorf("Layout = %dx%d, want 320x200", lw, lh)
	}
}

func TestWindowPresentCopiesPixels(t *testing.T) {
	w := NewWindow(Config{ScreenshotDir: t.TempDir()})
	w.Resize(2, 1)
	if lw, lh := w.Layout(0, 0); lw != 2 || lh != 1 {
		t.Errorf("Layout = %dx%d, want 2x1", lw, lh)
	}
	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := w.Present(pix, 2, 1); err != nil {
		t.Fatal(err)
	}
	pix[0] = 99
	if w.pix[0] != 1 || !w.dirty {
		t.Error("present should copy pixels and mark the surface dirty")
	}
	if err := w.Present(pix, 1, 2); !errors.Is(err, lens.ErrBufferSize) {
		t.Errorf("err = %v, want ErrBufferSize", err)
	}
}

func TestWindowSnapshot(t *testing.T) {
	w := NewWindow(Config{ScreenshotDir: t.TempDir()})
	w.Resize(1, 1)
	w.Snapshot("check")
	if err := w.Present([]byte{0, 0, 0, 255}, 1, 1); err != nil {
		t.Fatal(err)
	}
	if len(w.Snapshots()) != 1 {
		t.Errorf("snapshots = %v", w.Snapshots())
	}
}

func TestSeconds(t *testing.T) {
	if d := seconds(1.5); math.Abs(d.Seconds()-1.5) > 1e-9 {
		t.Errorf("seconds(1.5) = %v", d)
	}
}
