package source

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/phanxgames/lens"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- Pattern ---

func TestPatternFrames(t *testing.T) {
	p := NewPattern(70, 30)
	if err := p.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	f, ok, err := p.Next()
	if err != nil || !ok {
		t.Fatalf("Next = %v, %v", ok, err)
	}
	if f.Width != 70 || f.Height != 30 {
		t.Errorf("size = %dx%d", f.Width, f.Height)
	}
	if err := f.Validate(); err != nil {
		t.Error(err)
	}
	// First bar is light grey.
	if f.Pix[0] != 192 || f.Pix[1] != 192 || f.Pix[2] != 192 || f.Pix[3] != 255 {
		t.Errorf("pixel 0 = %v", f.Pix[:4])
	}
}

func TestPatternInvalidSize(t *testing.T) {
	p := NewPattern(0, 10)
	if err := p.Acquire(context.Background()); !errors.Is(err, lens.ErrDeviceUnavailable) {
		t.Errorf("err = %v, want ErrDeviceUnavailable", err)
	}
}

func TestPatternSchedule(t *testing.T) {
	p := &Pattern{
		Width: 8, Height: 8,
		Schedule: []Resolution{{8, 8}, {16, 4}},
		Every:    2,
	}
	p.Acquire(context.Background())
	want := []uint32{8, 8, 16, 16, 8}
	for i, w := range want {
		f, _, err := p.Next()
		if err != nil {
			t.Fatal(err)
		}
		if f.Width != w {
			t.Errorf("frame %d width = %d, want %d", i, f.Width, w)
		}
		if err := f.Validate(); err != nil {
			t.Errorf("frame %d: %v", i, err)
		}
	}
}

func TestPatternLoseAfter(t *testing.T) {
	p := &Pattern{Width: 4, Height: 4, LoseAfter: 2}
	p.Acquire(context.Background())
	p.Next()
	p.Next()
	if _, _, err := p.Next(); !errors.Is(err, lens.ErrDeviceLost) {
		t.Errorf("err = %v, want ErrDeviceLost", err)
	}
}

func TestPatternNextAfterRelease(t *testing.T) {
	p := NewPattern(4, 4)
	p.Acquire(context.Background())
	p.Release()
	p.Release()
	if _, _, err := p.Next(); !errors.Is(err, lens.ErrDeviceLost) {
		t.Errorf("err = %v, want ErrDeviceLost", err)
	}
}

// --- Images ---

func TestImagesMissingFile(t *testing.T) {
	s := NewImages(filepath.Join(t.TempDir(), "nope.png"))
	if err := s.Acquire(context.Background()); !errors.Is(err, lens.ErrDeviceUnavailable) {
		t.Errorf("err = %v, want ErrDeviceUnavailable", err)
	}
}

func TestImagesNoPaths(t *testing.T) {
	if err := NewImages().Acquire(context.Background()); !errors.Is(err, lens.ErrDeviceUnavailable) {
		t.Errorf("err = %v, want ErrDeviceUnavailable", err)
	}
}

func TestImagesUndecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	os.WriteFile(path, []byte("not an image"), 0o644)
	if err := NewImages(path).Acquire(context.Background()); !errors.Is(err, lens.ErrDeviceUnavailable) {
		t.Errorf("err = %v, want ErrDeviceUnavailable", err)
	}
}

func TestImagesPermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file permissions not enforced")
	}
	path := writeTestPNG(t, t.TempDir(), "a.png", 2, 2, color.NRGBA{1, 2, 3, 255})
	os.Chmod(path, 0o000)
	if err := NewImages(path).Acquire(context.Background()); !errors.Is(err, lens.ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestImagesLoopAndHold(t *testing.T) {
	dir := t.TempDir()
	a := writeTestPNG(t, dir, "a.png", 3, 2, color.NRGBA{255, 0, 0, 255})
	b := writeTestPNG(t, dir, "b.png", 5, 4, color.NRGBA{0, 0, 255, 255})
	s := &Images{Paths: []string{a, b}, Hold: 2}
	if err := s.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []uint32{3, 3, 5, 5, 3}
	for i, w := range want {
		f, ok, err := s.Next()
		if err != nil || !ok {
			t.Fatalf("Next %d = %v, %v", i, ok, err)
		}
		if f.Width != w {
			t.Errorf("frame %d width = %d, want %d", i, f.Width, w)
		}
	}
}

func TestImagesScaled(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "a.png", 4, 4, color.NRGBA{0, 200, 0, 255})
	s := &Images{Paths: []string{path}, Width: 10, Height: 6}
	if err := s.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	f, _, _ := s.Next()
	if f.Width != 10 || f.Height != 6 {
		t.Fatalf("size = %dx%d", f.Width, f.Height)
	}
	if err := f.Validate(); err != nil {
		t.Fatal(err)
	}
	o := (3*10 + 5) * 4
	if g := int(f.Pix[o+1]); g < 199 || g > 201 || f.Pix[o+3] < 254 {
		t.Errorf("centre pixel = %v", f.Pix[o:o+4])
	}
}

func TestImagesReloadLostFile(t *testing.T) {
	dir := t.TempDir()
	a := writeTestPNG(t, dir, "a.png", 2, 2, color.NRGBA{255, 0, 0, 255})
	b := writeTestPNG(t, dir, "b.png", 2, 2, color.NRGBA{0, 255, 0, 255})
	s := &Images{Paths: []string{a, b}, Hold: 1, Reload: true}
	if err := s.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Next(); err != nil {
		t.Fatal(err)
	}
	os.Remove(b)
	if _, _, err := s.Next(); !errors.Is(err, lens.ErrDeviceLost) {
		t.Errorf("err = %v, want ErrDeviceLost", err)
	}
}

func TestImagesAcquireCancelled(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "a.png", 2, 2, color.NRGBA{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewImages(path).Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestImagesDriveRenderLoop(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "a.png", 20, 20, color.NRGBA{90, 90, 90, 255})
	pres := lens.NewPNGPresenter(t.TempDir(), true)
	loop, err := lens.NewRenderLoop(NewImages(path), pres, lens.LoopConfig{Filter: lens.FilterPixelate})
	if err != nil {
		t.Fatal(err)
	}
	if err := loop.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer loop.Dispose()
	if err := loop.Tick(0); err != nil {
		t.Fatal(err)
	}
	if len(pres.Files()) != 1 {
		t.Errorf("files = %v", pres.Files())
	}
}
