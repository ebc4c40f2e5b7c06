package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/phanxgames/lens"
)

// DefaultHold is the number of frames each still image is shown for when
// Images.Hold is zero.
const DefaultHold = 30

// Images plays a list of still images as a frame stream, looping forever.
// Supported formats are PNG, JPEG, GIF (first frame), BMP and WebP.
//
// With Width and Height set every image is scaled to that size; otherwise
// each frame keeps the image's native size and the render loop resizes when
// consecutive images differ.
type Images struct {
	Paths  []string
	Width  int
	Height int
	Hold   int
	// Reload re-reads each file from disk when it comes up. A file that has
	// gone missing then reports lens.ErrDeviceLost.
	Reload bool

	frames   []lens.Frame
	tick     int
	current  int
	acquired bool
}

// NewImages creates an image source over paths.
func NewImages(paths ...string) *Images {
	return &Images{Paths: paths}
}

// Acquire decodes every input. A missing or undecodable file reports
// lens.ErrDeviceUnavailable; a file that cannot be read for lack of
// permission reports lens.ErrPermissionDenied.
func (s *Images) Acquire(ctx context.Context) error {
	if len(s.Paths) == 0 {
		return fmt.Errorf("%w: no input images", lens.ErrDeviceUnavailable)
	}
	frames := make([]lens.Frame, 0, len(s.Paths))
	for _, p := range s.Paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := s.load(p)
		if err != nil {
			return classify(p, err, lens.ErrDeviceUnavailable)
		}
		frames = append(frames, f)
	}
	s.frames = frames
	s.tick = 0
	s.current = 0
	s.acquired = true
	return nil
}

// Next returns the image due at the current tick.
func (s *Images) Next() (lens.Frame, bool, error) {
	if !s.acquired {
		return lens.Frame{}, false, fmt.Errorf("%w: source not acquired", lens.ErrDeviceLost)
	}
	hold := s.Hold
	if hold <= 0 {
		hold = DefaultHold
	}
	idx := (s.tick / hold) % len(s.frames)
	s.tick++

	if s.Reload && idx != s.current {
		f, err := s.load(s.Paths[idx])
		if err != nil {
			return lens.Frame{}, false, classify(s.Paths[idx], err, lens.ErrDeviceLost)
		}
		s.frames[idx] = f
	}
	s.current = idx
	f := s.frames[idx]
	f.Captured = time.Now()
	return f, true, nil
}

// Release drops the decoded images.
func (s *Images) Release() error {
	s.frames = nil
	s.acquired = false
	return nil
}

func (s *Images) load(path string) (lens.Frame, error) {
	img, err := decodeFile(path)
	if err != nil {
		return lens.Frame{}, err
	}
	if s.Width > 0 && s.Height > 0 {
		dst := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		return lens.Frame{Width: uint32(s.Width), Height: uint32(s.Height), Pix: dst.Pix}, nil
	}
	return lens.FrameFromImage(img, time.Time{}), nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// classify maps file errors onto the device error kinds. Anything that is
// not a permission problem is reported as fallback.
func classify(path string, err, fallback error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s: %v", lens.ErrPermissionDenied, path, err)
	}
	return fmt.Errorf("%w: %s: %v", fallback, path, err)
}
