package lens

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// PNGPresenter is a headless Presenter that writes frames to PNG files.
// With All set every presented frame is written as <Prefix>_<n>.png; labels
// queued with Snapshot are written for the next presented frame as
// <Prefix>_<label>.png.
type PNGPresenter struct {
	Dir    string
	Prefix string
	All    bool

	frame int
	w, h  int
	queue []string
	files []string
}

// NewPNGPresenter creates a presenter writing into dir.
func NewPNGPresenter(dir string, all bool) *PNGPresenter {
	return &PNGPresenter{Dir: dir, Prefix: "frame", All: all}
}

// Resize records the surface size.
func (p *PNGPresenter) Resize(width, height int) {
	p.w = width
	p.h = height
}

// Size returns the last size passed to Resize.
func (p *PNGPresenter) Size() (w, h int) {
	return p.w, p.h
}

// Snapshot queues a labeled PNG of the next presented frame.
func (p *PNGPresenter) Snapshot(label string) {
	p.queue = append(p.queue, label)
}

// Files returns the paths written so far.
func (p *PNGPresenter) Files() []string {
	return p.files
}

// Present writes the frame if All is set or a snapshot is queued.
func (p *PNGPresenter) Present(pix []byte, width, height int) error {
	p.frame++
	if !p.All && len(p.queue) == 0 {
		return nil
	}
	if width != p.w || height != p.h {
		return fmt.Errorf("%w: present %dx%d on %dx%d surface", ErrBufferSize, width, height, p.w, p.h)
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", p.Dir, err)
	}

	if p.All {
		name := fmt.Sprintf("%s_%05d.png", p.Prefix, p.frame)
		if err := p.write(name, pix, width, height); err != nil {
			return err
		}
	}
	for _, label := range p.queue {
		name := fmt.Sprintf("%s_%s.png", p.Prefix, sanitizeLabel(label))
		if err := p.write(name, pix, width, height); err != nil {
			p.queue = p.queue[:0]
			return err
		}
	}
	p.queue = p.queue[:0]
	return nil
}

func (p *PNGPresenter) write(name string, pix []byte, width, height int) error {
	path := filepath.Join(p.Dir, name)
	if err := WritePNG(path, pix, width, height); err != nil {
		return err
	}
	p.files = append(p.files, path)
	return nil
}

// WritePNG encodes a width x height RGBA buffer to a PNG file. Pixels are
// written as straight (non-premultiplied) alpha.
func WritePNG(path string, pix []byte, width, height int) error {
	img := &image.NRGBA{
		Pix:    pix[:width*height*4],
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
