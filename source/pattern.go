// Package source provides lens.FrameSource implementations that stand in for
// a camera: an animated test pattern and a looping still-image player.
package source

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/phanxgames/lens"
)

// Resolution is a frame size.
type Resolution struct {
	Width, Height int
}

// Pattern generates an animated test card: vertical colour bars over the top
// two thirds, a scrolling grey ramp below, and a white square that orbits the
// centre. It runs at a fixed 60 frames per second of pattern time regardless
// of how often Next is called.
type Pattern struct {
	Width  int
	Height int

	// Schedule cycles the output through these resolutions, switching every
	// Every frames. Useful for exercising resize handling.
	Schedule []Resolution
	Every    int

	// LoseAfter makes Next fail with lens.ErrDeviceLost once that many frames
	// have been produced. Zero disables it.
	LoseAfter int

	frame    int
	pix      []byte
	acquired bool
}

// NewPattern creates a test pattern source of the given size.
func NewPattern(width, height int) *Pattern {
	return &Pattern{Width: width, Height: height}
}

// Acquire validates the configured size.
func (p *Pattern) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: pattern size %dx%d", lens.ErrDeviceUnavailable, p.Width, p.Height)
	}
	p.frame = 0
	p.acquired = true
	return nil
}

// Next renders the next pattern frame. The returned pixels are reused by the
// following call.
func (p *Pattern) Next() (lens.Frame, bool, error) {
	if !p.acquired {
		return lens.Frame{}, false, fmt.Errorf("%w: source not acquired", lens.ErrDeviceLost)
	}
	if p.LoseAfter > 0 && p.frame >= p.LoseAfter {
		return lens.Frame{}, false, fmt.Errorf("%w: pattern stopped after %d frames", lens.ErrDeviceLost, p.frame)
	}
	r := p.resolution()
	n := r.Width * r.Height * 4
	if cap(p.pix) < n {
		p.pix = make([]byte, n)
	}
	p.pix = p.pix[:n]
	renderPattern(p.pix, r.Width, r.Height, float64(p.frame)/60)
	p.frame++
	return lens.Frame{
		Width:    uint32(r.Width),
		Height:   uint32(r.Height),
		Pix:      p.pix,
		Captured: time.Now(),
	}, true, nil
}

// Release stops the pattern.
func (p *Pattern) Release() error {
	p.acquired = false
	p.pix = nil
	return nil
}

func (p *Pattern) resolution() Resolution {
	if len(p.Schedule) == 0 || p.Every <= 0 {
		return Resolution{p.Width, p.Height}
	}
	return p.Schedule[(p.frame/p.Every)%len(p.Schedule)]
}

var barColors = [7][3]byte{
	{192, 192, 192},
	{192, 192, 0},
	{0, 192, 192},
	{0, 192, 0},
	{192, 0, 192},
	{192, 0, 0},
	{0, 0, 192},
}

func renderPattern(pix []byte, w, h int, t float64) {
	barsH := h * 2 / 3
	shift := int(t * 60)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := (y*w + x) * 4
			if y < barsH {
				c := barColors[x*len(barColors)/w]
				pix[o], pix[o+1], pix[o+2] = c[0], c[1], c[2]
			} else {
				v := byte((x + shift) * 255 / max(w-1, 1))
				pix[o], pix[o+1], pix[o+2] = v, v, v
			}
			pix[o+3] = 0xff
		}
	}

	size := max(min(w, h)/10, 1)
	radius := float64(min(w, h)) / 4
	sin, cos := math.Sincos(t)
	cx := w/2 + int(radius*cos) - size/2
	cy := h/2 + int(radius*sin) - size/2
	for y := max(cy, 0); y < min(cy+size, h); y++ {
		for x := max(cx, 0); x < min(cx+size, w); x++ {
			o := (y*w + x) * 4
			pix[o], pix[o+1], pix[o+2] = 255, 255, 255
		}
	}
}
