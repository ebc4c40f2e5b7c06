package display

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Surface is the persistent GPU canvas that presented frames are uploaded
// into. Its size always equals the render loop's frame buffer.
type Surface struct {
	image *ebiten.Image
	w, h  int
}

// NewSurface creates a surface of the given size. A zero size defers
// allocation until the first Resize.
func NewSurface(w, h int) *Surface {
	s := &Surface{}
	s.Resize(w, h)
	return s
}

// Image returns the underlying *ebiten.Image, or nil before the first
// non-empty Resize.
func (s *Surface) Image() *ebiten.Image {
	return s.image
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.w
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.h
}

// Resize deallocates the old image and allocates a new one at the given
// size. A no-op when the size is unchanged.
func (s *Surface) Resize(w, h int) {
	if s.image != nil && w == s.w && h == s.h {
		return
	}
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
	s.w, s.h = w, h
	if w > 0 && h > 0 {
		s.image = ebiten.NewImage(w, h)
	}
}

// Upload replaces the surface contents with pix, which must hold exactly
// Width*Height*4 bytes of RGBA.
func (s *Surface) Upload(pix []byte) {
	if s.image == nil || len(pix) != s.w*s.h*4 {
		return
	}
	s.image.WritePixels(pix)
}

// DrawTo draws the surface onto dst scaled by scale.
func (s *Surface) DrawTo(dst *ebiten.Image, scale float64) {
	if s.image == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(scale, scale)
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(s.image, &op)
}

// Dispose frees the GPU image.
func (s *Surface) Dispose() {
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
	s.w, s.h = 0, 0
}
