package lens

import (
	"fmt"
	"image"
	"time"

	"golang.org/x/image/draw"
)

// Frame is one decoded image from a capture source. Pix holds row-major RGBA8
// samples, Width*Height*4 bytes, with no row padding.
type Frame struct {
	Width    uint32
	Height   uint32
	Pix      []byte
	Captured time.Time
}

// Empty reports whether the frame has zero area.
func (f Frame) Empty() bool {
	return f.Width == 0 || f.Height == 0
}

// Validate reports ErrBufferSize when Pix does not hold exactly
// Width*Height*4 bytes.
func (f Frame) Validate() error {
	want := int(f.Width) * int(f.Height) * 4
	if len(f.Pix) != want {
		return fmt.Errorf("%w: frame %dx%d has %d bytes, want %d",
			ErrBufferSize, f.Width, f.Height, len(f.Pix), want)
	}
	return nil
}

// Image wraps the frame's pixels as an *image.RGBA without copying.
func (f Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: int(f.Width) * 4,
		Rect:   image.Rect(0, 0, int(f.Width), int(f.Height)),
	}
}

// FrameFromImage copies img into a new Frame whose origin is (0, 0).
func FrameFromImage(img image.Image, captured time.Time) Frame {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return Frame{
		Width:    uint32(b.Dx()),
		Height:   uint32(b.Dy()),
		Pix:      dst.Pix,
		Captured: captured,
	}
}

// validGeometry reports whether pix can hold a width x height RGBA frame with
// non-zero area. Filters treat anything else as a no-op.
func validGeometry(pix []byte, width, height int) bool {
	return width > 0 && height > 0 && len(pix) >= width*height*4
}
