package lens

import "fmt"

// FrameBuffer owns the pixels of the frame currently being processed. Its
// dimensions track the display surface: the render loop resizes both in the
// same tick, and only when the source reports a new native resolution.
//
// Every mutation through Load or Apply increments a write counter, so callers
// can verify that nothing touches the buffer after Dispose.
type FrameBuffer struct {
	pix      []byte
	w, h     int
	writes   uint64
	disposed bool
}

// NewFrameBuffer creates a zeroed buffer of the given size.
func NewFrameBuffer(w, h int) *FrameBuffer {
	b := &FrameBuffer{}
	b.Resize(w, h)
	return b
}

// Pix returns the underlying RGBA pixels. The slice is invalidated by Resize
// and Dispose.
func (b *FrameBuffer) Pix() []byte {
	return b.pix
}

// Width returns the buffer width in pixels.
func (b *FrameBuffer) Width() int {
	return b.w
}

// Height returns the buffer height in pixels.
func (b *FrameBuffer) Height() int {
	return b.h
}

// Writes returns the number of mutations performed on the buffer.
func (b *FrameBuffer) Writes() uint64 {
	return b.writes
}

// Disposed reports whether Dispose has been called since the last Resize.
func (b *FrameBuffer) Disposed() bool {
	return b.disposed
}

// Resize drops the old pixels and allocates a zeroed buffer of the new size.
// Negative dimensions are treated as zero.
func (b *FrameBuffer) Resize(w, h int) {
	w = max(w, 0)
	h = max(h, 0)
	b.pix = make([]byte, w*h*4)
	b.w = w
	b.h = h
	b.disposed = false
}

// Load copies the frame's pixels into the buffer. The frame must match the
// buffer's dimensions.
func (b *FrameBuffer) Load(f Frame) error {
	if b.disposed {
		return fmt.Errorf("lens: load into disposed frame buffer")
	}
	if int(f.Width) != b.w || int(f.Height) != b.h {
		return fmt.Errorf("%w: frame %dx%d, buffer %dx%d", ErrBufferSize, f.Width, f.Height, b.w, b.h)
	}
	if err := f.Validate(); err != nil {
		return err
	}
	copy(b.pix, f.Pix)
	b.writes++
	return nil
}

// Apply runs fn over the buffer's pixels in place.
func (b *FrameBuffer) Apply(fn ApplyFunc, elapsed float64, st *FilterState) {
	if b.disposed || fn == nil {
		return
	}
	fn(b.pix, b.w, b.h, elapsed, st)
	b.writes++
}

// Dispose releases the pixel memory. The write counter is kept so it can be
// inspected after teardown.
func (b *FrameBuffer) Dispose() {
	b.pix = nil
	b.w = 0
	b.h = 0
	b.disposed = true
}
