package lens

import "fmt"

// FilterState is the data a stateful filter carries from one frame to the
// next. Today that is the previous-frame buffer used by the motion trail.
// It also keeps a scratch buffer that filters needing a frozen copy of their
// input reuse across frames.
//
// A FilterState belongs to exactly one ActiveSelection and is discarded when
// the selection switches filters.
type FilterState struct {
	previous []byte
	w, h     int
	seeded   bool
	scratch  []byte
}

// NewFilterState returns an empty, unseeded state.
func NewFilterState() *FilterState {
	return &FilterState{}
}

// Seeded reports whether the state holds a previous frame.
func (s *FilterState) Seeded() bool {
	return s.seeded
}

// Size returns the dimensions of the stored previous frame.
func (s *FilterState) Size() (w, h int) {
	return s.w, s.h
}

// Matches reports whether an unseeded state, or a state seeded with a frame of
// exactly w x h pixels, can be used for a w x h frame.
func (s *FilterState) Matches(w, h int) bool {
	return !s.seeded || (s.w == w && s.h == h)
}

// Reset discards the previous frame and scratch memory.
func (s *FilterState) Reset() {
	s.previous = nil
	s.scratch = nil
	s.w = 0
	s.h = 0
	s.seeded = false
}

// seed stores a copy of pix as the previous frame.
func (s *FilterState) seed(pix []byte, w, h int) {
	n := w * h * 4
	if cap(s.previous) < n {
		s.previous = make([]byte, n)
	}
	s.previous = s.previous[:n]
	copy(s.previous, pix[:n])
	s.w = w
	s.h = h
	s.seeded = true
}

// snapshot copies pix into the scratch buffer and returns it. The copy stays
// valid until the next snapshot call.
func (s *FilterState) snapshot(pix []byte) []byte {
	if cap(s.scratch) < len(pix) {
		s.scratch = make([]byte, len(pix))
	}
	s.scratch = s.scratch[:len(pix)]
	copy(s.scratch, pix)
	return s.scratch
}

// stateOrTemp lets filters be called without a carried state.
func stateOrTemp(st *FilterState) *FilterState {
	if st == nil {
		return NewFilterState()
	}
	return st
}

// ActiveSelection is the single active filter together with its state.
// Switching filters replaces the state wholesale, so nothing carried by one
// filter is ever visible to another.
type ActiveSelection struct {
	desc  Descriptor
	state *FilterState
}

// NewActiveSelection selects the filter with the given id.
func NewActiveSelection(id FilterID) (*ActiveSelection, error) {
	d, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownFilter, id)
	}
	return &ActiveSelection{desc: d, state: NewFilterState()}, nil
}

// Descriptor returns the active filter's descriptor.
func (a *ActiveSelection) Descriptor() Descriptor {
	return a.desc
}

// State returns the active filter's carried state.
func (a *ActiveSelection) State() *FilterState {
	return a.state
}

// Switch makes id the active filter and returns the previously active one.
// The old state is dropped even when id is already active.
func (a *ActiveSelection) Switch(id FilterID) (FilterID, error) {
	prev := a.desc.ID
	d, ok := Lookup(id)
	if !ok {
		return prev, fmt.Errorf("%w: id %d", ErrUnknownFilter, id)
	}
	a.desc = d
	a.state = NewFilterState()
	return prev, nil
}

// Apply runs the active filter over buf. When the carried state was seeded
// for a different frame size it is reset first and Apply reports true.
func (a *ActiveSelection) Apply(buf *FrameBuffer, elapsed float64) (reseeded bool) {
	if !a.state.Matches(buf.Width(), buf.Height()) {
		a.state.Reset()
		reseeded = true
	}
	buf.Apply(a.desc.Apply, elapsed, a.state)
	return reseeded
}
