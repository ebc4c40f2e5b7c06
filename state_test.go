package lens

import (
	"errors"
	"testing"
	"time"
)

func TestNewActiveSelectionUnknown(t *testing.T) {
	if _, err := NewActiveSelection(filterCount); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("err = %v, want ErrUnknownFilter", err)
	}
}

func TestSwitchDiscardsState(t *testing.T) {
	sel, err := NewActiveSelection(FilterTrail)
	if err != nil {
		t.Fatal(err)
	}
	buf := NewFrameBuffer(4, 4)
	sel.Apply(buf, 0)
	old := sel.State()
	if !old.Seeded() {
		t.Fatal("trail should seed on first apply")
	}

	prev, err := sel.Switch(FilterRipple)
	if err != nil {
		t.Fatal(err)
	}
	if prev != FilterTrail {
		t.Errorf("prev = %v, want trail", prev)
	}
	if sel.State() == old || sel.State().Seeded() {
		t.Error("switch should start from a fresh state")
	}

	// Switching back must not resurrect the old trail frame.
	sel.Switch(FilterTrail)
	if sel.State().Seeded() {
		t.Error("trail state carried across switches")
	}
}

func TestSwitchUnknownKeepsSelection(t *testing.T) {
	sel, _ := NewActiveSelection(FilterPixelate)
	st := sel.State()
	if _, err := sel.Switch(filterCount); !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("err = %v", err)
	}
	if sel.Descriptor().ID != FilterPixelate || sel.State() != st {
		t.Error("failed switch changed the selection")
	}
}

func TestApplyReseedsOnSizeMismatch(t *testing.T) {
	sel, _ := NewActiveSelection(FilterTrail)
	buf := NewFrameBuffer(4, 4)
	if sel.Apply(buf, 0) {
		t.Error("first apply should not report a reseed")
	}
	buf.Resize(8, 2)
	if !sel.Apply(buf, 0) {
		t.Error("apply after resize should report a reseed")
	}
	if w, h := sel.State().Size(); w != 8 || h != 2 {
		t.Errorf("state size = %dx%d, want 8x2", w, h)
	}
	if sel.Apply(buf, 0) {
		t.Error("same size should not reseed again")
	}
}

func TestFilterStateReset(t *testing.T) {
	st := NewFilterState()
	st.seed(make([]byte, 16), 2, 2)
	if !st.Seeded() || !st.Matches(2, 2) || st.Matches(3, 2) {
		t.Fatal("seeded state should match only its own size")
	}
	st.Reset()
	if st.Seeded() || !st.Matches(3, 2) {
		t.Error("reset state should match any size")
	}
}

func TestFrameBufferLoadSizeMismatch(t *testing.T) {
	buf := NewFrameBuffer(2, 2)
	err := buf.Load(Frame{Width: 3, Height: 2, Pix: make([]byte, 24)})
	if !errors.Is(err, ErrBufferSize) {
		t.Errorf("err = %v, want ErrBufferSize", err)
	}
	if buf.Writes() != 0 {
		t.Errorf("writes = %d, want 0", buf.Writes())
	}
}

func TestFrameBufferLoadCopies(t *testing.T) {
	buf := NewFrameBuffer(1, 1)
	src := []byte{1, 2, 3, 4}
	if err := buf.Load(Frame{Width: 1, Height: 1, Pix: src}); err != nil {
		t.Fatal(err)
	}
	src[0] = 99
	if buf.Pix()[0] != 1 {
		t.Error("buffer aliases the frame pixels")
	}
}

func TestFrameBufferDisposeStopsWrites(t *testing.T) {
	buf := NewFrameBuffer(2, 2)
	buf.Apply(ApplyIdentity, 0, nil)
	buf.Dispose()
	n := buf.Writes()

	buf.Apply(ApplyIdentity, 0, nil)
	if err := buf.Load(Frame{Width: 0, Height: 0}); err == nil {
		t.Error("load into disposed buffer should fail")
	}
	if buf.Writes() != n {
		t.Errorf("writes after dispose = %d, want %d", buf.Writes(), n)
	}
	if buf.Pix() != nil || !buf.Disposed() {
		t.Error("dispose should drop pixels")
	}

	buf.Resize(3, 3)
	if buf.Disposed() || len(buf.Pix()) != 36 {
		t.Error("resize should bring a disposed buffer back")
	}
}

func TestFrameValidate(t *testing.T) {
	f := Frame{Width: 2, Height: 2, Pix: make([]byte, 15)}
	if !errors.Is(f.Validate(), ErrBufferSize) {
		t.Error("short frame should fail validation")
	}
	f.Pix = make([]byte, 16)
	if f.Validate() != nil {
		t.Error("exact frame should validate")
	}
	if !(Frame{Width: 0, Height: 5}).Empty() {
		t.Error("zero-width frame should be empty")
	}
}

func TestFrameFromImageRoundTrip(t *testing.T) {
	f := Frame{Width: 3, Height: 2, Pix: gradientPix(3, 2)}
	now := time.Now()
	g := FrameFromImage(f.Image().SubImage(f.Image().Bounds()), now)
	if g.Width != 3 || g.Height != 2 || !g.Captured.Equal(now) {
		t.Fatalf("frame = %dx%d", g.Width, g.Height)
	}
	for i := range f.Pix {
		if f.Pix[i] != g.Pix[i] {
			t.Fatalf("pix[%d] = %d, want %d", i, g.Pix[i], f.Pix[i])
		}
	}
}
