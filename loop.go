package lens

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// LoopState is a RenderLoop lifecycle state.
type LoopState uint8

const (
	StateIdle         LoopState = iota // no source held, no buffers
	StateInitializing                  // acquiring the frame source
	StateRunning                       // ticking
	StateDisposing                     // tearing down
)

// String returns the lowercase state name.
func (s LoopState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateDisposing:
		return "disposing"
	default:
		return fmt.Sprintf("LoopState(%d)", uint8(s))
	}
}

// LoopConfig configures a RenderLoop.
type LoopConfig struct {
	// Filter is the initially active filter.
	Filter FilterID
	// Logger receives lifecycle and error logs. Nil discards them.
	Logger *slog.Logger
	// Events optionally receives loop events.
	Events EventSink
	// Debug logs per-tick timing at debug level.
	Debug bool
}

// LoopStats holds render loop counters.
type LoopStats struct {
	Ticks     uint64        // Tick calls that ran while the loop was running
	Presented uint64        // frames pushed to the presenter
	Skipped   uint64        // ticks with no usable frame
	Resizes   uint64        // buffer and surface resizes
	Reseeds   uint64        // filter state resets after a size mismatch
	Writes    uint64        // frame buffer mutations
	LastTick  time.Duration // wall time of the last presented tick
}

// RenderLoop drives FrameSource -> FrameBuffer -> filter -> Presenter once per
// tick. Ticks come from an explicit scheduler: Run with a tick channel, or an
// external driver such as a game loop calling Tick.
//
// Ticks never overlap. Tick, SetActiveFilter and Dispose are serialised, so a
// Dispose from another goroutine waits for the tick in flight and no tick
// runs after it.
type RenderLoop struct {
	mu        sync.Mutex
	cancelled atomic.Bool

	state     LoopState
	source    FrameSource
	presenter Presenter
	buf       *FrameBuffer
	sel       *ActiveSelection
	started   time.Time
	stats     LoopStats

	logger *slog.Logger
	events EventSink
	debug  bool
}

// NewRenderLoop creates an idle loop reading from src and presenting to p.
func NewRenderLoop(src FrameSource, p Presenter, cfg LoopConfig) (*RenderLoop, error) {
	sel, err := NewActiveSelection(cfg.Filter)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RenderLoop{
		source:    src,
		presenter: p,
		buf:       &FrameBuffer{},
		sel:       sel,
		logger:    logger,
		events:    cfg.Events,
		debug:     cfg.Debug,
	}, nil
}

// State returns the current lifecycle state.
func (l *RenderLoop) State() LoopState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// ActiveFilter returns the id of the active filter.
func (l *RenderLoop) ActiveFilter() FilterID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sel.Descriptor().ID
}

// Size returns the current frame buffer dimensions.
func (l *RenderLoop) Size() (w, h int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Width(), l.buf.Height()
}

// Stats returns a copy of the loop counters.
func (l *RenderLoop) Stats() LoopStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.stats
	s.Writes = l.buf.Writes()
	return s
}

// Elapsed returns the animation time at now. All filters share this single
// clock; it starts when the loop enters StateRunning and is not reset on a
// filter switch.
func (l *RenderLoop) Elapsed(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started.IsZero() {
		return 0
	}
	return now.Sub(l.started)
}

// Start acquires the frame source and moves the loop to StateRunning. If the
// source fails the error is returned and the loop stays idle; nothing is
// retried. Start may be called again after Dispose to restart the stream.
func (l *RenderLoop) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.state != StateIdle {
		l.mu.Unlock()
		return ErrNotIdle
	}
	l.cancelled.Store(false)
	l.setState(StateInitializing)
	l.mu.Unlock()

	err := l.source.Acquire(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.logger.Error("acquire frame source", "error", err)
		l.emit(Event{Type: EventDeviceError, Err: err})
		l.setState(StateIdle)
		return fmt.Errorf("lens: acquire frame source: %w", err)
	}
	if l.cancelled.Load() {
		// Disposed while acquiring.
		if rerr := l.source.Release(); rerr != nil {
			l.logger.Warn("release frame source", "error", rerr)
		}
		l.setState(StateIdle)
		return fmt.Errorf("lens: start: %w", context.Canceled)
	}
	l.started = time.Now()
	l.setState(StateRunning)
	return nil
}

// Tick runs one iteration with the given animation time: fetch a frame (or
// skip the tick when none is ready), resize the buffer and surface when the
// resolution changed, apply the active filter in place, present.
//
// A source error disposes the loop before anything is presented and is
// returned. Tick is a no-op unless the loop is running.
func (l *RenderLoop) Tick(elapsed time.Duration) error {
	if l.cancelled.Load() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateRunning || l.cancelled.Load() {
		return nil
	}

	t0 := time.Now()
	l.stats.Ticks++

	frame, ok, err := l.source.Next()
	if err != nil {
		l.logger.Error("next frame", "error", err)
		l.emit(Event{Type: EventDeviceError, Err: err})
		if derr := l.disposeLocked(); derr != nil {
			l.logger.Warn("dispose after source error", "error", derr)
		}
		return fmt.Errorf("lens: next frame: %w", err)
	}
	if !ok || frame.Empty() {
		l.stats.Skipped++
		return nil
	}
	if err := frame.Validate(); err != nil {
		l.stats.Skipped++
		l.logger.Warn("dropping malformed frame", "error", err)
		return nil
	}

	var stats tickStats
	w, h := int(frame.Width), int(frame.Height)
	if w != l.buf.Width() || h != l.buf.Height() || l.buf.Disposed() {
		l.buf.Resize(w, h)
		l.presenter.Resize(w, h)
		l.stats.Resizes++
		l.logger.Info("resized frame buffer", "width", w, "height", h)
		l.emit(Event{Type: EventResized, Filter: l.sel.Descriptor().ID, Width: w, Height: h})
	}
	if err := l.buf.Load(frame); err != nil {
		l.stats.Skipped++
		l.logger.Warn("load frame", "error", err)
		return nil
	}
	stats.loadTime = time.Since(t0)
	t0 = time.Now()

	if l.sel.Apply(l.buf, elapsed.Seconds()) {
		l.stats.Reseeds++
		l.logger.Warn("filter state size mismatch, reseeded",
			"filter", l.sel.Descriptor().Key, "width", w, "height", h)
		l.emit(Event{Type: EventReseeded, Filter: l.sel.Descriptor().ID, Width: w, Height: h})
	}
	stats.filterTime = time.Since(t0)
	t0 = time.Now()

	if err := l.presenter.Present(l.buf.Pix(), w, h); err != nil {
		return fmt.Errorf("lens: present: %w", err)
	}
	l.stats.Presented++

	stats.presentTime = time.Since(t0)
	stats.filter = l.sel.Descriptor().ID
	stats.width, stats.height = w, h
	l.stats.LastTick = stats.total()
	if l.debug {
		l.debugLog(stats)
	}
	return nil
}

// Run ticks the loop once per value received on ticks, using the tick's
// timestamp against the loop clock as the animation time. It returns when ctx
// is done, ticks is closed, the loop leaves StateRunning, or a tick fails.
// Run does not dispose the loop; the caller does.
func (l *RenderLoop) Run(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-ticks:
			if !ok || l.cancelled.Load() || l.State() != StateRunning {
				return nil
			}
			if err := l.Tick(l.Elapsed(now)); err != nil {
				return err
			}
		}
	}
}

// NewTicker returns a tick channel firing fps times per second and a stop
// function. fps <= 0 defaults to 60.
func NewTicker(fps int) (<-chan time.Time, func()) {
	if fps <= 0 {
		fps = 60
	}
	t := time.NewTicker(time.Second / time.Duration(fps))
	return t.C, t.Stop
}

// SetActiveFilter swaps the active filter and returns the previous one. The
// new filter starts with empty state and takes effect on the next tick.
func (l *RenderLoop) SetActiveFilter(id FilterID) (FilterID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev, err := l.sel.Switch(id)
	if err != nil {
		return prev, err
	}
	l.logger.Info("active filter changed", "filter", id.String(), "previous", prev.String())
	l.emit(Event{Type: EventFilterChanged, State: l.state, Filter: id, Previous: prev})
	return prev, nil
}

// Dispose stops the loop. Teardown order: the cancellation flag is set so no
// further tick runs, the tick in flight (if any) completes, the frame source
// is released, then buffers are freed. Dispose is idempotent.
func (l *RenderLoop) Dispose() error {
	l.cancelled.Store(true)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateRunning {
		return nil
	}
	return l.disposeLocked()
}

func (l *RenderLoop) disposeLocked() error {
	l.cancelled.Store(true)
	l.setState(StateDisposing)
	err := l.source.Release()
	l.buf.Dispose()
	l.sel.State().Reset()
	l.started = time.Time{}
	l.setState(StateIdle)
	if err != nil {
		return fmt.Errorf("lens: release frame source: %w", err)
	}
	return nil
}

// setState records a transition. Callers hold l.mu.
func (l *RenderLoop) setState(s LoopState) {
	if l.state == s {
		return
	}
	l.logger.Info("render loop state", "from", l.state.String(), "to", s.String())
	l.state = s
	l.emit(Event{Type: EventStateChanged, State: s, Filter: l.sel.Descriptor().ID})
}

func (l *RenderLoop) emit(e Event) {
	if l.events == nil {
		return
	}
	if e.Type != EventStateChanged {
		e.State = l.state
	}
	l.events.EmitEvent(e)
}
