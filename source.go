package lens

import "context"

// FrameSource supplies decoded frames from a capture device.
//
// Acquire is the only operation allowed to block and is called once while the
// render loop initializes. Next is called once per tick; it returns ok=false
// when no frame is ready, which the loop treats as a skipped tick. The frame's
// pixels only need to stay valid until the next call to Next. Release stops
// the device and must be safe to call more than once. Sources never retry on
// their own; a restart is an explicit Release followed by Acquire.
type FrameSource interface {
	Acquire(ctx context.Context) error
	Next() (frame Frame, ok bool, err error)
	Release() error
}

// Presenter is the display surface the render loop pushes frames to. Resize
// is called in the same tick the frame buffer changes size, before the first
// Present at the new size. Present must not retain pix after it returns.
type Presenter interface {
	Resize(width, height int)
	Present(pix []byte, width, height int) error
}

// Snapshotter is implemented by presenters that can save the next presented
// frame under a label.
type Snapshotter interface {
	Snapshot(label string)
}

// EventType identifies a kind of render loop event.
type EventType uint8

const (
	EventStateChanged  EventType = iota // the loop moved to a new LoopState
	EventFilterChanged                  // SetActiveFilter swapped the selection
	EventResized                        // the frame buffer and surface were resized
	EventReseeded                       // filter state was reset after a size mismatch
	EventDeviceError                    // the frame source failed
)

// String returns a short lowercase name for the event type.
func (t EventType) String() string {
	switch t {
	case EventStateChanged:
		return "state"
	case EventFilterChanged:
		return "filter"
	case EventResized:
		return "resize"
	case EventReseeded:
		return "reseed"
	case EventDeviceError:
		return "device-error"
	default:
		return "unknown"
	}
}

// Event carries render loop notifications to an EventSink.
type Event struct {
	Type     EventType
	State    LoopState
	Filter   FilterID
	Previous FilterID // valid for EventFilterChanged
	Width    int      // valid for EventResized and EventReseeded
	Height   int
	Err      error // valid for EventDeviceError
}

// EventSink receives render loop events. EmitEvent is called synchronously
// from the loop and must not call back into it.
type EventSink interface {
	EmitEvent(event Event)
}
