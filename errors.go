package lens

import "errors"

// Device-level failures. These are reported to the caller of RenderLoop.Start
// or RenderLoop.Tick and are never retried automatically.
var (
	ErrDeviceUnavailable = errors.New("lens: capture device unavailable")
	ErrPermissionDenied  = errors.New("lens: capture permission denied")
	ErrDeviceLost        = errors.New("lens: capture device lost")
)

// ErrBufferSize reports a pixel buffer whose length disagrees with its
// dimensions. Inside the render loop a size mismatch between FilterState and
// the current frame is recovered by reseeding and never surfaces as an error.
var ErrBufferSize = errors.New("lens: buffer size mismatch")

// ErrUnknownFilter is returned when a FilterID or key does not name a
// registered filter.
var ErrUnknownFilter = errors.New("lens: unknown filter")

// ErrNotIdle is returned by RenderLoop.Start when the loop is already
// initializing or running.
var ErrNotIdle = errors.New("lens: render loop is not idle")

// IsDeviceError reports whether err wraps one of the device-level failures.
func IsDeviceError(err error) bool {
	return errors.Is(err, ErrDeviceUnavailable) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrDeviceLost)
}
