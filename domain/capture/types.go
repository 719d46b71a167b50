package capture

import (
	"errors"
	"image"
	"time"
)

// ErrClosed is returned by Grab after the source has been released.
var ErrClosed = errors.New("capture: source closed")

// Region is the screen rectangle a source captures.
type Region struct {
	X, Y, W, H int
}

// Rect converts the region to an image.Rectangle in screen coordinates.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// CaptureStats summarises capture behaviour for instrumentation.
type CaptureStats struct {
	Captures         uint64
	Skipped          uint64
	Unchanged        uint64
	AvgCapture       time.Duration
	AvgCaptureMicros float64
	LastCapture      time.Time
}
