package capture

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vova616/screenshot"
)

const captureStatsLogInterval = 5 * time.Second

// GrabFunc captures rect from the screen.
type GrabFunc func(rect image.Rectangle) (*image.RGBA, error)

// ScreenSource captures a fixed screen region. Grab reports (nil, nil) when no new
// frame is available. It is meant to be used by a single consumer goroutine; Stats
// and Close may be called from any goroutine.
type ScreenSource struct {
	region        Region
	grab          GrabFunc
	bounds        func() (image.Rectangle, error)
	skipUnchanged bool
	logger        *slog.Logger

	prev    []byte
	lastLog time.Time

	closed       atomic.Bool
	closeOnce    sync.Once
	captures     atomic.Uint64
	skipped      atomic.Uint64
	unchanged    atomic.Uint64
	captureNanos atomic.Uint64
	lastCapture  atomic.Int64
}

// NewScreenSource captures region with the OS screenshot backend.
func NewScreenSource(logger *slog.Logger, region Region, skipUnchanged bool) *ScreenSource {
	return newScreenSource(logger, region, skipUnchanged, screenshot.CaptureRect, screenshot.ScreenRect)
}

func newScreenSource(logger *slog.Logger, region Region, skipUnchanged bool, grab GrabFunc, bounds func() (image.Rectangle, error)) *ScreenSource {
	return &ScreenSource{
		region:        region,
		grab:          grab,
		bounds:        bounds,
		skipUnchanged: skipUnchanged,
		logger:        logger,
		lastLog:       time.Now(),
	}
}

// Region returns the configured capture region.
func (s *ScreenSource) Region() Region { return s.region }

// Grab captures the region clipped to the screen bounds. It returns (nil, nil)
// when the region is off-screen or, with skipUnchanged set, when the pixels are
// identical to the previous frame.
func (s *ScreenSource) Grab() (*image.RGBA, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	r := s.region.Rect()
	if s.bounds != nil {
		screen, err := s.bounds()
		if err != nil {
			s.skipped.Add(1)
			return nil, fmt.Errorf("capture: screen bounds: %w", err)
		}
		r = r.Intersect(screen)
	}
	if r.Empty() {
		s.skipped.Add(1)
		return nil, nil
	}
	img, err := s.grab(r)
	if err != nil {
		s.skipped.Add(1)
		return nil, fmt.Errorf("capture: grab %v: %w", r, err)
	}
	if img == nil {
		s.skipped.Add(1)
		return nil, nil
	}
	if s.skipUnchanged {
		if s.prev != nil && bytes.Equal(s.prev, img.Pix) {
			s.unchanged.Add(1)
			s.skipped.Add(1)
			return nil, nil
		}
		s.prev = append(s.prev[:0], img.Pix...)
	}
	// Frame bounds carry screen coordinates so detections map back directly.
	img.Rect = image.Rect(r.Min.X, r.Min.Y, r.Min.X+img.Rect.Dx(), r.Min.Y+img.Rect.Dy())

	s.captureNanos.Add(uint64(time.Since(start).Nanoseconds()))
	s.captures.Add(1)
	s.lastCapture.Store(time.Now().UnixNano())
	if time.Since(s.lastLog) >= captureStatsLogInterval {
		s.lastLog = time.Now()
		s.logStats()
	}
	return img, nil
}

// Close releases the source. Only the first call has an effect.
func (s *ScreenSource) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.prev = nil
		if s.logger != nil {
			s.logger.Debug("capture.closed", "captures", s.captures.Load())
		}
	})
	return nil
}

// Closed reports whether Close has been called.
func (s *ScreenSource) Closed() bool { return s.closed.Load() }

func (s *ScreenSource) Stats() CaptureStats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	var last time.Time
	if ns := s.lastCapture.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}
	return CaptureStats{
		Captures:         captures,
		Skipped:          s.skipped.Load(),
		Unchanged:        s.unchanged.Load(),
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      last,
	}
}

func (s *ScreenSource) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"skipped", stats.Skipped,
		"unchanged", stats.Unchanged,
		"avg_capture", stats.AvgCapture,
	)
}
