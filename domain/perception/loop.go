package perception

import (
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"

	"github.com/soocke/slice-bot-go/domain/detect"
	"github.com/soocke/slice-bot-go/domain/geometry"
)

// FrameSource yields frames of the capture region. (nil, nil) means no new frame.
type FrameSource interface {
	Grab() (*image.RGBA, error)
}

// Actuator acts on the safe targets of one iteration.
type Actuator interface {
	Act(targets []geometry.Point) error
}

// KeyPoller is the non-blocking half of a key source.
type KeyPoller interface {
	Pressed(key string) bool
}

// Options are the per-run constants of the loop.
type Options struct {
	Detect  detect.Options
	CutoffY float64
	StopKey string // polled after each acting iteration; empty disables
}

// StepResult describes one iteration.
type StepResult struct {
	Skipped       bool
	Detections    int
	Hazards       int
	Targets       int
	Safe          []geometry.Point
	ActErr        error
	StopRequested bool
}

// Stats are cumulative loop counters.
type Stats struct {
	Iterations uint64
	Skipped    uint64
	Detections uint64
	Acted      uint64
	ActErrors  uint64
}

// Loop runs detect, filter and act once per iteration until its token is cancelled.
// Run must not be called concurrently; Stats may be read from any goroutine.
type Loop struct {
	frames   FrameSource
	detector detect.Detector
	actuator Actuator
	keys     KeyPoller
	opts     Options
	logger   *slog.Logger

	grabErrs uint64 // current streak of failed grabs, worker-only

	iterations atomic.Uint64
	skipped    atomic.Uint64
	detections atomic.Uint64
	acted      atomic.Uint64
	actErrors  atomic.Uint64
}

// NewLoop wires a loop. keys may be nil.
func NewLoop(frames FrameSource, detector detect.Detector, actuator Actuator, keys KeyPoller, opts Options, logger *slog.Logger) *Loop {
	if opts.CutoffY <= 0 {
		opts.CutoffY = geometry.DefaultCutoffY
	}
	return &Loop{
		frames:   frames,
		detector: detector,
		actuator: actuator,
		keys:     keys,
		opts:     opts,
		logger:   logger,
	}
}

// Run iterates until token is cancelled, the stop key is pressed or the detector
// fails. The token is checked only between iterations; an iteration in progress
// always completes, including all of its actuation.
func (l *Loop) Run(token *Token) error {
	for !token.Cancelled() {
		res, err := l.Step()
		if err != nil {
			return err
		}
		if res.StopRequested {
			if l.logger != nil {
				l.logger.Info("perception.stop_key", "key", l.opts.StopKey)
			}
			return nil
		}
	}
	return nil
}

// Step performs a single iteration. Only detector failures are returned as errors.
func (l *Loop) Step() (StepResult, error) {
	l.iterations.Add(1)
	frame, err := l.frames.Grab()
	l.noteGrab(err)
	if err != nil || frame == nil {
		l.skipped.Add(1)
		return StepResult{Skipped: true}, nil
	}

	objs, err := l.detector.Detect(frame, l.opts.Detect)
	if err != nil {
		return StepResult{}, fmt.Errorf("perception: detect: %w", err)
	}
	l.detections.Add(uint64(len(objs)))

	var hazards []geometry.BoundingBox
	var targets []geometry.Target
	for _, o := range objs {
		switch o.Label {
		case geometry.LabelHazard:
			hazards = append(hazards, o.Box)
		case geometry.LabelTarget:
			targets = append(targets, geometry.TargetOf(o))
		}
	}
	safe := geometry.SafeTargets(targets, hazards, l.opts.CutoffY)

	res := StepResult{
		Detections: len(objs),
		Hazards:    len(hazards),
		Targets:    len(targets),
		Safe:       safe,
	}
	if err := l.actuator.Act(safe); err != nil {
		l.actErrors.Add(1)
		res.ActErr = err
		if l.logger != nil {
			l.logger.Warn("perception.act", "error", err, "targets", len(safe))
		}
	} else {
		l.acted.Add(uint64(len(safe)))
	}
	if l.logger != nil && len(objs) > 0 {
		l.logger.Debug("perception.step",
			"detections", len(objs),
			"hazards", len(hazards),
			"targets", len(targets),
			"safe", len(safe),
		)
	}

	if l.keys != nil && l.opts.StopKey != "" && l.keys.Pressed(l.opts.StopKey) {
		res.StopRequested = true
	}
	return res, nil
}

// noteGrab logs the first error of a streak of failed grabs and a summary once
// a grab succeeds again.
func (l *Loop) noteGrab(err error) {
	if err != nil {
		l.grabErrs++
		if l.grabErrs == 1 && l.logger != nil {
			l.logger.Warn("perception.grab", "error", err)
		}
		return
	}
	if l.grabErrs > 0 && l.logger != nil {
		l.logger.Info("perception.grab_recovered", "failed", l.grabErrs)
	}
	l.grabErrs = 0
}

func (l *Loop) Stats() Stats {
	return Stats{
		Iterations: l.iterations.Load(),
		Skipped:    l.skipped.Load(),
		Detections: l.detections.Load(),
		Acted:      l.acted.Load(),
		ActErrors:  l.actErrors.Load(),
	}
}

// ActuatorFunc adapts a function to Actuator.
type ActuatorFunc func(targets []geometry.Point) error

func (f ActuatorFunc) Act(targets []geometry.Point) error { return f(targets) }
