package action

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/slice-bot-go/domain/geometry"
	"github.com/soocke/slice-bot-go/domain/trajectory"
)

// Gesture defaults: a 50px circle sampled at 50 steps with a minimal pause.
const (
	DefaultRadius    = 50
	DefaultSteps     = 50
	DefaultStepDelay = time.Microsecond
)

// SequencerOptions configures the gesture streamed around each target.
type SequencerOptions struct {
	Radius    float64
	Steps     int
	StepDelay time.Duration
	Sleep     func(time.Duration) // defaults to time.Sleep
}

// Sequencer drives the pointer through press, circular gesture and release for
// each target in turn. It owns the trajectory cache and must be used from a
// single goroutine.
type Sequencer struct {
	pointer   Pointer
	paths     *trajectory.Generator
	radius    float64
	steps     int
	stepDelay time.Duration
	sleep     func(time.Duration)
	logger    *slog.Logger
}

// NewSequencer builds a Sequencer. A nil generator gets a fresh one.
func NewSequencer(pointer Pointer, paths *trajectory.Generator, opts SequencerOptions, logger *slog.Logger) *Sequencer {
	if paths == nil {
		paths = trajectory.NewGenerator()
	}
	if opts.Radius <= 0 {
		opts.Radius = DefaultRadius
	}
	if opts.Steps <= 0 {
		opts.Steps = DefaultSteps
	}
	if opts.StepDelay < 0 {
		opts.StepDelay = DefaultStepDelay
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Sequencer{
		pointer:   pointer,
		paths:     paths,
		radius:    opts.Radius,
		steps:     opts.Steps,
		stepDelay: opts.StepDelay,
		sleep:     opts.Sleep,
		logger:    logger,
	}
}

// Act runs the full gesture for every target, in order. The first pointer error
// aborts the remaining targets and is returned.
func (s *Sequencer) Act(targets []geometry.Point) error {
	for i, t := range targets {
		if err := s.gesture(t); err != nil {
			return fmt.Errorf("action: target %d at (%.0f,%.0f): %w", i, t.X, t.Y, err)
		}
	}
	return nil
}

func (s *Sequencer) gesture(target geometry.Point) (err error) {
	if err := s.pointer.SetPosition(target); err != nil {
		return err
	}
	if err := s.pointer.Press(); err != nil {
		return err
	}
	defer func() {
		if rerr := s.pointer.Release(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()
	start, err := s.pointer.Position()
	if err != nil {
		return err
	}
	path := s.paths.Offsets(s.radius, s.steps)
	for i := range path.DX {
		if err := s.pointer.SetPosition(start.Add(path.DX[i], path.DY[i])); err != nil {
			return err
		}
		if s.stepDelay > 0 {
			s.sleep(s.stepDelay)
		}
	}
	if s.logger != nil {
		s.logger.Debug("action.gesture", "x", target.X, "y", target.Y, "steps", path.Len())
	}
	return nil
}
