package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/slice-bot-go/config"
	"github.com/soocke/slice-bot-go/domain/action"
	"github.com/soocke/slice-bot-go/domain/capture"
	"github.com/soocke/slice-bot-go/domain/detect"
	"github.com/soocke/slice-bot-go/domain/geometry"
	"github.com/soocke/slice-bot-go/domain/input"
	"github.com/soocke/slice-bot-go/domain/perception"
	"github.com/soocke/slice-bot-go/domain/trajectory"
)

// Container assembles collaborators, the loop and the app.
type Container struct {
	Config    *config.Config
	Logger    *slog.Logger
	Frames    *capture.ScreenSource
	Detector  detect.Detector
	Pointer   action.Pointer
	Paths     *trajectory.Generator
	Sequencer *action.Sequencer
	Keys      input.Source
	Loop      *perception.Loop
	App       *App
}

// BuildContainer constructs all components. keys, when non-nil, is used as the
// key source; otherwise one is built for ResolveInput(cfg). The key source is
// built last since a terminal source takes over the screen.
func BuildContainer(cfg *config.Config, logger *slog.Logger, keys input.Source) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger, Keys: keys}

	det, err := buildDetector(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.Detector = det

	c.Pointer, err = buildPointer(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.Paths = trajectory.NewGenerator()
	c.Sequencer = action.NewSequencer(c.Pointer, c.Paths, action.SequencerOptions{
		Radius:    cfg.Radius,
		Steps:     cfg.Steps,
		StepDelay: cfg.StepDelay(),
	}, logger)

	c.Frames = capture.NewScreenSource(logger, capture.Region{
		X: cfg.RegionX,
		Y: cfg.RegionY,
		W: cfg.RegionW,
		H: cfg.RegionH,
	}, cfg.SkipUnchanged)

	if c.Keys == nil {
		c.Keys, err = buildKeys(cfg, logger)
		if err != nil {
			return nil, err
		}
	}
	if t, ok := c.Keys.(*input.Terminal); ok {
		t.Show(fmt.Sprintf("slice-bot running\n  %s  quit\n  %s  stop loop\n  ctrl+c  quit", cfg.QuitKey, cfg.StopKey))
	}

	c.Loop = perception.NewLoop(c.Frames, c.Detector, c.Sequencer, c.Keys, perception.Options{
		Detect: detect.Options{
			IoU:        cfg.IoUThreshold,
			Confidence: cfg.Confidence,
			ImageSize:  cfg.ImageSize,
		},
		CutoffY: cfg.CutoffY,
		StopKey: cfg.StopKey,
	}, logger)
	c.App = New(c.Loop, c.Frames, c.Keys, cfg.QuitKey, logger)
	return c, nil
}

// Close releases the key source.
func (c *Container) Close() error {
	if c.Keys == nil {
		return nil
	}
	return c.Keys.Close()
}

func buildDetector(cfg *config.Config, logger *slog.Logger) (detect.Detector, error) {
	hazard, err := detect.LoadTemplate(geometry.LabelHazard, cfg.HazardTemplate)
	if err != nil {
		return nil, err
	}
	target, err := detect.LoadTemplate(geometry.LabelTarget, cfg.TargetTemplate)
	if err != nil {
		return nil, err
	}
	return detect.NewTemplateDetector([]detect.Template{hazard, target}, cfg.Stride, logger)
}

func buildPointer(cfg *config.Config, logger *slog.Logger) (action.Pointer, error) {
	if cfg.DryRun {
		return action.NewDryRunPointer(logger), nil
	}
	p, err := action.NewOSPointer()
	if errors.Is(err, action.ErrUnsupported) {
		logger.Warn("pointer backend unavailable, using dry run", "error", err)
		return action.NewDryRunPointer(logger), nil
	}
	return p, err
}

// ResolveInput returns the key source kind that will actually run for cfg:
// a global source falls back to the terminal where it is unsupported.
func ResolveInput(cfg *config.Config) string {
	if cfg.Input == config.InputGlobal && !input.GlobalSupported() {
		return config.InputTerminal
	}
	return cfg.Input
}

func buildKeys(cfg *config.Config, logger *slog.Logger) (input.Source, error) {
	switch kind := ResolveInput(cfg); kind {
	case config.InputGlobal:
		g, err := input.NewGlobal()
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.InputTerminal:
		if cfg.Input != kind {
			logger.Warn("global key source unavailable, using terminal", "requested", cfg.Input)
		}
		t, err := input.NewTerminal(logger)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("app: key source %q must be supplied by the caller", kind)
	}
}

// DefaultTerminalLog receives logs when the terminal key source owns the screen.
const DefaultTerminalLog = "slice-bot.log"

// LogPath returns the log file for cfg, or "" for stdout. It is decided from the
// resolved key source, so a global source that falls back to the terminal also
// keeps log lines off the screen.
func LogPath(cfg *config.Config) string {
	if cfg.LogFile != "" {
		return cfg.LogFile
	}
	if ResolveInput(cfg) == config.InputTerminal {
		return DefaultTerminalLog
	}
	return ""
}

// Status is a two-line summary of loop and capture counters.
func (c *Container) Status() string {
	ls := c.Loop.Stats()
	cs := c.Frames.Stats()
	return fmt.Sprintf("iterations %d  acted %d  errors %d\ncaptures %d  skipped %d  avg %s",
		ls.Iterations, ls.Acted, ls.ActErrors,
		cs.Captures, cs.Skipped, cs.AvgCapture.Round(time.Microsecond))
}
