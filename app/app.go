package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/soocke/slice-bot-go/domain/capture"
	"github.com/soocke/slice-bot-go/domain/input"
	"github.com/soocke/slice-bot-go/domain/perception"
)

// Worker is the loop run on the worker goroutine.
type Worker interface {
	Run(token *perception.Token) error
}

// QuitWaiter blocks until the quit key is pressed.
type QuitWaiter interface {
	Wait(ctx context.Context, key string) error
}

// App owns the cancellation token, runs the worker and releases the frame
// source once the worker has stopped.
type App struct {
	worker  Worker
	frames  io.Closer
	keys    QuitWaiter
	quitKey string
	logger  *slog.Logger
	ran     atomic.Bool
}

func New(worker Worker, frames io.Closer, keys QuitWaiter, quitKey string, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{worker: worker, frames: frames, keys: keys, quitKey: quitKey, logger: logger}
}

// Run starts the worker and blocks until the quit key is pressed, ctx is done or
// the worker exits on its own. It then cancels the token, joins the worker and
// closes the frame source. The worker's error is returned. Run may be called once.
func (a *App) Run(ctx context.Context) error {
	if !a.ran.CompareAndSwap(false, true) {
		return errors.New("app: already run")
	}
	logger := a.logger.With("run_id", uuid.NewString())
	token := perception.NewToken()

	waitCtx, stopWait := context.WithCancel(ctx)
	defer stopWait()

	done := make(chan error, 1)
	go func() {
		defer stopWait()
		done <- a.runWorker(token, logger)
	}()
	logger.Info("app.started", "quit_key", a.quitKey)

	werr := a.keys.Wait(waitCtx, a.quitKey)
	switch {
	case werr == nil:
		logger.Info("app.quit", "reason", "quit_key")
	case ctx.Err() != nil:
		logger.Info("app.quit", "reason", "signal")
	case waitCtx.Err() != nil:
		logger.Info("app.quit", "reason", "worker_exit")
	default:
		logger.Warn("app.quit", "reason", "input", "error", werr)
	}

	token.Cancel()
	err := <-done
	if cerr := a.frames.Close(); cerr != nil {
		logger.Error("app.release", "error", cerr)
		err = errors.Join(err, fmt.Errorf("app: release frames: %w", cerr))
	}
	a.logStats(logger)
	if err != nil {
		logger.Error("app.stopped", "error", err)
	} else {
		logger.Info("app.stopped")
	}
	return err
}

func (a *App) runWorker(token *perception.Token, logger *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("worker panic", "error", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("app: worker panic: %v", r)
		}
	}()
	return a.worker.Run(token)
}

func (a *App) logStats(logger *slog.Logger) {
	if s, ok := a.worker.(interface{ Stats() perception.Stats }); ok {
		st := s.Stats()
		logger.Info("perception.stats",
			"iterations", st.Iterations,
			"skipped", st.Skipped,
			"detections", st.Detections,
			"acted", st.Acted,
			"act_errors", st.ActErrors,
		)
	}
	if s, ok := a.frames.(interface{ Stats() capture.CaptureStats }); ok {
		st := s.Stats()
		logger.Info("capture.stats",
			"captures", st.Captures,
			"skipped", st.Skipped,
			"unchanged", st.Unchanged,
			"avg_capture", st.AvgCapture,
		)
	}
}

var _ QuitWaiter = (input.Source)(nil)
