// Package ui is the optional Tk status window. It doubles as a key source for
// operators who prefer a focused window over system-wide keys.
//
// Tk owns the main goroutine: NewWindow and Run must be called from main, and
// Run blocks until Close is called from any goroutine.
package ui

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	. "modernc.org/tk9.0"

	"github.com/soocke/slice-bot-go/domain/input"
)

const refreshInterval = 250 * time.Millisecond

// StatusWindow shows a help text and a periodically refreshed status line, and
// feeds key presses made while it has focus into an input.Hub.
type StatusWindow struct {
	keys    *input.Hub
	logger  *slog.Logger
	status  func() string
	closing atomic.Bool

	statusLabel *LabelWidget
	afterID     string
}

// NewWindow builds the window. Closing it from the title bar releases every
// pending Wait, which the app treats as a quit.
func NewWindow(title, help string, logger *slog.Logger) *StatusWindow {
	w := &StatusWindow{keys: input.NewHub(), logger: logger}

	App.WmTitle(title)
	WmGeometry(App, "360x150+100+100")
	Pack(Label(Txt(help), Anchor("w")), Padx("2m"), Pady("1m"))
	w.statusLabel = Label(Txt("starting"), Borderwidth(1), Relief("ridge"), Anchor("w"))
	Pack(w.statusLabel, Padx("2m"), Pady("1m"))

	Bind(App, "<KeyPress>", Command(func(e *Event) { w.press(e.Keysym) }))
	WmProtocol(App, "WM_DELETE_WINDOW", w.keys.ReleaseAll)
	return w
}

// SetStatus sets the function polled for the status line. Call before Run.
func (w *StatusWindow) SetStatus(fn func() string) { w.status = fn }

// Run enters the Tk event loop and returns after Close.
func (w *StatusWindow) Run() {
	w.schedule()
	App.Wait()
}

func (w *StatusWindow) schedule() {
	w.afterID = TclAfter(refreshInterval, w.refresh)
}

func (w *StatusWindow) refresh() {
	if w.closing.Load() {
		Destroy(App)
		return
	}
	if w.status != nil {
		w.statusLabel.Configure(Txt(w.status()))
	}
	w.schedule()
}

func (w *StatusWindow) press(keysym string) {
	if w.logger != nil {
		w.logger.Debug("input.key", "key", keysym, "source", "window")
	}
	w.keys.Press(keysym)
}

func (w *StatusWindow) Wait(ctx context.Context, key string) error { return w.keys.Wait(ctx, key) }
func (w *StatusWindow) Pressed(key string) bool                    { return w.keys.Pressed(key) }

// Close releases waiters with ErrClosed and tears the window down on the next
// refresh tick.
func (w *StatusWindow) Close() error {
	w.closing.Store(true)
	w.keys.Close()
	return nil
}

var _ input.Source = (*StatusWindow)(nil)
