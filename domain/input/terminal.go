package input

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Terminal reads keys from the controlling terminal through tcell.
//
// The terminal runs in raw mode, so Ctrl+C does not raise SIGINT; it releases
// every pending Wait instead.
type Terminal struct {
	screen tcell.Screen
	logger *slog.Logger
	keys   *Hub

	closeOnce sync.Once
}

// NewTerminal takes over the terminal and starts reading key events.
func NewTerminal(logger *slog.Logger) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("input: terminal screen: %w", err)
	}
	return newTerminal(screen, logger)
}

func newTerminal(screen tcell.Screen, logger *slog.Logger) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("input: terminal init: %w", err)
	}
	t := &Terminal{screen: screen, logger: logger, keys: NewHub()}
	go t.pump()
	return t, nil
}

func (t *Terminal) pump() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.dispatch(keyName(ev))
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Terminal) dispatch(name string) {
	if t.logger != nil {
		t.logger.Debug("input.key", "key", name)
	}
	if name == "ctrl+c" {
		t.keys.ReleaseAll()
		return
	}
	t.keys.Press(name)
}

// Wait blocks until key is pressed after the call, Ctrl+C is pressed, ctx is
// done or the terminal is closed.
func (t *Terminal) Wait(ctx context.Context, key string) error { return t.keys.Wait(ctx, key) }

// Pressed reports whether key was pressed since the previous Pressed call for it.
func (t *Terminal) Pressed(key string) bool { return t.keys.Pressed(key) }

// Show replaces the terminal contents with text, one line per row.
func (t *Terminal) Show(text string) {
	t.screen.Clear()
	for y, line := range strings.Split(text, "\n") {
		for x, r := range []rune(line) {
			t.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
		}
	}
	t.screen.Show()
}

// Close restores the terminal. Only the first call has an effect.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.keys.Close()
		t.screen.Fini()
	})
	return nil
}

func keyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 && unicode.ToLower(ev.Rune()) == 'c' {
		return "ctrl+c"
	}
	switch ev.Key() {
	case tcell.KeyRune:
		return NormalizeKey(string(ev.Rune()))
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyCtrlC:
		return "ctrl+c"
	}
	if k := ev.Key(); k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return fmt.Sprintf("f%d", int(k-tcell.KeyF1)+1)
	}
	return strings.ToLower(ev.Name())
}

var _ Source = (*Terminal)(nil)
