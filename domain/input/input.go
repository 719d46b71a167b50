// Package input provides the key sources used to stop the bot.
package input

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrUnsupported is returned when a key source has no backend on this platform.
	ErrUnsupported = errors.New("input: key source not supported on this platform")
	// ErrClosed is returned by Wait once the source has been closed.
	ErrClosed = errors.New("input: source closed")
)

// Source reports key presses. Wait blocks until key is pressed or ctx is done;
// Pressed is a non-blocking poll that consumes a pending press.
type Source interface {
	Wait(ctx context.Context, key string) error
	Pressed(key string) bool
	Close() error
}

var keyAliases = map[string]string{
	"escape": "esc",
	" ":      "space",
	"return": "enter",
}

// NormalizeKey lower-cases a key name and folds common aliases.
func NormalizeKey(key string) string {
	if key == " " {
		return "space"
	}
	k := strings.ToLower(strings.TrimSpace(key))
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return k
}
