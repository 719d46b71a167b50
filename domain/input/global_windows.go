//go:build windows

package input

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/windows"
)

const globalPollInterval = 20 * time.Millisecond

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

// Global observes keys system-wide with GetAsyncKeyState, so presses are seen
// while another window has focus.
type Global struct {
	done      chan struct{}
	closeOnce sync.Once
}

// GlobalSupported reports whether the system-wide source can be built here.
func GlobalSupported() bool { return procGetAsyncKeyState.Find() == nil }

// NewGlobal returns a system-wide key source.
func NewGlobal() (*Global, error) {
	if err := procGetAsyncKeyState.Find(); err != nil {
		return nil, fmt.Errorf("input: load user32: %w", err)
	}
	return &Global{done: make(chan struct{})}, nil
}

func keyState(vk byte) uint16 {
	r, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return uint16(r)
}

// Wait polls until key is pressed. Taps shorter than the poll interval are
// caught through the pressed-since-last-query bit.
func (g *Global) Wait(ctx context.Context, key string) error {
	vk, ok := ParseVK(key)
	if !ok {
		return fmt.Errorf("input: unknown key %q", key)
	}
	keyState(vk) // clear the pressed-since-last-call bit
	ticker := time.NewTicker(globalPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-g.done:
			return ErrClosed
		case <-ticker.C:
			if asyncPressed(keyState(vk)) {
				return nil
			}
		}
	}
}

// Pressed reports whether key is down or was pressed since the last query.
func (g *Global) Pressed(key string) bool {
	vk, ok := ParseVK(key)
	if !ok {
		return false
	}
	return asyncPressed(keyState(vk))
}

func (g *Global) Close() error {
	g.closeOnce.Do(func() { close(g.done) })
	return nil
}

var _ Source = (*Global)(nil)
