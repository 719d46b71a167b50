package input

import (
	"context"
	"sync"
)

// Hub fans key presses out to blocked waiters and keeps a consumable set of
// pending presses for polling. Key sources feed it from their event pump.
type Hub struct {
	mu      sync.Mutex
	pending map[string]int
	waiters map[string][]chan struct{}

	done      chan struct{}
	closeOnce sync.Once
}

func NewHub() *Hub {
	return &Hub{
		pending: make(map[string]int),
		waiters: make(map[string][]chan struct{}),
		done:    make(chan struct{}),
	}
}

// Press records a press of key and releases its waiters.
func (h *Hub) Press(key string) {
	key = NormalizeKey(key)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending[key]++
	for _, ch := range h.waiters[key] {
		close(ch)
	}
	delete(h.waiters, key)
}

// ReleaseAll releases every pending Wait as if its key had been pressed.
func (h *Hub) ReleaseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for k, chs := range h.waiters {
		for _, ch := range chs {
			close(ch)
		}
		delete(h.waiters, k)
	}
}

// Wait blocks until key is pressed after the call, ReleaseAll is called, ctx is
// done or the hub is closed.
func (h *Hub) Wait(ctx context.Context, key string) error {
	key = NormalizeKey(key)
	ch := make(chan struct{})
	h.mu.Lock()
	h.waiters[key] = append(h.waiters[key], ch)
	h.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrClosed
	}
}

// Pressed reports whether key was pressed since the previous Pressed call for it.
func (h *Hub) Pressed(key string) bool {
	key = NormalizeKey(key)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending[key] == 0 {
		return false
	}
	h.pending[key] = 0
	return true
}

// Close makes current and future Waits return ErrClosed. It is idempotent.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Done is closed once the hub is closed.
func (h *Hub) Done() <-chan struct{} { return h.done }
