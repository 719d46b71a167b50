package perception

import "sync/atomic"

// Token is a one-shot cancellation flag. The zero value is ready to use.
type Token struct {
	cancelled atomic.Bool
}

func NewToken() *Token { return &Token{} }

// Cancel sets the flag. It reports whether this call was the one that set it.
func (t *Token) Cancel() bool {
	return t.cancelled.CompareAndSwap(false, true)
}

func (t *Token) Cancelled() bool { return t.cancelled.Load() }
