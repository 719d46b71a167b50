//go:build !windows

package input

import "context"

// Global is only available on Windows.
type Global struct{}

// GlobalSupported reports false on this platform.
func GlobalSupported() bool { return false }

// NewGlobal returns ErrUnsupported on this platform.
func NewGlobal() (*Global, error) { return nil, ErrUnsupported }

func (*Global) Wait(ctx context.Context, key string) error { return ErrUnsupported }
func (*Global) Pressed(key string) bool                    { return false }
func (*Global) Close() error                               { return nil }

var _ Source = (*Global)(nil)
