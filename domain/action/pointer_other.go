//go:build !windows

package action

// NewOSPointer returns the pointer backend for this platform.
func NewOSPointer() (Pointer, error) {
	return nil, ErrUnsupported
}
