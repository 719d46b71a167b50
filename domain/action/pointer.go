package action

import (
	"errors"

	"github.com/soocke/slice-bot-go/domain/geometry"
)

// ErrUnsupported is returned by OS pointer primitives on platforms without a backend.
var ErrUnsupported = errors.New("action: pointer injection not supported on this platform")

// Pointer externalizes the OS pointer: one position and one primary button.
// Calls are synchronous and take effect immediately.
type Pointer interface {
	Position() (geometry.Point, error)
	SetPosition(p geometry.Point) error
	Press() error
	Release() error
}
