//go:build windows

package action

import (
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/soocke/slice-bot-go/domain/geometry"
)

const (
	mouseEventLeftDown = 0x0002
	mouseEventLeftUp   = 0x0004
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procSetCursorPos = user32.NewProc("SetCursorPos")
	procGetCursorPos = user32.NewProc("GetCursorPos")
	procMouseEvent   = user32.NewProc("mouse_event")
)

type winPoint struct {
	X, Y int32
}

// Win32Pointer drives the system cursor with SetCursorPos and mouse_event.
type Win32Pointer struct{}

// NewOSPointer returns the pointer backend for this platform.
func NewOSPointer() (Pointer, error) {
	if err := procSetCursorPos.Find(); err != nil {
		return nil, fmt.Errorf("action: load user32: %w", err)
	}
	return Win32Pointer{}, nil
}

func (Win32Pointer) Position() (geometry.Point, error) {
	var pt winPoint
	ok, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ok == 0 {
		return geometry.Point{}, fmt.Errorf("action: GetCursorPos: %w", err)
	}
	return geometry.Point{X: float64(pt.X), Y: float64(pt.Y)}, nil
}

func (Win32Pointer) SetPosition(p geometry.Point) error {
	x := int32(math.Round(p.X))
	y := int32(math.Round(p.Y))
	ok, _, err := procSetCursorPos.Call(uintptr(x), uintptr(y))
	if ok == 0 {
		return fmt.Errorf("action: SetCursorPos x=%d y=%d: %w", x, y, err)
	}
	return nil
}

// Press sends a left button down. mouse_event reports no failure.
func (Win32Pointer) Press() error {
	_, _, _ = procMouseEvent.Call(mouseEventLeftDown, 0, 0, 0, 0)
	return nil
}

func (Win32Pointer) Release() error {
	_, _, _ = procMouseEvent.Call(mouseEventLeftUp, 0, 0, 0, 0)
	return nil
}
