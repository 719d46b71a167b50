package action

import (
	"log/slog"
	"sync"

	"github.com/soocke/slice-bot-go/domain/geometry"
)

// DryRunPointer tracks a virtual cursor in memory and logs button changes.
// It never touches the OS pointer.
type DryRunPointer struct {
	mu      sync.Mutex
	logger  *slog.Logger
	pos     geometry.Point
	pressed bool
	moves   uint64
}

func NewDryRunPointer(logger *slog.Logger) *DryRunPointer {
	return &DryRunPointer{logger: logger}
}

func (p *DryRunPointer) Position() (geometry.Point, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos, nil
}

func (p *DryRunPointer) SetPosition(pt geometry.Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = pt
	p.moves++
	return nil
}

func (p *DryRunPointer) Press() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pressed = true
	if p.logger != nil {
		p.logger.Debug("dryrun.press", "x", p.pos.X, "y", p.pos.Y)
	}
	return nil
}

func (p *DryRunPointer) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pressed = false
	if p.logger != nil {
		p.logger.Debug("dryrun.release", "x", p.pos.X, "y", p.pos.Y, "moves", p.moves)
	}
	return nil
}

// Pressed reports whether the virtual button is held.
func (p *DryRunPointer) Pressed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pressed
}

// Moves returns the number of SetPosition calls so far.
func (p *DryRunPointer) Moves() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.moves
}
