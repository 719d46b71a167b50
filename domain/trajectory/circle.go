package trajectory

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Path is an ordered sequence of pointer offsets. DX and DY always have equal length.
type Path struct {
	DX []float64
	DY []float64
}

// Len returns the number of offsets in the path.
func (p Path) Len() int { return len(p.DX) }

// Generator produces circular gesture paths and caches them by radius.
//
// The cache key is the radius alone: the first step count requested for a radius
// fixes that radius's path for the lifetime of the Generator, and later calls with
// a different step count get the cached path back. A Generator is not safe for
// concurrent use.
type Generator struct {
	cache map[float64]Path
}

// NewGenerator returns a Generator with an empty cache.
func NewGenerator() *Generator {
	return &Generator{cache: make(map[float64]Path)}
}

// Offsets returns steps offsets evenly spaced over a full turn, both ends included,
// scaled by radius. The first and last offsets coincide when steps >= 2.
func (g *Generator) Offsets(radius float64, steps int) Path {
	if g.cache == nil {
		g.cache = make(map[float64]Path)
	}
	if p, ok := g.cache[radius]; ok {
		return p
	}
	p := circle(radius, steps)
	g.cache[radius] = p
	return p
}

// Len returns the number of cached radii.
func (g *Generator) Len() int { return len(g.cache) }

func circle(radius float64, steps int) Path {
	if steps <= 0 {
		return Path{DX: []float64{}, DY: []float64{}}
	}
	angles := make([]float64, steps)
	if steps > 1 {
		floats.Span(angles, 0, 2*math.Pi)
	}
	dx := make([]float64, steps)
	dy := make([]float64, steps)
	for i, a := range angles {
		dx[i] = math.Cos(a) * radius
		dy[i] = math.Sin(a) * radius
	}
	return Path{DX: dx, DY: dy}
}
