package geometry

import (
	"fmt"
	"math"
	"strings"
)

// Point is a screen position in pixels.
type Point struct {
	X, Y float64
}

// Add returns p offset by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// BoundingBox is an axis-aligned box in screen pixels with X1<=X2 and Y1<=Y2.
type BoundingBox struct {
	X1, Y1, X2, Y2 float64
}

// Box builds a BoundingBox, normalising swapped coordinates.
func Box(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{
		X1: math.Min(x1, x2),
		Y1: math.Min(y1, y2),
		X2: math.Max(x1, x2),
		Y2: math.Max(y1, y2),
	}
}

// BoxFromCenter rebuilds a box of the given extent around c.
func BoxFromCenter(c Point, width, height float64) BoundingBox {
	return BoundingBox{
		X1: c.X - width/2,
		Y1: c.Y - height/2,
		X2: c.X + width/2,
		Y2: c.Y + height/2,
	}
}

func (b BoundingBox) Width() float64  { return b.X2 - b.X1 }
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }
func (b BoundingBox) Area() float64   { return b.Width() * b.Height() }

func (b BoundingBox) Center() Point {
	return Point{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2}
}

// Contains reports whether p lies inside b, bounds inclusive.
func (b BoundingBox) Contains(p Point) bool {
	return b.X1 <= p.X && p.X <= b.X2 && b.Y1 <= p.Y && p.Y <= b.Y2
}

// Corners returns the four corners: top-left, bottom-left, top-right, bottom-right.
func (b BoundingBox) Corners() [4]Point {
	return [4]Point{
		{X: b.X1, Y: b.Y1},
		{X: b.X1, Y: b.Y2},
		{X: b.X2, Y: b.Y1},
		{X: b.X2, Y: b.Y2},
	}
}

// Scale multiplies every coordinate by f.
func (b BoundingBox) Scale(f float64) BoundingBox {
	return BoundingBox{X1: b.X1 * f, Y1: b.Y1 * f, X2: b.X2 * f, Y2: b.Y2 * f}
}

// Translate shifts the box by (dx, dy).
func (b BoundingBox) Translate(dx, dy float64) BoundingBox {
	return BoundingBox{X1: b.X1 + dx, Y1: b.Y1 + dy, X2: b.X2 + dx, Y2: b.Y2 + dy}
}

// IoU returns the intersection-over-union of b and o in [0,1].
func (b BoundingBox) IoU(o BoundingBox) float64 {
	iw := math.Min(b.X2, o.X2) - math.Max(b.X1, o.X1)
	ih := math.Min(b.Y2, o.Y2) - math.Max(b.Y1, o.Y1)
	if iw <= 0 || ih <= 0 {
		return 0
	}
	inter := iw * ih
	union := b.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%.1f,%.1f,%.1f,%.1f)", b.X1, b.Y1, b.X2, b.Y2)
}

// Label is the category a detector assigns to an object.
type Label int

const (
	LabelHazard Label = iota
	LabelTarget
)

func (l Label) String() string {
	switch l {
	case LabelHazard:
		return "hazard"
	case LabelTarget:
		return "target"
	default:
		return "unknown"
	}
}

// ParseLabel maps a label name to its Label.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hazard":
		return LabelHazard, nil
	case "target":
		return LabelTarget, nil
	}
	return 0, fmt.Errorf("geometry: unknown label %q", s)
}

// DetectedObject is one labelled detector result.
type DetectedObject struct {
	Box   BoundingBox
	Label Label
	Score float64
}

// Target is the per-iteration view of a target object consumed by SafeTargets.
type Target struct {
	Center        Point
	Width, Height float64
}

// TargetOf derives the center and extent of a detected object.
func TargetOf(o DetectedObject) Target {
	return Target{Center: o.Box.Center(), Width: o.Box.Width(), Height: o.Box.Height()}
}
