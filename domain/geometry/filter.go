package geometry

// DefaultCutoffY is the lowest center row still inside the actionable play area.
const DefaultCutoffY = 1000

// Overlaps reports whether any corner of target lies inside hazard, bounds inclusive.
// This is corner containment, not rectangle intersection: a hazard lying strictly
// inside the target, or crossing it without covering a corner, does not overlap.
func Overlaps(target, hazard BoundingBox) bool {
	for _, c := range target.Corners() {
		if hazard.Contains(c) {
			return true
		}
	}
	return false
}

// OverlapsAny reports whether target overlaps at least one of hazards.
func OverlapsAny(target BoundingBox, hazards []BoundingBox) bool {
	for _, h := range hazards {
		if Overlaps(target, h) {
			return true
		}
	}
	return false
}

// SafeTargets returns the centers of the targets that sit at or above cutoffY and
// overlap none of the hazards. Input order is preserved.
func SafeTargets(targets []Target, hazards []BoundingBox, cutoffY float64) []Point {
	safe := make([]Point, 0, len(targets))
	for _, t := range targets {
		if t.Center.Y > cutoffY {
			continue
		}
		if OverlapsAny(BoxFromCenter(t.Center, t.Width, t.Height), hazards) {
			continue
		}
		safe = append(safe, t.Center)
	}
	return safe
}
