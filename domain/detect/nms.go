package detect

import (
	"sort"

	"github.com/soocke/slice-bot-go/domain/geometry"
)

// Suppress performs greedy per-label non-maximum suppression: boxes are visited
// by descending score and dropped when their IoU with an already kept box of the
// same label exceeds iou. The result is ordered by descending score.
func Suppress(objs []geometry.DetectedObject, iou float64) []geometry.DetectedObject {
	sorted := make([]geometry.DetectedObject, len(objs))
	copy(sorted, objs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	kept := make([]geometry.DetectedObject, 0, len(sorted))
	for _, c := range sorted {
		drop := false
		for _, k := range kept {
			if k.Label == c.Label && k.Box.IoU(c.Box) > iou {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, c)
		}
	}
	return kept
}
