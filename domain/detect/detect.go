// Package detect turns captured frames into labelled bounding boxes.
package detect

import (
	"errors"
	"image"

	"github.com/soocke/slice-bot-go/domain/geometry"
)

// Inference defaults.
const (
	DefaultIoU        = 0.25
	DefaultConfidence = 0.70
	DefaultImageSize  = 640
)

// ErrNoTemplates is returned when a TemplateDetector is built without templates.
var ErrNoTemplates = errors.New("detect: no templates")

// Options are the fixed per-run inference thresholds.
type Options struct {
	IoU        float64 // overlap above which a lower-scoring box is suppressed
	Confidence float64 // minimum score for a detection
	ImageSize  int     // longest frame side used for inference
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{IoU: DefaultIoU, Confidence: DefaultConfidence, ImageSize: DefaultImageSize}
}

// Detector finds hazards and targets in a frame. Returned boxes are in the
// coordinate space of frame.Bounds().
type Detector interface {
	Detect(frame *image.RGBA, opts Options) ([]geometry.DetectedObject, error)
}
