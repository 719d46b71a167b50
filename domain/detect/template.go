package detect

import (
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"golang.org/x/image/draw"

	"github.com/soocke/slice-bot-go/domain/geometry"
)

// Template is a reference image for one label.
type Template struct {
	Label geometry.Label
	Image image.Image
}

// LoadTemplate decodes the image at path as the template for label.
func LoadTemplate(label geometry.Label, path string) (Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return Template{}, fmt.Errorf("detect: open %s template: %w", label, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return Template{}, fmt.Errorf("detect: decode %s template %q: %w", label, path, err)
	}
	return Template{Label: label, Image: img}, nil
}

type scaledKey struct {
	index int
	scale float64
}

// TemplateDetector finds templates in a frame with normalized cross-correlation
// and keeps the best non-overlapping matches per label.
type TemplateDetector struct {
	templates []Template
	stride    int
	logger    *slog.Logger

	mu     sync.Mutex
	scaled map[scaledKey]*templateGray
}

// NewTemplateDetector builds a detector scanning at the given stride.
func NewTemplateDetector(templates []Template, stride int, logger *slog.Logger) (*TemplateDetector, error) {
	if len(templates) == 0 {
		return nil, ErrNoTemplates
	}
	for _, t := range templates {
		if t.Image == nil || t.Image.Bounds().Empty() {
			return nil, fmt.Errorf("detect: empty %s template", t.Label)
		}
	}
	if stride <= 0 {
		stride = 1
	}
	return &TemplateDetector{
		templates: templates,
		stride:    stride,
		logger:    logger,
		scaled:    make(map[scaledKey]*templateGray),
	}, nil
}

// Detect implements Detector.
func (d *TemplateDetector) Detect(frame *image.RGBA, opts Options) ([]geometry.DetectedObject, error) {
	if frame == nil {
		return nil, fmt.Errorf("detect: nil frame")
	}
	fb := frame.Bounds()
	if fb.Empty() {
		return nil, fmt.Errorf("detect: empty frame")
	}
	start := time.Now()
	scale := inferenceScale(fb.Dx(), fb.Dy(), opts.ImageSize)
	work := frame
	if scale < 1 {
		work = resize(frame, scaledDim(fb.Dx(), scale), scaledDim(fb.Dy(), scale))
	}
	gray := newGrayFrame(work)

	var candidates []geometry.DetectedObject
	for i, t := range d.templates {
		tg := d.template(i, scale)
		if tg == nil {
			continue
		}
		for _, h := range gray.scan(tg, d.stride, opts.Confidence) {
			box := geometry.BoundingBox{
				X1: float64(h.x),
				Y1: float64(h.y),
				X2: float64(h.x + tg.W),
				Y2: float64(h.y + tg.H),
			}
			candidates = append(candidates, geometry.DetectedObject{
				Box:   box.Scale(1/scale).Translate(float64(fb.Min.X), float64(fb.Min.Y)),
				Label: t.Label,
				Score: h.score,
			})
		}
	}
	out := Suppress(candidates, opts.IoU)
	if d.logger != nil {
		d.logger.Debug("detect.frame",
			"candidates", len(candidates),
			"kept", len(out),
			"scale", scale,
			"elapsed", time.Since(start),
		)
	}
	return out, nil
}

// template returns the luma data of template i resized by scale, caching it.
func (d *TemplateDetector) template(i int, scale float64) *templateGray {
	key := scaledKey{index: i, scale: scale}
	d.mu.Lock()
	defer d.mu.Unlock()
	if tg, ok := d.scaled[key]; ok {
		return tg
	}
	src := d.templates[i].Image
	b := src.Bounds()
	var rgba *image.RGBA
	if scale < 1 {
		w, h := scaledDim(b.Dx(), scale), scaledDim(b.Dy(), scale)
		if w < 2 || h < 2 {
			d.scaled[key] = nil
			return nil
		}
		rgba = resize(src, w, h)
	} else {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}
	tg := newTemplateGray(rgba)
	d.scaled[key] = tg
	return tg
}

// inferenceScale is the factor that fits the longer side into size; never above 1.
func inferenceScale(w, h, size int) float64 {
	long := max(w, h)
	if size <= 0 || long <= size {
		return 1
	}
	return float64(size) / float64(long)
}

func scaledDim(n int, scale float64) int {
	return max(1, int(math.Round(float64(n)*scale)))
}

func resize(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

var _ Detector = (*TemplateDetector)(nil)
