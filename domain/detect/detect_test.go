package detect

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/slice-bot-go/domain/geometry"
)

// blockNoise returns a w x h image of random gray blocks of the given size.
func blockNoise(seed int64, w, h, block int) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for by := 0; by < h; by += block {
		for bx := 0; bx < w; bx += block {
			v := uint8(rng.Intn(256))
			for y := by; y < min(h, by+block); y++ {
				for x := bx; x < min(w, bx+block); x++ {
					img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
				}
			}
		}
	}
	return img
}

// paste copies src into dst with its top-left at (x, y) relative to dst's origin.
func paste(dst *image.RGBA, src *image.RGBA, x, y int) {
	b := dst.Bounds()
	for sy := 0; sy < src.Bounds().Dy(); sy++ {
		for sx := 0; sx < src.Bounds().Dx(); sx++ {
			dst.SetRGBA(b.Min.X+x+sx, b.Min.Y+y+sy, src.RGBAAt(sx, sy))
		}
	}
}

func uniformFrame(r image.Rectangle, v uint8) *image.RGBA {
	img := image.NewRGBA(r)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
	}
	return img
}

func TestTemplateDetector_FindsLabelledMatches(t *testing.T) {
	target := blockNoise(1, 12, 12, 1)
	hazard := blockNoise(2, 10, 10, 1)
	frame := uniformFrame(image.Rect(100, 200, 260, 320), 60)
	paste(frame, target, 10, 10)
	paste(frame, target, 90, 70)
	paste(frame, hazard, 50, 20)

	d, err := NewTemplateDetector([]Template{
		{Label: geometry.LabelTarget, Image: target},
		{Label: geometry.LabelHazard, Image: hazard},
	}, 1, nil)
	require.NoError(t, err)

	objs, err := d.Detect(frame, Options{IoU: 0.25, Confidence: 0.9, ImageSize: 640})
	require.NoError(t, err)

	var targets, hazards []geometry.BoundingBox
	for _, o := range objs {
		assert.GreaterOrEqual(t, o.Score, 0.9)
		switch o.Label {
		case geometry.LabelTarget:
			targets = append(targets, o.Box)
		case geometry.LabelHazard:
			hazards = append(hazards, o.Box)
		}
	}
	assert.ElementsMatch(t, []geometry.BoundingBox{
		{X1: 110, Y1: 210, X2: 122, Y2: 222},
		{X1: 190, Y1: 270, X2: 202, Y2: 282},
	}, targets)
	assert.Equal(t, []geometry.BoundingBox{{X1: 150, Y1: 220, X2: 160, Y2: 230}}, hazards)
}

func TestTemplateDetector_StrideRefinesToExactPosition(t *testing.T) {
	target := blockNoise(3, 24, 24, 6)
	frame := uniformFrame(image.Rect(0, 0, 80, 60), 30)
	paste(frame, target, 21, 13)

	d, err := NewTemplateDetector([]Template{{Label: geometry.LabelTarget, Image: target}}, 2, nil)
	require.NoError(t, err)
	// a stride of 2 samples only even offsets; refinement recovers (21,13)
	objs, err := d.Detect(frame, Options{IoU: 0.25, Confidence: 0.4, ImageSize: 640})
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, geometry.BoundingBox{X1: 21, Y1: 13, X2: 45, Y2: 37}, objs[0].Box)
	assert.InDelta(t, 1.0, objs[0].Score, 1e-4)
}

func TestTemplateDetector_DownscalesToImageSize(t *testing.T) {
	target := blockNoise(4, 16, 16, 4)
	frame := uniformFrame(image.Rect(0, 0, 128, 64), 90)
	paste(frame, target, 40, 24)

	d, err := NewTemplateDetector([]Template{{Label: geometry.LabelTarget, Image: target}}, 1, nil)
	require.NoError(t, err)
	objs, err := d.Detect(frame, Options{IoU: 0.25, Confidence: 0.6, ImageSize: 64})
	require.NoError(t, err)
	require.Len(t, objs, 1)

	c := objs[0].Box.Center()
	assert.InDelta(t, 48, c.X, 2)
	assert.InDelta(t, 32, c.Y, 2)
	assert.InDelta(t, 16, objs[0].Box.Width(), 0.01)
}

func TestTemplateDetector_UniformFrameNoDetections(t *testing.T) {
	d, err := NewTemplateDetector([]Template{{Label: geometry.LabelTarget, Image: blockNoise(5, 8, 8, 1)}}, 1, nil)
	require.NoError(t, err)
	objs, err := d.Detect(uniformFrame(image.Rect(0, 0, 40, 40), 10), DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestTemplateDetector_Errors(t *testing.T) {
	_, err := NewTemplateDetector(nil, 1, nil)
	assert.ErrorIs(t, err, ErrNoTemplates)

	d, err := NewTemplateDetector([]Template{{Label: geometry.LabelTarget, Image: blockNoise(5, 8, 8, 1)}}, 1, nil)
	require.NoError(t, err)
	_, err = d.Detect(nil, DefaultOptions())
	assert.Error(t, err)
}

func TestSuppress(t *testing.T) {
	objs := []geometry.DetectedObject{
		{Box: geometry.BoundingBox{X1: 1, Y1: 0, X2: 11, Y2: 10}, Label: geometry.LabelTarget, Score: 0.8},
		{Box: geometry.BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10}, Label: geometry.LabelTarget, Score: 0.95},
		{Box: geometry.BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10}, Label: geometry.LabelHazard, Score: 0.7},
		{Box: geometry.BoundingBox{X1: 50, Y1: 50, X2: 60, Y2: 60}, Label: geometry.LabelTarget, Score: 0.75},
	}
	got := Suppress(objs, 0.25)
	require.Len(t, got, 3)
	assert.Equal(t, 0.95, got[0].Score)
	assert.Equal(t, 0.75, got[1].Score)
	assert.Equal(t, geometry.LabelHazard, got[2].Label)
	// input untouched
	assert.Equal(t, 0.8, objs[0].Score)
}

func TestInferenceScale(t *testing.T) {
	assert.Equal(t, 1.0, inferenceScale(320, 200, 640))
	assert.InDelta(t, 640.0/1920.0, inferenceScale(1920, 1080, 640), 1e-12)
	assert.Equal(t, 1.0, inferenceScale(1920, 1080, 0))
}

func TestLoadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, blockNoise(6, 9, 7, 1)))
	require.NoError(t, f.Close())

	tmpl, err := LoadTemplate(geometry.LabelTarget, path)
	require.NoError(t, err)
	assert.Equal(t, geometry.LabelTarget, tmpl.Label)
	assert.Equal(t, image.Rect(0, 0, 9, 7), tmpl.Image.Bounds())

	_, err = LoadTemplate(geometry.LabelHazard, filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
