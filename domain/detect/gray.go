package detect

import (
	"image"
	"math"
)

// grayFrame stores per-pixel luma and its summed-area tables so window
// mean and variance are O(1).
type grayFrame struct {
	gray       []float64
	integral   []float64
	integralSq []float64
	W, H       int
}

// templateGray caches luma and summary statistics for a template.
// Transparent pixels are zero and do not contribute to the sums.
type templateGray struct {
	gray  []float32
	W, H  int
	meanT float64
	stdT  float64
}

func luma(r, g, b uint8) float64 {
	return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
}

func newGrayFrame(img *image.RGBA) *grayFrame {
	b := img.Bounds()
	W, H := b.Dx(), b.Dy()
	p := &grayFrame{
		gray:       make([]float64, W*H),
		integral:   make([]float64, W*H),
		integralSq: make([]float64, W*H),
		W:          W,
		H:          H,
	}
	for y := 0; y < H; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+W*4]
		var rowSum, rowSum2 float64
		for x := 0; x < W; x++ {
			var v float64
			if row[x*4+3] != 0 {
				v = luma(row[x*4], row[x*4+1], row[x*4+2])
			}
			off := y*W + x
			p.gray[off] = v
			rowSum += v
			rowSum2 += v * v
			if y == 0 {
				p.integral[off] = rowSum
				p.integralSq[off] = rowSum2
			} else {
				p.integral[off] = p.integral[off-W] + rowSum
				p.integralSq[off] = p.integralSq[off-W] + rowSum2
			}
		}
	}
	return p
}

func newTemplateGray(img *image.RGBA) *templateGray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	t := &templateGray{gray: make([]float32, w*h), W: w, H: h}
	var sum, sum2 float64
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			if row[x*4+3] == 0 {
				continue
			}
			v := luma(row[x*4], row[x*4+1], row[x*4+2])
			t.gray[y*w+x] = float32(v)
			sum += v
			sum2 += v * v
		}
	}
	n := float64(w * h)
	t.meanT = sum / n
	if varT := (sum2 - sum*sum/n) / n; varT > 0 {
		t.stdT = math.Sqrt(varT)
	}
	return t
}

// rectSum returns the inclusive sum over [x0..x1] x [y0..y1] of an integral image.
func rectSum(I []float64, W int, x0, y0, x1, y1 int) float64 {
	at := func(x, y int) float64 {
		if x < 0 || y < 0 {
			return 0
		}
		return I[y*W+x]
	}
	return at(x1, y1) - at(x0-1, y1) - at(x1, y0-1) + at(x0-1, y0-1)
}

// ncc scores the template against the frame window whose top-left is (x, y).
// Flat windows score -1.
func (f *grayFrame) ncc(t *templateGray, x, y int) float64 {
	w, h := t.W, t.H
	n := float64(w * h)
	sumF := rectSum(f.integral, f.W, x, y, x+w-1, y+h-1)
	sumF2 := rectSum(f.integralSq, f.W, x, y, x+w-1, y+h-1)
	meanF := sumF / n
	varF := (sumF2 - sumF*sumF/n) / n
	if varF <= 1e-9 {
		return -1
	}
	var sumFT float64
	for py := 0; py < h; py++ {
		frow := f.gray[(y+py)*f.W+x : (y+py)*f.W+x+w]
		trow := t.gray[py*w : py*w+w]
		for px, tv := range trow {
			sumFT += frow[px] * float64(tv)
		}
	}
	denom := n * math.Sqrt(varF) * t.stdT
	if denom <= 0 {
		return -1
	}
	return (sumFT - n*meanF*t.meanT) / denom
}

type hit struct {
	x, y  int
	score float64
}

// scan returns every window scoring at least threshold. Coarse hits found at
// stride are refined to the best position within one stride.
func (f *grayFrame) scan(t *templateGray, stride int, threshold float64) []hit {
	if t.stdT <= 1e-9 || f.W < t.W || f.H < t.H {
		return nil
	}
	if stride <= 0 {
		stride = 1
	}
	maxX, maxY := f.W-t.W, f.H-t.H
	seen := make(map[[2]int]bool)
	var hits []hit
	for y := 0; y <= maxY; y += stride {
		for x := 0; x <= maxX; x += stride {
			score := f.ncc(t, x, y)
			if score < threshold {
				continue
			}
			best := hit{x: x, y: y, score: score}
			if stride > 1 {
				for ry := max(0, y-stride+1); ry <= min(maxY, y+stride-1); ry++ {
					for rx := max(0, x-stride+1); rx <= min(maxX, x+stride-1); rx++ {
						if s := f.ncc(t, rx, ry); s > best.score {
							best = hit{x: rx, y: ry, score: s}
						}
					}
				}
			}
			key := [2]int{best.x, best.y}
			if seen[key] {
				continue
			}
			seen[key] = true
			hits = append(hits, best)
		}
	}
	return hits
}
