package geometry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSafeTargets(t *testing.T) {
	cases := []struct {
		name    string
		targets []Target
		hazards []BoundingBox
		cutoff  float64
		want    []Point
	}{
		{
			name:    "no hazards keeps target",
			targets: []Target{{Center: Point{500, 500}, Width: 40, Height: 40}},
			cutoff:  1000,
			want:    []Point{{500, 500}},
		},
		{
			name:    "shared boundary corners exclude",
			targets: []Target{{Center: Point{500, 500}, Width: 40, Height: 40}},
			hazards: []BoundingBox{{480, 480, 520, 520}},
			cutoff:  1000,
			want:    []Point{},
		},
		{
			name:    "target enclosed by hazard is excluded",
			targets: []Target{{Center: Point{100, 100}, Width: 10, Height: 10}},
			hazards: []BoundingBox{{50, 50, 150, 150}},
			cutoff:  1000,
			want:    []Point{},
		},
		{
			name:    "hazard inside target has no corner in it",
			targets: []Target{{Center: Point{100, 100}, Width: 100, Height: 100}},
			hazards: []BoundingBox{{90, 90, 110, 110}},
			cutoff:  1000,
			want:    []Point{{100, 100}},
		},
		{
			name:    "pass-through cross shape is not an overlap",
			targets: []Target{{Center: Point{100, 100}, Width: 20, Height: 100}},
			hazards: []BoundingBox{{50, 95, 150, 105}},
			cutoff:  1000,
			want:    []Point{{100, 100}},
		},
		{
			name:    "single corner inside excludes",
			targets: []Target{{Center: Point{100, 100}, Width: 20, Height: 20}},
			hazards: []BoundingBox{{105, 105, 200, 200}},
			cutoff:  1000,
			want:    []Point{},
		},
		{
			name: "below cutoff excluded without hazards",
			targets: []Target{
				{Center: Point{10, 1000}, Width: 4, Height: 4},
				{Center: Point{10, 1000.5}, Width: 4, Height: 4},
			},
			cutoff: 1000,
			want:   []Point{{10, 1000}},
		},
		{
			name: "input order preserved",
			targets: []Target{
				{Center: Point{300, 10}, Width: 4, Height: 4},
				{Center: Point{100, 10}, Width: 4, Height: 4},
				{Center: Point{200, 10}, Width: 4, Height: 4},
			},
			hazards: []BoundingBox{{95, 5, 105, 15}},
			cutoff:  1000,
			want:    []Point{{300, 10}, {200, 10}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SafeTargets(tc.targets, tc.hazards, tc.cutoff)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("SafeTargets mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSafeTargets_DoesNotMutateInput(t *testing.T) {
	targets := []Target{{Center: Point{1, 1}, Width: 2, Height: 2}}
	hazards := []BoundingBox{{0, 0, 5, 5}}
	SafeTargets(targets, hazards, DefaultCutoffY)
	assert.Equal(t, []Target{{Center: Point{1, 1}, Width: 2, Height: 2}}, targets)
	assert.Equal(t, []BoundingBox{{0, 0, 5, 5}}, hazards)
}

func TestBoundingBox_IoU(t *testing.T) {
	a := BoundingBox{0, 0, 10, 10}
	assert.InDelta(t, 1.0, a.IoU(a), 1e-12)
	assert.InDelta(t, 0.0, a.IoU(BoundingBox{20, 20, 30, 30}), 1e-12)
	// half overlap: inter 50, union 150
	assert.InDelta(t, 1.0/3.0, a.IoU(BoundingBox{5, 0, 15, 10}), 1e-12)
}

func TestTargetOf(t *testing.T) {
	got := TargetOf(DetectedObject{Box: Box(520, 520, 480, 480), Label: LabelTarget})
	assert.Equal(t, Target{Center: Point{500, 500}, Width: 40, Height: 40}, got)
}

func TestParseLabel(t *testing.T) {
	l, err := ParseLabel(" Hazard ")
	assert.NoError(t, err)
	assert.Equal(t, LabelHazard, l)
	_, err = ParseLabel("bomb")
	assert.Error(t, err)
}
