package imaging

import (
	"image"
	"testing"

	"github.com/ironsheep/image-filter-mcp/internal/neighborhood"
)

func TestSampleNeighborhood(t *testing.T) {
	cache := NewImageCache()
	img, err := cache.Load(createGradientImage(t, 8, 8))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	res, err := SampleNeighborhood(img, image.Pt(4, 4), neighborhood.Radius{X: 1, Y: 2}, neighborhood.SkipOrigin)
	if err != nil {
		t.Fatalf("SampleNeighborhood failed: %v", err)
	}

	if res.Visited != 15 {
		t.Errorf("Visited: got %d, want 15", res.Visited)
	}
	if res.Window == nil || *res.Window != [4]int{3, 2, 6, 7} {
		t.Errorf("Window: got %v, want [3 2 6 7]", res.Window)
	}
	if res.Policy != "skip-origin" {
		t.Errorf("Policy: got %s", res.Policy)
	}
	if res.Mean.RGB != (RGB{40, 40, 0}) {
		t.Errorf("Mean: got %+v, want {40 40 0}", res.Mean.RGB)
	}
	if res.Min.RGB != (RGB{30, 20, 0}) || res.Max.RGB != (RGB{50, 60, 0}) {
		t.Errorf("Min/Max: got %+v / %+v", res.Min.RGB, res.Max.RGB)
	}
	if res.Max.Hex != "#323c00" {
		t.Errorf("Max hex: got %s, want #323c00", res.Max.Hex)
	}
}

func TestSampleNeighborhood_Origin(t *testing.T) {
	cache := NewImageCache()
	img, err := cache.Load(createGradientImage(t, 5, 5))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name    string
		policy  neighborhood.BoundsPolicy
		visited int
		min     RGB
	}{
		// (1,1) is the only in-bounds neighbor once row and column 0 drop out
		{"skip-origin", neighborhood.SkipOrigin, 1, RGB{10, 10, 0}},
		{"include-origin", neighborhood.IncludeOrigin, 4, RGB{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := SampleNeighborhood(img, image.Pt(0, 0), neighborhood.Radius{X: 1, Y: 1}, tt.policy)
			if err != nil {
				t.Fatalf("SampleNeighborhood failed: %v", err)
			}
			if res.Visited != tt.visited {
				t.Errorf("Visited: got %d, want %d", res.Visited, tt.visited)
			}
			if res.Min == nil || res.Min.RGB != tt.min {
				t.Errorf("Min: got %+v, want %+v", res.Min, tt.min)
			}
		})
	}
}

func TestSampleNeighborhood_Empty(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 6))

	res, err := SampleNeighborhood(img, image.Pt(0, 3), neighborhood.Radius{X: 2, Y: 2}, neighborhood.SkipOrigin)
	if err != nil {
		t.Fatalf("SampleNeighborhood failed: %v", err)
	}
	if res.Visited != 0 || res.Window != nil || res.Mean != nil {
		t.Errorf("single-column image should visit nothing: %+v", res)
	}
}

func TestSampleNeighborhood_NegativeRadius(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	res, err := SampleNeighborhood(img, image.Pt(2, 2), neighborhood.Radius{X: -3, Y: 1}, neighborhood.SkipOrigin)
	if err != nil {
		t.Fatalf("SampleNeighborhood failed: %v", err)
	}
	if res.Radius != (neighborhood.Radius{X: 0, Y: 1}) {
		t.Errorf("Radius: got %+v, want {0 1}", res.Radius)
	}
	if res.Visited != 3 {
		t.Errorf("Visited: got %d, want 3", res.Visited)
	}
	if res.Window == nil || *res.Window != [4]int{2, 1, 3, 4} {
		t.Errorf("Window: got %v, want [2 1 3 4]", res.Window)
	}
}

func TestSampleNeighborhood_OutOfBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for _, pt := range []image.Point{{-1, 0}, {4, 0}, {0, 4}} {
		if _, err := SampleNeighborhood(img, pt, neighborhood.Radius{}, neighborhood.SkipOrigin); err == nil {
			t.Errorf("%v: expected error", pt)
		}
	}
}

func TestNewColorInfo(t *testing.T) {
	c := newColorInfo(255, 0, 0)
	if c.Hex != "#ff0000" {
		t.Errorf("Hex: got %s", c.Hex)
	}
	if c.HSL != (HSL{0, 100, 50}) {
		t.Errorf("HSL: got %+v, want {0 100 50}", c.HSL)
	}
	gray := newColorInfo(128, 128, 128)
	if gray.HSL.S != 0 {
		t.Errorf("gray saturation: got %v", gray.HSL.S)
	}
}
