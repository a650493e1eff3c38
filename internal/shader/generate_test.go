package shader

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/ironsheep/image-filter-mcp/internal/filters"
	"github.com/ironsheep/image-filter-mcp/internal/neighborhood"
)

func TestCollectPixels(t *testing.T) {
	src, err := CollectPixels("sum = sum + pixel;", neighborhood.SkipOrigin)
	if err != nil {
		t.Fatalf("CollectPixels failed: %v", err)
	}

	for _, want := range []string{
		"for (var x: i32 = center.x - radius.x; x <= center.x + radius.x; x = x + 1)",
		"for (var y: i32 = center.y - radius.y; y <= center.y + radius.y; y = y + 1)",
		"if (x > 0 && y > 0 && x < max_size.x && y < max_size.y)",
		"let pixel = textureLoad(in_image, vec2<i32>(x, y), 0);",
		"            sum = sum + pixel;",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("loop missing %q:\n%s", want, src)
		}
	}

	// x must be the outer loop
	if strings.Index(src, "var x") > strings.Index(src, "var y") {
		t.Error("x loop is not outermost")
	}
}

func TestCollectPixels_IncludeOrigin(t *testing.T) {
	src, err := CollectPixels("", neighborhood.IncludeOrigin)
	if err != nil {
		t.Fatalf("CollectPixels failed: %v", err)
	}
	if !strings.Contains(src, "x >= 0 && y >= 0") {
		t.Errorf("IncludeOrigin lower bound not emitted:\n%s", src)
	}
}

func TestGenerate(t *testing.T) {
	for _, kind := range Supported() {
		t.Run(string(kind), func(t *testing.T) {
			src, err := Generate(kind, neighborhood.SkipOrigin)
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if src.EntryPoint != "main" {
				t.Errorf("EntryPoint: got %s", src.EntryPoint)
			}
			if src.WorkgroupSize != [3]uint32{16, 16, 1} {
				t.Errorf("WorkgroupSize: got %v", src.WorkgroupSize)
			}
			for _, want := range []string{
				"@compute @workgroup_size(16, 16, 1)",
				"var in_image: texture_2d<f32>;",
				"var out_image: texture_storage_2d<rgba8unorm, write>;",
				"var<uniform> params: Params;",
				"visited = visited + 1.0;",
				"textureStore(out_image, center, out_px);",
			} {
				if !strings.Contains(src.WGSL, want) {
					t.Errorf("kernel missing %q", want)
				}
			}
			if !strings.HasPrefix(src.WGSL, "// "+string(kind)+" filter, skip-origin") {
				t.Errorf("header: got %q", strings.SplitN(src.WGSL, "\n", 2)[0])
			}
		})
	}
}

func TestGenerate_Unsupported(t *testing.T) {
	_, err := Generate(filters.Kind("bogus"), neighborhood.SkipOrigin)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("bogus: got %v, want ErrUnsupported", err)
	}
}

func TestGenerate_Median(t *testing.T) {
	src, err := Generate(filters.Median, neighborhood.SkipOrigin)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, want := range []string{
		"    var hist_r: array<u32, 256>;",
		"hist_g[level.g] = hist_g[level.g] + 1u;",
		"let mid = u32(visited) / 2u;",
		"if (med_b == 255u && seen_b > mid) {",
		"out_px = vec4<f32>(vec3<f32>(f32(med_r), f32(med_g), f32(med_b)) / 255.0, src_px.a);",
	} {
		if !strings.Contains(src.WGSL, want) {
			t.Errorf("median kernel missing %q:\n%s", want, src.WGSL)
		}
	}
	// histograms are declared before the loop fills them
	if strings.Index(src.WGSL, "var hist_b") > strings.Index(src.WGSL, "for (var x") {
		t.Error("histogram declared after the loop")
	}
	// the median scan only runs when something was visited
	if strings.Index(src.WGSL, "if (visited > 0.0)") > strings.Index(src.WGSL, "let mid") {
		t.Error("median scan outside the visited check")
	}
}

func TestGenerate_Convolve(t *testing.T) {
	src, err := Generate(Convolve, neighborhood.IncludeOrigin)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, want := range []string{
		"    scale: f32,",
		"@group(0) @binding(3) var<storage, read> weights: array<f32>;",
		"if (center.x < radius.x || center.y < radius.y || center.x >= max_size.x - radius.x || center.y >= max_size.y - radius.y) {",
		"let wi = (y - center.y + radius.y) * (2 * radius.x + 1) + (x - center.x + radius.x);",
		"acc = acc + weights[u32(wi)] * pixel.rgb * 255.0;",
		"x >= 0 && y >= 0",
		"out_px = vec4<f32>(floor(clamp(acc * params.scale, vec3<f32>(0.0), vec3<f32>(255.0))) / 255.0, src_px.a);",
	} {
		if !strings.Contains(src.WGSL, want) {
			t.Errorf("convolve kernel missing %q:\n%s", want, src.WGSL)
		}
	}
	if strings.Contains(src.WGSL, "if (visited > 0.0)") {
		t.Error("convolve kernel should store the weighted sum even when nothing was visited")
	}

	mean, err := Generate(filters.Mean, neighborhood.SkipOrigin)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if strings.Contains(mean.WGSL, "weights") || strings.Contains(mean.WGSL, "scale") {
		t.Error("unweighted kernel declares convolution bindings")
	}
}

func TestParseKernel(t *testing.T) {
	tests := []struct {
		name    string
		want    filters.Kind
		wantErr bool
	}{
		{"convolve", Convolve, false},
		{" Convolve ", Convolve, false},
		{"MEDIAN", filters.Median, false},
		{"gmean", filters.GeometricMean, false},
		{"mode", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKernel(tt.name)
		if tt.wantErr {
			if !errors.Is(err, filters.ErrUnknownFilter) {
				t.Errorf("%q: got %v, want ErrUnknownFilter", tt.name, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: got (%s, %v), want %s", tt.name, got, err, tt.want)
		}
	}
}

func TestSupported(t *testing.T) {
	got := Supported()
	want := []filters.Kind{filters.Median, filters.GeometricMean, filters.Max, filters.Min, filters.Mean, Convolve}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCompile(t *testing.T) {
	for _, policy := range []neighborhood.BoundsPolicy{neighborhood.SkipOrigin, neighborhood.IncludeOrigin} {
		for _, kind := range Supported() {
			t.Run(string(kind)+"/"+policy.String(), func(t *testing.T) {
				src, err := Generate(kind, policy)
				if err != nil {
					t.Fatalf("Generate failed: %v", err)
				}
				words, err := Compile(src)
				if err != nil {
					t.Fatalf("Compile failed: %v\n%s", err, src.WGSL)
				}
				if words[0] != spirvMagic {
					t.Errorf("magic: got 0x%08X", words[0])
				}
				if len(words) < 5 {
					t.Errorf("module too small: %d words", len(words))
				}
			})
		}
	}
}

func TestCompile_InvalidSource(t *testing.T) {
	_, err := Compile(&Source{Kind: filters.Mean, WGSL: "fn main( {"})
	if err == nil {
		t.Error("expected error for malformed WGSL")
	}
}

func TestWorkgroupCount(t *testing.T) {
	tests := []struct {
		size image.Point
		want [3]uint32
	}{
		{image.Pt(1, 1), [3]uint32{1, 1, 1}},
		{image.Pt(16, 16), [3]uint32{2, 2, 1}},
		{image.Pt(100, 33), [3]uint32{7, 3, 1}},
	}
	for _, tt := range tests {
		if got := WorkgroupCount(tt.size); got != tt.want {
			t.Errorf("%v: got %v, want %v", tt.size, got, tt.want)
		}
	}
}
