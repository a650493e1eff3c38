package shader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"strings"
	"text/template"

	"github.com/gogpu/naga"

	"github.com/ironsheep/image-filter-mcp/internal/filters"
	"github.com/ironsheep/image-filter-mcp/internal/neighborhood"
)

// ErrUnsupported is returned for a filter kind that has no generated kernel.
var ErrUnsupported = errors.New("no shader for filter")

// WorkgroupSize is the local size of every generated kernel.
var WorkgroupSize = [3]uint32{16, 16, 1}

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// Source is a generated compute kernel.
type Source struct {
	Kind          filters.Kind              `json:"filter"`
	Policy        neighborhood.BoundsPolicy `json:"-"`
	EntryPoint    string                    `json:"entry_point"`
	WorkgroupSize [3]uint32                 `json:"workgroup_size"`
	WGSL          string                    `json:"wgsl"`
}

const collectText = `for (var x: i32 = center.x - radius.x; x <= center.x + radius.x; x = x + 1) {
    for (var y: i32 = center.y - radius.y; y <= center.y + radius.y; y = y + 1) {
        if (x {{.Lower}} 0 && y {{.Lower}} 0 && x < max_size.x && y < max_size.y) {
            let pixel = textureLoad(in_image, vec2<i32>(x, y), 0);
{{.Body}}
        }
    }
}`

const kernelText = `// {{.Kind}} filter, {{.Policy}}
struct Params {
    x_radius: u32,
    y_radius: u32,
{{- if .Weighted}}
    scale: f32,
{{- end}}
}

@group(0) @binding(0) var in_image: texture_2d<f32>;
@group(0) @binding(1) var out_image: texture_storage_2d<rgba8unorm, write>;
@group(0) @binding(2) var<uniform> params: Params;
{{- if .Weighted}}
@group(0) @binding(3) var<storage, read> weights: array<f32>;
{{- end}}

@compute @workgroup_size(16, 16, 1)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    let max_size = vec2<i32>(textureDimensions(in_image));
    let center = vec2<i32>(id.xy);
    if (center.x >= max_size.x || center.y >= max_size.y) {
        return;
    }
    let radius = vec2<i32>(i32(params.x_radius), i32(params.y_radius));
    let src_px = textureLoad(in_image, center, 0);
{{- if .Weighted}}
    if (center.x < radius.x || center.y < radius.y || center.x >= max_size.x - radius.x || center.y >= max_size.y - radius.y) {
        textureStore(out_image, center, src_px);
        return;
    }
{{- end}}
    var acc = vec3<f32>({{.Init}});
    var visited: f32 = 0.0;
{{- if .Decl}}
{{.Decl}}
{{- end}}
{{.Loop}}
    var out_px = src_px;
{{- if .Weighted}}
    out_px = vec4<f32>({{.Finish}}, src_px.a);
{{- else}}
    if (visited > 0.0) {
{{- if .Post}}
{{.Post}}
{{- end}}
        out_px = vec4<f32>({{.Finish}}, src_px.a);
    }
{{- end}}
    textureStore(out_image, center, out_px);
}
`

var (
	collectTmpl = template.Must(template.New("collect").Parse(collectText))
	kernelTmpl  = template.Must(template.New("kernel").Parse(kernelText))
)

// Convolve names the mask-weighted kernel. Its weights are bound at binding 3
// row-major with Y outer, and params gains a scale member.
const Convolve filters.Kind = "convolve"

// kernelBody holds the per-kind fragments spliced into kernelText.
type kernelBody struct {
	init   string
	decl   string // function-scope declarations before the loop
	body   string
	post   string // runs once after the loop when something was visited
	finish string

	// weighted kernels copy border pixels and always store finish
	weighted bool
}

const medianPost = `let mid = u32(visited) / 2u;
var seen_r: u32 = 0u;
var seen_g: u32 = 0u;
var seen_b: u32 = 0u;
var med_r: u32 = 255u;
var med_g: u32 = 255u;
var med_b: u32 = 255u;
for (var i: u32 = 0u; i < 256u; i = i + 1u) {
    seen_r = seen_r + hist_r[i];
    seen_g = seen_g + hist_g[i];
    seen_b = seen_b + hist_b[i];
    if (med_r == 255u && seen_r > mid) {
        med_r = i;
    }
    if (med_g == 255u && seen_g > mid) {
        med_g = i;
    }
    if (med_b == 255u && seen_b > mid) {
        med_b = i;
    }
}`

var bodies = map[filters.Kind]kernelBody{
	filters.Median: {
		init: "0.0",
		decl: "var hist_r: array<u32, 256>;\nvar hist_g: array<u32, 256>;\nvar hist_b: array<u32, 256>;",
		body: "let level = vec3<u32>(clamp(pixel.rgb * 255.0 + 0.5, vec3<f32>(0.0), vec3<f32>(255.0)));\n" +
			"hist_r[level.r] = hist_r[level.r] + 1u;\n" +
			"hist_g[level.g] = hist_g[level.g] + 1u;\n" +
			"hist_b[level.b] = hist_b[level.b] + 1u;",
		post:   medianPost,
		finish: "vec3<f32>(f32(med_r), f32(med_g), f32(med_b)) / 255.0",
	},
	filters.Mean: {
		init:   "0.0",
		body:   "acc = acc + pixel.rgb;",
		finish: "acc / visited",
	},
	filters.Max: {
		init:   "0.0",
		body:   "acc = max(acc, pixel.rgb);",
		finish: "acc",
	},
	filters.Min: {
		init:   "1.0",
		body:   "acc = min(acc, pixel.rgb);",
		finish: "acc",
	},
	filters.GeometricMean: {
		init:   "0.0",
		body:   "acc = acc + log(max(pixel.rgb * 255.0, vec3<f32>(0.000001)));",
		finish: "exp(acc / visited) / 255.0",
	},
	Convolve: {
		init: "0.0",
		body: "let wi = (y - center.y + radius.y) * (2 * radius.x + 1) + (x - center.x + radius.x);\n" +
			"acc = acc + weights[u32(wi)] * pixel.rgb * 255.0;",
		finish:   "floor(clamp(acc * params.scale, vec3<f32>(0.0), vec3<f32>(255.0))) / 255.0",
		weighted: true,
	},
}

// lowerOp returns the comparison used for the lower bound test.
func lowerOp(policy neighborhood.BoundsPolicy) string {
	if policy == neighborhood.IncludeOrigin {
		return ">="
	}
	return ">"
}

// indent prefixes every non-empty line of s with n spaces.
func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// CollectPixels expands the neighborhood loop around body. The fragment
// expects center, radius (vec2<i32>), max_size (vec2<i32>) and in_image to
// be in scope, and gives body access to x, y and pixel.
func CollectPixels(body string, policy neighborhood.BoundsPolicy) (string, error) {
	var buf bytes.Buffer
	err := collectTmpl.Execute(&buf, struct {
		Lower string
		Body  string
	}{
		Lower: lowerOp(policy),
		Body:  indent(body, 12),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render neighborhood loop: %w", err)
	}
	return buf.String(), nil
}

// ParseKernel validates a kernel name: any filter kind plus "convolve".
func ParseKernel(name string) (filters.Kind, error) {
	if filters.Kind(strings.ToLower(strings.TrimSpace(name))) == Convolve {
		return Convolve, nil
	}
	return filters.ParseKind(name)
}

// Generate returns the complete compute kernel for kind.
func Generate(kind filters.Kind, policy neighborhood.BoundsPolicy) (*Source, error) {
	b, ok := bodies[kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupported, kind)
	}

	loop, err := CollectPixels(b.body+"\nvisited = visited + 1.0;", policy)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = kernelTmpl.Execute(&buf, struct {
		Kind     filters.Kind
		Policy   neighborhood.BoundsPolicy
		Weighted bool
		Init     string
		Decl     string
		Loop     string
		Post     string
		Finish   string
	}{
		Kind:     kind,
		Policy:   policy,
		Weighted: b.weighted,
		Init:     b.init,
		Decl:     indent(b.decl, 4),
		Loop:     indent(loop, 4),
		Post:     indent(b.post, 8),
		Finish:   b.finish,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render %s kernel: %w", kind, err)
	}

	return &Source{
		Kind:          kind,
		Policy:        policy,
		EntryPoint:    "main",
		WorkgroupSize: WorkgroupSize,
		WGSL:          buf.String(),
	}, nil
}

// Supported lists the kernel kinds Generate accepts: the filter kinds in
// filters.Kinds order, then Convolve.
func Supported() []filters.Kind {
	var out []filters.Kind
	for _, k := range filters.Kinds() {
		if _, ok := bodies[k]; ok {
			out = append(out, k)
		}
	}
	return append(out, Convolve)
}

// Compile translates src to SPIR-V and returns it as 32-bit words.
func Compile(src *Source) ([]uint32, error) {
	spv, err := naga.Compile(src.WGSL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s kernel: %w", src.Kind, err)
	}
	if len(spv) < 20 || len(spv)%4 != 0 {
		return nil, fmt.Errorf("failed to compile %s kernel: malformed SPIR-V (%d bytes)", src.Kind, len(spv))
	}

	words := make([]uint32, len(spv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spv[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("failed to compile %s kernel: bad SPIR-V magic 0x%08X", src.Kind, words[0])
	}
	return words, nil
}

// WorkgroupCount returns the dispatch size covering an image of the given
// size, with one extra group per axis so partial tiles are covered.
func WorkgroupCount(size image.Point) [3]uint32 {
	return [3]uint32{
		uint32(size.X)/WorkgroupSize[0] + 1,
		uint32(size.Y)/WorkgroupSize[1] + 1,
		1,
	}
}
