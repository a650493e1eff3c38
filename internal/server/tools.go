package server

import (
	"github.com/ironsheep/image-filter-mcp/internal/filters"
	"github.com/ironsheep/image-filter-mcp/internal/shader"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func outputPathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional PNG file to write the result to. When omitted the result is returned as base64 PNG. Relative paths resolve against IMAGE_FILTER_MCP_OUTPUT_DIR when set.",
	}
}

func includeOriginProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Also sample row 0 and column 0. By default coordinates with x == 0 or y == 0 are never sampled.",
		"default":     false,
	}
}

func kindNames(kinds []filters.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func operatorNames() []string {
	ops := filters.Operators()
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = string(op)
	}
	return out
}

// GetToolDefinitions returns all available tools. maxWindow is advertised as
// the maximum for window and mask sizes.
func GetToolDefinitions(maxWindow int) []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and the coordinate bound every filter uses for it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Neighborhood Filters
		{
			Name:        "image_filter",
			Description: "Run a neighborhood filter over every pixel. Each output pixel reduces the width x height window centered on it; alpha is kept from the source.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"filter": map[string]interface{}{
						"type":        "string",
						"enum":        kindNames(filters.Kinds()),
						"description": "Reduction applied to each window",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Window width in pixels. Default 3",
						"default":     3,
						"minimum":     1,
						"maximum":     maxWindow,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Window height in pixels. Default 3",
						"default":     3,
						"minimum":     1,
						"maximum":     maxWindow,
					},
					"include_origin": includeOriginProperty(),
					"output_path":    outputPathProperty(),
				},
				"required": []string{"path", "filter"},
			},
		},
		{
			Name:        "image_convolve",
			Description: "Convolve the image with a weight mask. Pixels closer to the edge than the mask radius are copied unchanged.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"mask": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "number"},
						"description": "Row-major weights, mask_width * mask_height values",
					},
					"mask_width": map[string]interface{}{
						"type":        "integer",
						"description": "Odd mask width. Default 3",
						"default":     3,
						"maximum":     maxWindow,
					},
					"mask_height": map[string]interface{}{
						"type":        "integer",
						"description": "Odd mask height. Default 3",
						"default":     3,
						"maximum":     maxWindow,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Multiplier applied to the weighted sum. Default 1.0",
						"default":     1.0,
					},
					"include_origin": includeOriginProperty(),
					"output_path":    outputPathProperty(),
				},
				"required": []string{"path", "mask"},
			},
		},
		{
			Name:        "image_gradient",
			Description: "Compute an edge response with the Sobel or Roberts gradient magnitude, or the nonlinear Uolis operator.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"operator": map[string]interface{}{
						"type":        "string",
						"enum":        operatorNames(),
						"description": "Gradient operator. Default sobel",
						"default":     string(filters.Sobel),
					},
					"include_origin": includeOriginProperty(),
					"output_path":    outputPathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Analysis Helpers
		{
			Name:        "image_sample_neighborhood",
			Description: "Report which pixels a filter centered at (x, y) would sample, with their mean, min and max colors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Center X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Center Y coordinate (0-based, from top)",
					},
					"radius_x": map[string]interface{}{
						"type":        "integer",
						"description": "Horizontal radius. Default 1",
						"default":     1,
					},
					"radius_y": map[string]interface{}{
						"type":        "integer",
						"description": "Vertical radius. Default 1",
						"default":     1,
					},
					"include_origin": includeOriginProperty(),
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_kernel_shader",
			Description: "Generate the WGSL compute kernel for a filter, optionally compiling it to SPIR-V to validate it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"filter": map[string]interface{}{
						"type":        "string",
						"enum":        kindNames(shader.Supported()),
						"description": "Filter to generate a kernel for. convolve reads its mask from a storage buffer at binding 3",
					},
					"include_origin": includeOriginProperty(),
					"compile": map[string]interface{}{
						"type":        "boolean",
						"description": "Compile the kernel to SPIR-V and report its size. Default false",
						"default":     false,
					},
				},
				"required": []string{"filter"},
			},
		},
	}
}
