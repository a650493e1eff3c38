package server

import (
	"testing"

	"github.com/ironsheep/image-filter-mcp/internal/config"
)

func toolsByName(maxWindow int) map[string]Tool {
	m := make(map[string]Tool)
	for _, tool := range GetToolDefinitions(maxWindow) {
		m[tool.Name] = tool
	}
	return m
}

func requiredOf(t *testing.T, tool Tool) []string {
	t.Helper()
	req, ok := tool.InputSchema["required"].([]string)
	if !ok {
		t.Fatalf("%s: required should be []string", tool.Name)
	}
	return req
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestGetToolDefinitions(t *testing.T) {
	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"image_filter",
		"image_convolve",
		"image_gradient",
		"image_sample_neighborhood",
		"image_kernel_shader",
	}

	tools := GetToolDefinitions(config.DefaultMaxWindow)
	if len(tools) != len(expectedTools) {
		t.Errorf("tool count: got %d, want %d", len(tools), len(expectedTools))
	}
	toolMap := toolsByName(config.DefaultMaxWindow)
	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions(config.DefaultMaxWindow) {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || len(props) == 0 {
				t.Fatal("InputSchema properties missing")
			}
			// every required argument must be declared
			for _, name := range requiredOf(t, tool) {
				if _, ok := props[name]; !ok {
					t.Errorf("required %q not in properties", name)
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	toolMap := toolsByName(config.DefaultMaxWindow)
	for name, tool := range toolMap {
		want := name != "image_kernel_shader"
		if got := contains(requiredOf(t, tool), "path"); got != want {
			t.Errorf("%s: path required = %v, want %v", name, got, want)
		}
	}
}

func TestToolDefinitions_FilterEnums(t *testing.T) {
	toolMap := toolsByName(config.DefaultMaxWindow)

	enumOf := func(tool, prop string) []string {
		props := toolMap[tool].InputSchema["properties"].(map[string]interface{})
		return props[prop].(map[string]interface{})["enum"].([]string)
	}

	filterEnum := enumOf("image_filter", "filter")
	for _, k := range []string{"median", "gmean", "max", "min", "mean"} {
		if !contains(filterEnum, k) {
			t.Errorf("image_filter enum missing %s", k)
		}
	}

	shaderEnum := enumOf("image_kernel_shader", "filter")
	for _, k := range []string{"median", "gmean", "max", "min", "mean", "convolve"} {
		if !contains(shaderEnum, k) {
			t.Errorf("image_kernel_shader enum missing %s", k)
		}
	}

	opEnum := enumOf("image_gradient", "operator")
	if !contains(opEnum, "sobel") || !contains(opEnum, "roberts") || !contains(opEnum, "uolis") {
		t.Errorf("image_gradient enum: got %v", opEnum)
	}
}

func TestToolDefinitions_MaxWindow(t *testing.T) {
	toolMap := toolsByName(11)
	props := toolMap["image_filter"].InputSchema["properties"].(map[string]interface{})
	for _, side := range []string{"width", "height"} {
		p := props[side].(map[string]interface{})
		if p["maximum"] != 11 {
			t.Errorf("%s maximum: got %v, want 11", side, p["maximum"])
		}
		if p["default"] != 3 {
			t.Errorf("%s default: got %v, want 3", side, p["default"])
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(config.Config{MaxWindow: 7})
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != len(GetToolDefinitions(7)) {
		t.Errorf("Tool count: got %d", len(toolsList))
	}
}
