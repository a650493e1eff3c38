package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/ironsheep/image-filter-mcp/internal/filters"
	"github.com/ironsheep/image-filter-mcp/internal/imaging"
	"github.com/ironsheep/image-filter-mcp/internal/neighborhood"
	"github.com/ironsheep/image-filter-mcp/internal/shader"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_filter").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if s.cfg.Debug() {
		log.Printf("tool %s finished in %s (err=%v)", params.Name, time.Since(start), err)
	}
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Runs the filter or generator
//  5. Encodes or saves the output image
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Neighborhood Filters
	case "image_filter":
		return s.handleImageFilter(ctx, args)
	case "image_convolve":
		return s.handleImageConvolve(ctx, args)
	case "image_gradient":
		return s.handleImageGradient(ctx, args)

	// Analysis Helpers
	case "image_sample_neighborhood":
		return s.handleImageSampleNeighborhood(args)
	case "image_kernel_shader":
		return s.handleImageKernelShader(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response. An empty data string is
// left out of the response.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func policyOf(includeOrigin bool) neighborhood.BoundsPolicy {
	if includeOrigin {
		return neighborhood.IncludeOrigin
	}
	return neighborhood.SkipOrigin
}

// checkWindow rejects window or mask sides above the configured maximum.
func (s *Server) checkWindow(width, height int) error {
	if width > s.cfg.MaxWindow || height > s.cfg.MaxWindow {
		return fmt.Errorf("%w: %dx%d exceeds maximum side %d", filters.ErrInvalidWindow, width, height, s.cfg.MaxWindow)
	}
	return nil
}

// checkRadius rejects negative radii and radii whose window side 2r+1 would
// exceed the configured maximum. The comparison avoids computing 2r+1.
func (s *Server) checkRadius(r neighborhood.Radius) error {
	limit := (s.cfg.MaxWindow - 1) / 2
	if r.X < 0 || r.Y < 0 {
		return fmt.Errorf("%w: negative radius (%d, %d)", filters.ErrInvalidWindow, r.X, r.Y)
	}
	if r.X > limit || r.Y > limit {
		return fmt.Errorf("%w: radius (%d, %d) exceeds maximum %d", filters.ErrInvalidWindow, r.X, r.Y, limit)
	}
	return nil
}

// writeResult saves out to outputPath when one is given and otherwise
// returns it inline as base64 PNG.
func (s *Server) writeResult(out image.Image, outputPath string) (*imaging.ImageResult, error) {
	if outputPath == "" {
		return imaging.EncodePNG(out)
	}
	return imaging.Save(s.cache, s.cfg.ResolveOutput(outputPath), out)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Neighborhood Filter Handlers ===

type imageFilterArgs struct {
	Path          string `json:"path"`
	Filter        string `json:"filter"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	IncludeOrigin bool   `json:"include_origin"`
	OutputPath    string `json:"output_path"`
}

type filterResult struct {
	Filter       string `json:"filter"`
	WindowWidth  int    `json:"window_width,omitempty"`
	WindowHeight int    `json:"window_height,omitempty"`
	BoundsPolicy string `json:"bounds_policy"`
	*imaging.ImageResult
}

func (s *Server) handleImageFilter(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageFilterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = 3
	}
	if a.Height == 0 {
		a.Height = 3
	}
	kind, err := filters.ParseKind(a.Filter)
	if err != nil {
		return nil, err
	}
	if err := s.checkWindow(a.Width, a.Height); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	opts := filters.Options{Width: a.Width, Height: a.Height, Policy: policyOf(a.IncludeOrigin)}
	out, err := filters.Apply(ctx, img, kind, opts)
	if err != nil {
		return nil, err
	}
	res, err := s.writeResult(out, a.OutputPath)
	if err != nil {
		return nil, err
	}
	return &filterResult{
		Filter:       string(kind),
		WindowWidth:  a.Width,
		WindowHeight: a.Height,
		BoundsPolicy: opts.Policy.String(),
		ImageResult:  res,
	}, nil
}

type imageConvolveArgs struct {
	Path          string    `json:"path"`
	Mask          []float64 `json:"mask"`
	MaskWidth     int       `json:"mask_width"`
	MaskHeight    int       `json:"mask_height"`
	Scale         float64   `json:"scale"`
	IncludeOrigin bool      `json:"include_origin"`
	OutputPath    string    `json:"output_path"`
}

func (s *Server) handleImageConvolve(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageConvolveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaskWidth == 0 {
		a.MaskWidth = 3
	}
	if a.MaskHeight == 0 {
		a.MaskHeight = 3
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	if err := s.checkWindow(a.MaskWidth, a.MaskHeight); err != nil {
		return nil, err
	}
	mask := filters.Mask{Width: a.MaskWidth, Height: a.MaskHeight, Weights: a.Mask, Scale: a.Scale}
	if err := mask.Validate(); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	policy := policyOf(a.IncludeOrigin)
	out, err := filters.Convolve(ctx, img, mask, policy)
	if err != nil {
		return nil, err
	}
	res, err := s.writeResult(out, a.OutputPath)
	if err != nil {
		return nil, err
	}
	return &filterResult{
		Filter:       "convolve",
		WindowWidth:  a.MaskWidth,
		WindowHeight: a.MaskHeight,
		BoundsPolicy: policy.String(),
		ImageResult:  res,
	}, nil
}

type imageGradientArgs struct {
	Path          string `json:"path"`
	Operator      string `json:"operator"`
	IncludeOrigin bool   `json:"include_origin"`
	OutputPath    string `json:"output_path"`
}

func (s *Server) handleImageGradient(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageGradientArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Operator == "" {
		a.Operator = string(filters.Sobel)
	}
	op, err := filters.ParseOperator(a.Operator)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	policy := policyOf(a.IncludeOrigin)
	out, err := filters.Gradient(ctx, img, op, policy)
	if err != nil {
		return nil, err
	}
	res, err := s.writeResult(out, a.OutputPath)
	if err != nil {
		return nil, err
	}
	return &filterResult{
		Filter:       string(op),
		BoundsPolicy: policy.String(),
		ImageResult:  res,
	}, nil
}

// === Analysis Helper Handlers ===

type imageSampleNeighborhoodArgs struct {
	Path          string `json:"path"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	RadiusX       *int   `json:"radius_x"`
	RadiusY       *int   `json:"radius_y"`
	IncludeOrigin bool   `json:"include_origin"`
}

func (s *Server) handleImageSampleNeighborhood(args json.RawMessage) (interface{}, error) {
	var a imageSampleNeighborhoodArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	// Zero is a valid radius, so only missing values take the default.
	radius := neighborhood.Radius{X: 1, Y: 1}
	if a.RadiusX != nil {
		radius.X = *a.RadiusX
	}
	if a.RadiusY != nil {
		radius.Y = *a.RadiusY
	}
	if err := s.checkRadius(radius); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleNeighborhood(img, image.Pt(a.X, a.Y), radius, policyOf(a.IncludeOrigin))
}

type imageKernelShaderArgs struct {
	Filter        string `json:"filter"`
	IncludeOrigin bool   `json:"include_origin"`
	Compile       bool   `json:"compile"`
}

type kernelShaderResult struct {
	*shader.Source
	BoundsPolicy string `json:"bounds_policy"`
	SPIRVWords   int    `json:"spirv_words,omitempty"`
}

func (s *Server) handleImageKernelShader(args json.RawMessage) (interface{}, error) {
	var a imageKernelShaderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	kind, err := shader.ParseKernel(a.Filter)
	if err != nil {
		return nil, err
	}

	policy := policyOf(a.IncludeOrigin)
	src, err := shader.Generate(kind, policy)
	if err != nil {
		return nil, err
	}
	res := &kernelShaderResult{Source: src, BoundsPolicy: policy.String()}
	if a.Compile {
		words, err := shader.Compile(src)
		if err != nil {
			return nil, err
		}
		res.SPIRVWords = len(words)
	}
	return res, nil
}
