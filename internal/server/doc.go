// Package server implements the MCP (Model Context Protocol) server for the
// neighborhood image filters.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Neighborhood Filters:
//   - image_filter: median, gmean, max, min or mean over a window
//   - image_convolve: Weighted mask convolution
//   - image_gradient: Sobel or Roberts gradient magnitude, or Uolis
//
// Analysis Helpers:
//   - image_sample_neighborhood: Show which pixels a window samples
//   - image_kernel_shader: Emit the WGSL kernel for a filter or convolution
//
// Every filter skips row 0 and column 0 of the image unless the call sets
// include_origin.
//
// # Image Caching
//
// Source images are cached by path for the lifetime of the process. Writing a
// result to output_path evicts any cached copy of that path.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(cfg).Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
