// Package shader generates WGSL compute kernels around the neighborhood loop
// and compiles them to SPIR-V.
//
// The loop is a text template: CollectPixels expands it around a body
// fragment that sees `pixel` (vec4<f32>), `x` and `y` in scope, exactly where
// the CPU version would call the Collect body. Generate wraps the loop in a
// complete kernel for one filter kind, and Compile runs the result through
// the naga WGSL front end and SPIR-V back end.
//
// # Kernel Interface
//
// Every generated kernel uses the same bindings:
//
//	@group(0) @binding(0) in_image:  texture_2d<f32>
//	@group(0) @binding(1) out_image: texture_storage_2d<rgba8unorm, write>
//	@group(0) @binding(2) params:    uniform { x_radius: u32, y_radius: u32 }
//
// The convolve kernel also takes `scale: f32` in params and reads its mask
// from `@group(0) @binding(3) weights: array<f32>` (storage, read), laid out
// row-major with Y outer.
//
// The entry point is `main` with a 16x16 workgroup, one invocation per output
// pixel. WorkgroupCount gives the dispatch size for an image.
//
// Kernels are produced for validation and for hosts that run them; this
// module does not create GPU devices or dispatch them itself.
package shader
