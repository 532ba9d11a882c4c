// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package wgsl renders shaderdsl programs as WGSL (WebGPU Shading Language)
// source.
//
// WGSL is the only target with pointers, address spaces and separate
// samplers. Pipeline inputs and outputs are gathered into per-stage
// structs that hold the user locations and the builtins the stage actually
// references; a struct that ends up empty is omitted together with its
// entry point parameter or return value.
//
// # Usage
//
//	source, err := wgsl.Render(ctx)
//
// # Entry Points
//
// The entry point copies its input struct into a module-scope private
// variable so that helper functions can read inputs the same way GLSL
// globals are read:
//
//	var<private> zIn: zVertexInput;
//	var<private> zOut: zVertexOutput;
//
//	@vertex
//	fn main(zInput: zVertexInput) -> zVertexOutput {
//	    zIn = zInput;
//	    ...
//	    return zOut;
//	}
package wgsl
