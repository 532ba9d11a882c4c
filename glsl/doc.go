// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl renders shaderdsl programs as GLSL ES source.
//
// Two dialects are supported:
//
//   - GLSL ES 1.00 for WebGL: attribute/varying I/O, gl_FragColor and
//     gl_FragData outputs, extension directives for derivatives, explicit
//     LOD sampling, fragment depth and multiple render targets.
//   - GLSL ES 3.00 for WebGL2: in/out I/O with explicit locations, std140
//     uniform blocks and integer textures.
//
// # Basic Usage
//
//	source, info, err := glsl.Render(ctx)
//
// # Pointers
//
// GLSL has no pointers. Address-of and dereference nodes render as their
// operand and by-reference parameters are declared inout.
//
// # Reserved Words
//
// Identifiers that collide with GLSL reserved words are prefixed with an
// underscore.
package glsl
