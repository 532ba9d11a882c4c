// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"strings"
)

// Target identifies the shading language a program is emitted for.
type Target uint8

const (
	// WebGL emits GLSL ES 1.00.
	WebGL Target = iota
	// WebGL2 emits GLSL ES 3.00.
	WebGL2
	// WebGPU emits WGSL.
	WebGPU
)

// String returns the target name.
func (t Target) String() string {
	switch t {
	case WebGL:
		return "webgl"
	case WebGL2:
		return "webgl2"
	case WebGPU:
		return "webgpu"
	default:
		return "unknown"
	}
}

// IsGLSL reports whether the target emits a GLSL dialect.
func (t Target) IsGLSL() bool {
	return t == WebGL || t == WebGL2
}

// ParseTarget converts a target name into a Target.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "webgl", "gles100", "glsl100":
		return WebGL, nil
	case "webgl2", "gles300", "glsl300":
		return WebGL2, nil
	case "webgpu", "wgsl":
		return WebGPU, nil
	}
	return 0, fmt.Errorf("unknown target %q", s)
}

// Layout selects the alignment and size policy for host-shareable types.
type Layout uint8

const (
	// LayoutDefault follows the natural WGSL alignment rules.
	LayoutDefault Layout = iota
	// LayoutStd140 follows the GLSL std140 uniform block rules.
	LayoutStd140
	// LayoutPacked aligns everything to one byte.
	LayoutPacked
)

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case LayoutDefault:
		return "default"
	case LayoutStd140:
		return "std140"
	case LayoutPacked:
		return "packed"
	default:
		return "unknown"
	}
}

// AddressSpace is the pointer qualifier of the WGSL backend.
type AddressSpace uint8

const (
	SpaceUnknown AddressSpace = iota
	SpaceFunction
	SpacePrivate
	SpaceWorkgroup
	SpaceUniform
	SpaceStorage
)

// String returns the WGSL spelling of the address space.
func (s AddressSpace) String() string {
	switch s {
	case SpaceFunction:
		return "function"
	case SpacePrivate:
		return "private"
	case SpaceWorkgroup:
		return "workgroup"
	case SpaceUniform:
		return "uniform"
	case SpaceStorage:
		return "storage"
	default:
		return "unknown"
	}
}

func roundUp(v, align int) int {
	if align <= 1 {
		return v
	}
	return (v + align - 1) / align * align
}
