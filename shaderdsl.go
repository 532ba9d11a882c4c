// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package shaderdsl describes shader programs once, in Go, and emits them
// for WebGL (GLSL ES 1.00), WebGL2 (GLSL ES 3.00) and WebGPU (WGSL).
//
// A program is written as stage callbacks against a builder:
//
//	pb := shaderdsl.NewBuilder(shaderdsl.WebGPU)
//	prog, err := pb.BuildRender(
//	    func(s *builder.Scope) {
//	        s.Inputs().Set("aPos", pb.Vec3().Attrib("POSITION"))
//	        pb.Main(func(m *builder.Scope) {
//	            m.Builtins().Set("position", pb.Vec4(m.Inputs().Get("aPos"), 1.0))
//	        })
//	    },
//	    func(s *builder.Scope) {
//	        pb.Main(func(m *builder.Scope) {
//	            m.Outputs().Set("color", pb.Vec4(1.0, 0.0, 0.0, 1.0))
//	        })
//	    },
//	)
//
// The result carries the source of each stage plus the bind group layouts
// and vertex attributes the host needs to create a pipeline.
//
// For lower-level access use the builder, types, ast, glsl and wgsl
// packages directly.
package shaderdsl

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shaderdsl/builder"
	"github.com/gogpu/shaderdsl/types"
)

// Version is the module version reported by the CLI.
const Version = "0.4.0"

// Target aliases so callers rarely need the types package.
const (
	WebGL  = types.WebGL
	WebGL2 = types.WebGL2
	WebGPU = types.WebGPU
)

// Targets lists every supported target in ascending capability order.
var Targets = []types.Target{types.WebGL, types.WebGL2, types.WebGPU}

// NewBuilder returns a program builder for target.
func NewBuilder(target types.Target, opts ...builder.Option) *builder.ProgramBuilder {
	return builder.New(target, opts...)
}

// ParseTarget converts a target name such as "webgl2" or "wgsl" into a
// Target.
func ParseTarget(name string) (types.Target, error) {
	return types.ParseTarget(name)
}

// SetLogger configures the logger used by all builders that were not given
// one through builder.WithLogger. Pass nil to silence logging again.
func SetLogger(l *slog.Logger) {
	builder.SetLogger(l)
}

// Logger returns the package logger.
func Logger() *slog.Logger {
	return builder.Logger()
}

// BuildRender builds a render program for target in one call.
func BuildRender(target types.Target, vs, fs func(*builder.Scope), opts ...builder.Option) (*builder.RenderProgram, error) {
	return builder.New(target, opts...).BuildRender(vs, fs)
}

// BuildCompute builds a compute program in one call. Compute requires
// WebGPU.
func BuildCompute(target types.Target, cs func(*builder.Scope), opts ...builder.Option) (*builder.ComputeProgram, error) {
	return builder.New(target, opts...).BuildCompute(cs)
}

// CheckWGSL parses and lowers WGSL source with naga. It catches syntax
// errors and unresolved names in emitted programs.
func CheckWGSL(source string) error {
	_, err := lowerWGSL(source)
	return err
}

// ValidateWGSL runs CheckWGSL and then naga's IR validation, which also
// checks types, control flow and binding uniqueness.
func ValidateWGSL(source string) error {
	lowered, err := lowerWGSL(source)
	if err != nil {
		return err
	}
	verrs, err := naga.Validate(lowered)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if len(verrs) > 0 {
		return fmt.Errorf("validation failed: %w", &verrs[0])
	}
	return nil
}

func lowerWGSL(source string) (*ir.Module, error) {
	module, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	lowered, err := naga.LowerWithSource(module, source)
	if err != nil {
		return nil, fmt.Errorf("lowering error: %w", err)
	}
	return lowered, nil
}

// CheckRender runs CheckWGSL on both stages of a WebGPU render program.
// GLSL programs are accepted unchanged.
func CheckRender(prog *builder.RenderProgram) error {
	if prog.Target != types.WebGPU {
		return nil
	}
	if err := CheckWGSL(prog.VertexSource); err != nil {
		return fmt.Errorf("vertex stage: %w", err)
	}
	if err := CheckWGSL(prog.FragmentSource); err != nil {
		return fmt.Errorf("fragment stage: %w", err)
	}
	return nil
}
