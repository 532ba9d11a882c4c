// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package ast defines the expression and statement tree that shaderdsl
// builds from DSL calls and that the glsl and wgsl packages render.
//
// Nodes carry their resolved type, a const-expression flag, a writable flag
// and the address space they live in. Writability propagates from field,
// index, cast and dereference wrappers down to the declared Variable, which
// in turn flips storage access modes and pointer access modes to read-write.
package ast

import "github.com/gogpu/shaderdsl/types"

// Stage is one shader invocation unit.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
	StageCompute
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return "unknown"
	}
}

// DeclareKind classifies how a global variable is declared.
type DeclareKind uint8

const (
	DeclNone DeclareKind = iota
	DeclIn
	DeclOut
	DeclUniform
	DeclStorage
	DeclWorkgroup
)

// String returns the declare kind name.
func (k DeclareKind) String() string {
	switch k {
	case DeclIn:
		return "in"
	case DeclOut:
		return "out"
	case DeclUniform:
		return "uniform"
	case DeclStorage:
		return "storage"
	case DeclWorkgroup:
		return "workgroup"
	default:
		return "none"
	}
}

// Precision is a GLSL ES precision qualifier hint.
type Precision uint8

const (
	PrecisionDefault Precision = iota
	PrecisionLow
	PrecisionMedium
	PrecisionHigh
)

// Qualifier returns the GLSL keyword followed by a space, or "".
func (p Precision) Qualifier() string {
	switch p {
	case PrecisionLow:
		return "lowp "
	case PrecisionMedium:
		return "mediump "
	case PrecisionHigh:
		return "highp "
	default:
		return ""
	}
}

// Variable is a declared symbol: a global, a local, a parameter, a
// pipeline input or output, or a builtin.
type Variable struct {
	Name string
	Type types.Type
	Kind DeclareKind

	// Group and Binding locate uniform, storage, texture and sampler
	// resources. Binding is -1 until the builder assigns it.
	Group   int
	Binding int

	// Location is the pipeline location of inputs and outputs, -1 otherwise.
	Location int

	// Attribute is the vertex attribute semantic bound to a vertex input.
	Attribute string

	// Builtin is set for builtin variables.
	Builtin *Builtin

	Precision Precision
	Space     types.AddressSpace

	// Global marks module-scope declarations.
	Global bool

	// Param marks function parameters; ByRef marks pointer/inout ones.
	Param bool
	ByRef bool

	// Buffer marks a uniform or storage variable that is emitted as a
	// buffer block rather than a plain uniform.
	Buffer bool

	// Writable is set when the variable is written after declaration.
	Writable bool

	// Const is set when the variable was declared with a const-expression
	// initializer and has not been written since.
	Const bool

	// Block redirects accesses to Block.Name + "." + Name after uniform
	// merging; the variable's own declaration is then dropped.
	Block *Variable

	// Unfilterable marks float textures bound as non-filterable.
	Unfilterable bool
}

// NewVariable creates a variable with no binding and no location.
func NewVariable(name string, t types.Type, kind DeclareKind) *Variable {
	return &Variable{Name: name, Type: t, Kind: kind, Binding: -1, Location: -1}
}

// IsConstDecl reports whether the declaration can be emitted as const.
func (v *Variable) IsConstDecl() bool {
	return v.Const && !v.Writable
}

// IsResource reports whether the variable occupies a bind group slot.
func (v *Variable) IsResource() bool {
	return v.Kind == DeclUniform || v.Kind == DeclStorage
}

// Merged reports whether the variable was folded into a uniform block.
func (v *Variable) Merged() bool { return v.Block != nil }
