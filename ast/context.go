// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ast

import (
	"github.com/gogpu/shaderdsl/types"
)

// Context is the per-stage emission context shared by the renderers.
type Context struct {
	Target types.Target
	Stage  Stage

	// Global is the module-scope statement list: struct declarations,
	// global variables and function definitions including the entry point.
	Global *Block

	// Inputs and Outputs are the user-declared pipeline variables in
	// location order.
	Inputs  []*Variable
	Outputs []*Variable

	// Structs are the struct types declared for this stage.
	Structs []*types.StructType

	// Builtins are the builtin variables referenced by the stage.
	Builtins []*Variable

	// TypeOverride replaces a variable's declared type in the GLSL output,
	// used when a depth texture is read without comparison.
	TypeOverride map[*Variable]types.Type

	// WorkgroupSize is the compute workgroup size.
	WorkgroupSize [3]int

	// DefaultPrecision is the GLSL ES default float/int precision.
	DefaultPrecision Precision

	extensions []string
	defines    []string
}

// NewContext creates an empty context for stage on target.
func NewContext(target types.Target, stage Stage) *Context {
	return &Context{
		Target:           target,
		Stage:            stage,
		Global:           &Block{},
		TypeOverride:     map[*Variable]types.Type{},
		WorkgroupSize:    [3]int{1, 1, 1},
		DefaultPrecision: PrecisionHigh,
	}
}

// RequireExtension records a GLSL extension directive.
func (c *Context) RequireExtension(name string) {
	for _, e := range c.extensions {
		if e == name {
			return
		}
	}
	c.extensions = append(c.extensions, name)
}

// Extensions returns the recorded extensions in first-use order.
func (c *Context) Extensions() []string { return c.extensions }

// Define records a "#define" line body.
func (c *Context) Define(line string) {
	for _, d := range c.defines {
		if d == line {
			return
		}
	}
	c.defines = append(c.defines, line)
}

// Defines returns the recorded defines in first-use order.
func (c *Context) Defines() []string { return c.defines }

// UsesBuiltin reports whether the builtin is referenced by the stage.
func (c *Context) UsesBuiltin(b *Builtin) bool {
	for _, v := range c.Builtins {
		if v.Builtin == b {
			return true
		}
	}
	return false
}

// DeclType returns the type to declare v with, honoring overrides.
func (c *Context) DeclType(v *Variable) types.Type {
	if t, ok := c.TypeOverride[v]; ok {
		return t
	}
	return v.Type
}

// Entry returns the stage entry point definition, or nil.
func (c *Context) Entry() *FuncDef {
	for _, s := range c.Global.Stmts {
		if f, ok := s.(*FuncDef); ok && f.Entry {
			return f
		}
	}
	return nil
}
