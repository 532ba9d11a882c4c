// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// construct builds a value of primitive type t. No arguments, or a single
// string naming a parameter or member, yields a declaration placeholder.
func (pb *ProgramBuilder) construct(t *types.PrimitiveType, args []any) *Var {
	check(t.CheckTarget(pb.target))
	if len(args) == 0 {
		return placeholder(t, "")
	}
	if name, ok := args[0].(string); ok && len(args) == 1 {
		return placeholder(t, name)
	}
	if t.Primitive().IsScalar() && len(args) == 1 && ast.IsLiteral(args[0]) {
		lit, err := ast.NewLiteral(t, args[0])
		check(err)
		return exprVar(lit)
	}
	_, conv, err := ast.ResolveOverload(t.TypeName(pb.target), rawArgs(args), types.ConstructorOverloads(t, pb.target))
	check(err)
	return exprVar(ast.NewConstructor(t, conv))
}

func (pb *ProgramBuilder) Float(args ...any) *Var  { return pb.construct(types.Float, args) }
func (pb *ProgramBuilder) Int(args ...any) *Var    { return pb.construct(types.Int, args) }
func (pb *ProgramBuilder) Uint(args ...any) *Var   { return pb.construct(types.Uint, args) }
func (pb *ProgramBuilder) Bool(args ...any) *Var   { return pb.construct(types.Bool, args) }
func (pb *ProgramBuilder) Vec2(args ...any) *Var   { return pb.construct(types.Vec2, args) }
func (pb *ProgramBuilder) Vec3(args ...any) *Var   { return pb.construct(types.Vec3, args) }
func (pb *ProgramBuilder) Vec4(args ...any) *Var   { return pb.construct(types.Vec4, args) }
func (pb *ProgramBuilder) IVec2(args ...any) *Var  { return pb.construct(types.IVec2, args) }
func (pb *ProgramBuilder) IVec3(args ...any) *Var  { return pb.construct(types.IVec3, args) }
func (pb *ProgramBuilder) IVec4(args ...any) *Var  { return pb.construct(types.IVec4, args) }
func (pb *ProgramBuilder) UVec2(args ...any) *Var  { return pb.construct(types.UVec2, args) }
func (pb *ProgramBuilder) UVec3(args ...any) *Var  { return pb.construct(types.UVec3, args) }
func (pb *ProgramBuilder) UVec4(args ...any) *Var  { return pb.construct(types.UVec4, args) }
func (pb *ProgramBuilder) BVec2(args ...any) *Var  { return pb.construct(types.BVec2, args) }
func (pb *ProgramBuilder) BVec3(args ...any) *Var  { return pb.construct(types.BVec3, args) }
func (pb *ProgramBuilder) BVec4(args ...any) *Var  { return pb.construct(types.BVec4, args) }
func (pb *ProgramBuilder) Mat2(args ...any) *Var   { return pb.construct(types.Mat2, args) }
func (pb *ProgramBuilder) Mat3(args ...any) *Var   { return pb.construct(types.Mat3, args) }
func (pb *ProgramBuilder) Mat4(args ...any) *Var   { return pb.construct(types.Mat4, args) }
func (pb *ProgramBuilder) Mat2x3(args ...any) *Var { return pb.construct(types.Mat2x3, args) }
func (pb *ProgramBuilder) Mat2x4(args ...any) *Var { return pb.construct(types.Mat2x4, args) }
func (pb *ProgramBuilder) Mat3x2(args ...any) *Var { return pb.construct(types.Mat3x2, args) }
func (pb *ProgramBuilder) Mat3x4(args ...any) *Var { return pb.construct(types.Mat3x4, args) }
func (pb *ProgramBuilder) Mat4x2(args ...any) *Var { return pb.construct(types.Mat4x2, args) }
func (pb *ProgramBuilder) Mat4x3(args ...any) *Var { return pb.construct(types.Mat4x3, args) }

// Construct builds a value of any constructible type t.
func (pb *ProgramBuilder) Construct(t types.Type, args ...any) *Var {
	switch t := t.(type) {
	case *types.PrimitiveType:
		return pb.construct(t, args)
	case *types.StructType:
		if len(args) == 0 {
			return placeholder(t, "")
		}
		return pb.constructStruct(t, args)
	case *types.ArrayType:
		if len(args) == 0 {
			return placeholder(t, "")
		}
		return pb.NewArray(t.Elem, args...)
	}
	bail(types.ErrType, "%s cannot be constructed", t.TypeName(types.WebGPU))
	return nil
}

func (pb *ProgramBuilder) texturePlaceholder(dim types.TextureDim, flags types.TextureFlags, name []string) *Var {
	return namedPlaceholder(types.NewTextureType(dim, flags, types.ScalarF32), name)
}

func namedPlaceholder(t types.Type, name []string) *Var {
	n := ""
	if len(name) > 0 {
		n = name[0]
	}
	return placeholder(t, n)
}

// Texture placeholders. Sampled textures default to filterable float
// components; SampleType changes the component kind.
func (pb *ProgramBuilder) Tex1D(name ...string) *Var {
	return pb.texturePlaceholder(types.Dim1D, 0, name)
}
func (pb *ProgramBuilder) Tex2D(name ...string) *Var {
	return pb.texturePlaceholder(types.Dim2D, 0, name)
}
func (pb *ProgramBuilder) Tex3D(name ...string) *Var {
	return pb.texturePlaceholder(types.Dim3D, 0, name)
}
func (pb *ProgramBuilder) TexCube(name ...string) *Var {
	return pb.texturePlaceholder(types.DimCube, 0, name)
}
func (pb *ProgramBuilder) Tex2DArray(name ...string) *Var {
	return pb.texturePlaceholder(types.Dim2D, types.TexArray, name)
}
func (pb *ProgramBuilder) TexCubeArray(name ...string) *Var {
	return pb.texturePlaceholder(types.DimCube, types.TexArray, name)
}
func (pb *ProgramBuilder) TexDepth2D(name ...string) *Var {
	return pb.texturePlaceholder(types.Dim2D, types.TexDepth, name)
}
func (pb *ProgramBuilder) TexDepth2DArray(name ...string) *Var {
	return pb.texturePlaceholder(types.Dim2D, types.TexDepth|types.TexArray, name)
}
func (pb *ProgramBuilder) TexDepthCube(name ...string) *Var {
	return pb.texturePlaceholder(types.DimCube, types.TexDepth, name)
}
func (pb *ProgramBuilder) TexMultisampled2D(name ...string) *Var {
	return pb.texturePlaceholder(types.Dim2D, types.TexMultisampled, name)
}
func (pb *ProgramBuilder) TexExternal(name ...string) *Var {
	return pb.texturePlaceholder(types.Dim2D, types.TexExternal, name)
}

// TexStorage2D returns a write-only 2D storage texture placeholder.
func (pb *ProgramBuilder) TexStorage2D(format gputypes.TextureFormat, name ...string) *Var {
	return namedPlaceholder(types.NewStorageTextureType(types.Dim2D, false, format), name)
}

// Sampler returns a sampler placeholder.
func (pb *ProgramBuilder) Sampler(name ...string) *Var {
	return namedPlaceholder(types.Sampler, name)
}

// SamplerComparison returns a comparison sampler placeholder.
func (pb *ProgramBuilder) SamplerComparison(name ...string) *Var {
	return namedPlaceholder(types.SamplerComparison, name)
}

// AtomicI32 returns a signed atomic placeholder.
func (pb *ProgramBuilder) AtomicI32(name ...string) *Var {
	return namedPlaceholder(types.AtomicI32, name)
}

// AtomicU32 returns an unsigned atomic placeholder.
func (pb *ProgramBuilder) AtomicU32(name ...string) *Var {
	return namedPlaceholder(types.AtomicU32, name)
}

// ArrayOf returns a placeholder for an array of n elements; n == 0 makes a
// runtime-sized array. elem is a type, a placeholder or a Struct.
func (pb *ProgramBuilder) ArrayOf(elem any, n int, name ...string) *Var {
	if n < 0 {
		bail(types.ErrType, "negative array length %d", n)
	}
	return namedPlaceholder(types.NewArrayType(elemType(elem), n), name)
}

// NewArray constructs a fixed-size array from its elements.
func (pb *ProgramBuilder) NewArray(elem any, values ...any) *Var {
	t := types.NewArrayType(elemType(elem), len(values))
	if len(values) == 0 {
		bail(types.ErrType, "array constructor needs at least one element")
	}
	if pb.target == types.WebGL {
		bail(types.ErrCapability, "array constructors are not supported by %s", pb.target)
	}
	pb.ensureType(t)
	_, conv, err := ast.ResolveOverload(t.TypeName(pb.target), rawArgs(values), types.ConstructorOverloads(t, pb.target))
	check(err)
	return exprVar(ast.NewConstructor(t, conv))
}

func elemType(elem any) types.Type {
	switch e := elem.(type) {
	case types.Type:
		return e
	case *Var:
		if !e.isPlaceholder() {
			bail(types.ErrType, "array element must be a type placeholder")
		}
		return e.typ
	case *Struct:
		return e.typ
	}
	bail(types.ErrType, "invalid array element type %T", elem)
	return nil
}
