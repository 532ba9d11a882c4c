// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

import (
	"strconv"
	"sync"
)

// Scalar is the component kind of a primitive type.
type Scalar uint8

const (
	ScalarNone Scalar = iota
	ScalarF32
	ScalarF16
	ScalarI32
	ScalarI16
	ScalarI8
	ScalarU32
	ScalarU16
	ScalarU8
	ScalarBool
)

// Size returns the byte size of one component.
func (s Scalar) Size() int {
	switch s {
	case ScalarF16, ScalarI16, ScalarU16:
		return 2
	case ScalarI8, ScalarU8:
		return 1
	default:
		return 4
	}
}

// IsFloat reports whether the scalar is a floating point kind.
func (s Scalar) IsFloat() bool { return s == ScalarF32 || s == ScalarF16 }

// IsSigned reports whether the scalar is a signed integer kind.
func (s Scalar) IsSigned() bool { return s == ScalarI32 || s == ScalarI16 || s == ScalarI8 }

// IsUnsigned reports whether the scalar is an unsigned integer kind.
func (s Scalar) IsUnsigned() bool { return s == ScalarU32 || s == ScalarU16 || s == ScalarU8 }

// IsInteger reports whether the scalar is an integer kind.
func (s Scalar) IsInteger() bool { return s.IsSigned() || s.IsUnsigned() }

// String returns the WGSL-style spelling of the scalar kind.
func (s Scalar) String() string {
	switch s {
	case ScalarF32:
		return "f32"
	case ScalarF16:
		return "f16"
	case ScalarI32:
		return "i32"
	case ScalarI16:
		return "i16"
	case ScalarI8:
		return "i8"
	case ScalarU32:
		return "u32"
	case ScalarU16:
		return "u16"
	case ScalarU8:
		return "u8"
	case ScalarBool:
		return "bool"
	default:
		return "none"
	}
}

// Primitive packs a scalar kind, a column count (vector width), a row count
// and a normalized flag into one integer. Rows greater than one denote a
// float matrix made of Rows column vectors of Cols components each.
type Primitive uint32

const (
	primScalarMask = 0xff
	primColsShift  = 8
	primRowsShift  = 12
	primDimMask    = 0xf
	primNormalized = 1 << 16
)

// MakePrimitive encodes a primitive.
func MakePrimitive(s Scalar, rows, cols int, normalized bool) Primitive {
	p := Primitive(s) | Primitive(cols&primDimMask)<<primColsShift | Primitive(rows&primDimMask)<<primRowsShift
	if normalized {
		p |= primNormalized
	}
	return p
}

// Shader-visible primitives.
var (
	PrimF32    = MakePrimitive(ScalarF32, 1, 1, false)
	PrimI32    = MakePrimitive(ScalarI32, 1, 1, false)
	PrimU32    = MakePrimitive(ScalarU32, 1, 1, false)
	PrimBool   = MakePrimitive(ScalarBool, 1, 1, false)
	PrimVec2   = MakePrimitive(ScalarF32, 1, 2, false)
	PrimVec3   = MakePrimitive(ScalarF32, 1, 3, false)
	PrimVec4   = MakePrimitive(ScalarF32, 1, 4, false)
	PrimIVec2  = MakePrimitive(ScalarI32, 1, 2, false)
	PrimIVec3  = MakePrimitive(ScalarI32, 1, 3, false)
	PrimIVec4  = MakePrimitive(ScalarI32, 1, 4, false)
	PrimUVec2  = MakePrimitive(ScalarU32, 1, 2, false)
	PrimUVec3  = MakePrimitive(ScalarU32, 1, 3, false)
	PrimUVec4  = MakePrimitive(ScalarU32, 1, 4, false)
	PrimBVec2  = MakePrimitive(ScalarBool, 1, 2, false)
	PrimBVec3  = MakePrimitive(ScalarBool, 1, 3, false)
	PrimBVec4  = MakePrimitive(ScalarBool, 1, 4, false)
	PrimMat2   = MakePrimitive(ScalarF32, 2, 2, false)
	PrimMat2x3 = MakePrimitive(ScalarF32, 2, 3, false)
	PrimMat2x4 = MakePrimitive(ScalarF32, 2, 4, false)
	PrimMat3x2 = MakePrimitive(ScalarF32, 3, 2, false)
	PrimMat3   = MakePrimitive(ScalarF32, 3, 3, false)
	PrimMat3x4 = MakePrimitive(ScalarF32, 3, 4, false)
	PrimMat4x2 = MakePrimitive(ScalarF32, 4, 2, false)
	PrimMat4x3 = MakePrimitive(ScalarF32, 4, 3, false)
	PrimMat4   = MakePrimitive(ScalarF32, 4, 4, false)
)

// Scalar returns the component kind.
func (p Primitive) Scalar() Scalar { return Scalar(p & primScalarMask) }

// Cols returns the vector width (column vector length for matrices).
func (p Primitive) Cols() int { return int(p>>primColsShift) & primDimMask }

// Rows returns the number of column vectors; 1 for scalars and vectors.
func (p Primitive) Rows() int { return int(p>>primRowsShift) & primDimMask }

// Normalized reports whether integer components are read as normalized floats.
func (p Primitive) Normalized() bool { return p&primNormalized != 0 }

// IsScalar reports whether p is a single component.
func (p Primitive) IsScalar() bool { return p.Rows() == 1 && p.Cols() == 1 }

// IsVector reports whether p is a vector.
func (p Primitive) IsVector() bool { return p.Rows() == 1 && p.Cols() > 1 }

// IsMatrix reports whether p is a matrix.
func (p Primitive) IsMatrix() bool { return p.Rows() > 1 }

// Resize returns the primitive with the same scalar kind and new dimensions.
func (p Primitive) Resize(rows, cols int) Primitive {
	return MakePrimitive(p.Scalar(), rows, cols, p.Normalized())
}

// ScalarType returns the single-component primitive of p's kind.
func (p Primitive) ScalarType() Primitive { return p.Resize(1, 1) }

// Size returns the unpadded byte size of the primitive.
func (p Primitive) Size() int {
	return p.Scalar().Size() * p.Rows() * p.Cols()
}

// String returns the WGSL-style spelling, independent of target support.
func (p Primitive) String() string {
	s := p.Scalar().String()
	if p.Normalized() {
		s += "norm"
	}
	switch {
	case p.IsMatrix():
		return "mat" + strconv.Itoa(p.Rows()) + "x" + strconv.Itoa(p.Cols()) + "<" + s + ">"
	case p.IsVector():
		return "vec" + strconv.Itoa(p.Cols()) + "<" + s + ">"
	default:
		return s
	}
}

// PrimitiveType is the Type of scalars, vectors and matrices.
type PrimitiveType struct {
	prim Primitive
	id   string
}

var primCache sync.Map // Primitive -> *PrimitiveType

// Prim returns the interned PrimitiveType for p.
func Prim(p Primitive) *PrimitiveType {
	if t, ok := primCache.Load(p); ok {
		return t.(*PrimitiveType)
	}
	t, _ := primCache.LoadOrStore(p, &PrimitiveType{prim: p, id: "prim:" + p.String()})
	return t.(*PrimitiveType)
}

// Canonical primitive types.
var (
	Float  = Prim(PrimF32)
	Int    = Prim(PrimI32)
	Uint   = Prim(PrimU32)
	Bool   = Prim(PrimBool)
	Vec2   = Prim(PrimVec2)
	Vec3   = Prim(PrimVec3)
	Vec4   = Prim(PrimVec4)
	IVec2  = Prim(PrimIVec2)
	IVec3  = Prim(PrimIVec3)
	IVec4  = Prim(PrimIVec4)
	UVec2  = Prim(PrimUVec2)
	UVec3  = Prim(PrimUVec3)
	UVec4  = Prim(PrimUVec4)
	BVec2  = Prim(PrimBVec2)
	BVec3  = Prim(PrimBVec3)
	BVec4  = Prim(PrimBVec4)
	Mat2   = Prim(PrimMat2)
	Mat2x3 = Prim(PrimMat2x3)
	Mat2x4 = Prim(PrimMat2x4)
	Mat3x2 = Prim(PrimMat3x2)
	Mat3   = Prim(PrimMat3)
	Mat3x4 = Prim(PrimMat3x4)
	Mat4x2 = Prim(PrimMat4x2)
	Mat4x3 = Prim(PrimMat4x3)
	Mat4   = Prim(PrimMat4)
)

// Primitive returns the encoded primitive.
func (t *PrimitiveType) Primitive() Primitive { return t.prim }

// TypeID implements Type.
func (t *PrimitiveType) TypeID() string { return t.id }

// Resize returns the interned primitive type with new dimensions.
func (t *PrimitiveType) Resize(rows, cols int) *PrimitiveType {
	return Prim(t.prim.Resize(rows, cols))
}

// Size returns the unpadded byte size.
func (t *PrimitiveType) Size() int { return t.prim.Size() }

// CheckTarget reports whether the primitive can appear in shader code for target.
func (t *PrimitiveType) CheckTarget(target Target) error {
	p := t.prim
	switch p.Scalar() {
	case ScalarF16, ScalarI16, ScalarI8, ScalarU16, ScalarU8:
		return Errorf(ErrType, "%s is a vertex format and cannot be used in shader code", p)
	case ScalarU32:
		if target == WebGL {
			return Errorf(ErrCapability, "unsigned integer type %s is not supported by %s", p, target)
		}
	}
	if p.Normalized() {
		return Errorf(ErrType, "normalized type %s cannot be used in shader code", p)
	}
	if p.IsMatrix() && p.Rows() != p.Cols() && target == WebGL {
		return Errorf(ErrCapability, "non-square matrix %s is not supported by %s", p, target)
	}
	return nil
}

// TypeName implements Type.
func (t *PrimitiveType) TypeName(target Target) string {
	p := t.prim
	if target == WebGPU {
		return p.String()
	}
	switch {
	case p.IsMatrix():
		if p.Rows() == p.Cols() {
			return "mat" + strconv.Itoa(p.Rows())
		}
		return "mat" + strconv.Itoa(p.Rows()) + "x" + strconv.Itoa(p.Cols())
	case p.IsVector():
		prefix := ""
		switch {
		case p.Scalar().IsSigned():
			prefix = "i"
		case p.Scalar().IsUnsigned():
			prefix = "u"
		case p.Scalar() == ScalarBool:
			prefix = "b"
		}
		return prefix + "vec" + strconv.Itoa(p.Cols())
	}
	switch {
	case p.Scalar().IsSigned():
		return "int"
	case p.Scalar().IsUnsigned():
		return "uint"
	case p.Scalar() == ScalarBool:
		return "bool"
	default:
		return "float"
	}
}

// LayoutAlignment implements Type.
func (t *PrimitiveType) LayoutAlignment(layout Layout) (int, error) {
	p := t.prim
	switch {
	case layout == LayoutPacked:
		return 1, nil
	case p.IsScalar():
		return 4, nil
	case p.IsMatrix() && layout == LayoutStd140:
		if p.Cols() == 2 {
			return 0, Errorf(ErrType, "matrix %s with 2-component columns cannot be used in std140 layout", p)
		}
		return 16, nil
	default:
		return 1 << min(4, p.Cols()+1), nil
	}
}

// LayoutSize implements Type.
func (t *PrimitiveType) LayoutSize(layout Layout) (int, error) {
	p := t.prim
	if layout == LayoutPacked {
		return p.Size(), nil
	}
	if p.IsMatrix() {
		align, err := t.LayoutAlignment(layout)
		if err != nil {
			return 0, err
		}
		return p.Rows() * align, nil
	}
	return 4 * p.Cols(), nil
}

func (*PrimitiveType) sealed() {}
