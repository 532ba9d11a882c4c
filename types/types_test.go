// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

import (
	"testing"

	"github.com/gogpu/gputypes"
)

// =============================================================================
// Primitive Tests
// =============================================================================

func TestPrimitive_Encoding(t *testing.T) {
	tests := []struct {
		prim       Primitive
		scalar     Scalar
		rows, cols int
		matrix     bool
	}{
		{PrimF32, ScalarF32, 1, 1, false},
		{PrimVec3, ScalarF32, 1, 3, false},
		{PrimUVec2, ScalarU32, 1, 2, false},
		{PrimMat4, ScalarF32, 4, 4, true},
		{PrimMat3x2, ScalarF32, 3, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.prim.String(), func(t *testing.T) {
			if tt.prim.Scalar() != tt.scalar || tt.prim.Rows() != tt.rows || tt.prim.Cols() != tt.cols {
				t.Errorf("decode = (%v, %d, %d), want (%v, %d, %d)",
					tt.prim.Scalar(), tt.prim.Rows(), tt.prim.Cols(), tt.scalar, tt.rows, tt.cols)
			}
			if tt.prim.IsMatrix() != tt.matrix {
				t.Errorf("IsMatrix() = %v, want %v", tt.prim.IsMatrix(), tt.matrix)
			}
		})
	}
}

func TestPrimitive_Resize(t *testing.T) {
	if got := PrimVec4.Resize(1, 2); got != PrimVec2 {
		t.Errorf("Resize(1,2) = %v, want vec2", got)
	}
	if got := Vec3.Resize(3, 3); got != Mat3 {
		t.Errorf("Resize(3,3) did not return the interned mat3")
	}
	norm := MakePrimitive(ScalarU8, 1, 4, true)
	if got := norm.Size(); got != 4 {
		t.Errorf("u8x4 norm size = %d, want 4", got)
	}
}

func TestPrimitive_TypeName(t *testing.T) {
	tests := []struct {
		typ    *PrimitiveType
		target Target
		want   string
	}{
		{Float, WebGL, "float"},
		{Float, WebGPU, "f32"},
		{IVec3, WebGL2, "ivec3"},
		{IVec3, WebGPU, "vec3<i32>"},
		{UVec4, WebGL2, "uvec4"},
		{BVec2, WebGL, "bvec2"},
		{Mat4, WebGL, "mat4"},
		{Mat4, WebGPU, "mat4x4<f32>"},
		{Mat3x2, WebGL2, "mat3x2"},
		{Mat3x2, WebGPU, "mat3x2<f32>"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.TypeName(tt.target); got != tt.want {
				t.Errorf("TypeName(%v) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestPrimitive_CheckTarget(t *testing.T) {
	if err := Uint.CheckTarget(WebGL); !IsKind(err, ErrCapability) {
		t.Errorf("uint on webgl: got %v, want capability error", err)
	}
	if err := Mat3x2.CheckTarget(WebGL); !IsKind(err, ErrCapability) {
		t.Errorf("mat3x2 on webgl: got %v, want capability error", err)
	}
	if err := Uint.CheckTarget(WebGL2); err != nil {
		t.Errorf("uint on webgl2: unexpected error %v", err)
	}
	if err := Prim(MakePrimitive(ScalarU8, 1, 4, true)).CheckTarget(WebGPU); !IsKind(err, ErrType) {
		t.Errorf("u8x4 norm in shader: got %v, want type error", err)
	}
}

// =============================================================================
// Layout Tests
// =============================================================================

func TestLayout_Primitives(t *testing.T) {
	tests := []struct {
		typ         Type
		layout      Layout
		align, size int
	}{
		{Float, LayoutDefault, 4, 4},
		{Vec2, LayoutDefault, 8, 8},
		{Vec3, LayoutDefault, 16, 12},
		{Vec4, LayoutDefault, 16, 16},
		{Mat2, LayoutDefault, 8, 16},
		{Mat3, LayoutDefault, 16, 48},
		{Mat4, LayoutDefault, 16, 64},
		{Mat3, LayoutStd140, 16, 48},
		{Vec3, LayoutPacked, 1, 12},
		{Prim(MakePrimitive(ScalarU16, 1, 2, false)), LayoutPacked, 1, 4},
		{Prim(MakePrimitive(ScalarU8, 1, 4, true)), LayoutPacked, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.typ.TypeID()+"/"+tt.layout.String(), func(t *testing.T) {
			align, err := tt.typ.LayoutAlignment(tt.layout)
			if err != nil {
				t.Fatalf("LayoutAlignment: %v", err)
			}
			size, err := tt.typ.LayoutSize(tt.layout)
			if err != nil {
				t.Fatalf("LayoutSize: %v", err)
			}
			if align != tt.align || size != tt.size {
				t.Errorf("got align=%d size=%d, want align=%d size=%d", align, size, tt.align, tt.size)
			}
		})
	}
}

func TestLayout_Std140RejectsTwoWideMatrix(t *testing.T) {
	if _, err := Mat2.LayoutAlignment(LayoutStd140); !IsKind(err, ErrType) {
		t.Errorf("mat2 std140: got %v, want type error", err)
	}
	if _, err := NewStructType("S", LayoutStd140, Field{"m", Mat4x2}); err == nil {
		t.Error("expected error for mat4x2 member in std140 struct")
	}
}

func TestLayout_Std140Struct(t *testing.T) {
	st, err := NewStructType("Light", LayoutStd140, Field{"a", Vec3}, Field{"b", Float})
	if err != nil {
		t.Fatalf("NewStructType: %v", err)
	}
	a, b := st.Members[0], st.Members[1]
	if a.Offset != 0 || a.Size != 12 || a.Alignment != 16 {
		t.Errorf("a = offset %d size %d align %d, want 0/12/16", a.Offset, a.Size, a.Alignment)
	}
	if b.Offset != 12 || b.Size != 4 {
		t.Errorf("b = offset %d size %d, want 12/4", b.Offset, b.Size)
	}
	if st.Size() != 16 {
		t.Errorf("struct size = %d, want 16", st.Size())
	}
}

func TestLayout_Std140NestedAndArrays(t *testing.T) {
	inner, err := NewStructType("Inner", LayoutDefault, Field{"x", Float})
	if err != nil {
		t.Fatal(err)
	}
	outer, err := NewStructType("Outer", LayoutStd140,
		Field{"f", Float},
		Field{"inner", inner},
		Field{"v", NewArrayType(Vec4, 2)},
	)
	if err != nil {
		t.Fatalf("NewStructType: %v", err)
	}
	if m := outer.Members[1]; m.Offset != 16 || m.Alignment != 16 || m.Size != 16 {
		t.Errorf("inner = offset %d align %d size %d, want 16/16/16", m.Offset, m.Alignment, m.Size)
	}
	if m := outer.Members[1]; m.DefaultAlignment != 4 || m.DefaultSize != 4 {
		t.Errorf("inner default = align %d size %d, want 4/4", m.DefaultAlignment, m.DefaultSize)
	}
	if m := outer.Members[2]; m.Offset != 32 || m.Size != 32 {
		t.Errorf("v = offset %d size %d, want 32/32", m.Offset, m.Size)
	}
	if outer.Size() != 64 {
		t.Errorf("outer size = %d, want 64", outer.Size())
	}

	_, err = NewStructType("Bad", LayoutStd140, Field{"w", NewArrayType(Float, 4)})
	if !IsKind(err, ErrType) {
		t.Errorf("float[4] in std140: got %v, want type error", err)
	}
}

func TestLayout_DefaultStruct(t *testing.T) {
	st, err := NewStructType("S", LayoutDefault,
		Field{"a", Float}, Field{"b", Vec2}, Field{"c", Vec3}, Field{"d", Float})
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 8, 16, 28}
	for i, m := range st.Members {
		if m.Offset != want[i] {
			t.Errorf("member %s offset = %d, want %d", m.Name, m.Offset, want[i])
		}
	}
	if st.Size() != 32 {
		t.Errorf("size = %d, want 32", st.Size())
	}
}

func TestLayout_Packed(t *testing.T) {
	st, err := NewStructType("P", LayoutPacked,
		Field{"a", Prim(MakePrimitive(ScalarU8, 1, 1, false))}, Field{"b", Vec3})
	if err != nil {
		t.Fatal(err)
	}
	if st.Members[1].Offset != 1 || st.Size() != 13 {
		t.Errorf("packed: b offset %d size %d, want 1/13", st.Members[1].Offset, st.Size())
	}
}

func TestBufferLayout(t *testing.T) {
	inner, _ := NewStructType("Inner", LayoutStd140, Field{"color", Vec4})
	st, err := NewStructType("Block", LayoutStd140,
		Field{"mvp", Mat4}, Field{"lights", NewArrayType(inner, 2)}, Field{"time", Float})
	if err != nil {
		t.Fatal(err)
	}
	bl, err := st.ToBufferLayout(0, LayoutStd140)
	if err != nil {
		t.Fatalf("ToBufferLayout: %v", err)
	}
	if bl.ByteSize != 112 {
		t.Errorf("byteSize = %d, want 112", bl.ByteSize)
	}
	if len(bl.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(bl.Entries))
	}
	lights := bl.Entries[1]
	if lights.Offset != 64 || lights.ArraySize != 2 || lights.SubLayout == nil || lights.SubLayout.ByteSize != 16 {
		t.Errorf("lights entry = %+v", lights)
	}
	if bl.Entries[2].Type != PrimF32 || bl.Entries[2].Offset != 96 {
		t.Errorf("time entry = %+v", bl.Entries[2])
	}
}

// =============================================================================
// Identity Tests
// =============================================================================

func TestStruct_StructuralEquality(t *testing.T) {
	a, _ := NewStructType("Light", LayoutDefault, Field{"dir", Vec3}, Field{"power", Float})
	b, _ := NewStructType("Light", LayoutDefault, Field{"dir", Vec3}, Field{"power", Float})
	c, _ := NewStructType("Light", LayoutStd140, Field{"dir", Vec3}, Field{"power", Float})
	if !Equal(a, b) {
		t.Error("independently built identical structs must compare equal")
	}
	if Equal(a, c) {
		t.Error("structs with different layouts must differ")
	}
	if !Equal(NewArrayType(a, 3), NewArrayType(b, 3)) {
		t.Error("arrays of equal structs must compare equal")
	}
}

func TestStruct_Extends(t *testing.T) {
	base, _ := NewStructType("Base", LayoutStd140, Field{"a", Vec4})
	ext, err := base.Extends("Ext", Field{"b", Float})
	if err != nil {
		t.Fatal(err)
	}
	if ext.Layout != LayoutStd140 || len(ext.Members) != 2 || ext.Members[1].Offset != 16 {
		t.Errorf("extends: %+v", ext.Members)
	}
	if _, err := base.Extends("Dup", Field{"a", Float}); !IsKind(err, ErrStructural) {
		t.Errorf("duplicate member: got %v, want structural error", err)
	}
}

func TestRegistry_StructRedefinition(t *testing.T) {
	r := NewRegistry()
	a, _ := NewStructType("S", LayoutDefault, Field{"x", Float})
	b, _ := NewStructType("S", LayoutDefault, Field{"x", Float})
	c, _ := NewStructType("S", LayoutDefault, Field{"x", Vec2})

	if _, created, err := r.RegisterStruct(a); err != nil || !created {
		t.Fatalf("first register: created=%v err=%v", created, err)
	}
	got, created, err := r.RegisterStruct(b)
	if err != nil || created || got != a {
		t.Errorf("identical redefinition should reuse the existing struct")
	}
	if _, _, err := r.RegisterStruct(c); !IsKind(err, ErrStructural) {
		t.Errorf("conflicting redefinition: got %v, want structural error", err)
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
}

func TestPointer_BindSpace(t *testing.T) {
	p := NewPointerType(Vec4, SpaceUnknown)
	if err := p.BindSpace(SpaceFunction); err != nil {
		t.Fatal(err)
	}
	if err := p.BindSpace(SpaceFunction); err != nil {
		t.Errorf("rebinding to the same space: %v", err)
	}
	if err := p.BindSpace(SpacePrivate); !IsKind(err, ErrInternal) {
		t.Errorf("rebinding to another space: got %v, want internal error", err)
	}
	if got := p.TypeName(WebGPU); got != "ptr<function, vec4<f32>>" {
		t.Errorf("TypeName = %q", got)
	}
	s := NewPointerType(Float, SpaceStorage)
	s.Writable = true
	if got := s.TypeName(WebGPU); got != "ptr<storage, f32, read_write>" {
		t.Errorf("TypeName = %q", got)
	}
}

// =============================================================================
// Texture Tests
// =============================================================================

func TestTexture_Names(t *testing.T) {
	tests := []struct {
		tex    *TextureType
		target Target
		want   string
	}{
		{NewTextureType(Dim2D, 0, ScalarF32), WebGPU, "texture_2d<f32>"},
		{NewTextureType(Dim2D, 0, ScalarF32), WebGL, "sampler2D"},
		{NewTextureType(DimCube, 0, ScalarF32), WebGL2, "samplerCube"},
		{NewTextureType(Dim2D, TexArray, ScalarI32), WebGL2, "isampler2DArray"},
		{NewTextureType(Dim2D, TexDepth, ScalarF32), WebGPU, "texture_depth_2d"},
		{NewTextureType(Dim2D, TexDepth, ScalarF32), WebGL2, "sampler2DShadow"},
		{NewTextureType(Dim2D, TexDepth, ScalarF32), WebGL, "sampler2D"},
		{NewTextureType(Dim2D, TexMultisampled, ScalarF32), WebGPU, "texture_multisampled_2d<f32>"},
		{NewTextureType(Dim2D, TexExternal, ScalarF32), WebGPU, "texture_external"},
		{NewStorageTextureType(Dim2D, false, gputypes.TextureFormatRGBA8Unorm), WebGPU, "texture_storage_2d<rgba8unorm, write>"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.tex.TypeName(tt.target); got != tt.want {
				t.Errorf("TypeName(%v) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestTexture_CheckTarget(t *testing.T) {
	if err := NewTextureType(Dim3D, 0, ScalarF32).CheckTarget(WebGL); !IsKind(err, ErrCapability) {
		t.Errorf("3D texture on webgl: got %v", err)
	}
	if err := NewTextureType(Dim3D, 0, ScalarF32).CheckTarget(WebGL2); err != nil {
		t.Errorf("3D texture on webgl2: %v", err)
	}
	if err := NewStorageTextureType(Dim2D, false, gputypes.TextureFormatRGBA8Unorm).CheckTarget(WebGL2); !IsKind(err, ErrCapability) {
		t.Errorf("storage texture on webgl2: got %v", err)
	}
	if got := NewTextureType(Dim2D, TexDepth, 0).SampledName(WebGL2); got != "sampler2D" {
		t.Errorf("SampledName = %q, want sampler2D", got)
	}
	if got := NewTextureType(DimCube, TexArray, 0).ViewDimension(); got != gputypes.TextureViewDimensionCubeArray {
		t.Errorf("ViewDimension = %v", got)
	}
}

// =============================================================================
// Constructor Overload Tests
// =============================================================================

func TestConstructorOverloads_Vec3(t *testing.T) {
	overloads := ConstructorOverloads(Vec3, WebGPU)
	var sigs []string
	for _, o := range overloads {
		sigs = append(sigs, o.TypeID())
	}
	want := map[string]bool{
		NewFunctionType("vec3<f32>", Vec3, Param{Type: Vec2}, Param{Type: Float}).TypeID(): false,
		NewFunctionType("vec3<f32>", Vec3, Param{Type: Float}, Param{Type: Vec2}).TypeID(): false,
		NewFunctionType("vec3<f32>", Vec3, Param{Type: Float}).TypeID():                    false,
		NewFunctionType("vec3<f32>", Vec3, Param{Type: IVec3}).TypeID():                    false,
	}
	for _, s := range sigs {
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for sig, found := range want {
		if !found {
			t.Errorf("missing overload %s", sig)
		}
	}
	if overloads[0].Params[0].Type != Vec3 {
		t.Errorf("first overload should be the identity constructor, got %s", overloads[0].TypeID())
	}
}

func TestConstructorOverloads_Cached(t *testing.T) {
	a := ConstructorOverloads(Vec4, WebGL2)
	b := ConstructorOverloads(Vec4, WebGL2)
	if len(a) == 0 || &a[0] != &b[0] {
		t.Error("overloads should be cached per target and type")
	}
	for _, o := range ConstructorOverloads(Vec4, WebGL) {
		for _, p := range o.Params {
			if pt, ok := IsPrimitive(p.Type); ok && pt.Scalar() == ScalarU32 {
				t.Errorf("webgl overload %s uses unsigned integers", o.TypeID())
			}
		}
	}
}

func TestCompositions(t *testing.T) {
	if got := len(compositions(2)); got != 0 {
		t.Errorf("compositions(2) = %d, want 0", got)
	}
	if got := len(compositions(3)); got != 2 {
		t.Errorf("compositions(3) = %d, want 2", got)
	}
	if got := len(compositions(4)); got != 6 {
		t.Errorf("compositions(4) = %d, want 6", got)
	}
}

func TestConstructorOverloads_Matrix(t *testing.T) {
	overloads := ConstructorOverloads(Mat3, WebGPU)
	if len(overloads) != 3 {
		t.Fatalf("mat3 overloads = %d, want 3", len(overloads))
	}
	if len(overloads[1].Params) != 3 || overloads[1].Params[0].Type != Vec3 {
		t.Errorf("per-column overload = %s", overloads[1].TypeID())
	}
	if len(overloads[2].Params) != 9 {
		t.Errorf("flattened overload arity = %d, want 9", len(overloads[2].Params))
	}
}

func TestDecl(t *testing.T) {
	arr := NewArrayType(Float, 4)
	if got := Decl(arr, WebGL2, "w"); got != "float w[4]" {
		t.Errorf("GLSL array decl = %q", got)
	}
	if got := Decl(arr, WebGPU, "w"); got != "w: array<f32, 4>" {
		t.Errorf("WGSL array decl = %q", got)
	}
	if got := Decl(NewArrayType(Vec4, 0), WebGPU, "data"); got != "data: array<vec4<f32>>" {
		t.Errorf("WGSL runtime array decl = %q", got)
	}
}
