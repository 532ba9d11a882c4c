// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package types defines the shader-visible type system of shaderdsl.
//
// Every type exposes a structural identity key (TypeID) that drives
// equality, caching and deduplication: two independently built structs with
// the same name, layout and members compare equal. Types also know their
// spelling in each Target and their alignment and size under each Layout.
package types

// Type is the closed set of shader-visible types.
type Type interface {
	// TypeID returns the structural identity key.
	TypeID() string

	// TypeName returns the spelling of the type in target.
	TypeName(target Target) string

	// LayoutAlignment returns the alignment in bytes under layout.
	LayoutAlignment(layout Layout) (int, error)

	// LayoutSize returns the size in bytes under layout.
	LayoutSize(layout Layout) (int, error)

	sealed()
}

// Equal reports whether two types are structurally identical.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a == b || a.TypeID() == b.TypeID()
}

// IsPrimitive reports whether t is a primitive type and returns its encoding.
func IsPrimitive(t Type) (Primitive, bool) {
	if p, ok := t.(*PrimitiveType); ok {
		return p.prim, true
	}
	return 0, false
}

// IsScalarOf reports whether t is a scalar of kind s.
func IsScalarOf(t Type, s Scalar) bool {
	p, ok := IsPrimitive(t)
	return ok && p.IsScalar() && p.Scalar() == s
}

// Decl returns the declaration fragment binding name to t in target,
// for example "vec3 pos", "float w[4]" or "pos: vec3<f32>".
func Decl(t Type, target Target, name string) string {
	if target == WebGPU {
		if name == "" {
			return t.TypeName(target)
		}
		return name + ": " + t.TypeName(target)
	}
	if arr, ok := t.(*ArrayType); ok {
		return Decl(arr.Elem, target, name+arr.dimSuffix())
	}
	if name == "" {
		return t.TypeName(target)
	}
	return t.TypeName(target) + " " + name
}

// IsHostShareable reports whether t can be laid out in a buffer.
func IsHostShareable(t Type) bool {
	switch t := t.(type) {
	case *PrimitiveType:
		return t.prim.Scalar() != ScalarBool
	case *AtomicType:
		return true
	case *ArrayType:
		return IsHostShareable(t.Elem)
	case *StructType:
		for _, m := range t.Members {
			if !IsHostShareable(m.Type) {
				return false
			}
		}
		return true
	}
	return false
}
