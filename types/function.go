// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

import "strings"

// Param is a function parameter. By-reference parameters keep the pointee
// type here; the WGSL backend wraps them in a pointer.
type Param struct {
	Name  string
	Type  Type
	ByRef bool
}

// FunctionType is the signature of a builtin or user function.
type FunctionType struct {
	Name   string
	Return Type
	Params []Param
}

// NewFunctionType returns a signature; a nil return type means void.
func NewFunctionType(name string, ret Type, params ...Param) *FunctionType {
	if ret == nil {
		ret = Void
	}
	return &FunctionType{Name: name, Return: ret, Params: params}
}

// TypeID implements Type.
func (f *FunctionType) TypeID() string {
	var b strings.Builder
	b.WriteString("fn:")
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Type.TypeID())
		if p.ByRef {
			b.WriteByte('&')
		}
	}
	b.WriteString(")->")
	b.WriteString(f.Return.TypeID())
	return b.String()
}

// SameParams reports whether f and g accept the same parameter list.
func (f *FunctionType) SameParams(g *FunctionType) bool {
	if len(f.Params) != len(g.Params) {
		return false
	}
	for i := range f.Params {
		if f.Params[i].ByRef != g.Params[i].ByRef || !Equal(f.Params[i].Type, g.Params[i].Type) {
			return false
		}
	}
	return true
}

// TypeName implements Type.
func (f *FunctionType) TypeName(Target) string { return f.Name }

// LayoutAlignment implements Type.
func (f *FunctionType) LayoutAlignment(Layout) (int, error) {
	return 0, Errorf(ErrType, "function type %s is not host-shareable", f.Name)
}

// LayoutSize implements Type.
func (f *FunctionType) LayoutSize(Layout) (int, error) {
	return 0, Errorf(ErrType, "function type %s is not host-shareable", f.Name)
}

func (*FunctionType) sealed() {}

// VoidType is the absence of a value.
type VoidType struct{}

// Void is the canonical void type.
var Void = &VoidType{}

// IsVoid reports whether t is nil or void.
func IsVoid(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(*VoidType)
	return ok
}

// TypeID implements Type.
func (*VoidType) TypeID() string { return "void" }

// TypeName implements Type.
func (*VoidType) TypeName(Target) string { return "void" }

// LayoutAlignment implements Type.
func (*VoidType) LayoutAlignment(Layout) (int, error) {
	return 0, NewError(ErrType, "void is not host-shareable")
}

// LayoutSize implements Type.
func (*VoidType) LayoutSize(Layout) (int, error) {
	return 0, NewError(ErrType, "void is not host-shareable")
}

func (*VoidType) sealed() {}
