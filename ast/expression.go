// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ast

import (
	"github.com/gogpu/shaderdsl/types"
)

// Expr is the closed set of expression nodes.
type Expr interface {
	// Type returns the resolved type of the expression.
	Type() types.Type

	// IsConstExp reports whether the expression is a literal or a
	// constructor of const expressions.
	IsConstExp() bool

	// IsReference reports whether the expression denotes storage that can
	// be assigned to or passed by reference.
	IsReference() bool

	// IsWritable reports whether the expression has been marked written.
	IsWritable() bool

	// MarkWritable records a write through the expression and propagates it
	// to the underlying variable.
	MarkWritable() error

	// AddressSpace returns the address space of the referenced storage.
	AddressSpace() types.AddressSpace

	expr()
}

// operand marks e as consumed by a parent node.
func operand(e Expr) Expr {
	if c, ok := e.(*Call); ok {
		c.Statement = false
	}
	return e
}

func operands(es []Expr) []Expr {
	for _, e := range es {
		operand(e)
	}
	return es
}

func notReference(what string) error {
	return types.Errorf(types.ErrType, "%s cannot be written", what)
}

// VarRef references a declared variable.
type VarRef struct {
	Var      *Variable
	writable bool
}

// NewVarRef creates a reference to v.
func NewVarRef(v *Variable) *VarRef { return &VarRef{Var: v} }

func (e *VarRef) Type() types.Type  { return e.Var.Type }
func (e *VarRef) IsConstExp() bool  { return false }
func (e *VarRef) IsReference() bool { return true }
func (e *VarRef) IsWritable() bool  { return e.writable }

func (e *VarRef) AddressSpace() types.AddressSpace {
	if pt, ok := e.Var.Type.(*types.PointerType); ok {
		return pt.Space()
	}
	return e.Var.Space
}

func (e *VarRef) MarkWritable() error {
	v := e.Var
	switch {
	case v.Builtin != nil && !v.Builtin.Output:
		return types.Errorf(types.ErrType, "builtin input %s is read-only", v.Name)
	case v.Kind == DeclIn:
		return types.Errorf(types.ErrType, "input %s is read-only", v.Name)
	case v.Kind == DeclUniform:
		return types.Errorf(types.ErrType, "uniform %s is read-only", v.Name)
	case v.Kind == DeclStorage:
		if tex, ok := v.Type.(*types.TextureType); ok && !tex.IsStorage() {
			return types.Errorf(types.ErrType, "texture %s is read-only", v.Name)
		}
	}
	e.writable = true
	v.Writable = true
	v.Const = false
	if pt, ok := v.Type.(*types.PointerType); ok {
		pt.Writable = true
	}
	return nil
}

// Literal is a scalar literal.
type Literal struct {
	Prim *types.PrimitiveType
	Num  float64
	Bool bool
}

// NewBoolLiteral creates a bool literal.
func NewBoolLiteral(v bool) *Literal { return &Literal{Prim: types.Bool, Bool: v} }

func (e *Literal) Type() types.Type                 { return e.Prim }
func (e *Literal) IsConstExp() bool                 { return true }
func (e *Literal) IsReference() bool                { return false }
func (e *Literal) IsWritable() bool                 { return false }
func (e *Literal) MarkWritable() error              { return notReference("literal") }
func (e *Literal) AddressSpace() types.AddressSpace { return types.SpaceUnknown }

// Constructor builds a value of Ctor from Args.
type Constructor struct {
	Ctor types.Type
	Args []Expr
}

// NewConstructor creates a type constructor.
func NewConstructor(t types.Type, args []Expr) *Constructor {
	return &Constructor{Ctor: t, Args: operands(args)}
}

func (e *Constructor) Type() types.Type { return e.Ctor }

func (e *Constructor) IsConstExp() bool {
	for _, a := range e.Args {
		if !a.IsConstExp() {
			return false
		}
	}
	return true
}

func (e *Constructor) IsReference() bool                { return false }
func (e *Constructor) IsWritable() bool                 { return false }
func (e *Constructor) MarkWritable() error              { return notReference("constructed value") }
func (e *Constructor) AddressSpace() types.AddressSpace { return types.SpaceUnknown }

// FieldAccess selects a struct member or a vector swizzle.
type FieldAccess struct {
	Base     Expr
	Field    string
	typ      types.Type
	writable bool
}

// NewFieldAccess creates a member or swizzle access of type t.
func NewFieldAccess(base Expr, field string, t types.Type) *FieldAccess {
	return &FieldAccess{Base: operand(base), Field: field, typ: t}
}

func (e *FieldAccess) Type() types.Type                 { return e.typ }
func (e *FieldAccess) IsConstExp() bool                 { return false }
func (e *FieldAccess) IsReference() bool                { return e.Base.IsReference() }
func (e *FieldAccess) IsWritable() bool                 { return e.writable }
func (e *FieldAccess) AddressSpace() types.AddressSpace { return e.Base.AddressSpace() }

func (e *FieldAccess) MarkWritable() error {
	if err := e.Base.MarkWritable(); err != nil {
		return err
	}
	e.writable = true
	return nil
}

// Index selects an array element, a matrix column or a vector component.
type Index struct {
	Base     Expr
	Idx      Expr
	typ      types.Type
	writable bool
}

// NewIndex creates an index access of type t.
func NewIndex(base, idx Expr, t types.Type) *Index {
	return &Index{Base: operand(base), Idx: operand(idx), typ: t}
}

func (e *Index) Type() types.Type                 { return e.typ }
func (e *Index) IsConstExp() bool                 { return false }
func (e *Index) IsReference() bool                { return e.Base.IsReference() }
func (e *Index) IsWritable() bool                 { return e.writable }
func (e *Index) AddressSpace() types.AddressSpace { return e.Base.AddressSpace() }

func (e *Index) MarkWritable() error {
	if err := e.Base.MarkWritable(); err != nil {
		return err
	}
	e.writable = true
	return nil
}

// Cast converts Value to To.
type Cast struct {
	To       types.Type
	Value    Expr
	writable bool
}

// NewCast creates a conversion.
func NewCast(to types.Type, value Expr) *Cast {
	return &Cast{To: to, Value: operand(value)}
}

func (e *Cast) Type() types.Type                 { return e.To }
func (e *Cast) IsConstExp() bool                 { return e.Value.IsConstExp() }
func (e *Cast) IsReference() bool                { return false }
func (e *Cast) IsWritable() bool                 { return e.writable }
func (e *Cast) AddressSpace() types.AddressSpace { return e.Value.AddressSpace() }

func (e *Cast) MarkWritable() error {
	if err := e.Value.MarkWritable(); err != nil {
		return err
	}
	e.writable = true
	return nil
}

// AddressOf takes the address of a reference expression.
type AddressOf struct {
	Value Expr
	ptr   *types.PointerType
}

// NewAddressOf takes the address of value. The address of a dereference
// is the dereferenced pointer itself.
func NewAddressOf(value Expr) Expr {
	if d, ok := value.(*Deref); ok {
		return d.Pointer
	}
	return &AddressOf{
		Value: operand(value),
		ptr:   types.NewPointerType(value.Type(), value.AddressSpace()),
	}
}

func (e *AddressOf) Type() types.Type                 { return e.ptr }
func (e *AddressOf) IsConstExp() bool                 { return false }
func (e *AddressOf) IsReference() bool                { return false }
func (e *AddressOf) IsWritable() bool                 { return e.ptr.Writable }
func (e *AddressOf) AddressSpace() types.AddressSpace { return e.Value.AddressSpace() }

func (e *AddressOf) MarkWritable() error {
	if err := e.Value.MarkWritable(); err != nil {
		return err
	}
	e.ptr.Writable = true
	return nil
}

// Deref reads through a pointer.
type Deref struct {
	Pointer  Expr
	writable bool
}

// NewDeref dereferences pointer. Dereferencing an address-of yields the
// original reference.
func NewDeref(pointer Expr) Expr {
	if a, ok := pointer.(*AddressOf); ok {
		return a.Value
	}
	return &Deref{Pointer: operand(pointer)}
}

func (e *Deref) Type() types.Type {
	if pt, ok := e.Pointer.Type().(*types.PointerType); ok {
		return pt.Pointee
	}
	return e.Pointer.Type()
}

func (e *Deref) IsConstExp() bool                 { return false }
func (e *Deref) IsReference() bool                { return true }
func (e *Deref) IsWritable() bool                 { return e.writable }
func (e *Deref) AddressSpace() types.AddressSpace { return e.Pointer.AddressSpace() }

func (e *Deref) MarkWritable() error {
	if err := e.Pointer.MarkWritable(); err != nil {
		return err
	}
	e.writable = true
	return nil
}

// AsValue dereferences pointer-typed expressions.
func AsValue(e Expr) Expr {
	if _, ok := e.Type().(*types.PointerType); ok {
		return NewDeref(e)
	}
	return e
}

// Unary applies a prefix operator: "-", "!" or "~".
type Unary struct {
	Op      string
	Operand Expr
	typ     types.Type
}

// NewUnary creates a prefix operation.
func NewUnary(op string, x Expr, t types.Type) *Unary {
	return &Unary{Op: op, Operand: operand(x), typ: t}
}

func (e *Unary) Type() types.Type                 { return e.typ }
func (e *Unary) IsConstExp() bool                 { return false }
func (e *Unary) IsReference() bool                { return false }
func (e *Unary) IsWritable() bool                 { return false }
func (e *Unary) MarkWritable() error              { return notReference("unary expression") }
func (e *Unary) AddressSpace() types.AddressSpace { return types.SpaceUnknown }

// Binary applies an infix operator.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
	typ   types.Type
}

// NewBinary creates an infix operation.
func NewBinary(op string, l, r Expr, t types.Type) *Binary {
	return &Binary{Op: op, Left: operand(l), Right: operand(r), typ: t}
}

func (e *Binary) Type() types.Type                 { return e.typ }
func (e *Binary) IsConstExp() bool                 { return false }
func (e *Binary) IsReference() bool                { return false }
func (e *Binary) IsWritable() bool                 { return false }
func (e *Binary) MarkWritable() error              { return notReference("binary expression") }
func (e *Binary) AddressSpace() types.AddressSpace { return types.SpaceUnknown }

// Call invokes a builtin or user function. A call starts out as its own
// statement and stops being one when a parent node consumes it.
type Call struct {
	Name      string
	Builtin   bool
	Sig       *types.FunctionType
	Args      []Expr
	Statement bool
}

// NewCall creates a call of sig with already converted arguments.
func NewCall(name string, builtin bool, sig *types.FunctionType, args []Expr) *Call {
	return &Call{Name: name, Builtin: builtin, Sig: sig, Args: operands(args), Statement: true}
}

func (e *Call) Type() types.Type                 { return e.Sig.Return }
func (e *Call) IsConstExp() bool                 { return false }
func (e *Call) IsReference() bool                { return false }
func (e *Call) IsWritable() bool                 { return false }
func (e *Call) MarkWritable() error              { return notReference("call result") }
func (e *Call) AddressSpace() types.AddressSpace { return types.SpaceUnknown }

func (*VarRef) expr()      {}
func (*Literal) expr()     {}
func (*Constructor) expr() {}
func (*FieldAccess) expr() {}
func (*Index) expr()       {}
func (*Cast) expr()        {}
func (*AddressOf) expr()   {}
func (*Deref) expr()       {}
func (*Unary) expr()       {}
func (*Binary) expr()      {}
func (*Call) expr()        {}
