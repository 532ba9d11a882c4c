// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ast

import "github.com/gogpu/shaderdsl/types"

// Stmt is the closed set of statement nodes.
type Stmt interface {
	stmt()
}

// Block is an ordered statement list.
type Block struct {
	Stmts []Stmt
}

// Append adds statements to the block.
func (b *Block) Append(s ...Stmt) {
	b.Stmts = append(b.Stmts, s...)
}

// If is one link of an if/else-if/else chain. Next is the following
// else-if link, or the else link when Next.Cond is nil.
type If struct {
	Cond Expr
	Body *Block
	Next *If
}

// NewIf creates an if link.
func NewIf(cond Expr) *If {
	return &If{Cond: operand(cond), Body: &Block{}}
}

// Chain appends an else-if (cond != nil) or else (cond == nil) link.
func (s *If) Chain(cond Expr) *If {
	last := s
	for last.Next != nil {
		last = last.Next
	}
	last.Next = &If{Cond: operand(cond), Body: &Block{}}
	return last.Next
}

// RangeFor is a counted loop over [Start, End) or [Start, End].
type RangeFor struct {
	Var   *Variable
	Start Expr
	End   Expr
	// Open selects "<" when true and "<=" when false.
	Open bool
	Body *Block
}

// NewRangeFor creates a counted loop.
func NewRangeFor(v *Variable, start, end Expr, open bool) *RangeFor {
	return &RangeFor{Var: v, Start: operand(start), End: operand(end), Open: open, Body: &Block{}}
}

// While loops while Cond holds.
type While struct {
	Cond Expr
	Body *Block
}

// NewWhile creates a while loop.
func NewWhile(cond Expr) *While {
	return &While{Cond: operand(cond), Body: &Block{}}
}

// DoWhile runs Body once and then loops while Cond holds. Cond is set
// after the body has been built.
type DoWhile struct {
	Body *Block
	Cond Expr
}

// SetCond sets the loop condition.
func (s *DoWhile) SetCond(cond Expr) {
	s.Cond = operand(cond)
}

// Assign stores RHS into the reference LHS.
type Assign struct {
	LHS Expr
	RHS Expr
}

// NewAssign creates an assignment.
func NewAssign(lhs, rhs Expr) *Assign {
	return &Assign{LHS: operand(lhs), RHS: operand(rhs)}
}

// Touch evaluates a call for its side effects. It renders nothing once the
// call has been consumed as an operand of another node.
type Touch struct {
	Call *Call
}

// Discard ends the fragment invocation.
type Discard struct{}

// Break leaves the innermost loop.
type Break struct{}

// Continue skips to the next loop iteration.
type Continue struct{}

// Return leaves the current function.
type Return struct {
	Value Expr
	// Entry marks a return from the stage entry point.
	Entry bool
}

// NewReturn creates a return statement; value may be nil.
func NewReturn(value Expr, entry bool) *Return {
	if value != nil {
		value = operand(value)
	}
	return &Return{Value: value, Entry: entry}
}

// VarDecl declares a variable with an optional initializer.
type VarDecl struct {
	Var  *Variable
	Init Expr
}

// NewVarDecl creates a declaration. A const-expression initializer makes
// the variable const until it is written.
func NewVarDecl(v *Variable, init Expr) *VarDecl {
	if init != nil {
		init = operand(init)
		v.Const = init.IsConstExp()
	}
	return &VarDecl{Var: v, Init: init}
}

// StructDecl declares a struct type.
type StructDecl struct {
	Type *types.StructType
}

// FuncDef defines a function. Entry marks the stage entry point.
type FuncDef struct {
	Name   string
	Sig    *types.FunctionType
	Params []*Variable
	Body   *Block
	Entry  bool
}

func (*Block) stmt()      {}
func (*If) stmt()         {}
func (*RangeFor) stmt()   {}
func (*While) stmt()      {}
func (*DoWhile) stmt()    {}
func (*Assign) stmt()     {}
func (*Touch) stmt()      {}
func (*Discard) stmt()    {}
func (*Break) stmt()      {}
func (*Continue) stmt()   {}
func (*Return) stmt()     {}
func (*VarDecl) stmt()    {}
func (*StructDecl) stmt() {}
func (*FuncDef) stmt()    {}
