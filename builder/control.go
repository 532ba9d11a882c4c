// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// condition converts a DSL value to a bool scalar expression.
func condition(cond any) ast.Expr {
	return coerce(cond, types.Bool)
}

// IfChain continues an if statement with else-if and else links.
type IfChain struct {
	pb     *ProgramBuilder
	node   *ast.If
	parent *Scope
	closed bool
}

// If emits an if statement whose body is built by body.
func (pb *ProgramBuilder) If(cond any, body func(*Scope)) *IfChain {
	node := ast.NewIf(condition(cond))
	parent := pb.top()
	pb.emit(node)
	pb.withScope(scopeIf, node.Body, body)
	return &IfChain{pb: pb, node: node, parent: parent}
}

func (c *IfChain) link(cond ast.Expr) *ast.If {
	if c.closed {
		bail(types.ErrStructural, "if statement already has an else branch")
	}
	if c.pb.top() != c.parent {
		bail(types.ErrStructural, "else branch outside the scope of its if statement")
	}
	return c.node.Chain(cond)
}

// ElseIf appends an else-if branch.
func (c *IfChain) ElseIf(cond any, body func(*Scope)) *IfChain {
	link := c.link(condition(cond))
	c.pb.withScope(scopeIf, link.Body, body)
	return c
}

// Else appends the final else branch.
func (c *IfChain) Else(body func(*Scope)) {
	link := c.link(nil)
	c.closed = true
	c.pb.withScope(scopeIf, link.Body, body)
}

// For emits a counted loop over [start, end). The loop variable is
// declared in the body scope under name.
func (pb *ProgramBuilder) For(name string, start, end any, body func(s *Scope, i *Var)) {
	pb.rangeFor(name, start, end, true, body)
}

// ForInclusive emits a counted loop over [start, end].
func (pb *ProgramBuilder) ForInclusive(name string, start, end any, body func(s *Scope, i *Var)) {
	pb.rangeFor(name, start, end, false, body)
}

func (pb *ProgramBuilder) rangeFor(name string, start, end any, open bool, body func(*Scope, *Var)) {
	pb.needFunction("for loop")
	checkIdent(name)
	counter := types.Int
	for _, a := range []any{start, end} {
		if x, ok := a.(*Var); ok && types.IsScalarOf(x.Type(), types.ScalarU32) {
			counter = types.Uint
		}
	}
	s, e := coerce(start, counter), coerce(end, counter)
	if pb.target == types.WebGL && !e.IsConstExp() {
		bail(types.ErrCapability, "loop bound must be a constant expression on %s", pb.target)
	}
	v := ast.NewVariable(name, counter, ast.DeclNone)
	v.Space = types.SpaceFunction
	node := ast.NewRangeFor(v, s, e, open)
	pb.emit(node)
	pb.withScope(scopeLoop, node.Body, func(sc *Scope) {
		i := &Var{v: v}
		sc.symbols[name] = i
		if body != nil {
			body(sc, i)
		}
	})
}

// While emits a loop that runs while cond holds.
func (pb *ProgramBuilder) While(cond any, body func(*Scope)) {
	pb.needFunction("while loop")
	node := ast.NewWhile(condition(cond))
	pb.emit(node)
	pb.withScope(scopeLoop, node.Body, body)
}

// DoLoop is a do-while loop waiting for its condition.
type DoLoop struct {
	pb     *ProgramBuilder
	node   *ast.DoWhile
	parent *Scope
}

// Do emits a loop whose body runs before the condition is checked. The
// condition is given with While on the result.
func (pb *ProgramBuilder) Do(body func(*Scope)) *DoLoop {
	pb.needFunction("do loop")
	node := &ast.DoWhile{Body: &ast.Block{}}
	parent := pb.top()
	pb.emit(node)
	pb.active().doLoops = append(pb.active().doLoops, node)
	pb.withScope(scopeLoop, node.Body, body)
	return &DoLoop{pb: pb, node: node, parent: parent}
}

// While sets the loop condition.
func (d *DoLoop) While(cond any) {
	if d.node.Cond != nil {
		bail(types.ErrStructural, "do loop already has a condition")
	}
	if d.pb.top() != d.parent {
		bail(types.ErrStructural, "do loop condition outside the scope of its loop")
	}
	d.node.SetCond(condition(cond))
}

// Block emits a nested block with its own scope.
func (pb *ProgramBuilder) Block(body func(*Scope)) {
	pb.needFunction("block")
	block := &ast.Block{}
	pb.emit(block)
	pb.withScope(scopeBlock, block, body)
}

func (pb *ProgramBuilder) inLoop() bool {
	for s := pb.top(); s != nil; s = s.parent {
		switch s.kind {
		case scopeLoop:
			return true
		case scopeFunction, scopeEntry, scopeModule:
			return false
		}
	}
	return false
}

// Break leaves the innermost loop.
func (pb *ProgramBuilder) Break() {
	if !pb.inLoop() {
		bail(types.ErrStructural, "break outside a loop")
	}
	pb.emit(&ast.Break{})
}

// Continue skips to the next iteration of the innermost loop.
func (pb *ProgramBuilder) Continue() {
	if !pb.inLoop() {
		bail(types.ErrStructural, "continue outside a loop")
	}
	pb.emit(&ast.Continue{})
}

// Discard ends the fragment invocation.
func (pb *ProgramBuilder) Discard() {
	pb.needFunction("discard")
	if pb.active().ctx.Stage != ast.StageFragment {
		bail(types.ErrStructural, "discard outside a fragment shader")
	}
	pb.emit(&ast.Discard{})
}

// Return leaves the current function. The first return of a function
// fixes its return type; later returns must match it.
func (pb *ProgramBuilder) Return(value ...any) {
	if len(value) > 1 {
		bail(types.ErrStructural, "return takes at most one value")
	}
	scope := pb.functionScope()
	if scope.kind == scopeEntry {
		if len(value) > 0 {
			bail(types.ErrStructural, "main cannot return a value")
		}
		pb.emit(ast.NewReturn(nil, true))
		return
	}
	fn := scope.fn
	if len(value) == 0 {
		if fn.ret != nil && !types.IsVoid(fn.ret) {
			bail(types.ErrType, "%s must return %s", fn.name, fn.ret.TypeName(types.WebGPU))
		}
		fn.ret = types.Void
		pb.emit(ast.NewReturn(nil, false))
		return
	}
	var e ast.Expr
	if fn.ret == nil {
		e = valueOf(value[0], nil)
		if types.IsVoid(e.Type()) {
			bail(types.ErrType, "%s returns a void value", fn.name)
		}
		fn.ret = e.Type()
	} else {
		e = coerce(value[0], fn.ret)
	}
	pb.emit(ast.NewReturn(e, false))
}

// Touch evaluates x for its side effects and discards the result. Calls
// already run where they were created; a call whose result was consumed
// by another expression cannot be discarded.
func (pb *ProgramBuilder) Touch(x *Var) {
	c, ok := x.node().(*ast.Call)
	if !ok {
		return
	}
	if !c.Statement {
		bail(types.ErrStructural, "result of %s is already used", c.Name)
	}
}

func (pb *ProgramBuilder) functionScope() *Scope {
	for s := pb.top(); s != nil; s = s.parent {
		switch s.kind {
		case scopeFunction, scopeEntry:
			return s
		case scopeModule:
			bail(types.ErrStructural, "return outside a function")
		}
	}
	bail(types.ErrStructural, "return outside a function")
	return nil
}

// needFunction aborts when the innermost scope is the module scope.
func (pb *ProgramBuilder) needFunction(what string) {
	if pb.top().kind == scopeModule {
		bail(types.ErrStructural, "%s at module scope", what)
	}
}
