// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// writeBlock writes the statements of a block at the current indentation.
func (w *Writer) writeBlock(block *ast.Block) error {
	if block == nil {
		return nil
	}
	for _, s := range block.Stmts {
		if err := w.writeStatement(s); err != nil {
			return err
		}
	}
	return nil
}

// writeBody writes an indented body and the closing brace.
func (w *Writer) writeBody(body *ast.Block) error {
	w.pushIndent()
	if err := w.writeBlock(body); err != nil {
		return err
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

// writeStatement writes a single statement.
func (w *Writer) writeStatement(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Block:
		w.writeLine("{")
		return w.writeBody(s)

	case *ast.If:
		return w.writeIf(s)

	case *ast.RangeFor:
		start, err := w.writeExpression(s.Start)
		if err != nil {
			return err
		}
		end, err := w.writeExpression(s.End)
		if err != nil {
			return err
		}
		op := "<="
		if s.Open {
			op = "<"
		}
		name := escapeKeyword(s.Var.Name)
		w.writeLine("for (var %s: %s = %s; %s %s %s; %s = %s + 1) {",
			name, s.Var.Type.TypeName(types.WebGPU), start, name, op, end, name, name)
		return w.writeBody(s.Body)

	case *ast.While:
		cond, err := w.writeExpression(s.Cond)
		if err != nil {
			return err
		}
		w.writeLine("while (%s) {", cond)
		return w.writeBody(s.Body)

	case *ast.DoWhile:
		return w.writeDoWhile(s)

	case *ast.Assign:
		return w.writeAssign(s)

	case *ast.Touch:
		if !s.Call.Statement {
			return nil
		}
		call, err := w.writeExpression(s.Call)
		if err != nil {
			return err
		}
		if types.IsVoid(s.Call.Type()) {
			w.writeLine("%s;", call)
		} else {
			w.writeLine("_ = %s;", call)
		}
		return nil

	case *ast.Discard:
		w.writeLine("discard;")
		return nil

	case *ast.Break:
		w.writeLine("break;")
		return nil

	case *ast.Continue:
		w.writeLine("continue;")
		return nil

	case *ast.Return:
		return w.writeReturn(s)

	case *ast.VarDecl:
		return w.writeLocal(s)

	default:
		return types.Errorf(types.ErrInternal, "unexpected statement %T in function body", stmt)
	}
}

// writeIf writes an if/else-if/else chain.
func (w *Writer) writeIf(s *ast.If) error {
	cond, err := w.writeExpression(s.Cond)
	if err != nil {
		return err
	}
	w.writeLine("if (%s) {", cond)
	w.pushIndent()
	if err := w.writeBlock(s.Body); err != nil {
		return err
	}
	w.popIndent()
	for next := s.Next; next != nil; next = next.Next {
		if next.Cond == nil {
			w.writeLine("} else {")
		} else {
			c, err := w.writeExpression(next.Cond)
			if err != nil {
				return err
			}
			w.writeLine("} else if (%s) {", c)
		}
		w.pushIndent()
		if err := w.writeBlock(next.Body); err != nil {
			return err
		}
		w.popIndent()
	}
	w.writeLine("}")
	return nil
}

// writeDoWhile writes a do-while loop as a loop whose continuing block
// breaks once the condition fails. It does not end the body with
// `if (!cond) { break; }`: continue would skip that test, but it still
// runs the continuing block.
func (w *Writer) writeDoWhile(s *ast.DoWhile) error {
	if s.Cond == nil {
		return types.NewError(types.ErrInternal, "do-while loop without condition")
	}
	cond, err := w.writeExpression(s.Cond)
	if err != nil {
		return err
	}
	w.writeLine("loop {")
	w.pushIndent()
	if err := w.writeBlock(s.Body); err != nil {
		return err
	}
	w.writeLine("continuing {")
	w.pushIndent()
	w.writeLine("break if !(%s);", cond)
	w.popIndent()
	w.writeLine("}")
	w.popIndent()
	w.writeLine("}")
	return nil
}

// writeAssign writes an assignment. Writes into a pruned entry point
// struct are dropped.
func (w *Writer) writeAssign(s *ast.Assign) error {
	if v := rootVariable(s.LHS); v != nil && w.pruned(v) {
		return nil
	}
	lhs, err := w.writeExpression(s.LHS)
	if err != nil {
		return err
	}
	rhs, err := w.writeExpression(s.RHS)
	if err != nil {
		return err
	}
	w.writeLine("%s = %s;", lhs, rhs)
	return nil
}

// pruned reports whether v lives in an entry point struct that was omitted.
func (w *Writer) pruned(v *ast.Variable) bool {
	output := v.Kind == ast.DeclOut || (v.Builtin != nil && v.Builtin.Output)
	input := v.Kind == ast.DeclIn || (v.Builtin != nil && !v.Builtin.Output)
	return (output && !w.hasOutput()) || (input && !w.hasInput())
}

func rootVariable(e ast.Expr) *ast.Variable {
	for {
		switch x := e.(type) {
		case *ast.VarRef:
			return x.Var
		case *ast.FieldAccess:
			e = x.Base
		case *ast.Index:
			e = x.Base
		case *ast.Deref:
			e = x.Pointer
		case *ast.Cast:
			e = x.Value
		default:
			return nil
		}
	}
}

// writeReturn writes a return statement. Returning from the entry point
// returns the output struct.
func (w *Writer) writeReturn(s *ast.Return) error {
	if s.Entry {
		if w.hasOutput() {
			w.writeLine("return %s;", outputVar)
		} else {
			w.writeLine("return;")
		}
		return nil
	}
	if s.Value == nil {
		w.writeLine("return;")
		return nil
	}
	v, err := w.writeExpression(s.Value)
	if err != nil {
		return err
	}
	w.writeLine("return %s;", v)
	return nil
}

// writeLocal writes a function-scope declaration.
func (w *Writer) writeLocal(s *ast.VarDecl) error {
	v := s.Var
	name := escapeKeyword(v.Name)
	typeName := v.Type.TypeName(types.WebGPU)
	if s.Init == nil {
		w.writeLine("var %s: %s;", name, typeName)
		return nil
	}
	init, err := w.writeExpression(s.Init)
	if err != nil {
		return err
	}
	if v.IsConstDecl() {
		w.writeLine("const %s: %s = %s;", name, typeName, init)
		return nil
	}
	w.writeLine("var %s: %s = %s;", name, typeName, init)
	return nil
}
