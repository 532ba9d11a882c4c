// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

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

// writeStatement writes a single statement.
func (w *Writer) writeStatement(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Block:
		w.writeLine("{")
		w.pushIndent()
		if err := w.writeBlock(s); err != nil {
			return err
		}
		w.popIndent()
		w.writeLine("}")
		return nil

	case *ast.If:
		return w.writeIf(s)

	case *ast.RangeFor:
		return w.writeRangeFor(s)

	case *ast.While:
		cond, err := w.writeExpression(s.Cond)
		if err != nil {
			return err
		}
		w.writeLine("while (%s) {", cond)
		return w.writeBody(s.Body)

	case *ast.DoWhile:
		if s.Cond == nil {
			return types.NewError(types.ErrInternal, "do-while loop without condition")
		}
		w.writeLine("do {")
		w.pushIndent()
		if err := w.writeBlock(s.Body); err != nil {
			return err
		}
		w.popIndent()
		cond, err := w.writeExpression(s.Cond)
		if err != nil {
			return err
		}
		w.writeLine("} while (%s);", cond)
		return nil

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
		w.writeLine("%s;", call)
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

// writeBody writes an indented loop or branch body and the closing brace.
func (w *Writer) writeBody(body *ast.Block) error {
	w.pushIndent()
	if err := w.writeBlock(body); err != nil {
		return err
	}
	w.popIndent()
	w.writeLine("}")
	return nil
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

// writeRangeFor writes a counted loop.
func (w *Writer) writeRangeFor(s *ast.RangeFor) error {
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
	w.writeLine("for (%s %s = %s; %s %s %s; %s++) {",
		s.Var.Type.TypeName(w.target), name, start, name, op, end, name)
	return w.writeBody(s.Body)
}

// writeAssign writes an assignment.
func (w *Writer) writeAssign(s *ast.Assign) error {
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

// writeReturn writes a return; the entry point never returns a value.
func (w *Writer) writeReturn(s *ast.Return) error {
	if s.Value == nil || s.Entry {
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

// writeLocal writes a function-scope variable declaration.
func (w *Writer) writeLocal(s *ast.VarDecl) error {
	v := s.Var
	decl := v.Precision.Qualifier() + types.Decl(v.Type, w.target, escapeKeyword(v.Name))
	if s.Init == nil {
		w.writeLine("%s;", decl)
		return nil
	}
	init, err := w.writeExpression(s.Init)
	if err != nil {
		return err
	}
	if v.IsConstDecl() {
		decl = "const " + decl
	}
	w.writeLine("%s = %s;", decl, init)
	return nil
}
