// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// writeExpression renders an expression.
func (w *Writer) writeExpression(e ast.Expr) (string, error) {
	switch e := e.(type) {
	case *ast.VarRef:
		return w.writeVarRef(e.Var), nil

	case *ast.Literal:
		if types.IsScalarOf(e.Prim, types.ScalarBool) {
			if e.Bool {
				return "true", nil
			}
			return "false", nil
		}
		return ast.FormatNumber(e.Prim.Primitive().Scalar(), e.Num), nil

	case *ast.Constructor:
		args, err := w.writeArgList(e.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", e.Ctor.TypeName(types.WebGPU), strings.Join(args, ", ")), nil

	case *ast.FieldAccess:
		base, err := w.writeExpression(e.Base)
		if err != nil {
			return "", err
		}
		field := e.Field
		if _, isStruct := e.Base.Type().(*types.StructType); isStruct {
			field = escapeKeyword(field)
		}
		return base + "." + field, nil

	case *ast.Index:
		base, err := w.writeExpression(e.Base)
		if err != nil {
			return "", err
		}
		idx, err := w.writeExpression(e.Idx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s]", base, idx), nil

	case *ast.Cast:
		v, err := w.writeExpression(e.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", e.To.TypeName(types.WebGPU), v), nil

	case *ast.AddressOf:
		v, err := w.writeExpression(e.Value)
		if err != nil {
			return "", err
		}
		return "&" + v, nil

	case *ast.Deref:
		p, err := w.writeExpression(e.Pointer)
		if err != nil {
			return "", err
		}
		return "(*" + p + ")", nil

	case *ast.Unary:
		x, err := w.writeExpression(e.Operand)
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(x, e.Op) {
			return fmt.Sprintf("(%s %s)", e.Op, x), nil
		}
		return fmt.Sprintf("(%s%s)", e.Op, x), nil

	case *ast.Binary:
		l, err := w.writeExpression(e.Left)
		if err != nil {
			return "", err
		}
		r, err := w.writeExpression(e.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", l, e.Op, r), nil

	case *ast.Call:
		args, err := w.writeArgList(e.Args)
		if err != nil {
			return "", err
		}
		if e.Builtin {
			return w.writeBuiltinCall(e, args)
		}
		return fmt.Sprintf("%s(%s)", escapeKeyword(e.Name), strings.Join(args, ", ")), nil

	default:
		return "", types.Errorf(types.ErrInternal, "unexpected expression %T", e)
	}
}

// writeVarRef returns the WGSL spelling of a variable reference. Inputs,
// outputs and builtins live in the entry point structs.
func (w *Writer) writeVarRef(v *ast.Variable) string {
	switch {
	case v.Builtin != nil && v.Builtin.Output:
		return outputVar + "." + v.Builtin.Name
	case v.Builtin != nil:
		return inputVar + "." + v.Builtin.Name
	case v.Kind == ast.DeclIn:
		return inputVar + "." + escapeKeyword(v.Name)
	case v.Kind == ast.DeclOut:
		return outputVar + "." + escapeKeyword(v.Name)
	case v.Block != nil:
		return escapeKeyword(v.Block.Name) + "." + escapeKeyword(v.Name)
	}
	return escapeKeyword(v.Name)
}

func (w *Writer) writeArgList(args []ast.Expr) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		s, err := w.writeExpression(a)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// componentOps maps component-wise comparison builtins to WGSL operators.
var componentOps = map[string]string{
	"lessThan":         "<",
	"lessThanEqual":    "<=",
	"greaterThan":      ">",
	"greaterThanEqual": ">=",
	"equal":            "==",
	"notEqual":         "!=",
}

// writeBuiltinCall renders a builtin function call.
func (w *Writer) writeBuiltinCall(c *ast.Call, args []string) (string, error) {
	if op, ok := componentOps[c.Name]; ok {
		if len(args) != 2 {
			return "", types.Errorf(types.ErrInternal, "%s expects 2 arguments, got %d", c.Name, len(args))
		}
		return fmt.Sprintf("(%s %s %s)", args[0], op, args[1]), nil
	}
	switch c.Name {
	case "not":
		return fmt.Sprintf("(!%s)", args[0]), nil
	case "mod":
		// GLSL mod() floors; WGSL % truncates.
		x, y := args[0], args[1]
		return fmt.Sprintf("(%s - (%s * floor((%s / %s))))", x, y, x, y), nil
	case "dpdx", "dpdy", "fwidth":
		if w.ctx.Stage != ast.StageFragment {
			return "", types.Errorf(types.ErrCapability, "%s is only available in fragment shaders", c.Name)
		}
	case "workgroupBarrier", "storageBarrier":
		if w.ctx.Stage != ast.StageCompute {
			return "", types.Errorf(types.ErrCapability, "%s is only available in compute shaders", c.Name)
		}
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", ")), nil
}
