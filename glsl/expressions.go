// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

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
		return w.writeVarRef(e.Var)

	case *ast.Literal:
		if types.IsScalarOf(e.Prim, types.ScalarBool) {
			if e.Bool {
				return "true", nil
			}
			return "false", nil
		}
		return ast.FormatNumber(e.Prim.Primitive().Scalar(), e.Num), nil

	case *ast.Constructor:
		if _, ok := e.Ctor.(*types.ArrayType); ok && w.version == VersionES100 {
			return "", types.Errorf(types.ErrCapability, "array constructors are not supported by %s", w.target)
		}
		args, err := w.writeArgs(e.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", e.Ctor.TypeName(w.target), args), nil

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
		return fmt.Sprintf("%s(%s)", e.To.TypeName(w.target), v), nil

	case *ast.AddressOf:
		return w.writeExpression(e.Value)

	case *ast.Deref:
		return w.writeExpression(e.Pointer)

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
		return w.writeBinary(e)

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

// writeVarRef returns the GLSL spelling of a variable reference.
func (w *Writer) writeVarRef(v *ast.Variable) (string, error) {
	switch {
	case v.Builtin != nil:
		name := v.Builtin.GLSLName(w.target)
		if name == "" {
			return "", types.Errorf(types.ErrCapability, "builtin %s is not supported by %s", v.Builtin.Name, w.target)
		}
		if w.version == VersionES100 && v.Builtin.Extension100 != "" {
			w.ctx.RequireExtension(v.Builtin.Extension100)
		}
		return name, nil
	case v.Block != nil:
		return escapeKeyword(v.Block.Name) + "." + escapeKeyword(v.Name), nil
	case v.Kind == ast.DeclOut && w.ctx.Stage == ast.StageFragment && w.version == VersionES100:
		if len(w.ctx.Outputs) == 1 && v.Location <= 0 {
			return "gl_FragColor", nil
		}
		w.ctx.RequireExtension("GL_EXT_draw_buffers")
		return fmt.Sprintf("gl_FragData[%d]", v.Location), nil
	}
	return escapeKeyword(v.Name), nil
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

func (w *Writer) writeArgs(args []ast.Expr) (string, error) {
	list, err := w.writeArgList(args)
	if err != nil {
		return "", err
	}
	return strings.Join(list, ", "), nil
}

// writeBinary renders an infix operation. GLSL ES 1.00 has no integer
// remainder operator, so it is expanded.
func (w *Writer) writeBinary(b *ast.Binary) (string, error) {
	l, err := w.writeExpression(b.Left)
	if err != nil {
		return "", err
	}
	r, err := w.writeExpression(b.Right)
	if err != nil {
		return "", err
	}
	if b.Op == "%" && w.version == VersionES100 {
		return fmt.Sprintf("(%s - (%s * (%s / %s)))", l, r, l, r), nil
	}
	return fmt.Sprintf("(%s %s %s)", l, b.Op, r), nil
}

// builtinNames maps DSL builtin function names to GLSL where they differ.
var builtinNames = map[string]string{
	"inverseSqrt": "inversesqrt",
	"atan2":       "atan",
	"faceForward": "faceforward",
	"dpdx":        "dFdx",
	"dpdy":        "dFdy",
}

// writeBuiltinCall renders a builtin function call.
func (w *Writer) writeBuiltinCall(c *ast.Call, args []string) (string, error) {
	call := func(name string) (string, error) {
		return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", ")), nil
	}
	switch c.Name {
	case "dpdx", "dpdy", "fwidth":
		if w.ctx.Stage != ast.StageFragment {
			return "", types.Errorf(types.ErrCapability, "%s is only available in fragment shaders", c.Name)
		}
		if w.version == VersionES100 {
			w.ctx.RequireExtension("GL_OES_standard_derivatives")
		}
	case "select":
		if len(args) != 3 {
			return "", types.Errorf(types.ErrInternal, "select expects 3 arguments, got %d", len(args))
		}
		if p, ok := types.IsPrimitive(c.Args[2].Type()); ok && p.IsScalar() {
			return fmt.Sprintf("(%s ? %s : %s)", args[2], args[1], args[0]), nil
		}
		if w.version == VersionES100 {
			return "", types.Errorf(types.ErrCapability, "component-wise select is not supported by %s", w.target)
		}
		return call("mix")
	case "textureSample", "textureSampleBias", "textureSampleLevel", "textureSampleGrad",
		"textureSampleCompare", "textureSampleCompareLevel", "textureLoad", "textureDimensions":
		name, err := w.textureFunction(c)
		if err != nil {
			return "", err
		}
		return call(name)
	case "textureStore", "workgroupBarrier", "storageBarrier", "arrayLength":
		return "", types.Errorf(types.ErrCapability, "%s is not supported by %s", c.Name, w.target)
	}
	if strings.HasPrefix(c.Name, "atomic") {
		return "", types.Errorf(types.ErrCapability, "%s is not supported by %s", c.Name, w.target)
	}
	if name, ok := builtinNames[c.Name]; ok {
		return call(name)
	}
	return call(c.Name)
}

// textureFunction returns the GLSL texture lookup function for a call.
func (w *Writer) textureFunction(c *ast.Call) (string, error) {
	if len(c.Args) == 0 {
		return "", types.Errorf(types.ErrInternal, "%s without texture argument", c.Name)
	}
	tex, ok := c.Args[0].Type().(*types.TextureType)
	if !ok {
		return "", types.Errorf(types.ErrType, "%s expects a texture, got %s", c.Name, c.Args[0].Type().TypeName(w.target))
	}
	es1 := w.version == VersionES100
	prefix := "texture2D"
	if tex.Dim == types.DimCube {
		prefix = "textureCube"
	}
	switch c.Name {
	case "textureSample", "textureSampleBias", "textureSampleCompare", "textureSampleCompareLevel":
		if es1 {
			if tex.IsDepth() && c.Name != "textureSample" {
				return "", types.Errorf(types.ErrCapability, "depth comparison is not supported by %s", w.target)
			}
			return prefix, nil
		}
		return "texture", nil
	case "textureSampleLevel":
		if !es1 {
			return "textureLod", nil
		}
		if w.ctx.Stage == ast.StageVertex {
			return prefix + "Lod", nil
		}
		w.ctx.RequireExtension("GL_EXT_shader_texture_lod")
		return prefix + "LodEXT", nil
	case "textureSampleGrad":
		if !es1 {
			return "textureGrad", nil
		}
		w.ctx.RequireExtension("GL_EXT_shader_texture_lod")
		return prefix + "GradEXT", nil
	case "textureLoad", "textureDimensions":
		if es1 {
			return "", types.Errorf(types.ErrCapability, "%s is not supported by %s", c.Name, w.target)
		}
		if c.Name == "textureLoad" {
			return "texelFetch", nil
		}
		return "textureSize", nil
	}
	return "", types.Errorf(types.ErrInternal, "unknown texture function %s", c.Name)
}
