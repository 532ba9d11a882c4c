// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// samplersWithoutDefaultPrecision are the GLSL ES 3.00 sampler types that
// have no predeclared default precision.
var samplersWithoutDefaultPrecision = map[string]bool{
	"sampler3D": true, "sampler2DArray": true, "sampler2DShadow": true,
	"samplerCubeShadow": true, "sampler2DArrayShadow": true,
	"isampler2D": true, "isampler3D": true, "isamplerCube": true, "isampler2DArray": true,
	"usampler2D": true, "usampler3D": true, "usamplerCube": true, "usampler2DArray": true,
}

// Writer generates GLSL source code from a stage context.
type Writer struct {
	ctx     *ast.Context
	target  types.Target
	version Version

	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int

	// Sampler types that need a default precision statement
	precisionTypes []string

	// Global initializers that are not constant expressions; they are
	// assigned at the top of main.
	deferred []*ast.VarDecl

	// Function context (set during function writing)
	currentFunc *ast.FuncDef
}

// newWriter creates a new GLSL writer.
func newWriter(ctx *ast.Context, version Version) *Writer {
	return &Writer{ctx: ctx, target: ctx.Target, version: version}
}

// String returns the generated GLSL source code.
func (w *Writer) String() string {
	return w.out.String()
}

// writeModule generates the GLSL code for the whole stage. The body is
// written first so that the header can list the extensions it enabled.
func (w *Writer) writeModule() error {
	// 1. Write pipeline inputs and outputs
	w.writeIO()

	// 2. Write structs, globals and functions in declaration order
	for _, s := range w.ctx.Global.Stmts {
		if err := w.writeGlobal(s); err != nil {
			return err
		}
	}

	// 3. Prepend version, extensions, defines and precision
	body := w.out.String()
	w.out.Reset()
	w.writeHeader()
	w.out.WriteString(body)
	return nil
}

// writeHeader writes the directives that must precede any declaration.
func (w *Writer) writeHeader() {
	w.writeLine("#version %s", w.version)
	for _, ext := range w.ctx.Extensions() {
		w.writeLine("#extension %s : enable", ext)
	}
	for _, d := range w.ctx.Defines() {
		w.writeLine("#define %s", d)
	}
	prec := w.ctx.DefaultPrecision
	if prec == ast.PrecisionDefault {
		prec = ast.PrecisionHigh
	}
	w.writeLine("precision %sfloat;", prec.Qualifier())
	w.writeLine("precision %sint;", prec.Qualifier())
	for _, t := range w.precisionTypes {
		w.writeLine("precision %s%s;", prec.Qualifier(), t)
	}
	w.writeLine("")
}

// writeIO declares the user pipeline inputs and outputs.
func (w *Writer) writeIO() {
	es1 := w.version == VersionES100
	vertex := w.ctx.Stage == ast.StageVertex
	for _, v := range w.ctx.Inputs {
		decl := v.Precision.Qualifier() + types.Decl(v.Type, w.target, escapeKeyword(v.Name))
		switch {
		case es1 && vertex:
			w.writeLine("attribute %s;", decl)
		case es1:
			w.writeLine("varying %s;", decl)
		case vertex:
			w.writeLine("layout(location = %d) in %s;", v.Location, decl)
		default:
			w.writeLine("%sin %s;", flatQualifier(v.Type), decl)
		}
	}
	for _, v := range w.ctx.Outputs {
		decl := v.Precision.Qualifier() + types.Decl(v.Type, w.target, escapeKeyword(v.Name))
		switch {
		case es1 && vertex:
			w.writeLine("varying %s;", decl)
		case es1:
			// gl_FragColor / gl_FragData
		case vertex:
			w.writeLine("%sout %s;", flatQualifier(v.Type), decl)
		default:
			w.writeLine("layout(location = %d) out %s;", v.Location, decl)
		}
	}
	if len(w.ctx.Inputs)+len(w.ctx.Outputs) > 0 {
		w.writeLine("")
	}
}

func flatQualifier(t types.Type) string {
	if p, ok := types.IsPrimitive(t); ok && p.Scalar().IsInteger() {
		return "flat "
	}
	return ""
}

// writeGlobal writes one module-scope statement.
func (w *Writer) writeGlobal(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.StructDecl:
		return w.writeStruct(s.Type)
	case *ast.VarDecl:
		return w.writeGlobalVariable(s)
	case *ast.FuncDef:
		return w.writeFunction(s)
	case *ast.Touch:
		if s.Call.Statement {
			return types.Errorf(types.ErrStructural, "call to %s at module scope", s.Call.Name)
		}
		return nil
	default:
		return types.Errorf(types.ErrInternal, "statement %T at module scope", s)
	}
}

// writeStruct writes a struct definition.
func (w *Writer) writeStruct(st *types.StructType) error {
	w.writeLine("struct %s {", escapeKeyword(st.Name))
	w.pushIndent()
	for _, m := range st.Members {
		if arr, ok := m.Type.(*types.ArrayType); ok && arr.IsRuntimeSized() {
			return types.Errorf(types.ErrCapability, "runtime-sized array %s.%s is not supported by %s", st.Name, m.Name, w.target)
		}
		w.writeLine("%s;", types.Decl(m.Type, w.target, escapeKeyword(m.Name)))
	}
	w.popIndent()
	w.writeLine("};")
	w.writeLine("")
	return nil
}

// writeGlobalVariable writes a uniform or module-scope variable.
func (w *Writer) writeGlobalVariable(d *ast.VarDecl) error {
	v := d.Var
	if v.Merged() {
		return nil
	}
	t := w.ctx.DeclType(v)
	name := escapeKeyword(v.Name)
	switch v.Kind {
	case ast.DeclIn, ast.DeclOut:
		return nil
	case ast.DeclStorage:
		return types.Errorf(types.ErrCapability, "storage variable %s is not supported by %s", v.Name, w.target)
	case ast.DeclWorkgroup:
		return types.Errorf(types.ErrCapability, "workgroup variable %s is not supported by %s", v.Name, w.target)
	case ast.DeclUniform:
		return w.writeUniform(v, t, name)
	}

	decl := v.Precision.Qualifier() + types.Decl(t, w.target, name)
	switch {
	case d.Init == nil:
		w.writeLine("%s;", decl)
	case d.Init.IsConstExp():
		init, err := w.writeExpression(d.Init)
		if err != nil {
			return err
		}
		if v.IsConstDecl() {
			w.writeLine("const %s = %s;", decl, init)
		} else {
			w.writeLine("%s = %s;", decl, init)
		}
	default:
		w.writeLine("%s;", decl)
		w.deferred = append(w.deferred, d)
	}
	return nil
}

// writeUniform writes a uniform declaration. Samplers are combined with
// their textures in GLSL and are not declared.
func (w *Writer) writeUniform(v *ast.Variable, t types.Type, name string) error {
	switch t := t.(type) {
	case *types.SamplerType:
		return nil
	case *types.TextureType:
		typeName := t.TypeName(w.target)
		if w.version == VersionES300 && samplersWithoutDefaultPrecision[typeName] {
			w.addPrecisionType(typeName)
		}
		w.writeLine("uniform %s%s %s;", v.Precision.Qualifier(), typeName, name)
		return nil
	case *types.StructType:
		if v.Buffer && w.version == VersionES300 {
			w.writeLine("layout(std140) uniform zBlock_%s {", v.Name)
			w.pushIndent()
			for _, m := range t.Members {
				w.writeLine("%s;", types.Decl(m.Type, w.target, escapeKeyword(m.Name)))
			}
			w.popIndent()
			w.writeLine("} %s;", name)
			return nil
		}
	}
	w.writeLine("uniform %s%s;", v.Precision.Qualifier(), types.Decl(t, w.target, name))
	return nil
}

func (w *Writer) addPrecisionType(name string) {
	for _, n := range w.precisionTypes {
		if n == name {
			return
		}
	}
	w.precisionTypes = append(w.precisionTypes, name)
}

// writeFunction writes a function definition; the entry point becomes main.
func (w *Writer) writeFunction(f *ast.FuncDef) error {
	w.currentFunc = f
	defer func() { w.currentFunc = nil }()

	name := escapeKeyword(f.Name)
	ret := "void"
	if f.Entry {
		name = "main"
	} else if !types.IsVoid(f.Sig.Return) {
		ret = f.Sig.Return.TypeName(w.target)
	}

	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		t := p.Type
		if pt, ok := t.(*types.PointerType); ok {
			t = pt.Pointee
		}
		params[i] = types.Decl(t, w.target, escapeKeyword(p.Name))
		if p.ByRef {
			params[i] = "inout " + params[i]
		}
	}

	w.writeLine("%s %s(%s) {", ret, name, strings.Join(params, ", "))
	w.pushIndent()
	if f.Entry {
		for _, d := range w.deferred {
			init, err := w.writeExpression(d.Init)
			if err != nil {
				return err
			}
			w.writeLine("%s = %s;", escapeKeyword(d.Var.Name), init)
		}
	}
	if err := w.writeBlock(f.Body); err != nil {
		return err
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
	return nil
}

// writeLine writes a formatted line with indentation.
func (w *Writer) writeLine(format string, args ...any) {
	if format != "" {
		w.writeIndent()
		if len(args) > 0 {
			fmt.Fprintf(&w.out, format, args...)
		} else {
			w.out.WriteString(format)
		}
	}
	w.out.WriteByte('\n')
}

// writeIndent writes the current indentation.
func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

// pushIndent increases indentation.
func (w *Writer) pushIndent() {
	w.indent++
}

// popIndent decreases indentation.
func (w *Writer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}
