// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// Names of the synthesized entry point variables.
const (
	inputVar  = "zIn"
	outputVar = "zOut"
	inputArg  = "zInput"
)

// Render generates WGSL source for the stage described by ctx.
func Render(ctx *ast.Context) (string, error) {
	if ctx.Target != types.WebGPU {
		return "", types.Errorf(types.ErrInternal, "wgsl: target %s is not WebGPU", ctx.Target)
	}
	w := newWriter(ctx)
	if err := w.writeModule(); err != nil {
		return "", fmt.Errorf("wgsl: %w", err)
	}
	return w.String(), nil
}

// ioField is one member of a synthesized entry point struct.
type ioField struct {
	attrs string
	name  string
	typ   types.Type
}

// Writer generates WGSL source code from a stage context.
type Writer struct {
	ctx *ast.Context

	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int

	// Entry point structs; nil fields mean the struct was pruned.
	inputFields  []ioField
	outputFields []ioField

	// Module-scope initializers that are not constant expressions.
	deferred []*ast.VarDecl

	// Function context (set during function writing)
	currentFunc *ast.FuncDef
}

func newWriter(ctx *ast.Context) *Writer {
	return &Writer{ctx: ctx}
}

// String returns the generated WGSL source code.
func (w *Writer) String() string {
	return w.out.String()
}

func (w *Writer) stagePrefix() string {
	switch w.ctx.Stage {
	case ast.StageVertex:
		return "zVertex"
	case ast.StageFragment:
		return "zFragment"
	default:
		return "zCompute"
	}
}

func (w *Writer) inputStruct() string  { return w.stagePrefix() + "Input" }
func (w *Writer) outputStruct() string { return w.stagePrefix() + "Output" }

// hasInput reports whether the stage keeps an input struct.
func (w *Writer) hasInput() bool { return len(w.inputFields) > 0 }

// hasOutput reports whether the stage keeps an output struct.
func (w *Writer) hasOutput() bool { return len(w.outputFields) > 0 }

// writeModule generates WGSL code for the whole stage.
func (w *Writer) writeModule() error {
	// 1. Collect entry point fields, keeping only referenced builtins
	w.collectIO()

	// 2. Write entry point structs
	if w.hasInput() {
		w.writeIOStruct(w.inputStruct(), w.inputFields)
	}
	if w.hasOutput() {
		w.writeIOStruct(w.outputStruct(), w.outputFields)
	}

	// 3. Write structs, globals and functions in declaration order
	wroteIOVars := false
	for _, s := range w.ctx.Global.Stmts {
		if f, ok := s.(*ast.FuncDef); ok && !wroteIOVars {
			w.writeIOVariables()
			wroteIOVars = true
			if err := w.writeFunction(f); err != nil {
				return err
			}
			continue
		}
		if err := w.writeGlobal(s); err != nil {
			return err
		}
	}
	if !wroteIOVars {
		w.writeIOVariables()
	}
	return nil
}

// collectIO builds the entry point struct members.
func (w *Writer) collectIO() {
	stage := w.ctx.Stage
	for _, v := range w.ctx.Inputs {
		attrs := fmt.Sprintf("@location(%d)", v.Location)
		if stage == ast.StageFragment {
			attrs += interpolation(v.Type)
		}
		w.inputFields = append(w.inputFields, ioField{attrs: attrs, name: escapeKeyword(v.Name), typ: v.Type})
	}
	for _, v := range w.ctx.Outputs {
		attrs := fmt.Sprintf("@location(%d)", v.Location)
		if stage == ast.StageVertex {
			attrs += interpolation(v.Type)
		}
		w.outputFields = append(w.outputFields, ioField{attrs: attrs, name: escapeKeyword(v.Name), typ: v.Type})
	}
	for _, b := range ast.Builtins(stage) {
		if !w.ctx.UsesBuiltin(b) || b.WGSL == "" {
			continue
		}
		f := ioField{attrs: "@builtin(" + b.WGSL + ")", name: b.Name, typ: b.Type(types.WebGPU)}
		if b.Output {
			w.outputFields = append(w.outputFields, f)
		} else {
			w.inputFields = append(w.inputFields, f)
		}
	}
}

func interpolation(t types.Type) string {
	if p, ok := types.IsPrimitive(t); ok && p.Scalar().IsInteger() {
		return " @interpolate(flat)"
	}
	return ""
}

func (w *Writer) writeIOStruct(name string, fields []ioField) {
	w.writeLine("struct %s {", name)
	w.pushIndent()
	for _, f := range fields {
		w.writeLine("%s %s: %s,", f.attrs, f.name, f.typ.TypeName(types.WebGPU))
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
}

func (w *Writer) writeIOVariables() {
	if w.hasInput() {
		w.writeLine("var<private> %s: %s;", inputVar, w.inputStruct())
	}
	if w.hasOutput() {
		w.writeLine("var<private> %s: %s;", outputVar, w.outputStruct())
	}
	if w.hasInput() || w.hasOutput() {
		w.writeLine("")
	}
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

// writeStruct writes a struct definition. Members whose layout differs
// from the WGSL default carry explicit @align and @size attributes, and a
// std140 struct pads its last member to the rounded struct size.
func (w *Writer) writeStruct(st *types.StructType) error {
	if st.Layout == types.LayoutPacked {
		return types.Errorf(types.ErrCapability, "packed struct %s is not supported by %s", st.Name, types.WebGPU)
	}
	w.writeLine("struct %s {", escapeKeyword(st.Name))
	w.pushIndent()
	for i, m := range st.Members {
		var attrs strings.Builder
		if m.Alignment != m.DefaultAlignment {
			fmt.Fprintf(&attrs, "@align(%d) ", m.Alignment)
		}
		size := m.Size
		if i == len(st.Members)-1 && st.Layout == types.LayoutStd140 {
			size = st.Size() - m.Offset
		}
		if size != m.DefaultSize {
			if arr, ok := m.Type.(*types.ArrayType); !ok || !arr.IsRuntimeSized() {
				fmt.Fprintf(&attrs, "@size(%d) ", size)
			}
		}
		w.writeLine("%s%s: %s,", attrs.String(), escapeKeyword(m.Name), m.Type.TypeName(types.WebGPU))
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
	return nil
}

// writeGlobalVariable writes a resource or module-scope variable.
func (w *Writer) writeGlobalVariable(d *ast.VarDecl) error {
	v := d.Var
	if v.Merged() || v.Kind == ast.DeclIn || v.Kind == ast.DeclOut {
		return nil
	}
	name := escapeKeyword(v.Name)
	typeName := v.Type.TypeName(types.WebGPU)
	binding := fmt.Sprintf("@group(%d) @binding(%d) ", v.Group, v.Binding)

	switch v.Kind {
	case ast.DeclUniform:
		switch v.Type.(type) {
		case *types.SamplerType, *types.TextureType:
			w.writeLine("%svar %s: %s;", binding, name, typeName)
		default:
			w.writeLine("%svar<uniform> %s: %s;", binding, name, typeName)
		}
		return nil
	case ast.DeclStorage:
		if _, ok := v.Type.(*types.TextureType); ok {
			w.writeLine("%svar %s: %s;", binding, name, typeName)
			return nil
		}
		access := "read"
		if v.Writable {
			access = "read_write"
		}
		w.writeLine("%svar<storage, %s> %s: %s;", binding, access, name, typeName)
		return nil
	case ast.DeclWorkgroup:
		w.writeLine("var<workgroup> %s: %s;", name, typeName)
		return nil
	}

	switch {
	case d.Init == nil:
		w.writeLine("var<private> %s: %s;", name, typeName)
	case d.Init.IsConstExp():
		init, err := w.writeExpression(d.Init)
		if err != nil {
			return err
		}
		if v.IsConstDecl() {
			w.writeLine("const %s: %s = %s;", name, typeName, init)
		} else {
			w.writeLine("var<private> %s: %s = %s;", name, typeName, init)
		}
	default:
		w.writeLine("var<private> %s: %s;", name, typeName)
		w.deferred = append(w.deferred, d)
	}
	return nil
}

// paramName returns the emitted name of a by-value parameter that the body
// writes to; such parameters are copied into a local of the original name.
func paramName(p *ast.Variable) string {
	if p.Writable && !p.ByRef {
		return "zArg_" + p.Name
	}
	return escapeKeyword(p.Name)
}

// writeFunction writes a function definition or the stage entry point.
func (w *Writer) writeFunction(f *ast.FuncDef) error {
	w.currentFunc = f
	defer func() { w.currentFunc = nil }()

	if f.Entry {
		return w.writeEntryPoint(f)
	}

	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s: %s", paramName(p), p.Type.TypeName(types.WebGPU))
	}
	ret := ""
	if !types.IsVoid(f.Sig.Return) {
		ret = " -> " + f.Sig.Return.TypeName(types.WebGPU)
	}
	w.writeLine("fn %s(%s)%s {", escapeKeyword(f.Name), strings.Join(params, ", "), ret)
	w.pushIndent()
	for _, p := range f.Params {
		if p.Writable && !p.ByRef {
			w.writeLine("var %s: %s = %s;", escapeKeyword(p.Name), p.Type.TypeName(types.WebGPU), paramName(p))
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

func (w *Writer) writeEntryPoint(f *ast.FuncDef) error {
	switch w.ctx.Stage {
	case ast.StageVertex:
		w.writeLine("@vertex")
	case ast.StageFragment:
		w.writeLine("@fragment")
	default:
		ws := w.ctx.WorkgroupSize
		w.writeLine("@compute @workgroup_size(%d, %d, %d)", ws[0], ws[1], ws[2])
	}
	param := ""
	if w.hasInput() {
		param = inputArg + ": " + w.inputStruct()
	}
	ret := ""
	if w.hasOutput() {
		ret = " -> " + w.outputStruct()
	}
	w.writeLine("fn main(%s)%s {", param, ret)
	w.pushIndent()
	if w.hasInput() {
		w.writeLine("%s = %s;", inputVar, inputArg)
	}
	for _, d := range w.deferred {
		init, err := w.writeExpression(d.Init)
		if err != nil {
			return err
		}
		w.writeLine("%s = %s;", escapeKeyword(d.Var.Name), init)
	}
	if err := w.writeBlock(f.Body); err != nil {
		return err
	}
	if w.hasOutput() {
		w.writeLine("return %s;", outputVar)
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

// writeLine writes a formatted line with indentation.
func (w *Writer) writeLine(format string, args ...any) {
	if format != "" {
		for i := 0; i < w.indent; i++ {
			w.out.WriteString("    ")
		}
		if len(args) > 0 {
			fmt.Fprintf(&w.out, format, args...)
		} else {
			w.out.WriteString(format)
		}
	}
	w.out.WriteByte('\n')
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
