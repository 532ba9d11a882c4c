// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"fmt"

	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// Function is a user function of one stage. Functions sharing a DSL name
// are overloads; each gets a unique emitted name.
type Function struct {
	pb      *ProgramBuilder
	stage   *stageState
	name    string
	emitted string
	params  []*ast.Variable
	def     *ast.FuncDef
	ret     types.Type
}

// Name returns the DSL name.
func (f *Function) Name() string { return f.name }

// EmittedName returns the name used in the generated source.
func (f *Function) EmittedName() string { return f.emitted }

// Signature returns the function signature.
func (f *Function) Signature() *types.FunctionType { return f.def.Sig }

// Func defines a function at module scope. params are named placeholders,
// optionally tagged InOut; body builds the function body with the
// parameters in scope.
func (pb *ProgramBuilder) Func(name string, params []*Var, body func(*Scope)) *Function {
	pb.needModule("function " + name)
	return pb.defineFunc(name, params, body, nil)
}

// defineFunc defines a function, inserting its definition before the
// module-scope statement before, or appending it when before is nil.
func (pb *ProgramBuilder) defineFunc(name string, params []*Var, body func(*Scope), before ast.Stmt) *Function {
	st := pb.active()
	checkIdent(name)
	if name == "main" {
		bail(types.ErrStructural, "main is reserved for the entry point; use Main")
	}

	sigParams := make([]types.Param, len(params))
	vars := make([]*ast.Variable, len(params))
	seen := map[string]bool{}
	for i, p := range params {
		if !p.isPlaceholder() || p.name == "" {
			bail(types.ErrStructural, "parameter %d of %s must be a named placeholder", i, name)
		}
		if seen[p.name] {
			bail(types.ErrStructural, "duplicate parameter %s of %s", p.name, name)
		}
		seen[p.name] = true
		if p.decl.kind != ast.DeclNone || p.decl.attrib != "" {
			bail(types.ErrStructural, "parameter %s of %s cannot carry declaration tags", p.name, name)
		}
		pb.checkType(p.typ)
		pb.ensureType(p.typ)
		v := ast.NewVariable(p.name, p.typ, ast.DeclNone)
		v.Param, v.ByRef, v.Precision = true, p.decl.byRef, p.decl.precision
		v.Space = types.SpaceFunction
		if v.ByRef {
			v.Type = types.NewPointerType(p.typ, types.SpaceUnknown)
		}
		vars[i] = v
		sigParams[i] = types.Param{Name: p.name, Type: p.typ, ByRef: v.ByRef}
	}

	probe := types.NewFunctionType(name, nil, sigParams...)
	for _, other := range st.funcs[name] {
		if other.def.Sig.SameParams(probe) {
			bail(types.ErrStructural, "function %s redefined with the same parameters", name)
		}
	}

	emitted := name
	for n := len(st.funcs[name]); st.names[emitted]; n++ {
		emitted = fmt.Sprintf("%s_%d", name, n)
	}
	st.names[emitted] = true

	f := &Function{pb: pb, stage: st, name: name, emitted: emitted, params: vars}
	f.def = &ast.FuncDef{Name: emitted, Params: vars, Body: &ast.Block{}}
	if at := st.indexOf(before); before != nil && at >= 0 {
		st.insertGlobal(at, f.def)
	} else {
		st.ctx.Global.Append(f.def)
	}

	saved := st.current
	st.current = f.def
	pb.withScope(scopeFunction, f.def.Body, func(s *Scope) {
		s.fn = f
		for _, v := range vars {
			s.symbols[v.Name] = &Var{v: v}
		}
		if body != nil {
			body(s)
		}
	})
	st.current = saved

	if f.ret == nil {
		f.ret = types.Void
	}
	f.def.Sig = types.NewFunctionType(emitted, f.ret, sigParams...)
	st.funcs[name] = append(st.funcs[name], f)
	return f
}

// Main defines the stage entry point.
func (pb *ProgramBuilder) Main(body func(*Scope)) {
	pb.needModule("main")
	st := pb.active()
	if st.entry != nil {
		bail(types.ErrStructural, "main is already defined")
	}
	st.entry = &ast.FuncDef{
		Name:  "main",
		Sig:   types.NewFunctionType("main", nil),
		Body:  &ast.Block{},
		Entry: true,
	}
	st.ctx.Global.Append(st.entry)
	saved := st.current
	st.current = st.entry
	pb.withScope(scopeEntry, st.entry.Body, body)
	st.current = saved
}

// Call calls the overload of f that accepts args.
func (f *Function) Call(args ...any) *Var {
	pb := f.pb
	st := pb.active()
	if st != f.stage {
		bail(types.ErrStructural, "function %s belongs to another stage", f.name)
	}
	overloads := st.funcs[f.name]
	if len(overloads) == 0 {
		bail(types.ErrStructural, "function %s is called inside its own body", f.name)
	}
	sigs := make([]*types.FunctionType, len(overloads))
	for i, o := range overloads {
		sigs[i] = o.def.Sig
	}
	sig, conv, err := ast.ResolveOverload(f.name, rawArgs(args), sigs)
	check(err)
	var target *Function
	for _, o := range overloads {
		if o.def.Sig == sig {
			target = o
		}
	}
	for i, p := range sig.Params {
		if !p.ByRef {
			continue
		}
		ptr := target.params[i].Type.(*types.PointerType)
		check(ptr.BindSpace(conv[i].AddressSpace()))
		check(conv[i].MarkWritable())
	}
	return pb.emitCall(target.emitted, false, sig, conv)
}

// emitCall creates a call and emits it as a statement until a parent
// expression consumes it.
func (pb *ProgramBuilder) emitCall(name string, builtin bool, sig *types.FunctionType, args []ast.Expr) *Var {
	call := ast.NewCall(name, builtin, sig, args)
	pb.emit(&ast.Touch{Call: call})
	return exprVar(call)
}

// helper returns the per-stage helper function key, defining it with
// define on first use. Helpers are inserted before the function being
// built so they precede their first caller.
func (pb *ProgramBuilder) helper(key string, define func(before ast.Stmt) *Function) *Function {
	st := pb.active()
	if f, ok := st.helpers[key]; ok {
		return f
	}
	var before ast.Stmt
	if st.current != nil {
		before = st.current
	}
	saved := pb.scopes
	pb.scopes = []*Scope{st.global}
	f := define(before)
	pb.scopes = saved
	st.helpers[key] = f
	return f
}
