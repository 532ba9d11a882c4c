// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

type scopeKind uint8

const (
	scopeModule scopeKind = iota
	scopeFunction
	scopeEntry
	scopeIf
	scopeLoop
	scopeBlock
)

// Scope is one lexical scope of a stage. Module scopes hold globals,
// resources and functions; the others hold locals of one function body.
type Scope struct {
	pb      *ProgramBuilder
	kind    scopeKind
	parent  *Scope
	block   *ast.Block
	symbols map[string]*Var
	fn      *Function
}

func newScope(pb *ProgramBuilder, kind scopeKind, parent *Scope, block *ast.Block) *Scope {
	s := &Scope{pb: pb, kind: kind, parent: parent, block: block, symbols: map[string]*Var{}}
	if parent != nil && s.fn == nil {
		s.fn = parent.fn
	}
	return s
}

// Builder returns the program builder.
func (s *Scope) Builder() *ProgramBuilder { return s.pb }

// Lookup finds name in this scope or an enclosing one.
func (s *Scope) Lookup(name string) (*Var, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.symbols[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Get returns the variable name; unknown names abort the build.
func (s *Scope) Get(name string) *Var {
	v, ok := s.Lookup(name)
	if !ok {
		bail(types.ErrStructural, "unknown identifier %s", name)
	}
	return v
}

// Set assigns value to name, declaring name in this scope when it does not
// exist yet.
func (s *Scope) Set(name string, value any) {
	if v, ok := s.Lookup(name); ok {
		s.pb.Assign(v, value)
		return
	}
	s.Declare(name, value)
}

// Declare declares name in this scope. value is either a placeholder
// carrying the type and declaration tags, or an initial value.
func (s *Scope) Declare(name string, value any) *Var {
	pb := s.pb
	if pb.top() != s {
		bail(types.ErrInternal, "declaration of %s in an inactive scope", name)
	}
	checkIdent(name)
	if _, dup := s.symbols[name]; dup {
		bail(types.ErrStructural, "%s is already declared in this scope", name)
	}

	var v *ast.Variable
	x, isVar := value.(*Var)
	switch {
	case isVar && x.isPlaceholder():
		v = pb.declarePlaceholder(s, name, x)
	default:
		init := valueOf(value, nil)
		if types.IsVoid(init.Type()) {
			bail(types.ErrType, "cannot declare %s from a void value", name)
		}
		pb.ensureType(init.Type())
		v = ast.NewVariable(name, init.Type(), ast.DeclNone)
		v.Space = types.SpaceFunction
		if s.kind == scopeModule {
			v.Global, v.Space = true, types.SpacePrivate
		}
		pb.emit(ast.NewVarDecl(v, init))
	}
	decl := &Var{v: v}
	s.symbols[name] = decl
	if isVar && x.decl != nil {
		for _, tag := range x.decl.tags {
			pb.reflection.Tag(tag, decl)
		}
	}
	return decl
}

// declarePlaceholder declares a variable from a typed placeholder.
func (pb *ProgramBuilder) declarePlaceholder(s *Scope, name string, x *Var) *ast.Variable {
	d := x.decl
	if d.attrib != "" {
		bail(types.ErrStructural, "vertex input %s must be declared through Inputs", name)
	}
	if d.byRef {
		bail(types.ErrStructural, "InOut only applies to function parameters")
	}
	pb.checkType(x.typ)
	switch d.kind {
	case ast.DeclUniform, ast.DeclStorage:
		if s.kind != scopeModule {
			bail(types.ErrStructural, "resource %s must be declared at module scope", name)
		}
		return pb.declareResource(name, x)
	case ast.DeclWorkgroup:
		if s.kind != scopeModule {
			bail(types.ErrStructural, "workgroup variable %s must be declared at module scope", name)
		}
		if pb.stage.ctx.Stage != ast.StageCompute {
			bail(types.ErrStructural, "workgroup variable %s outside a compute shader", name)
		}
		pb.ensureType(x.typ)
		v := ast.NewVariable(name, x.typ, ast.DeclWorkgroup)
		v.Global, v.Space = true, types.SpaceWorkgroup
		pb.emit(ast.NewVarDecl(v, nil))
		return v
	}
	switch x.typ.(type) {
	case *types.TextureType, *types.SamplerType:
		bail(types.ErrStructural, "%s %s must be declared as a uniform", x.typ.TypeName(types.WebGPU), name)
	case *types.AtomicType:
		bail(types.ErrStructural, "atomic %s must live in storage or workgroup memory", name)
	}
	if arr, ok := x.typ.(*types.ArrayType); ok && arr.IsRuntimeSized() {
		bail(types.ErrType, "runtime-sized array %s must be a storage buffer", name)
	}
	pb.ensureType(x.typ)
	v := ast.NewVariable(name, x.typ, ast.DeclNone)
	v.Precision = d.precision
	v.Space = types.SpaceFunction
	if s.kind == scopeModule {
		v.Global, v.Space = true, types.SpacePrivate
	}
	pb.emit(ast.NewVarDecl(v, nil))
	return v
}

// checkType aborts when t cannot be expressed by the target.
func (pb *ProgramBuilder) checkType(t types.Type) {
	switch t := t.(type) {
	case *types.PrimitiveType:
		check(t.CheckTarget(pb.target))
	case *types.TextureType:
		check(t.CheckTarget(pb.target))
	case *types.ArrayType:
		pb.checkType(t.Elem)
	case *types.StructType:
		for _, m := range t.Members {
			pb.checkType(m.Type)
		}
	case *types.AtomicType:
		if pb.target != types.WebGPU {
			bail(types.ErrCapability, "atomics are not supported by %s", pb.target)
		}
	}
}

// checkIdent aborts when name is not a valid identifier.
func checkIdent(name string) {
	if name == "" {
		bail(types.ErrStructural, "empty identifier")
	}
	for i, c := range name {
		letter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		digit := c >= '0' && c <= '9'
		if !letter && (!digit || i == 0) {
			bail(types.ErrStructural, "invalid identifier %q", name)
		}
	}
}

// Assign stores value into the reference lhs.
func (pb *ProgramBuilder) Assign(lhs *Var, value any) {
	target := lhs.value()
	if !target.IsReference() {
		bail(types.ErrType, "cannot assign to a %s value", target.Type().TypeName(types.WebGPU))
	}
	if fa, ok := target.(*ast.FieldAccess); ok && pb.target == types.WebGPU && len(fa.Field) > 1 {
		if _, prim := fa.Base.Type().(*types.PrimitiveType); prim {
			bail(types.ErrCapability, "assignment to swizzle .%s is not supported by %s", fa.Field, pb.target)
		}
	}
	rhs := coerce(value, target.Type())
	check(target.MarkWritable())
	pb.emit(ast.NewAssign(target, rhs))
}

// Inputs returns the stage input namespace.
func (s *Scope) Inputs() *IONamespace { return &IONamespace{pb: s.pb} }

// Outputs returns the stage output namespace.
func (s *Scope) Outputs() *IONamespace { return &IONamespace{pb: s.pb, output: true} }

// Builtins returns the builtin variable namespace.
func (s *Scope) Builtins() *BuiltinNamespace { return &BuiltinNamespace{pb: s.pb} }

// IONamespace reads, declares and writes stage inputs or outputs.
type IONamespace struct {
	pb     *ProgramBuilder
	output bool
}

func (n *IONamespace) table() map[string]*ast.Variable {
	st := n.pb.active()
	if n.output {
		return st.outputs
	}
	return st.inputs
}

// Lookup finds a declared input or output.
func (n *IONamespace) Lookup(name string) (*Var, bool) {
	v, ok := n.table()[name]
	if !ok {
		return nil, false
	}
	return &Var{v: v}, true
}

// Get returns a declared input or output.
func (n *IONamespace) Get(name string) *Var {
	v, ok := n.Lookup(name)
	if !ok {
		what := "input"
		if n.output {
			what = "output"
		}
		bail(types.ErrStructural, "unknown %s %s", what, name)
	}
	return v
}

// Set writes name. Unknown names are declared at the next free location:
// inputs from a placeholder tagged with Attrib, outputs from a scalar or
// vector placeholder or value.
func (n *IONamespace) Set(name string, value any) {
	if v, ok := n.Lookup(name); ok {
		n.pb.Assign(v, value)
		return
	}
	checkIdent(name)
	x, isVar := value.(*Var)
	if !n.output {
		if !isVar || !x.isPlaceholder() {
			bail(types.ErrStructural, "input %s must be declared from a placeholder", name)
		}
		n.pb.declareInput(name, x)
		return
	}
	if isVar && x.isPlaceholder() {
		n.pb.declareOutput(name, x.typ, x.decl)
		return
	}
	e := valueOf(value, nil)
	v := n.pb.declareOutput(name, e.Type(), nil)
	n.pb.Assign(&Var{v: v}, e)
}

// Names returns the declared names in location order.
func (n *IONamespace) Names() []string {
	st := n.pb.active()
	list := st.ctx.Inputs
	if n.output {
		list = st.ctx.Outputs
	}
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = v.Name
	}
	return out
}

// BuiltinNamespace reads and writes builtin variables.
type BuiltinNamespace struct {
	pb *ProgramBuilder
}

// Get returns the builtin variable name of the active stage.
func (n *BuiltinNamespace) Get(name string) *Var {
	return &Var{v: n.pb.builtin(name)}
}

// Set writes an output builtin.
func (n *BuiltinNamespace) Set(name string, value any) {
	n.pb.Assign(n.Get(name), value)
}
