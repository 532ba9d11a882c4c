// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// Result structs of the modf and frexp helpers. They are registered in
// every stage and declared on first use.
var (
	modfResult  = mustStruct("zModfResult", types.Field{Name: "fract", Type: types.Float}, types.Field{Name: "whole", Type: types.Float})
	frexpResult = mustStruct("zFrexpResult", types.Field{Name: "fract", Type: types.Float}, types.Field{Name: "exp", Type: types.Int})

	hiddenStructs = []*types.StructType{modfResult, frexpResult}
)

func mustStruct(name string, fields ...types.Field) *types.StructType {
	st, err := types.NewStructType(name, types.LayoutDefault, fields...)
	if err != nil {
		panic(err)
	}
	return st
}

// Struct is a user struct type.
type Struct struct {
	pb  *ProgramBuilder
	typ *types.StructType
}

// DefineStruct defines a struct with the default layout. members are
// named placeholders.
func (pb *ProgramBuilder) DefineStruct(name string, members ...*Var) *Struct {
	return pb.DefineStructLayout(name, types.LayoutDefault, members...)
}

// DefineStructLayout defines a struct laid out under layout.
func (pb *ProgramBuilder) DefineStructLayout(name string, layout types.Layout, members ...*Var) *Struct {
	checkIdent(name)
	fields := make([]types.Field, len(members))
	for i, m := range members {
		if !m.isPlaceholder() || m.name == "" {
			bail(types.ErrStructural, "member %d of struct %s must be a named placeholder", i, name)
		}
		fields[i] = types.Field{Name: m.name, Type: m.typ}
	}
	st, err := types.NewStructType(name, layout, fields...)
	check(err)
	if pb.building && pb.stage != nil {
		pb.ensureType(st)
	}
	return &Struct{pb: pb, typ: st}
}

// Type returns the struct type.
func (s *Struct) Type() *types.StructType { return s.typ }

// Placeholder returns a declaration placeholder of the struct type,
// optionally named for use as a parameter or member.
func (s *Struct) Placeholder(name ...string) *Var {
	n := ""
	if len(name) > 0 {
		n = name[0]
	}
	return placeholder(s.typ, n)
}

// New constructs a struct value from one argument per member.
func (s *Struct) New(args ...any) *Var {
	return s.pb.constructStruct(s.typ, args)
}

func (pb *ProgramBuilder) constructStruct(st *types.StructType, args []any) *Var {
	pb.ensureType(st)
	_, conv, err := ast.ResolveOverload(st.Name, rawArgs(args), types.ConstructorOverloads(st, pb.target))
	check(err)
	return exprVar(ast.NewConstructor(st, conv))
}

// ensureType declares the struct types t depends on in the active stage.
func (pb *ProgramBuilder) ensureType(t types.Type) {
	switch t := t.(type) {
	case *types.ArrayType:
		pb.ensureType(t.Elem)
	case *types.PointerType:
		pb.ensureType(t.Pointee)
	case *types.StructType:
		pb.ensureStruct(t)
	}
}

func (pb *ProgramBuilder) ensureStruct(t *types.StructType) {
	st := pb.active()
	for _, m := range t.Members {
		pb.ensureType(m.Type)
	}
	registered, _, err := st.registry.RegisterStruct(t)
	check(err)
	if st.declared[registered.Name] {
		return
	}
	st.declared[registered.Name] = true
	st.ctx.Structs = append(st.ctx.Structs, registered)
	st.insertGlobal(st.firstFunc(), &ast.StructDecl{Type: registered})
}

// Modf splits x into its fractional and whole parts, both with the sign of
// x. The result has members fract and whole.
func (pb *ProgramBuilder) Modf(x any) *Var {
	f := pb.helper("modf", func(before ast.Stmt) *Function {
		return pb.defineFunc("zModf", []*Var{pb.Float("x")}, func(s *Scope) {
			x := s.Get("x")
			whole := s.Declare("whole", pb.Mul(pb.Sign(x), pb.Floor(pb.Abs(x))))
			pb.Return(pb.constructStruct(modfResult, []any{pb.Sub(x, whole), whole}))
		}, before)
	})
	return f.Call(coerce(x, types.Float))
}

// Frexp splits x into a fraction in [0.5, 1) and a power of two exponent.
// The result has members fract and exp.
func (pb *ProgramBuilder) Frexp(x any) *Var {
	f := pb.helper("frexp", func(before ast.Stmt) *Function {
		return pb.defineFunc("zFrexp", []*Var{pb.Float("x")}, func(s *Scope) {
			x := s.Get("x")
			e := s.Declare("e", pb.Int(0))
			pb.If(pb.NotEqual(x, 0.0), func(*Scope) {
				pb.Assign(e, pb.Add(pb.Int(pb.Floor(pb.Log2(pb.Abs(x)))), 1))
			})
			pb.Return(pb.constructStruct(frexpResult, []any{pb.Div(x, pb.Exp2(pb.Float(e))), e}))
		}, before)
	})
	return f.Call(coerce(x, types.Float))
}
