// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ast

import (
	"testing"

	"github.com/gogpu/shaderdsl/types"
)

// ===== Call Statement Tests =====

func TestCall_ConsumedByParent(t *testing.T) {
	sig := types.NewFunctionType("f", types.Float)
	call := NewCall("f", false, sig, nil)
	if !call.Statement {
		t.Fatal("new call should start as a statement")
	}
	NewBinary("+", call, mustLit(t, types.Float, 1), types.Float)
	if call.Statement {
		t.Error("call consumed by a binary node should not be a statement")
	}

	inner := NewCall("f", false, sig, nil)
	outer := NewCall("g", false, types.NewFunctionType("g", nil, types.Param{Name: "x", Type: types.Float}), []Expr{inner})
	if inner.Statement {
		t.Error("call argument should not be a statement")
	}
	if !outer.Statement {
		t.Error("outer call should remain a statement")
	}
}

func TestCall_ConsumedByStatements(t *testing.T) {
	sig := types.NewFunctionType("f", types.Bool)
	tests := []struct {
		name  string
		build func(c *Call)
	}{
		{"if", func(c *Call) { NewIf(c) }},
		{"while", func(c *Call) { NewWhile(c) }},
		{"return", func(c *Call) { NewReturn(c, false) }},
		{"decl", func(c *Call) { NewVarDecl(NewVariable("x", types.Bool, DeclNone), c) }},
		{"dowhile", func(c *Call) { (&DoWhile{Body: &Block{}}).SetCond(c) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCall("f", false, sig, nil)
			tt.build(c)
			if c.Statement {
				t.Error("call should be flagged non-statement")
			}
		})
	}
}

// ===== Pointer Elision Tests =====

func TestAddressOfDeref_Cancel(t *testing.T) {
	v := NewVariable("x", types.Vec3, DeclNone)
	ref := NewVarRef(v)

	addr := NewAddressOf(ref)
	if _, ok := addr.(*AddressOf); !ok {
		t.Fatalf("NewAddressOf(ref) = %T, want *AddressOf", addr)
	}
	if got := NewDeref(addr); got != Expr(ref) {
		t.Errorf("deref(addr(x)) = %T, want the original reference", got)
	}

	p := NewVariable("p", types.NewPointerType(types.Vec3, types.SpaceFunction), DeclNone)
	pref := NewVarRef(p)
	d := NewDeref(pref)
	if got := NewAddressOf(d); got != Expr(pref) {
		t.Errorf("addr(deref(p)) = %T, want the original pointer", got)
	}
}

func TestAsValue(t *testing.T) {
	p := NewVariable("p", types.NewPointerType(types.Float, types.SpaceFunction), DeclNone)
	got := AsValue(NewVarRef(p))
	if _, ok := got.(*Deref); !ok {
		t.Fatalf("AsValue(pointer) = %T, want *Deref", got)
	}
	if !types.Equal(got.Type(), types.Float) {
		t.Errorf("deref type = %s", got.Type().TypeID())
	}
	v := NewVarRef(NewVariable("v", types.Float, DeclNone))
	if AsValue(v) != Expr(v) {
		t.Error("AsValue(value) should return the value")
	}
}

// ===== Writability Tests =====

func TestMarkWritable_StorageThroughField(t *testing.T) {
	st, err := types.NewStructType("Particles", types.LayoutDefault,
		types.Field{Name: "pos", Type: types.NewArrayType(types.Vec4, 0)})
	if err != nil {
		t.Fatal(err)
	}
	v := NewVariable("particles", st, DeclStorage)
	field := NewFieldAccess(NewVarRef(v), "pos", types.NewArrayType(types.Vec4, 0))
	idx := NewIndex(field, mustLit(t, types.Int, 0), types.Vec4)
	swz := NewFieldAccess(idx, "x", types.Float)

	if v.Writable {
		t.Fatal("storage should start read-only")
	}
	if err := swz.MarkWritable(); err != nil {
		t.Fatalf("MarkWritable: %v", err)
	}
	if !v.Writable {
		t.Error("write through field/index/swizzle should reach the storage variable")
	}
	if !field.IsWritable() || !idx.IsWritable() {
		t.Error("intermediate nodes should be marked writable")
	}
}

func TestMarkWritable_ReadOnly(t *testing.T) {
	pos, _ := LookupBuiltin(StageFragment, "fragCoord")
	tests := []struct {
		name string
		expr Expr
	}{
		{"uniform", NewVarRef(NewVariable("u", types.Float, DeclUniform))},
		{"input", NewVarRef(NewVariable("i", types.Float, DeclIn))},
		{"builtin input", NewVarRef(&Variable{Name: "fragCoord", Type: types.Vec4, Builtin: pos})},
		{"literal", mustLit(t, types.Float, 1)},
		{"binary", NewBinary("+", mustLit(t, types.Float, 1), mustLit(t, types.Float, 2), types.Float)},
		{"uniform field", NewFieldAccess(NewVarRef(NewVariable("u", types.Vec4, DeclUniform)), "x", types.Float)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.expr.MarkWritable()
			if !types.IsKind(err, types.ErrType) {
				t.Errorf("MarkWritable() = %v, want type error", err)
			}
		})
	}
}

func TestMarkWritable_PointerAccessMode(t *testing.T) {
	pt := types.NewPointerType(types.Float, types.SpaceUnknown)
	p := NewVariable("p", pt, DeclNone)
	if err := NewDeref(NewVarRef(p)).MarkWritable(); err != nil {
		t.Fatal(err)
	}
	if !pt.Writable {
		t.Error("writing through a pointer should flip its access mode")
	}
}

func TestConstDowngrade(t *testing.T) {
	v := NewVariable("c", types.Vec2, DeclNone)
	ctor := NewConstructor(types.Vec2, []Expr{mustLit(t, types.Float, 1), mustLit(t, types.Float, 2)})
	NewVarDecl(v, ctor)
	if !v.IsConstDecl() {
		t.Fatal("constructor of literals should declare a const")
	}
	if err := NewVarRef(v).MarkWritable(); err != nil {
		t.Fatal(err)
	}
	if v.IsConstDecl() {
		t.Error("assignment should downgrade the const declaration")
	}

	w := NewVariable("w", types.Float, DeclNone)
	NewVarDecl(w, NewVarRef(v))
	if w.IsConstDecl() {
		t.Error("variable initializer is not a const expression")
	}
}

// ===== Overload Resolution Tests =====

func TestResolveOverload_Vec3FromVec2Float(t *testing.T) {
	v2 := NewVarRef(NewVariable("a", types.Vec2, DeclNone))
	f := NewVarRef(NewVariable("b", types.Float, DeclNone))
	overloads := types.ConstructorOverloads(types.Vec3, types.WebGPU)

	for range 3 {
		fn, args, err := ResolveOverload("vec3", []any{v2, f}, overloads)
		if err != nil {
			t.Fatal(err)
		}
		if len(fn.Params) != 2 || !types.Equal(fn.Params[0].Type, types.Vec2) || !types.Equal(fn.Params[1].Type, types.Float) {
			t.Fatalf("selected %s", fn.TypeID())
		}
		if args[0] != Expr(v2) || args[1] != Expr(f) {
			t.Error("typed arguments should pass through unchanged")
		}
	}
}

func TestResolveOverload_Literals(t *testing.T) {
	overloads := types.ConstructorOverloads(types.Vec3, types.WebGL2)
	fn, args, err := ResolveOverload("vec3", []any{1, 2.5, 3}, overloads)
	if err != nil {
		t.Fatal(err)
	}
	if len(fn.Params) != 3 {
		t.Fatalf("selected %s", fn.TypeID())
	}
	lit := args[1].(*Literal)
	if lit.Num != 2.5 || !types.Equal(lit.Prim, types.Float) {
		t.Errorf("literal = %v %s", lit.Num, lit.Prim.TypeID())
	}

	fn, _, err = ResolveOverload("vec3", []any{1}, overloads)
	if err != nil || len(fn.Params) != 1 || !types.Equal(fn.Params[0].Type, types.Float) {
		t.Errorf("splat: %v %v", fn, err)
	}
}

func TestResolveOverload_NoMatch(t *testing.T) {
	b := NewVarRef(NewVariable("b", types.BVec2, DeclNone))
	_, _, err := ResolveOverload("vec3", []any{b}, types.ConstructorOverloads(types.Vec3, types.WebGPU))
	if !types.IsKind(err, types.ErrStructural) {
		t.Fatalf("err = %v, want structural error", err)
	}
}

func TestConvertArgs_LiteralRanges(t *testing.T) {
	tests := []struct {
		name  string
		param types.Type
		value any
		ok    bool
	}{
		{"float int", types.Float, 3, true},
		{"float fraction", types.Float, 0.25, true},
		{"float overflow", types.Float, 1e300, false},
		{"int whole", types.Int, -7, true},
		{"int fraction", types.Int, 1.5, false},
		{"int overflow", types.Int, 3e9, false},
		{"uint max", types.Uint, uint32(4294967295), true},
		{"uint negative", types.Uint, -1, false},
		{"uint overflow", types.Uint, int64(1) << 33, false},
		{"bool", types.Bool, true, true},
		{"bool from number", types.Bool, 1, false},
		{"number from bool", types.Float, false, false},
		{"vector param", types.Vec2, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := types.NewFunctionType("f", nil, types.Param{Name: "x", Type: tt.param})
			_, ok := ConvertArgs([]any{tt.value}, fn)
			if ok != tt.ok {
				t.Errorf("ConvertArgs(%v -> %s) ok = %v, want %v", tt.value, tt.param.TypeID(), ok, tt.ok)
			}
		})
	}
}

func TestConvertArgs_ByRef(t *testing.T) {
	fn := types.NewFunctionType("f", nil, types.Param{Name: "x", Type: types.Vec3, ByRef: true})
	local := NewVarRef(NewVariable("v", types.Vec3, DeclNone))

	args, ok := ConvertArgs([]any{local}, fn)
	if !ok {
		t.Fatal("reference should bind to a by-ref parameter")
	}
	addr, isAddr := args[0].(*AddressOf)
	if !isAddr || addr.Value != Expr(local) {
		t.Fatalf("arg = %T, want address-of the reference", args[0])
	}

	ptr := NewVarRef(NewVariable("p", types.NewPointerType(types.Vec3, types.SpaceFunction), DeclNone))
	args, ok = ConvertArgs([]any{ptr}, fn)
	if !ok || args[0] != Expr(ptr) {
		t.Error("pointer should pass through to a by-ref parameter")
	}

	if _, ok := ConvertArgs([]any{1.0}, fn); ok {
		t.Error("literal must not bind to a by-ref parameter")
	}
	ctor := NewConstructor(types.Vec3, []Expr{mustLit(t, types.Float, 1)})
	if _, ok := ConvertArgs([]any{ctor}, fn); ok {
		t.Error("non-reference must not bind to a by-ref parameter")
	}
}

func TestConvertArgs_PointerByValue(t *testing.T) {
	fn := types.NewFunctionType("f", nil, types.Param{Name: "x", Type: types.Float})
	ptr := NewVarRef(NewVariable("p", types.NewPointerType(types.Float, types.SpaceFunction), DeclNone))
	args, ok := ConvertArgs([]any{ptr}, fn)
	if !ok {
		t.Fatal("pointer should be dereferenced for a by-value parameter")
	}
	if _, isDeref := args[0].(*Deref); !isDeref {
		t.Errorf("arg = %T, want *Deref", args[0])
	}
}

// ===== Literal Formatting Tests =====

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		kind types.Scalar
		n    float64
		want string
	}{
		{types.ScalarF32, 1, "1.0"},
		{types.ScalarF32, -2, "-2.0"},
		{types.ScalarF32, 0.5, "0.5"},
		{types.ScalarF32, 1e20, "1e+20"},
		{types.ScalarI32, 42, "42"},
		{types.ScalarI32, -3, "-3"},
		{types.ScalarU32, 7, "7u"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.kind, tt.n); got != tt.want {
			t.Errorf("FormatNumber(%s, %v) = %q, want %q", tt.kind, tt.n, got, tt.want)
		}
	}
}

// ===== Builtin Table Tests =====

func TestBuiltins(t *testing.T) {
	pos, ok := LookupBuiltin(StageVertex, "position")
	if !ok || !pos.Output || pos.WGSL != "position" || pos.GLSLName(types.WebGL) != "gl_Position" {
		t.Fatalf("position = %+v", pos)
	}
	vid, _ := LookupBuiltin(StageVertex, "vertexIndex")
	if vid.Supported(types.WebGL) {
		t.Error("vertexIndex should be unsupported on WebGL")
	}
	if !types.Equal(vid.Type(types.WebGL2), types.Int) || !types.Equal(vid.Type(types.WebGPU), types.Uint) {
		t.Error("vertexIndex types differ per target")
	}
	if _, ok := LookupBuiltin(StageFragment, "position"); ok {
		t.Error("position is a vertex builtin")
	}
	if n := len(Builtins(StageCompute)); n != 5 {
		t.Errorf("compute builtins = %d, want 5", n)
	}
}

func mustLit(t *testing.T, pt *types.PrimitiveType, v any) *Literal {
	t.Helper()
	l, err := NewLiteral(pt, v)
	if err != nil {
		t.Fatal(err)
	}
	return l
}
