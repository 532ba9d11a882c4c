// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// Var is a DSL value. It is one of:
//   - a declaration placeholder returned by a zero-argument constructor,
//     carrying the type and the declaration tags
//   - a declared variable
//   - an expression
type Var struct {
	typ  types.Type
	expr ast.Expr
	v    *ast.Variable
	name string
	decl *declTags
}

// declTags are the declaration properties of a placeholder.
type declTags struct {
	kind         ast.DeclareKind
	group        int
	buffer       bool
	attrib       string
	tags         []string
	precision    ast.Precision
	unfilterable bool
	byRef        bool
}

func placeholder(t types.Type, name string) *Var {
	return &Var{typ: t, name: name, decl: &declTags{}}
}

func exprVar(e ast.Expr) *Var {
	return &Var{typ: e.Type(), expr: e}
}

// Type returns the value type.
func (x *Var) Type() types.Type {
	if x.v != nil {
		return x.v.Type
	}
	return x.typ
}

// Name returns the declared or placeholder name.
func (x *Var) Name() string {
	if x.v != nil {
		return x.v.Name
	}
	return x.name
}

// Variable returns the declared variable, or nil for expressions.
func (x *Var) Variable() *ast.Variable { return x.v }

// Expr returns the value expression of x.
func (x *Var) Expr() ast.Expr { return x.value() }

func (x *Var) isPlaceholder() bool { return x.decl != nil && x.v == nil }

// node returns x as an expression without dereferencing pointers.
func (x *Var) node() ast.Expr {
	switch {
	case x.v != nil:
		return ast.NewVarRef(x.v)
	case x.expr != nil:
		return x.expr
	case x.name != "":
		bail(types.ErrStructural, "%s is a declaration, not a value", x.name)
	}
	bail(types.ErrStructural, "%s placeholder is a declaration, not a value", x.typ.TypeName(types.WebGPU))
	return nil
}

// value returns x as an expression, dereferencing pointer variables.
func (x *Var) value() ast.Expr {
	return ast.AsValue(x.node())
}

func (x *Var) tags(what string) *declTags {
	if !x.isPlaceholder() {
		bail(types.ErrStructural, "%s can only tag a declaration", what)
	}
	return x.decl
}

// Uniform declares x as a uniform in bind group group.
func (x *Var) Uniform(group int) *Var {
	d := x.tags("Uniform")
	d.kind, d.group = ast.DeclUniform, group
	return x
}

// UniformBuffer declares x as a uniform buffer in bind group group. The
// value must be a struct; it is never merged with other uniforms.
func (x *Var) UniformBuffer(group int) *Var {
	d := x.tags("UniformBuffer")
	if _, ok := x.typ.(*types.StructType); !ok {
		bail(types.ErrType, "uniform buffer must be a struct, got %s", x.typ.TypeName(types.WebGPU))
	}
	d.kind, d.group, d.buffer = ast.DeclUniform, group, true
	return x
}

// Storage declares x as a storage buffer or storage texture in bind group
// group.
func (x *Var) Storage(group int) *Var {
	d := x.tags("Storage")
	d.kind, d.group = ast.DeclStorage, group
	return x
}

// StorageBuffer is Storage for struct values laid out as one buffer block.
func (x *Var) StorageBuffer(group int) *Var {
	x.Storage(group)
	x.decl.buffer = true
	return x
}

// Workgroup declares x in workgroup memory.
func (x *Var) Workgroup() *Var {
	x.tags("Workgroup").kind = ast.DeclWorkgroup
	return x
}

// Attrib binds a vertex input to the vertex attribute semantic.
func (x *Var) Attrib(semantic string) *Var {
	if semantic == "" {
		bail(types.ErrStructural, "empty attribute semantic")
	}
	x.tags("Attrib").attrib = semantic
	return x
}

// Tag registers the declared variable under names in the stage reflection.
func (x *Var) Tag(names ...string) *Var {
	d := x.tags("Tag")
	d.tags = append(d.tags, names...)
	return x
}

// Highp sets high precision on GLSL ES targets.
func (x *Var) Highp() *Var {
	x.tags("Highp").precision = ast.PrecisionHigh
	return x
}

// Mediump sets medium precision on GLSL ES targets.
func (x *Var) Mediump() *Var {
	x.tags("Mediump").precision = ast.PrecisionMedium
	return x
}

// Lowp sets low precision on GLSL ES targets.
func (x *Var) Lowp() *Var {
	x.tags("Lowp").precision = ast.PrecisionLow
	return x
}

// SampleType sets the component type of a sampled texture.
func (x *Var) SampleType(kind gputypes.TextureSampleType) *Var {
	d := x.tags("SampleType")
	tex, ok := x.typ.(*types.TextureType)
	if !ok || tex.IsStorage() {
		bail(types.ErrType, "sample type on non-sampled type %s", x.typ.TypeName(types.WebGPU))
	}
	t := *tex
	switch kind {
	case gputypes.TextureSampleTypeFloat:
		t.Flags &^= types.TexDepth
		t.Sample = types.ScalarF32
	case gputypes.TextureSampleTypeUnfilterableFloat:
		t.Flags &^= types.TexDepth
		t.Sample = types.ScalarF32
		d.unfilterable = true
	case gputypes.TextureSampleTypeDepth:
		t.Flags |= types.TexDepth
		t.Sample = types.ScalarF32
	case gputypes.TextureSampleTypeSint:
		t.Flags &^= types.TexDepth
		t.Sample = types.ScalarI32
	case gputypes.TextureSampleTypeUint:
		t.Flags &^= types.TexDepth
		t.Sample = types.ScalarU32
	default:
		bail(types.ErrType, "unknown texture sample type %v", kind)
	}
	x.typ = &t
	return x
}

// InOut makes a function parameter pass by reference.
func (x *Var) InOut() *Var {
	x.tags("InOut").byRef = true
	return x
}

// Field selects a struct member or a vector swizzle.
func (x *Var) Field(name string) *Var {
	base := x.value()
	switch t := base.Type().(type) {
	case *types.StructType:
		m, ok := t.Member(name)
		if !ok {
			bail(types.ErrStructural, "struct %s has no member %s", t.Name, name)
		}
		return exprVar(ast.NewFieldAccess(base, name, m.Type))
	case *types.PrimitiveType:
		p := t.Primitive()
		if p.IsMatrix() {
			break
		}
		n := swizzleLen(name, p.Cols())
		return exprVar(ast.NewFieldAccess(base, name, types.Prim(p.Resize(1, n))))
	}
	bail(types.ErrStructural, "%s has no field %s", base.Type().TypeName(types.WebGPU), name)
	return nil
}

// swizzleLen validates a swizzle against a vector of cols components.
func swizzleLen(s string, cols int) int {
	if len(s) == 0 || len(s) > 4 {
		bail(types.ErrStructural, "invalid swizzle %q", s)
	}
	sets := []string{"xyzw", "rgba"}
	for _, set := range sets {
		ok := true
		for _, c := range s {
			i := indexRune(set, c)
			if i < 0 || i >= cols {
				ok = false
				break
			}
		}
		if ok {
			return len(s)
		}
	}
	bail(types.ErrStructural, "invalid swizzle %q for a %d-component vector", s, cols)
	return 0
}

func indexRune(s string, r rune) int {
	for i, c := range s {
		if c == r {
			return i
		}
	}
	return -1
}

// At indexes an array, a matrix column or a vector component.
func (x *Var) At(index any) *Var {
	base := x.value()
	var elem types.Type
	bound := 0
	switch t := base.Type().(type) {
	case *types.ArrayType:
		elem, bound = t.Elem, t.Dim
	case *types.PrimitiveType:
		p := t.Primitive()
		switch {
		case p.IsMatrix():
			elem, bound = types.Prim(p.Resize(1, p.Cols())), p.Rows()
		case p.IsVector():
			elem, bound = types.Prim(p.ScalarType()), p.Cols()
		}
	}
	if elem == nil {
		bail(types.ErrStructural, "%s cannot be indexed", base.Type().TypeName(types.WebGPU))
	}

	var idx ast.Expr
	if ast.IsLiteral(index) {
		n, _ := ast.Number(index)
		if n < 0 || (bound > 0 && int(n) >= bound) {
			bail(types.ErrType, "index %v out of range [0, %d)", n, bound)
		}
		lit, err := ast.NewLiteral(types.Int, index)
		check(err)
		idx = lit
	} else {
		idx = valueOf(index, nil)
		if !types.IsScalarOf(idx.Type(), types.ScalarI32) && !types.IsScalarOf(idx.Type(), types.ScalarU32) {
			bail(types.ErrType, "index must be an integer scalar, got %s", idx.Type().TypeName(types.WebGPU))
		}
	}
	return exprVar(ast.NewIndex(base, idx, elem))
}

// rawArg converts a DSL argument for overload resolution: Go literals pass
// through, vars become expressions.
func rawArg(a any) any {
	switch a := a.(type) {
	case *Var:
		return a.value()
	case ast.Expr:
		return a
	}
	if ast.IsLiteral(a) {
		return a
	}
	bail(types.ErrType, "unsupported argument %v (%T)", a, a)
	return nil
}

func rawArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = rawArg(a)
	}
	return out
}

// valueOf converts a DSL argument to an expression. Go literals take the
// scalar kind of want, or their natural kind when want is nil.
func valueOf(a any, want types.Type) ast.Expr {
	switch a := a.(type) {
	case *Var:
		return a.value()
	case ast.Expr:
		return ast.AsValue(a)
	}
	if !ast.IsLiteral(a) {
		bail(types.ErrType, "unsupported value %v (%T)", a, a)
	}
	t := literalType(a)
	if p, ok := types.IsPrimitive(want); ok {
		t = types.Prim(p.ScalarType())
	}
	lit, err := ast.NewLiteral(t, a)
	check(err)
	return lit
}

// literalType returns the natural shader type of a Go literal.
func literalType(a any) *types.PrimitiveType {
	switch a.(type) {
	case bool:
		return types.Bool
	case float32, float64:
		return types.Float
	case uint, uint32, uint64:
		return types.Uint
	default:
		return types.Int
	}
}

// coerce converts a to exactly type want.
func coerce(a any, want types.Type) ast.Expr {
	if ast.IsLiteral(a) {
		pt, ok := want.(*types.PrimitiveType)
		if !ok || !pt.Primitive().IsScalar() {
			bail(types.ErrType, "literal %v cannot initialize %s", a, want.TypeName(types.WebGPU))
		}
		lit, err := ast.NewLiteral(pt, a)
		check(err)
		return lit
	}
	e := valueOf(a, nil)
	if !types.Equal(e.Type(), want) {
		bail(types.ErrType, "cannot use %s as %s", e.Type().TypeName(types.WebGPU), want.TypeName(types.WebGPU))
	}
	return e
}
