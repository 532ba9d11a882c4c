// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// Scalar kinds accepted by a math function.
const (
	kindFloat = 1 << iota
	kindSint
	kindUint

	kindAny = kindFloat | kindSint | kindUint
)

// mathFunc describes a component-wise math builtin over a generic type T
// that is a scalar or a vector.
type mathFunc struct {
	arity int
	kinds int
	// scalar marks argument positions that may be a scalar when T is a
	// vector. With splat set they are widened to T on WebGPU.
	scalar []bool
	splat  bool
	// modern functions are missing from GLSL ES 1.00.
	modern bool
	// floatOnly100 functions lose their integer variants on GLSL ES 1.00.
	floatOnly100 bool
	// vector functions do not accept scalar T.
	vector   bool
	fragment bool
}

var floatUnary = mathFunc{arity: 1, kinds: kindFloat}

var mathFuncs = map[string]mathFunc{
	"sin":         floatUnary,
	"cos":         floatUnary,
	"tan":         floatUnary,
	"asin":        floatUnary,
	"acos":        floatUnary,
	"atan":        floatUnary,
	"sinh":        {arity: 1, kinds: kindFloat, modern: true},
	"cosh":        {arity: 1, kinds: kindFloat, modern: true},
	"tanh":        {arity: 1, kinds: kindFloat, modern: true},
	"asinh":       {arity: 1, kinds: kindFloat, modern: true},
	"acosh":       {arity: 1, kinds: kindFloat, modern: true},
	"atanh":       {arity: 1, kinds: kindFloat, modern: true},
	"exp":         floatUnary,
	"exp2":        floatUnary,
	"log":         floatUnary,
	"log2":        floatUnary,
	"sqrt":        floatUnary,
	"inverseSqrt": floatUnary,
	"floor":       floatUnary,
	"ceil":        floatUnary,
	"fract":       floatUnary,
	"trunc":       {arity: 1, kinds: kindFloat, modern: true},
	"round":       {arity: 1, kinds: kindFloat, modern: true},
	"radians":     floatUnary,
	"degrees":     floatUnary,
	"normalize":   {arity: 1, kinds: kindFloat, vector: true},
	"dpdx":        {arity: 1, kinds: kindFloat, fragment: true},
	"dpdy":        {arity: 1, kinds: kindFloat, fragment: true},
	"fwidth":      {arity: 1, kinds: kindFloat, fragment: true},
	"abs":         {arity: 1, kinds: kindFloat | kindSint, floatOnly100: true},
	"sign":        {arity: 1, kinds: kindFloat | kindSint, floatOnly100: true},
	"pow":         {arity: 2, kinds: kindFloat},
	"atan2":       {arity: 2, kinds: kindFloat},
	"reflect":     {arity: 2, kinds: kindFloat, vector: true},
	"min":         {arity: 2, kinds: kindAny, scalar: []bool{false, true}, splat: true, floatOnly100: true},
	"max":         {arity: 2, kinds: kindAny, scalar: []bool{false, true}, splat: true, floatOnly100: true},
	"clamp":       {arity: 3, kinds: kindAny, scalar: []bool{false, true, true}, splat: true, floatOnly100: true},
	"step":        {arity: 2, kinds: kindFloat, scalar: []bool{true, false}, splat: true},
	"smoothstep":  {arity: 3, kinds: kindFloat, scalar: []bool{true, true, false}, splat: true},
	"mix":         {arity: 3, kinds: kindFloat, scalar: []bool{false, false, true}},
}

func (f mathFunc) scalarAt(i int) bool { return i < len(f.scalar) && f.scalar[i] }

func kindOf(s types.Scalar) int {
	switch {
	case s.IsFloat():
		return kindFloat
	case s.IsSigned():
		return kindSint
	case s.IsUnsigned():
		return kindUint
	}
	return 0
}

// Call calls the component-wise math builtin name. The generic type of the
// call is taken from the first argument that must have it.
func (pb *ProgramBuilder) Call(name string, args ...any) *Var {
	f, ok := mathFuncs[name]
	if !ok {
		bail(types.ErrStructural, "unknown builtin function %s", name)
	}
	if len(args) != f.arity {
		bail(types.ErrStructural, "%s expects %d arguments, got %d", name, f.arity, len(args))
	}
	if f.modern && pb.target == types.WebGL {
		bail(types.ErrCapability, "%s is not supported by %s", name, pb.target)
	}
	if f.fragment && pb.active().ctx.Stage != ast.StageFragment {
		bail(types.ErrCapability, "%s is only available in fragment shaders", name)
	}

	t := genericType(f, args)
	p, ok := types.IsPrimitive(t)
	if !ok || p.IsMatrix() || kindOf(p.Scalar())&f.kinds == 0 {
		bail(types.ErrType, "%s does not accept %s", name, t.TypeName(types.WebGPU))
	}
	if f.vector && !p.IsVector() {
		bail(types.ErrType, "%s expects a vector, got %s", name, t.TypeName(types.WebGPU))
	}
	if f.floatOnly100 && pb.target == types.WebGL && !p.Scalar().IsFloat() {
		bail(types.ErrCapability, "integer %s is not supported by %s", name, pb.target)
	}

	exprs := make([]ast.Expr, len(args))
	for i, a := range args {
		e := valueOf(a, t)
		switch {
		case types.Equal(e.Type(), t):
		case p.IsVector() && types.IsScalarOf(e.Type(), p.Scalar()):
			literal := ast.IsLiteral(a)
			if !literal && !f.scalarAt(i) {
				bail(types.ErrType, "%s argument %d must be %s", name, i, t.TypeName(types.WebGPU))
			}
			if literal && !f.scalarAt(i) || f.splat && pb.target == types.WebGPU {
				e = ast.NewConstructor(t, []ast.Expr{e})
			}
		default:
			bail(types.ErrType, "%s argument %d must be %s, got %s", name, i,
				t.TypeName(types.WebGPU), e.Type().TypeName(types.WebGPU))
		}
		exprs[i] = e
	}
	return pureCall(name, t, exprs...)
}

// genericType picks the type T of a math call.
func genericType(f mathFunc, args []any) types.Type {
	for i, a := range args {
		if !f.scalarAt(i) && !ast.IsLiteral(a) {
			return valueOf(a, nil).Type()
		}
	}
	for _, a := range args {
		if !ast.IsLiteral(a) {
			return valueOf(a, nil).Type()
		}
	}
	return literalType(args[0])
}

func (pb *ProgramBuilder) Sin(x any) *Var         { return pb.Call("sin", x) }
func (pb *ProgramBuilder) Cos(x any) *Var         { return pb.Call("cos", x) }
func (pb *ProgramBuilder) Tan(x any) *Var         { return pb.Call("tan", x) }
func (pb *ProgramBuilder) Asin(x any) *Var        { return pb.Call("asin", x) }
func (pb *ProgramBuilder) Acos(x any) *Var        { return pb.Call("acos", x) }
func (pb *ProgramBuilder) Atan(x any) *Var        { return pb.Call("atan", x) }
func (pb *ProgramBuilder) Atan2(y, x any) *Var    { return pb.Call("atan2", y, x) }
func (pb *ProgramBuilder) Sinh(x any) *Var        { return pb.Call("sinh", x) }
func (pb *ProgramBuilder) Cosh(x any) *Var        { return pb.Call("cosh", x) }
func (pb *ProgramBuilder) Tanh(x any) *Var        { return pb.Call("tanh", x) }
func (pb *ProgramBuilder) Exp(x any) *Var         { return pb.Call("exp", x) }
func (pb *ProgramBuilder) Exp2(x any) *Var        { return pb.Call("exp2", x) }
func (pb *ProgramBuilder) Log(x any) *Var         { return pb.Call("log", x) }
func (pb *ProgramBuilder) Log2(x any) *Var        { return pb.Call("log2", x) }
func (pb *ProgramBuilder) Pow(x, y any) *Var      { return pb.Call("pow", x, y) }
func (pb *ProgramBuilder) Sqrt(x any) *Var        { return pb.Call("sqrt", x) }
func (pb *ProgramBuilder) InverseSqrt(x any) *Var { return pb.Call("inverseSqrt", x) }
func (pb *ProgramBuilder) Abs(x any) *Var         { return pb.Call("abs", x) }
func (pb *ProgramBuilder) Sign(x any) *Var        { return pb.Call("sign", x) }
func (pb *ProgramBuilder) Floor(x any) *Var       { return pb.Call("floor", x) }
func (pb *ProgramBuilder) Ceil(x any) *Var        { return pb.Call("ceil", x) }
func (pb *ProgramBuilder) Fract(x any) *Var       { return pb.Call("fract", x) }
func (pb *ProgramBuilder) Trunc(x any) *Var       { return pb.Call("trunc", x) }
func (pb *ProgramBuilder) Round(x any) *Var       { return pb.Call("round", x) }
func (pb *ProgramBuilder) Radians(x any) *Var     { return pb.Call("radians", x) }
func (pb *ProgramBuilder) Degrees(x any) *Var     { return pb.Call("degrees", x) }
func (pb *ProgramBuilder) Min(x, y any) *Var      { return pb.Call("min", x, y) }
func (pb *ProgramBuilder) Max(x, y any) *Var      { return pb.Call("max", x, y) }
func (pb *ProgramBuilder) Clamp(x, lo, hi any) *Var {
	return pb.Call("clamp", x, lo, hi)
}
func (pb *ProgramBuilder) Mix(x, y, a any) *Var  { return pb.Call("mix", x, y, a) }
func (pb *ProgramBuilder) Step(edge, x any) *Var { return pb.Call("step", edge, x) }
func (pb *ProgramBuilder) Smoothstep(e0, e1, x any) *Var {
	return pb.Call("smoothstep", e0, e1, x)
}
func (pb *ProgramBuilder) Normalize(x any) *Var  { return pb.Call("normalize", x) }
func (pb *ProgramBuilder) Reflect(i, n any) *Var { return pb.Call("reflect", i, n) }
func (pb *ProgramBuilder) Dpdx(x any) *Var       { return pb.Call("dpdx", x) }
func (pb *ProgramBuilder) Dpdy(x any) *Var       { return pb.Call("dpdy", x) }
func (pb *ProgramBuilder) Fwidth(x any) *Var     { return pb.Call("fwidth", x) }

// floatVector converts a to a float scalar or vector expression.
func floatVector(fn string, a any, vector bool) (ast.Expr, types.Primitive) {
	e := valueOf(a, types.Float)
	p, ok := types.IsPrimitive(e.Type())
	if !ok || p.IsMatrix() || p.Scalar() != types.ScalarF32 || (vector && !p.IsVector()) {
		bail(types.ErrType, "%s does not accept %s", fn, e.Type().TypeName(types.WebGPU))
	}
	return e, p
}

// Length returns the length of a float vector.
func (pb *ProgramBuilder) Length(x any) *Var {
	e, _ := floatVector("length", x, false)
	return pureCall("length", types.Float, e)
}

// Distance returns the distance between two points.
func (pb *ProgramBuilder) Distance(a, b any) *Var {
	l, _ := floatVector("distance", a, false)
	return pureCall("distance", types.Float, l, coerce(b, l.Type()))
}

// Dot returns the dot product of two vectors.
func (pb *ProgramBuilder) Dot(a, b any) *Var {
	l := valueOf(a, nil)
	p, ok := types.IsPrimitive(l.Type())
	if !ok || !p.IsVector() || p.Scalar() == types.ScalarBool {
		bail(types.ErrType, "dot does not accept %s", l.Type().TypeName(types.WebGPU))
	}
	if !p.Scalar().IsFloat() && pb.target != types.WebGPU {
		bail(types.ErrCapability, "integer dot is not supported by %s", pb.target)
	}
	return pureCall("dot", types.Prim(p.ScalarType()), l, coerce(b, l.Type()))
}

// Cross returns the cross product of two 3-component vectors.
func (pb *ProgramBuilder) Cross(a, b any) *Var {
	return pureCall("cross", types.Vec3, coerce(a, types.Vec3), coerce(b, types.Vec3))
}

// FaceForward orients n to point away from the surface seen along i.
func (pb *ProgramBuilder) FaceForward(n, i, nref any) *Var {
	e, _ := floatVector("faceForward", n, true)
	return pureCall("faceForward", e.Type(), e, coerce(i, e.Type()), coerce(nref, e.Type()))
}

// Refract returns the refraction of i through a surface with normal n.
func (pb *ProgramBuilder) Refract(i, n, eta any) *Var {
	e, _ := floatVector("refract", i, true)
	return pureCall("refract", e.Type(), e, coerce(n, e.Type()), coerce(eta, types.Float))
}

// Transpose returns the transpose of a matrix.
func (pb *ProgramBuilder) Transpose(m any) *Var {
	if pb.target == types.WebGL {
		bail(types.ErrCapability, "transpose is not supported by %s", pb.target)
	}
	e := valueOf(m, nil)
	p, ok := types.IsPrimitive(e.Type())
	if !ok || !p.IsMatrix() {
		bail(types.ErrType, "transpose expects a matrix, got %s", e.Type().TypeName(types.WebGPU))
	}
	return pureCall("transpose", types.Prim(p.Resize(p.Cols(), p.Rows())), e)
}

// Determinant returns the determinant of a square matrix.
func (pb *ProgramBuilder) Determinant(m any) *Var {
	if pb.target == types.WebGL {
		bail(types.ErrCapability, "determinant is not supported by %s", pb.target)
	}
	e := valueOf(m, nil)
	p, ok := types.IsPrimitive(e.Type())
	if !ok || !p.IsMatrix() || p.Rows() != p.Cols() {
		bail(types.ErrType, "determinant expects a square matrix, got %s", e.Type().TypeName(types.WebGPU))
	}
	return pureCall("determinant", types.Float, e)
}

// Select returns t where cond holds and f elsewhere. A vector cond
// selects component-wise.
func (pb *ProgramBuilder) Select(f, t, cond any) *Var {
	fe, te := operands(f, t)
	if !types.Equal(fe.Type(), te.Type()) {
		badOperands("select", fe, te)
	}
	c := valueOf(cond, types.Bool)
	cp, ok := types.IsPrimitive(c.Type())
	if !ok || cp.Scalar() != types.ScalarBool {
		bail(types.ErrType, "select condition must be bool, got %s", c.Type().TypeName(types.WebGPU))
	}
	if cp.IsVector() {
		p, ok := types.IsPrimitive(fe.Type())
		if !ok || !p.IsVector() || p.Cols() != cp.Cols() {
			bail(types.ErrType, "select condition %s does not match %s",
				c.Type().TypeName(types.WebGPU), fe.Type().TypeName(types.WebGPU))
		}
	}
	return pureCall("select", fe.Type(), fe, te, c)
}

func boolVector(fn string, a any) ast.Expr {
	e := valueOf(a, nil)
	p, ok := types.IsPrimitive(e.Type())
	if !ok || !p.IsVector() || p.Scalar() != types.ScalarBool {
		bail(types.ErrType, "%s expects a bool vector, got %s", fn, e.Type().TypeName(types.WebGPU))
	}
	return e
}

// Any reports whether any component of a bool vector is true.
func (pb *ProgramBuilder) Any(x any) *Var {
	return pureCall("any", types.Bool, boolVector("any", x))
}

// All reports whether every component of a bool vector is true.
func (pb *ProgramBuilder) All(x any) *Var {
	return pureCall("all", types.Bool, boolVector("all", x))
}
