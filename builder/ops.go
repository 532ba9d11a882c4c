// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// operands converts the two sides of a binary operation. A Go literal
// takes the scalar kind of the other side.
func operands(a, b any) (ast.Expr, ast.Expr) {
	switch {
	case ast.IsLiteral(a) && ast.IsLiteral(b):
		l := valueOf(a, nil)
		return l, valueOf(b, l.Type())
	case ast.IsLiteral(a):
		r := valueOf(b, nil)
		return valueOf(a, r.Type()), r
	default:
		l := valueOf(a, nil)
		return l, valueOf(b, l.Type())
	}
}

// primitives returns the primitive types of both operands of op, which
// must share a scalar kind.
func primitives(op string, l, r ast.Expr) (types.Primitive, types.Primitive) {
	lp, lok := types.IsPrimitive(l.Type())
	rp, rok := types.IsPrimitive(r.Type())
	if !lok || !rok || lp.Scalar() != rp.Scalar() {
		bail(types.ErrType, "invalid operands %s %s %s",
			l.Type().TypeName(types.WebGPU), op, r.Type().TypeName(types.WebGPU))
	}
	return lp, rp
}

func badOperands(op string, l, r ast.Expr) {
	bail(types.ErrType, "invalid operands %s %s %s",
		l.Type().TypeName(types.WebGPU), op, r.Type().TypeName(types.WebGPU))
}

// arith returns the result type of an arithmetic operation.
func arith(op string, l, r ast.Expr) types.Type {
	lp, rp := primitives(op, l, r)
	if lp.Scalar() == types.ScalarBool {
		badOperands(op, l, r)
	}
	switch {
	case lp == rp && !lp.IsMatrix():
		return l.Type()
	case lp == rp && (op == "+" || op == "-"):
		return l.Type()
	case lp.IsScalar() && rp.IsVector():
		return r.Type()
	case lp.IsVector() && rp.IsScalar():
		return l.Type()
	case op != "*":
	case lp.IsMatrix() && rp.IsScalar():
		return l.Type()
	case lp.IsScalar() && rp.IsMatrix():
		return r.Type()
	case lp.IsMatrix() && rp.IsVector() && rp.Cols() == lp.Rows():
		return types.Prim(lp.Resize(1, lp.Cols()))
	case lp.IsVector() && rp.IsMatrix() && lp.Cols() == rp.Cols():
		return types.Prim(rp.Resize(1, rp.Rows()))
	case lp.IsMatrix() && rp.IsMatrix() && rp.Cols() == lp.Rows():
		return matMul(lp, rp)
	}
	badOperands(op, l, r)
	return nil
}

func matMul(lp, rp types.Primitive) types.Type {
	return types.Prim(lp.Resize(rp.Rows(), lp.Cols()))
}

func (pb *ProgramBuilder) arith(op string, a, b any) *Var {
	l, r := operands(a, b)
	return exprVar(ast.NewBinary(op, l, r, arith(op, l, r)))
}

// Add returns a + b.
func (pb *ProgramBuilder) Add(a, b any) *Var { return pb.arith("+", a, b) }

// Sub returns a - b.
func (pb *ProgramBuilder) Sub(a, b any) *Var { return pb.arith("-", a, b) }

// Mul returns a * b. Matrix operands use the linear algebra product.
func (pb *ProgramBuilder) Mul(a, b any) *Var { return pb.arith("*", a, b) }

// Div returns a / b.
func (pb *ProgramBuilder) Div(a, b any) *Var { return pb.arith("/", a, b) }

// Mod returns the remainder of a / b. Float operands use the floored
// remainder; integer operands use the truncated remainder.
func (pb *ProgramBuilder) Mod(a, b any) *Var {
	l, r := operands(a, b)
	lp, rp := primitives("%", l, r)
	if lp.IsMatrix() || rp.IsMatrix() || lp.Scalar() == types.ScalarBool || (lp != rp && !rp.IsScalar()) {
		badOperands("%", l, r)
	}
	if lp.Scalar().IsFloat() {
		return pureCall("mod", l.Type(), l, r)
	}
	return exprVar(ast.NewBinary("%", l, r, l.Type()))
}

// comparisonOps maps comparison operators to the component-wise builtins
// used for vector operands.
var comparisonOps = map[string]string{
	"<":  "lessThan",
	"<=": "lessThanEqual",
	">":  "greaterThan",
	">=": "greaterThanEqual",
	"==": "equal",
	"!=": "notEqual",
}

func (pb *ProgramBuilder) compare(op string, a, b any) *Var {
	l, r := operands(a, b)
	lp, rp := primitives(op, l, r)
	if lp != rp || lp.IsMatrix() {
		badOperands(op, l, r)
	}
	ordered := op != "==" && op != "!="
	if ordered && lp.Scalar() == types.ScalarBool {
		badOperands(op, l, r)
	}
	if lp.IsScalar() {
		return exprVar(ast.NewBinary(op, l, r, types.Bool))
	}
	return pureCall(comparisonOps[op], types.Prim(withScalar(lp, types.ScalarBool)), l, r)
}

// LessThan returns a < b, component-wise for vectors.
func (pb *ProgramBuilder) LessThan(a, b any) *Var { return pb.compare("<", a, b) }

// LessThanEqual returns a <= b, component-wise for vectors.
func (pb *ProgramBuilder) LessThanEqual(a, b any) *Var { return pb.compare("<=", a, b) }

// GreaterThan returns a > b, component-wise for vectors.
func (pb *ProgramBuilder) GreaterThan(a, b any) *Var { return pb.compare(">", a, b) }

// GreaterThanEqual returns a >= b, component-wise for vectors.
func (pb *ProgramBuilder) GreaterThanEqual(a, b any) *Var { return pb.compare(">=", a, b) }

// Equal returns a == b, component-wise for vectors.
func (pb *ProgramBuilder) Equal(a, b any) *Var { return pb.compare("==", a, b) }

// NotEqual returns a != b, component-wise for vectors.
func (pb *ProgramBuilder) NotEqual(a, b any) *Var { return pb.compare("!=", a, b) }

func (pb *ProgramBuilder) logical(op string, a, b any) *Var {
	l, r := coerce(a, types.Bool), coerce(b, types.Bool)
	return exprVar(ast.NewBinary(op, l, r, types.Bool))
}

// And returns the short-circuit conjunction of two bools.
func (pb *ProgramBuilder) And(a, b any) *Var { return pb.logical("&&", a, b) }

// Or returns the short-circuit disjunction of two bools.
func (pb *ProgramBuilder) Or(a, b any) *Var { return pb.logical("||", a, b) }

// Not negates a bool or, component-wise, a bool vector.
func (pb *ProgramBuilder) Not(a any) *Var {
	x := valueOf(a, types.Bool)
	p, ok := types.IsPrimitive(x.Type())
	if !ok || p.Scalar() != types.ScalarBool {
		bail(types.ErrType, "cannot negate %s", x.Type().TypeName(types.WebGPU))
	}
	if p.IsScalar() {
		return exprVar(ast.NewUnary("!", x, types.Bool))
	}
	return pureCall("not", x.Type(), x)
}

// Neg returns -a.
func (pb *ProgramBuilder) Neg(a any) *Var {
	x := valueOf(a, nil)
	p, ok := types.IsPrimitive(x.Type())
	if !ok || p.Scalar() == types.ScalarBool || p.Scalar().IsUnsigned() {
		bail(types.ErrType, "cannot negate %s", x.Type().TypeName(types.WebGPU))
	}
	return exprVar(ast.NewUnary("-", x, x.Type()))
}

func (pb *ProgramBuilder) needBitwise(op string) {
	if pb.target == types.WebGL {
		bail(types.ErrCapability, "bitwise operator %s is not supported by %s", op, pb.target)
	}
}

func (pb *ProgramBuilder) bitwise(op string, a, b any) *Var {
	pb.needBitwise(op)
	l, r := operands(a, b)
	lp, rp := primitives(op, l, r)
	if !lp.Scalar().IsInteger() || lp.IsMatrix() || rp.IsMatrix() {
		badOperands(op, l, r)
	}
	switch {
	case lp == rp:
		return exprVar(ast.NewBinary(op, l, r, l.Type()))
	case lp.IsVector() && rp.IsScalar():
		return exprVar(ast.NewBinary(op, l, r, l.Type()))
	case lp.IsScalar() && rp.IsVector():
		return exprVar(ast.NewBinary(op, l, r, r.Type()))
	}
	badOperands(op, l, r)
	return nil
}

// BitAnd returns a & b.
func (pb *ProgramBuilder) BitAnd(a, b any) *Var { return pb.bitwise("&", a, b) }

// BitOr returns a | b.
func (pb *ProgramBuilder) BitOr(a, b any) *Var { return pb.bitwise("|", a, b) }

// BitXor returns a ^ b.
func (pb *ProgramBuilder) BitXor(a, b any) *Var { return pb.bitwise("^", a, b) }

// Shl shifts a left by b bits.
func (pb *ProgramBuilder) Shl(a, b any) *Var { return pb.shift("<<", a, b) }

// Shr shifts a right by b bits.
func (pb *ProgramBuilder) Shr(a, b any) *Var { return pb.shift(">>", a, b) }

// shift builds a shift. The shift amount is unsigned with the shape of the
// shifted value.
func (pb *ProgramBuilder) shift(op string, a, b any) *Var {
	pb.needBitwise(op)
	x := valueOf(a, nil)
	p, ok := types.IsPrimitive(x.Type())
	if !ok || !p.Scalar().IsInteger() || p.IsMatrix() {
		bail(types.ErrType, "cannot shift %s", x.Type().TypeName(types.WebGPU))
	}
	amount := types.Prim(withScalar(p, types.ScalarU32))
	var n ast.Expr
	if ast.IsLiteral(b) {
		n = coerce(b, types.Uint)
		if p.IsVector() {
			n = ast.NewConstructor(amount, []ast.Expr{n})
		}
	} else {
		n = coerce(b, amount)
	}
	return exprVar(ast.NewBinary(op, x, n, x.Type()))
}

// BitNot returns the bitwise complement of a.
func (pb *ProgramBuilder) BitNot(a any) *Var {
	pb.needBitwise("~")
	x := valueOf(a, nil)
	p, ok := types.IsPrimitive(x.Type())
	if !ok || !p.Scalar().IsInteger() || p.IsMatrix() {
		bail(types.ErrType, "cannot complement %s", x.Type().TypeName(types.WebGPU))
	}
	return exprVar(ast.NewUnary("~", x, x.Type()))
}

func withScalar(p types.Primitive, s types.Scalar) types.Primitive {
	return types.MakePrimitive(s, p.Rows(), p.Cols(), false)
}

// pureCall calls a builtin without side effects. It is not emitted as a
// statement when its result goes unused.
func pureCall(name string, ret types.Type, args ...ast.Expr) *Var {
	return exprVar(ast.NewCall(name, true, pureSig(name, ret, args), args))
}
