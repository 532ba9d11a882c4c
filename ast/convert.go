// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/gogpu/shaderdsl/types"
)

// NewLiteral creates a numeric or bool literal of primitive scalar type t.
// Numeric values must be representable in t.
func NewLiteral(t *types.PrimitiveType, value any) (*Literal, error) {
	p := t.Primitive()
	if !p.IsScalar() {
		return nil, types.Errorf(types.ErrType, "literal of non-scalar type %s", p)
	}
	if b, ok := value.(bool); ok {
		if p.Scalar() != types.ScalarBool {
			return nil, types.Errorf(types.ErrType, "bool literal cannot initialize %s", p)
		}
		return NewBoolLiteral(b), nil
	}
	n, ok := Number(value)
	if !ok {
		return nil, types.Errorf(types.ErrType, "value %v (%T) is not a literal", value, value)
	}
	if err := checkRange(p.Scalar(), n); err != nil {
		return nil, err
	}
	return &Literal{Prim: t, Num: n}, nil
}

// Number converts a Go numeric value to float64.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// IsLiteral reports whether a raw DSL argument is a Go literal value.
func IsLiteral(value any) bool {
	if _, ok := value.(bool); ok {
		return true
	}
	_, ok := Number(value)
	return ok
}

func checkRange(s types.Scalar, n float64) error {
	var err error
	switch s {
	case types.ScalarF32:
		if math.IsNaN(n) || math.IsInf(float64(float32(n)), 0) {
			err = safecast.ErrOutOfRange
		}
	case types.ScalarI32:
		_, err = safecast.Convert[int32](n)
	case types.ScalarU32:
		_, err = safecast.Convert[uint32](n)
	default:
		return types.Errorf(types.ErrType, "numeric literal cannot initialize %s", s)
	}
	if err != nil {
		return types.Errorf(types.ErrType, "literal %v is %v for %s", n, err, s)
	}
	return nil
}

// FormatNumber renders a literal value of kind s. Floats always carry a
// decimal point or exponent, unsigned integers carry a "u" suffix.
func FormatNumber(s types.Scalar, n float64) string {
	switch s {
	case types.ScalarI32:
		return strconv.FormatInt(int64(n), 10)
	case types.ScalarU32:
		return strconv.FormatUint(uint64(n), 10) + "u"
	}
	str := strconv.FormatFloat(n, 'g', -1, 32)
	if !strings.ContainsAny(str, ".eEn") {
		str += ".0"
	}
	return str
}

// ConvertArgs matches raw DSL arguments against fn's parameters. Go
// literals bind only to by-value scalar parameters whose kind can hold
// them; typed arguments must have exactly the parameter type. By-reference
// parameters take references, which are wrapped in an address-of, or
// pointers to the parameter type. A pointer passed by value is
// dereferenced. It returns nil and false when fn does not match.
func ConvertArgs(args []any, fn *types.FunctionType) ([]Expr, bool) {
	if len(args) != len(fn.Params) {
		return nil, false
	}
	out := make([]Expr, len(args))
	for i, a := range args {
		p := fn.Params[i]
		e, ok := convertArg(a, p)
		if !ok {
			return nil, false
		}
		out[i] = e
	}
	return out, true
}

func convertArg(a any, p types.Param) (Expr, bool) {
	if IsLiteral(a) {
		if p.ByRef {
			return nil, false
		}
		pt, ok := p.Type.(*types.PrimitiveType)
		if !ok {
			return nil, false
		}
		lit, err := NewLiteral(pt, a)
		if err != nil {
			return nil, false
		}
		return lit, true
	}
	e, ok := a.(Expr)
	if !ok {
		return nil, false
	}
	ptr, isPtr := e.Type().(*types.PointerType)
	if p.ByRef {
		switch {
		case isPtr && types.Equal(ptr.Pointee, p.Type):
			return e, true
		case e.IsReference() && types.Equal(e.Type(), p.Type):
			return NewAddressOf(e), true
		}
		return nil, false
	}
	switch {
	case types.Equal(e.Type(), p.Type):
		return e, true
	case isPtr && types.Equal(ptr.Pointee, p.Type):
		return NewDeref(e), true
	}
	return nil, false
}

// ResolveOverload returns the first overload that accepts args, in
// declaration order, together with the converted arguments.
func ResolveOverload(name string, args []any, overloads []*types.FunctionType) (*types.FunctionType, []Expr, error) {
	for _, fn := range overloads {
		if conv, ok := ConvertArgs(args, fn); ok {
			return fn, conv, nil
		}
	}
	return nil, nil, types.Errorf(types.ErrStructural, "no matching overload for %s(%s)", name, describeArgs(args))
}

func describeArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if e, ok := a.(Expr); ok {
			parts[i] = e.Type().TypeName(types.WebGPU)
			continue
		}
		parts[i] = fmt.Sprintf("%v", a)
	}
	return strings.Join(parts, ", ")
}
