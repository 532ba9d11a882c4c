// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

import "sync"

var ctorCache sync.Map // string -> []*FunctionType

// TargetScalars returns the scalar kinds usable in shader code for target.
func TargetScalars(target Target) []Scalar {
	if target == WebGL {
		return []Scalar{ScalarF32, ScalarI32, ScalarBool}
	}
	return []Scalar{ScalarF32, ScalarI32, ScalarU32, ScalarBool}
}

// ConstructorOverloads enumerates every legal construction signature of t
// for target, in the order overload resolution tries them.
func ConstructorOverloads(t Type, target Target) []*FunctionType {
	key := target.String() + "|" + t.TypeID()
	if cached, ok := ctorCache.Load(key); ok {
		return cached.([]*FunctionType)
	}
	var overloads []*FunctionType
	switch t := t.(type) {
	case *PrimitiveType:
		overloads = primitiveConstructors(t, target)
	case *StructType:
		params := make([]Param, len(t.Members))
		for i, m := range t.Members {
			params[i] = Param{Name: m.Name, Type: m.Type}
		}
		overloads = []*FunctionType{NewFunctionType(t.Name, t, params...)}
	case *ArrayType:
		if t.Dim > 0 {
			params := make([]Param, t.Dim)
			for i := range params {
				params[i] = Param{Type: t.Elem}
			}
			overloads = []*FunctionType{NewFunctionType(t.TypeName(target), t, params...)}
		}
	}
	actual, _ := ctorCache.LoadOrStore(key, overloads)
	return actual.([]*FunctionType)
}

func primitiveConstructors(t *PrimitiveType, target Target) []*FunctionType {
	p := t.prim
	name := t.TypeName(target)
	ctor := func(params ...Type) *FunctionType {
		ps := make([]Param, len(params))
		for i, pt := range params {
			ps[i] = Param{Type: pt}
		}
		return NewFunctionType(name, t, ps...)
	}
	repeat := func(pt Type, n int) []Type {
		out := make([]Type, n)
		for i := range out {
			out[i] = pt
		}
		return out
	}

	overloads := []*FunctionType{ctor(t)}
	if p.IsMatrix() {
		column := Prim(p.Resize(1, p.Cols()))
		overloads = append(overloads,
			ctor(repeat(column, p.Rows())...),
			ctor(repeat(Float, p.Rows()*p.Cols())...))
		return overloads
	}

	for _, s := range TargetScalars(target) {
		if s != p.Scalar() {
			overloads = append(overloads, ctor(Prim(MakePrimitive(s, 1, p.Cols(), false))))
		}
	}
	if p.IsScalar() {
		return overloads
	}

	scalar := Prim(p.ScalarType())
	overloads = append(overloads, ctor(scalar), ctor(repeat(scalar, p.Cols())...))
	for _, parts := range compositions(p.Cols()) {
		params := make([]Type, len(parts))
		for i, n := range parts {
			params[i] = Prim(p.Resize(1, n))
		}
		overloads = append(overloads, ctor(params...))
	}
	return overloads
}

// compositions lists the ordered ways to split n components into parts,
// excluding the single whole part and the all-scalar split.
func compositions(n int) [][]int {
	var out [][]int
	var walk func(rest int, prefix []int)
	walk = func(rest int, prefix []int) {
		if rest == 0 {
			if len(prefix) < 2 {
				return
			}
			for _, v := range prefix {
				if v > 1 {
					out = append(out, append([]int(nil), prefix...))
					return
				}
			}
			return
		}
		for part := rest; part >= 1; part-- {
			if len(prefix) == 0 && part == n {
				continue
			}
			walk(rest-part, append(prefix, part))
		}
	}
	walk(n, nil)
	return out
}
