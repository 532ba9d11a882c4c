// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// needCompute aborts unless a compute stage is being built.
func (pb *ProgramBuilder) needCompute(what string) *stageState {
	st := pb.active()
	if st.ctx.Stage != ast.StageCompute {
		bail(types.ErrStructural, "%s outside a compute shader", what)
	}
	return st
}

// WorkgroupSize sets the compute workgroup size. Missing dimensions are 1.
func (pb *ProgramBuilder) WorkgroupSize(size ...int) {
	st := pb.needCompute("WorkgroupSize")
	if len(size) == 0 || len(size) > 3 {
		bail(types.ErrStructural, "workgroup size takes 1 to 3 dimensions, got %d", len(size))
	}
	wg := [3]int{1, 1, 1}
	for i, n := range size {
		if n < 1 {
			bail(types.ErrStructural, "workgroup size dimension %d must be positive, got %d", i, n)
		}
		wg[i] = n
	}
	st.ctx.WorkgroupSize = wg
}

func (pb *ProgramBuilder) barrier(name string) {
	pb.needCompute(name)
	pb.needFunction(name)
	pb.emitCall(name, true, types.NewFunctionType(name, types.Void), nil)
}

// WorkgroupBarrier synchronizes workgroup memory across the workgroup.
func (pb *ProgramBuilder) WorkgroupBarrier() { pb.barrier("workgroupBarrier") }

// StorageBarrier synchronizes storage memory across the workgroup.
func (pb *ProgramBuilder) StorageBarrier() { pb.barrier("storageBarrier") }

// atomicRef returns a pointer to the atomic referenced by x.
func (pb *ProgramBuilder) atomicRef(fn string, x *Var) (ast.Expr, *types.AtomicType) {
	if pb.target != types.WebGPU {
		bail(types.ErrCapability, "%s is not supported by %s", fn, pb.target)
	}
	ref := x.value()
	at, ok := ref.Type().(*types.AtomicType)
	if !ok {
		bail(types.ErrType, "%s expects an atomic, got %s", fn, ref.Type().TypeName(types.WebGPU))
	}
	if !ref.IsReference() {
		bail(types.ErrType, "%s expects an atomic variable", fn)
	}
	switch ref.AddressSpace() {
	case types.SpaceStorage, types.SpaceWorkgroup:
	default:
		bail(types.ErrType, "%s expects an atomic in storage or workgroup memory", fn)
	}
	return ref, at
}

// atomicCall calls an atomic builtin. Storage atomics always need a
// read_write binding, loads included.
func (pb *ProgramBuilder) atomicCall(fn string, x *Var, args ...any) *Var {
	ref, at := pb.atomicRef(fn, x)
	elem := types.Prim(at.Primitive())
	check(ref.MarkWritable())
	exprs := []ast.Expr{ast.NewAddressOf(ref)}
	params := []types.Param{{Name: "atomic", Type: exprs[0].Type(), ByRef: true}}
	for i, a := range args {
		e := coerce(a, elem)
		exprs = append(exprs, e)
		params = append(params, types.Param{Name: string(rune('v' + i)), Type: elem})
	}
	ret := types.Type(elem)
	if fn == "atomicStore" {
		ret = types.Void
	}
	return pb.emitCall(fn, true, types.NewFunctionType(fn, ret, params...), exprs)
}

// AtomicLoad atomically reads an atomic.
func (pb *ProgramBuilder) AtomicLoad(x *Var) *Var { return pb.atomicCall("atomicLoad", x) }

// AtomicStore atomically writes an atomic.
func (pb *ProgramBuilder) AtomicStore(x *Var, v any) { pb.atomicCall("atomicStore", x, v) }

// AtomicAdd adds v and returns the previous value.
func (pb *ProgramBuilder) AtomicAdd(x *Var, v any) *Var { return pb.atomicCall("atomicAdd", x, v) }

// AtomicSub subtracts v and returns the previous value.
func (pb *ProgramBuilder) AtomicSub(x *Var, v any) *Var { return pb.atomicCall("atomicSub", x, v) }

// AtomicMax stores the maximum and returns the previous value.
func (pb *ProgramBuilder) AtomicMax(x *Var, v any) *Var { return pb.atomicCall("atomicMax", x, v) }

// AtomicMin stores the minimum and returns the previous value.
func (pb *ProgramBuilder) AtomicMin(x *Var, v any) *Var { return pb.atomicCall("atomicMin", x, v) }

func (pb *ProgramBuilder) AtomicAnd(x *Var, v any) *Var { return pb.atomicCall("atomicAnd", x, v) }
func (pb *ProgramBuilder) AtomicOr(x *Var, v any) *Var  { return pb.atomicCall("atomicOr", x, v) }
func (pb *ProgramBuilder) AtomicXor(x *Var, v any) *Var { return pb.atomicCall("atomicXor", x, v) }

// AtomicExchange stores v and returns the previous value.
func (pb *ProgramBuilder) AtomicExchange(x *Var, v any) *Var {
	return pb.atomicCall("atomicExchange", x, v)
}

// ArrayLength returns the element count of a runtime-sized array in a
// storage buffer.
func (pb *ProgramBuilder) ArrayLength(x *Var) *Var {
	if pb.target != types.WebGPU {
		bail(types.ErrCapability, "arrayLength is not supported by %s", pb.target)
	}
	ref := x.value()
	arr, ok := ref.Type().(*types.ArrayType)
	if !ok || !arr.IsRuntimeSized() || ref.AddressSpace() != types.SpaceStorage {
		bail(types.ErrType, "arrayLength expects a runtime-sized storage array")
	}
	p := ast.NewAddressOf(ref)
	return pureCall("arrayLength", types.Uint, p)
}
