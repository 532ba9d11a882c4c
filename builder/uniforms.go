// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

type resourceKind int

const (
	resMember resourceKind = iota
	resBuffer
	resStorage
	resTexture
	resStorageTexture
	resSampler
	resBlock
)

func (k resourceKind) String() string {
	switch k {
	case resMember:
		return "uniform"
	case resBuffer:
		return "uniform buffer"
	case resStorage:
		return "storage buffer"
	case resTexture:
		return "texture"
	case resStorageTexture:
		return "storage texture"
	case resSampler:
		return "sampler"
	case resBlock:
		return "uniform block"
	}
	return fmt.Sprintf("resourceKind(%d)", int(k))
}

// resource is a program-wide binding shared by the stages that declare it.
type resource struct {
	name   string
	group  int
	kind   resourceKind
	typ    types.Type
	stages uint32
	vars   map[ast.Stage]*ast.Variable

	unfilterable bool

	// Textures: automatic sampler names and the kind of the plain one.
	sampler     string
	comparison  string
	samplerKind gputypes.SamplerBindingType
	kindSet     bool
	plainDepth  bool
	compareUsed bool

	// Blocks: merged members in declaration order.
	members []*resource

	binding int
}

type resourceTable struct {
	list   []*resource
	byName map[string]*resource
}

func newResourceTable() *resourceTable {
	return &resourceTable{byName: map[string]*resource{}}
}

// insertAfter places r right after prev, or at the end when prev is nil.
func (t *resourceTable) insertAfter(prev, r *resource) {
	t.byName[r.name] = r
	for i, x := range t.list {
		if x == prev {
			t.list = append(t.list[:i+1], append([]*resource{r}, t.list[i+1:]...)...)
			return
		}
	}
	t.list = append(t.list, r)
}

func (pb *ProgramBuilder) resourceKindOf(name string, x *Var) resourceKind {
	d := x.decl
	if tex, ok := x.typ.(*types.TextureType); ok {
		switch {
		case tex.IsStorage() && d.kind == ast.DeclStorage:
			return resStorageTexture
		case !tex.IsStorage() && d.kind == ast.DeclUniform:
			return resTexture
		}
		bail(types.ErrStructural, "%s %s has the wrong resource kind", x.typ.TypeName(types.WebGPU), name)
	}
	if _, ok := x.typ.(*types.SamplerType); ok {
		if d.kind != ast.DeclUniform {
			bail(types.ErrStructural, "sampler %s must be a uniform", name)
		}
		return resSampler
	}
	switch {
	case d.kind == ast.DeclStorage:
		return resStorage
	case d.buffer:
		return resBuffer
	}
	return resMember
}

// declareResource declares a uniform or storage resource in the active
// stage. Stages declaring the same name share one binding.
func (pb *ProgramBuilder) declareResource(name string, x *Var) *ast.Variable {
	st := pb.active()
	d := x.decl
	if d.group < 0 {
		bail(types.ErrStructural, "resource %s has negative group %d", name, d.group)
	}
	kind := pb.resourceKindOf(name, x)
	switch kind {
	case resStorage, resStorageTexture:
		if pb.target != types.WebGPU {
			bail(types.ErrCapability, "storage resource %s is not supported by %s", name, pb.target)
		}
	case resMember, resBuffer:
		if !types.IsHostShareable(x.typ) {
			bail(types.ErrType, "uniform %s has type %s which cannot live in a buffer", name, x.typ.TypeName(types.WebGPU))
		}
		if arr, ok := x.typ.(*types.ArrayType); ok && arr.IsRuntimeSized() {
			bail(types.ErrType, "runtime-sized array %s must be a storage buffer", name)
		}
	}
	if kind == resStorage {
		if _, ok := x.typ.(*types.AtomicType); !ok && !types.IsHostShareable(x.typ) {
			bail(types.ErrType, "storage %s has type %s which cannot live in a buffer", name, x.typ.TypeName(types.WebGPU))
		}
	}

	res, ok := pb.resources.byName[name]
	switch {
	case !ok:
		res = &resource{name: name, group: d.group, kind: kind, typ: x.typ, vars: map[ast.Stage]*ast.Variable{}}
		pb.resources.insertAfter(nil, res)
	case res.kind != kind || res.group != d.group || !types.Equal(res.typ, x.typ):
		bail(types.ErrStructural, "resource %s is redeclared as %s %s in group %d, was %s %s in group %d",
			name, kind, x.typ.TypeName(types.WebGPU), d.group, res.kind, res.typ.TypeName(types.WebGPU), res.group)
	case res.vars[st.ctx.Stage] != nil:
		bail(types.ErrStructural, "resource %s is already declared in this stage", name)
	}
	if d.unfilterable {
		res.unfilterable = true
	}

	pb.ensureType(x.typ)
	v := ast.NewVariable(name, x.typ, d.kind)
	v.Group = d.group
	v.Precision = d.precision
	v.Buffer = kind == resBuffer
	v.Unfilterable = res.unfilterable
	v.Global = true
	v.Space = types.SpaceUniform
	if kind == resStorage || kind == resStorageTexture {
		v.Space = types.SpaceStorage
	}
	res.vars[st.ctx.Stage] = v
	res.stages |= stageBit(st.ctx.Stage)
	pb.emit(ast.NewVarDecl(v, nil))
	if kind == resTexture {
		pb.declareSamplers(res)
	}
	return v
}

// resourceOf returns the resource behind a declared variable.
func (pb *ProgramBuilder) resourceOf(fn string, x *Var) *resource {
	if x.v != nil {
		if res, ok := pb.resources.byName[x.v.Name]; ok && res.vars[pb.active().ctx.Stage] == x.v {
			return res
		}
	}
	bail(types.ErrStructural, "%s expects a declared resource", fn)
	return nil
}

// mergeUniforms packs the plain uniforms of each group into one struct
// per combination of stages using them.
func (pb *ProgramBuilder) mergeUniforms() {
	if !pb.opts.MergeUniforms {
		return
	}
	layout := types.LayoutStd140
	if pb.target == types.WebGL {
		layout = types.LayoutDefault
	}
	blocks := map[string]*resource{}
	var list []*resource
	for _, res := range pb.resources.list {
		if res.kind != resMember {
			list = append(list, res)
			continue
		}
		key := fmt.Sprintf("%d_%s", res.group, stageSuffix(res.stages))
		b, ok := blocks[key]
		if !ok {
			b = &resource{
				name:   "zUniforms_g" + key,
				group:  res.group,
				kind:   resBlock,
				stages: res.stages,
				vars:   map[ast.Stage]*ast.Variable{},
			}
			blocks[key] = b
			list = append(list, b)
		}
		b.members = append(b.members, res)
	}
	for _, b := range list {
		if b.kind != resBlock {
			continue
		}
		fields := make([]types.Field, len(b.members))
		for i, m := range b.members {
			fields[i] = types.Field{Name: m.name, Type: m.typ}
		}
		st, err := types.NewStructType("zUniformStruct_g"+b.name[len("zUniforms_g"):], layout, fields...)
		check(err)
		b.typ = st
		for _, stage := range pb.stages {
			if b.stages&stageBit(stage.ctx.Stage) == 0 {
				continue
			}
			pb.declareBlock(stage, b)
		}
		pb.resources.byName[b.name] = b
	}
	pb.resources.list = list
	pb.logger().Debug("shaderdsl: uniforms merged", "blocks", len(blocks))
}

// declareBlock declares the merged struct and its instance in one stage
// and points the member variables at it.
func (pb *ProgramBuilder) declareBlock(stage *stageState, b *resource) {
	st := b.typ.(*types.StructType)
	inst := ast.NewVariable(b.name, st, ast.DeclUniform)
	inst.Group = b.group
	inst.Buffer = true
	inst.Global, inst.Space = true, types.SpaceUniform
	b.vars[stage.ctx.Stage] = inst

	registered, _, err := stage.registry.RegisterStruct(st)
	check(err)
	stage.declared[registered.Name] = true
	stage.ctx.Structs = append(stage.ctx.Structs, registered)
	stage.insertGlobal(stage.firstFunc(), &ast.StructDecl{Type: registered}, ast.NewVarDecl(inst, nil))
	for _, m := range b.members {
		if v := m.vars[stage.ctx.Stage]; v != nil {
			v.Block = inst
		}
	}
}

func stageSuffix(stages uint32) string {
	switch stages {
	case 1:
		return "v"
	case 2:
		return "f"
	case 3:
		return "vf"
	}
	return "c"
}

// assignBindings numbers the resources of each group in declaration order
// and applies the GLSL depth texture overrides.
func (pb *ProgramBuilder) assignBindings() {
	next := map[int]int{}
	for _, res := range pb.resources.list {
		res.binding = next[res.group]
		next[res.group]++
		for _, v := range res.vars {
			v.Group, v.Binding = res.group, res.binding
		}
		if res.kind == resTexture && res.plainDepth && pb.target != types.WebGPU {
			tex := res.typ.(*types.TextureType)
			plain := *tex
			plain.Flags &^= types.TexDepth
			for _, st := range pb.stages {
				if v := res.vars[st.ctx.Stage]; v != nil {
					st.ctx.TypeOverride[v] = &plain
				}
			}
		}
	}
}
