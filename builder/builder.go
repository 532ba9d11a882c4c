// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"log/slog"

	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/glsl"
	"github.com/gogpu/shaderdsl/types"
	"github.com/gogpu/shaderdsl/wgsl"
)

// ProgramBuilder builds shader programs for one target. A builder is not
// safe for concurrent use and a build cannot be started from inside
// another build.
type ProgramBuilder struct {
	target types.Target
	opts   Options

	building bool
	lastErr  string

	stage      *stageState
	stages     []*stageState
	scopes     []*Scope
	resources  *resourceTable
	attributes []VertexAttribute
	reflection *Reflection
}

// New returns a builder for target.
func New(target types.Target, opts ...Option) *ProgramBuilder {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	pb := &ProgramBuilder{target: target, opts: o}
	pb.reflection = &Reflection{pb: pb}
	return pb
}

// Target returns the target the builder emits.
func (pb *ProgramBuilder) Target() types.Target { return pb.target }

// LastError returns the message of the most recent failed build, or ""
// when the last build succeeded.
func (pb *ProgramBuilder) LastError() string { return pb.lastErr }

// Reflection returns the tag registry of the active stage.
func (pb *ProgramBuilder) Reflection() *Reflection { return pb.reflection }

func (pb *ProgramBuilder) logger() *slog.Logger {
	if pb.opts.Logger != nil {
		return pb.opts.Logger
	}
	return Logger()
}

// RenderProgram is a built vertex and fragment shader pair.
type RenderProgram struct {
	Target           types.Target      `json:"target" msgpack:"target" cbor:"target"`
	VertexSource     string            `json:"vertexSource" msgpack:"vertexSource" cbor:"vertexSource"`
	FragmentSource   string            `json:"fragmentSource" msgpack:"fragmentSource" cbor:"fragmentSource"`
	BindGroupLayouts []BindGroupLayout `json:"bindGroupLayouts" msgpack:"bindGroupLayouts" cbor:"bindGroupLayouts"`
	VertexAttributes []VertexAttribute `json:"vertexAttributes" msgpack:"vertexAttributes" cbor:"vertexAttributes"`
	// Extensions lists the GLSL extensions enabled by either stage.
	Extensions []string `json:"extensions,omitempty" msgpack:"extensions,omitempty" cbor:"extensions,omitempty"`
}

// ComputeProgram is a built compute shader.
type ComputeProgram struct {
	Target           types.Target      `json:"target" msgpack:"target" cbor:"target"`
	Source           string            `json:"source" msgpack:"source" cbor:"source"`
	BindGroupLayouts []BindGroupLayout `json:"bindGroupLayouts" msgpack:"bindGroupLayouts" cbor:"bindGroupLayouts"`
	WorkgroupSize    [3]int            `json:"workgroupSize" msgpack:"workgroupSize" cbor:"workgroupSize"`
}

// BuildRender builds a render program from a vertex and a fragment stage
// callback. Each callback runs against the module scope of its stage and
// must define the entry point with Main. On failure the program is nil,
// the returned error is a *BuildError and LastError holds its message.
func (pb *ProgramBuilder) BuildRender(vs, fs func(*Scope)) (prog *RenderProgram, err error) {
	if err := pb.begin(); err != nil {
		return nil, err
	}
	defer pb.end()
	defer pb.recoverBuild(&err)

	vertex := pb.runStage(ast.StageVertex, vs)
	fragment := pb.runStage(ast.StageFragment, fs)
	pb.mergeUniforms()
	pb.assignBindings()

	p := &RenderProgram{Target: pb.target, VertexAttributes: pb.attributes}
	var extV, extF []string
	pb.stage = vertex
	p.VertexSource, extV = pb.render(vertex)
	pb.stage = fragment
	p.FragmentSource, extF = pb.render(fragment)
	p.Extensions = mergeNames(extV, extF)
	p.BindGroupLayouts = pb.bindGroupLayouts()

	pb.logger().Debug("shaderdsl: render program built",
		"target", pb.target.String(),
		"vertexBytes", len(p.VertexSource),
		"fragmentBytes", len(p.FragmentSource),
		"bindGroups", len(p.BindGroupLayouts),
		"attributes", len(p.VertexAttributes))
	return p, nil
}

// BuildCompute builds a compute program. Compute shaders require WebGPU.
func (pb *ProgramBuilder) BuildCompute(cs func(*Scope)) (prog *ComputeProgram, err error) {
	if err := pb.begin(); err != nil {
		return nil, err
	}
	defer pb.end()
	defer pb.recoverBuild(&err)

	if pb.target != types.WebGPU {
		bail(types.ErrCapability, "compute shaders are not supported by %s", pb.target)
	}
	compute := pb.runStage(ast.StageCompute, cs)
	pb.mergeUniforms()
	pb.assignBindings()

	p := &ComputeProgram{Target: pb.target, WorkgroupSize: compute.ctx.WorkgroupSize}
	p.Source, _ = pb.render(compute)
	p.BindGroupLayouts = pb.bindGroupLayouts()

	pb.logger().Debug("shaderdsl: compute program built",
		"target", pb.target.String(),
		"bytes", len(p.Source),
		"bindGroups", len(p.BindGroupLayouts))
	return p, nil
}

func (pb *ProgramBuilder) begin() error {
	if pb.building {
		return &BuildError{Target: pb.target, Err: types.NewError(types.ErrInternal, "builder is already building a program")}
	}
	pb.building = true
	pb.lastErr = ""
	pb.stage = nil
	pb.stages = nil
	pb.scopes = nil
	pb.resources = newResourceTable()
	pb.attributes = nil
	return nil
}

func (pb *ProgramBuilder) end() {
	pb.building = false
	pb.scopes = nil
}

// recoverBuild turns a bail-out panic into the build result.
func (pb *ProgramBuilder) recoverBuild(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	te, ok := r.(*types.Error)
	if !ok {
		panic(r)
	}
	be := &BuildError{Target: pb.target, Err: te}
	if pb.stage != nil {
		be.Stage = stageName(pb.stage.ctx.Stage)
	}
	pb.lastErr = be.Error()
	pb.logger().Error("shaderdsl: build failed",
		"target", pb.target.String(),
		"stage", be.Stage,
		"kind", te.Kind.String(),
		"err", te.Message)
	*errp = be
}

// runStage runs one stage callback against a fresh module scope.
func (pb *ProgramBuilder) runStage(stage ast.Stage, build func(*Scope)) *stageState {
	if build == nil {
		bail(types.ErrStructural, "missing %s stage", stage)
	}
	var vertex *stageState
	if stage == ast.StageFragment && len(pb.stages) > 0 {
		vertex = pb.stages[0]
	}
	st := newStageState(pb, stage)
	pb.stage = st
	pb.stages = append(pb.stages, st)
	pb.scopes = []*Scope{st.global}
	if vertex != nil {
		pb.linkVaryings(vertex, st)
	}

	build(st.global)

	if len(pb.scopes) != 1 {
		bail(types.ErrInternal, "unbalanced scopes after %s stage", stage)
	}
	if st.entry == nil {
		bail(types.ErrStructural, "%s shader has no main function", stage)
	}
	for _, loop := range st.doLoops {
		if loop.Cond == nil {
			bail(types.ErrStructural, "do loop without a while condition")
		}
	}
	if stage == ast.StageVertex && pb.target == types.WebGPU {
		if _, ok := st.builtins["position"]; !ok {
			bail(types.ErrStructural, "vertex shader does not write the position builtin")
		}
	}
	return st
}

// render emits the source of one stage.
func (pb *ProgramBuilder) render(st *stageState) (string, []string) {
	if pb.target == types.WebGPU {
		src, err := wgsl.Render(st.ctx)
		check(err)
		return src, nil
	}
	src, info, err := glsl.Render(st.ctx)
	check(err)
	return src, info.UsedExtensions
}

func mergeNames(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, n := range b {
		dup := false
		for _, m := range out {
			if m == n {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, n)
		}
	}
	return out
}

// stageState holds the per-stage build state.
type stageState struct {
	ctx      *ast.Context
	global   *Scope
	registry *types.Registry
	declared map[string]bool

	inputs   map[string]*ast.Variable
	outputs  map[string]*ast.Variable
	builtins map[string]*ast.Variable

	funcs   map[string][]*Function
	names   map[string]bool
	helpers map[string]*Function
	current *ast.FuncDef
	entry   *ast.FuncDef
	doLoops []*ast.DoWhile

	tags map[string]*Var
}

func newStageState(pb *ProgramBuilder, stage ast.Stage) *stageState {
	ctx := ast.NewContext(pb.target, stage)
	ctx.DefaultPrecision = pb.opts.Precision
	st := &stageState{
		ctx:      ctx,
		registry: types.NewRegistry(),
		declared: map[string]bool{},
		inputs:   map[string]*ast.Variable{},
		outputs:  map[string]*ast.Variable{},
		builtins: map[string]*ast.Variable{},
		funcs:    map[string][]*Function{},
		names:    map[string]bool{"main": true},
		helpers:  map[string]*Function{},
		tags:     map[string]*Var{},
	}
	st.global = newScope(pb, scopeModule, nil, ctx.Global)
	for _, hidden := range hiddenStructs {
		if _, _, err := st.registry.RegisterStruct(hidden); err != nil {
			panic(err)
		}
	}
	return st
}

// firstFunc returns the index of the first function definition in the
// module scope, or its length.
func (st *stageState) firstFunc() int {
	for i, s := range st.ctx.Global.Stmts {
		if _, ok := s.(*ast.FuncDef); ok {
			return i
		}
	}
	return len(st.ctx.Global.Stmts)
}

// insertGlobal inserts module-scope statements at index i.
func (st *stageState) insertGlobal(i int, stmts ...ast.Stmt) {
	g := st.ctx.Global
	tail := append([]ast.Stmt(nil), g.Stmts[i:]...)
	g.Stmts = append(append(g.Stmts[:i], stmts...), tail...)
}

// indexOf returns the index of a module-scope statement, or -1.
func (st *stageState) indexOf(s ast.Stmt) int {
	for i, g := range st.ctx.Global.Stmts {
		if g == s {
			return i
		}
	}
	return -1
}

func stageBit(s ast.Stage) uint32 {
	switch s {
	case ast.StageVertex:
		return 1
	case ast.StageFragment:
		return 2
	default:
		return 4
	}
}

// active returns the stage state or aborts when no build is running.
func (pb *ProgramBuilder) active() *stageState {
	if !pb.building || pb.stage == nil || len(pb.scopes) == 0 {
		bail(types.ErrInternal, "no program is being built")
	}
	return pb.stage
}

// top returns the innermost active scope.
func (pb *ProgramBuilder) top() *Scope {
	pb.active()
	return pb.scopes[len(pb.scopes)-1]
}

// emit appends a statement to the innermost scope.
func (pb *ProgramBuilder) emit(s ast.Stmt) {
	pb.top().block.Append(s)
}

// withScope runs body in a new child scope.
func (pb *ProgramBuilder) withScope(kind scopeKind, block *ast.Block, body func(*Scope)) *Scope {
	s := newScope(pb, kind, pb.top(), block)
	pb.scopes = append(pb.scopes, s)
	if body != nil {
		body(s)
	}
	if pb.top() != s {
		bail(types.ErrInternal, "scope stack corrupted")
	}
	pb.scopes = pb.scopes[:len(pb.scopes)-1]
	return s
}

// needModule aborts unless the innermost scope is the module scope.
func (pb *ProgramBuilder) needModule(what string) {
	if pb.top().kind != scopeModule {
		bail(types.ErrStructural, "%s must be declared at module scope", what)
	}
}
