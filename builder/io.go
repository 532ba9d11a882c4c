// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// VertexAttribute binds a vertex input location to an attribute semantic.
type VertexAttribute struct {
	Name     string                `json:"name" msgpack:"name" cbor:"name"`
	Semantic string                `json:"semantic" msgpack:"semantic" cbor:"semantic"`
	Location int                   `json:"location" msgpack:"location" cbor:"location"`
	Format   gputypes.VertexFormat `json:"format" msgpack:"format" cbor:"format"`
}

// vertexFormats maps shader input types to the matching vertex formats.
var vertexFormats = map[types.Primitive]gputypes.VertexFormat{
	types.PrimF32:   gputypes.VertexFormatFloat32,
	types.PrimVec2:  gputypes.VertexFormatFloat32x2,
	types.PrimVec3:  gputypes.VertexFormatFloat32x3,
	types.PrimVec4:  gputypes.VertexFormatFloat32x4,
	types.PrimI32:   gputypes.VertexFormatSint32,
	types.PrimIVec2: gputypes.VertexFormatSint32x2,
	types.PrimIVec3: gputypes.VertexFormatSint32x3,
	types.PrimIVec4: gputypes.VertexFormatSint32x4,
	types.PrimU32:   gputypes.VertexFormatUint32,
	types.PrimUVec2: gputypes.VertexFormatUint32x2,
	types.PrimUVec3: gputypes.VertexFormatUint32x3,
	types.PrimUVec4: gputypes.VertexFormatUint32x4,
}

// ioPrimitive validates the type of a pipeline input or output.
func (pb *ProgramBuilder) ioPrimitive(name string, t types.Type) types.Primitive {
	p, ok := types.IsPrimitive(t)
	if !ok || p.IsMatrix() || p.Scalar() == types.ScalarBool {
		bail(types.ErrType, "%s: %s cannot be passed between stages", name, t.TypeName(types.WebGPU))
	}
	if p.Scalar().IsInteger() && pb.target == types.WebGL {
		bail(types.ErrCapability, "%s: integer inputs and outputs are not supported by %s", name, pb.target)
	}
	return p
}

// declareInput declares a vertex input bound to an attribute semantic.
func (pb *ProgramBuilder) declareInput(name string, x *Var) *ast.Variable {
	st := pb.active()
	switch st.ctx.Stage {
	case ast.StageFragment:
		bail(types.ErrStructural, "fragment input %s must be written by the vertex shader", name)
	case ast.StageCompute:
		bail(types.ErrStructural, "compute shaders have no inputs; use builtins")
	}
	if x.decl.attrib == "" {
		bail(types.ErrStructural, "vertex input %s needs an attribute semantic", name)
	}
	p := pb.ioPrimitive(name, x.typ)
	for _, a := range pb.attributes {
		if a.Semantic == x.decl.attrib {
			bail(types.ErrStructural, "attribute %s is bound to both %s and %s", a.Semantic, a.Name, name)
		}
	}

	v := ast.NewVariable(name, x.typ, ast.DeclIn)
	v.Location = len(st.ctx.Inputs)
	v.Attribute = x.decl.attrib
	v.Precision = x.decl.precision
	v.Global, v.Space = true, types.SpacePrivate
	st.ctx.Inputs = append(st.ctx.Inputs, v)
	st.inputs[name] = v
	pb.attributes = append(pb.attributes, VertexAttribute{
		Name:     name,
		Semantic: v.Attribute,
		Location: v.Location,
		Format:   vertexFormats[p],
	})
	for _, tag := range x.decl.tags {
		pb.reflection.Tag(tag, &Var{v: v})
	}
	return v
}

// declareOutput declares a stage output at the next free location.
func (pb *ProgramBuilder) declareOutput(name string, t types.Type, d *declTags) *ast.Variable {
	st := pb.active()
	if st.ctx.Stage == ast.StageCompute {
		bail(types.ErrStructural, "compute shaders have no outputs")
	}
	pb.ioPrimitive(name, t)
	if st.ctx.Stage == ast.StageFragment && pb.target == types.WebGL && !types.Equal(t, types.Vec4) {
		bail(types.ErrType, "fragment output %s must be vec4 on %s", name, pb.target)
	}
	v := ast.NewVariable(name, t, ast.DeclOut)
	v.Location = len(st.ctx.Outputs)
	v.Global, v.Space = true, types.SpacePrivate
	if d != nil {
		v.Precision = d.precision
	}
	st.ctx.Outputs = append(st.ctx.Outputs, v)
	st.outputs[name] = v
	if d != nil {
		for _, tag := range d.tags {
			pb.reflection.Tag(tag, &Var{v: v})
		}
	}
	return v
}

// linkVaryings declares a fragment input for every vertex output.
func (pb *ProgramBuilder) linkVaryings(vertex, fragment *stageState) {
	for _, out := range vertex.ctx.Outputs {
		v := ast.NewVariable(out.Name, out.Type, ast.DeclIn)
		v.Location = out.Location
		v.Precision = out.Precision
		v.Global, v.Space = true, types.SpacePrivate
		fragment.ctx.Inputs = append(fragment.ctx.Inputs, v)
		fragment.inputs[v.Name] = v
	}
}

// builtin returns the builtin variable name of the active stage, marking
// it referenced.
func (pb *ProgramBuilder) builtin(name string) *ast.Variable {
	st := pb.active()
	if v, ok := st.builtins[name]; ok {
		return v
	}
	b, ok := ast.LookupBuiltin(st.ctx.Stage, name)
	if !ok {
		bail(types.ErrStructural, "unknown %s builtin %s", st.ctx.Stage, name)
	}
	if !b.Supported(pb.target) {
		bail(types.ErrCapability, "builtin %s is not supported by %s", name, pb.target)
	}
	v := ast.NewVariable(name, b.Type(pb.target), ast.DeclNone)
	v.Builtin = b
	v.Global, v.Space = true, types.SpacePrivate
	st.builtins[name] = v
	st.ctx.Builtins = append(st.ctx.Builtins, v)
	return v
}
