// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ast

import "github.com/gogpu/shaderdsl/types"

// Builtin describes a compiler-supplied per-invocation variable.
type Builtin struct {
	// Name is the DSL name and the WGSL entry struct field name.
	Name   string
	Stage  Stage
	Output bool

	// WGSL is the @builtin attribute value; empty when unsupported.
	WGSL string
	// GLSL100 and GLSL300 are the GLSL names; empty when unsupported.
	GLSL100 string
	GLSL300 string
	// Extension100 is the GLSL ES 1.00 extension the builtin requires.
	Extension100 string

	wgslType types.Type
	glslType types.Type
}

// Type returns the builtin's type on target.
func (b *Builtin) Type(target types.Target) types.Type {
	if target == types.WebGPU || b.glslType == nil {
		return b.wgslType
	}
	return b.glslType
}

// GLSLName returns the GLSL spelling on target, or "" when unsupported.
func (b *Builtin) GLSLName(target types.Target) string {
	if target == types.WebGL {
		return b.GLSL100
	}
	return b.GLSL300
}

// Supported reports whether the builtin exists on target.
func (b *Builtin) Supported(target types.Target) bool {
	if target == types.WebGPU {
		return b.WGSL != ""
	}
	return b.GLSLName(target) != ""
}

var builtins = []*Builtin{
	{Name: "vertexIndex", Stage: StageVertex, WGSL: "vertex_index", GLSL300: "gl_VertexID", wgslType: types.Uint, glslType: types.Int},
	{Name: "instanceIndex", Stage: StageVertex, WGSL: "instance_index", GLSL300: "gl_InstanceID", wgslType: types.Uint, glslType: types.Int},
	{Name: "position", Stage: StageVertex, Output: true, WGSL: "position", GLSL100: "gl_Position", GLSL300: "gl_Position", wgslType: types.Vec4},
	{Name: "pointSize", Stage: StageVertex, Output: true, GLSL100: "gl_PointSize", GLSL300: "gl_PointSize", wgslType: types.Float},

	{Name: "fragCoord", Stage: StageFragment, WGSL: "position", GLSL100: "gl_FragCoord", GLSL300: "gl_FragCoord", wgslType: types.Vec4},
	{Name: "frontFacing", Stage: StageFragment, WGSL: "front_facing", GLSL100: "gl_FrontFacing", GLSL300: "gl_FrontFacing", wgslType: types.Bool},
	{Name: "sampleIndex", Stage: StageFragment, WGSL: "sample_index", wgslType: types.Uint},
	{Name: "sampleMaskIn", Stage: StageFragment, WGSL: "sample_mask", wgslType: types.Uint},
	{Name: "fragDepth", Stage: StageFragment, Output: true, WGSL: "frag_depth", GLSL100: "gl_FragDepthEXT", GLSL300: "gl_FragDepth", Extension100: "GL_EXT_frag_depth", wgslType: types.Float},
	{Name: "sampleMask", Stage: StageFragment, Output: true, WGSL: "sample_mask", wgslType: types.Uint},

	{Name: "localInvocationId", Stage: StageCompute, WGSL: "local_invocation_id", wgslType: types.UVec3},
	{Name: "localInvocationIndex", Stage: StageCompute, WGSL: "local_invocation_index", wgslType: types.Uint},
	{Name: "globalInvocationId", Stage: StageCompute, WGSL: "global_invocation_id", wgslType: types.UVec3},
	{Name: "workGroupId", Stage: StageCompute, WGSL: "workgroup_id", wgslType: types.UVec3},
	{Name: "numWorkGroups", Stage: StageCompute, WGSL: "num_workgroups", wgslType: types.UVec3},
}

// LookupBuiltin finds a builtin variable of stage by DSL name.
func LookupBuiltin(stage Stage, name string) (*Builtin, bool) {
	for _, b := range builtins {
		if b.Stage == stage && b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// Builtins returns the builtin variables of stage in declaration order.
func Builtins(stage Stage) []*Builtin {
	var out []*Builtin
	for _, b := range builtins {
		if b.Stage == stage {
			out = append(out, b)
		}
	}
	return out
}
