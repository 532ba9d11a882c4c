// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"testing"

	"github.com/gogpu/shaderdsl/types"
)

// evalFragment runs expr inside a fragment entry point with unmerged vec4,
// vec3, mat4 and int uniforms in scope. It returns the result type and the
// fragment source.
func evalFragment(target types.Target, expr func(pb *ProgramBuilder, u map[string]*Var) *Var) (types.Type, string, error) {
	var typ types.Type
	fs := func(s *Scope) {
		pb := s.Builder()
		u := map[string]*Var{
			"v4": s.Declare("v4", pb.Vec4().Uniform(0)),
			"v3": s.Declare("v3", pb.Vec3().Uniform(0)),
			"m4": s.Declare("m4", pb.Mat4().Uniform(0)),
			"i":  s.Declare("i", pb.Int().Uniform(0)),
		}
		pb.Main(func(m *Scope) {
			r := expr(pb, u)
			typ = r.Type()
			m.Declare("result", r)
			m.Outputs().Set("color", u["v4"])
		})
	}
	prog, err := New(target, WithUniformMerge(false)).BuildRender(fullscreenVS, fs)
	if err != nil {
		return nil, "", err
	}
	return typ, prog.FragmentSource, nil
}

func TestOperatorTypes(t *testing.T) {
	tests := []struct {
		name string
		expr func(pb *ProgramBuilder, u map[string]*Var) *Var
		want types.Type
	}{
		{"vec+vec", func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Add(u["v4"], u["v4"]) }, types.Vec4},
		{"vec*literal", func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Mul(u["v3"], 2.0) }, types.Vec3},
		{"literal-vec", func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Sub(1.0, u["v3"]) }, types.Vec3},
		{"mat*vec", func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Mul(u["m4"], u["v4"]) }, types.Vec4},
		{"vec*mat", func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Mul(u["v4"], u["m4"]) }, types.Vec4},
		{"mat*mat", func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Mul(u["m4"], u["m4"]) }, types.Mat4},
		{"mat*scalar", func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Mul(u["m4"], 0.5) }, types.Mat4},
		{"int/literal", func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Div(u["i"], 2) }, types.Int},
		{"int%literal", func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Mod(u["i"], 3) }, types.Int},
		{"float mod", func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Mod(u["v3"], u["v3"]) }, types.Vec3},
		{"negate", func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Neg(u["v4"]) }, types.Vec4},
		{"scalar compare", func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.LessThan(u["i"], 4) }, types.Bool},
		{"vector compare", func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.GreaterThan(u["v3"], u["v3"]) }, types.BVec3},
		{"logical", func(pb *ProgramBuilder, u map[string]*Var) *Var {
			return pb.And(pb.LessThan(u["i"], 4), pb.Not(pb.Equal(u["i"], 0)))
		}, types.Bool},
		{"swizzle", func(pb *ProgramBuilder, u map[string]*Var) *Var { return u["v4"].Field("zyx") }, types.Vec3},
		{"matrix column", func(pb *ProgramBuilder, u map[string]*Var) *Var { return u["m4"].At(1) }, types.Vec4},
		{"vector element", func(pb *ProgramBuilder, u map[string]*Var) *Var { return u["v3"].At(0) }, types.Float},
	}
	for _, target := range []types.Target{types.WebGL, types.WebGL2, types.WebGPU} {
		for _, tt := range tests {
			t.Run(target.String()+"/"+tt.name, func(t *testing.T) {
				got, src, err := evalFragment(target, tt.expr)
				if err != nil {
					t.Fatalf("build failed: %v", err)
				}
				if !types.Equal(got, tt.want) {
					t.Errorf("type = %s, want %s", got.TypeName(types.WebGPU), tt.want.TypeName(types.WebGPU))
				}
				if src == "" {
					t.Error("empty fragment source")
				}
			})
		}
	}
}

func TestOperatorErrors(t *testing.T) {
	tests := []struct {
		name   string
		target types.Target
		expr   func(pb *ProgramBuilder, u map[string]*Var) *Var
		kind   types.ErrorKind
	}{
		{"vec3+vec4", types.WebGPU, func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Add(u["v3"], u["v4"]) }, types.ErrType},
		{"mat*vec3", types.WebGPU, func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Mul(u["m4"], u["v3"]) }, types.ErrType},
		{"float+int", types.WebGPU, func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Add(u["v4"], u["i"]) }, types.ErrType},
		{"and on floats", types.WebGPU, func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.And(u["v3"], u["v3"]) }, types.ErrType},
		{"bitwise on WebGL", types.WebGL, func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.BitAnd(u["i"], 1) }, types.ErrCapability},
		{"bad swizzle", types.WebGPU, func(pb *ProgramBuilder, u map[string]*Var) *Var { return u["v3"].Field("w") }, types.ErrStructural},
		{"transpose on WebGL", types.WebGL, func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Transpose(u["m4"]) }, types.ErrCapability},
		{"sinh on WebGL", types.WebGL, func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Sinh(u["v3"]) }, types.ErrCapability},
		{"sin of int", types.WebGPU, func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Sin(u["i"]) }, types.ErrType},
		{"unknown builtin", types.WebGPU, func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Call("frobnicate", u["v3"]) }, types.ErrStructural},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := evalFragment(tt.target, tt.expr)
			wantKind(t, err, tt.kind)
		})
	}
}

func TestMathBuiltins(t *testing.T) {
	tests := []struct {
		name string
		expr func(pb *ProgramBuilder, u map[string]*Var) *Var
		want types.Type
		wgsl string
		glsl string
	}{
		{
			name: "normalize",
			expr: func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Normalize(u["v3"]) },
			want: types.Vec3, wgsl: "normalize(v3)", glsl: "normalize(v3)",
		},
		{
			name: "min with scalar",
			expr: func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Min(u["v3"], 1.0) },
			want: types.Vec3, wgsl: "min(v3, vec3<f32>(", glsl: "min(v3, ",
		},
		{
			name: "clamp",
			expr: func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Clamp(u["v4"], 0.0, 1.0) },
			want: types.Vec4, wgsl: "clamp(v4, vec4<f32>(", glsl: "clamp(v4, ",
		},
		{
			name: "mix",
			expr: func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Mix(u["v3"], u["v3"], 0.5) },
			want: types.Vec3, wgsl: "mix(v3, v3, ", glsl: "mix(v3, v3, ",
		},
		{
			name: "inverse sqrt",
			expr: func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.InverseSqrt(u["v3"]) },
			want: types.Vec3, wgsl: "inverseSqrt(v3)", glsl: "inversesqrt(v3)",
		},
		{
			name: "atan2",
			expr: func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Atan2(u["v3"], u["v3"]) },
			want: types.Vec3, wgsl: "atan2(v3, v3)", glsl: "atan(v3, v3)",
		},
		{
			name: "dot",
			expr: func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Dot(u["v3"], u["v3"]) },
			want: types.Float, wgsl: "dot(v3, v3)", glsl: "dot(v3, v3)",
		},
		{
			name: "cross",
			expr: func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Cross(u["v3"], u["v3"]) },
			want: types.Vec3, wgsl: "cross(v3, v3)", glsl: "cross(v3, v3)",
		},
		{
			name: "length",
			expr: func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Length(u["v4"]) },
			want: types.Float, wgsl: "length(v4)", glsl: "length(v4)",
		},
		{
			name: "abs of int",
			expr: func(pb *ProgramBuilder, u map[string]*Var) *Var { return pb.Abs(u["i"]) },
			want: types.Int, wgsl: "abs(i)", glsl: "abs(i)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src, err := evalFragment(types.WebGPU, tt.expr)
			if err != nil {
				t.Fatalf("WebGPU build failed: %v", err)
			}
			if !types.Equal(got, tt.want) {
				t.Errorf("type = %s, want %s", got.TypeName(types.WebGPU), tt.want.TypeName(types.WebGPU))
			}
			mustContain(t, src, tt.wgsl)

			_, src, err = evalFragment(types.WebGL2, tt.expr)
			if err != nil {
				t.Fatalf("WebGL2 build failed: %v", err)
			}
			mustContain(t, src, tt.glsl)
		})
	}
}

func TestSelect(t *testing.T) {
	scalar := func(pb *ProgramBuilder, u map[string]*Var) *Var {
		return pb.Select(u["v3"], u["v3"], pb.LessThan(u["i"], 0))
	}
	vector := func(pb *ProgramBuilder, u map[string]*Var) *Var {
		return pb.Select(u["v3"], u["v3"], pb.LessThan(u["v3"], u["v3"]))
	}

	_, src, err := evalFragment(types.WebGPU, scalar)
	if err != nil {
		t.Fatalf("WebGPU build failed: %v", err)
	}
	mustContain(t, src, "select(v3, v3, ")

	_, src, err = evalFragment(types.WebGL, scalar)
	if err != nil {
		t.Fatalf("WebGL build failed: %v", err)
	}
	mustContain(t, src, " ? ")

	if _, _, err := evalFragment(types.WebGL, vector); err == nil {
		t.Error("component-wise select built on WebGL")
	} else {
		wantKind(t, err, types.ErrCapability)
	}
}
