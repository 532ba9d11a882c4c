// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package samples

import (
	"github.com/gogpu/shaderdsl/builder"
)

func triangleVertex(s *builder.Scope) {
	pb := s.Builder()
	mvp := s.Declare("mvp", pb.Mat4().Uniform(0).Tag("camera"))
	s.Inputs().Set("aPos", pb.Vec3().Attrib("POSITION"))
	s.Inputs().Set("aColor", pb.Vec4().Attrib("COLOR_0"))
	pb.Main(func(m *builder.Scope) {
		in := m.Inputs()
		m.Builtins().Set("position", pb.Mul(mvp, pb.Vec4(in.Get("aPos"), 1.0)))
		m.Outputs().Set("vColor", in.Get("aColor"))
	})
}

func triangleFragment(s *builder.Scope) {
	pb := s.Builder()
	tint := s.Declare("tint", pb.Vec4().Uniform(0).Tag("tint"))
	pb.Main(func(m *builder.Scope) {
		m.Outputs().Set("color", pb.Mul(m.Inputs().Get("vColor"), tint))
	})
}

func texturedVertex(s *builder.Scope) {
	pb := s.Builder()
	s.Inputs().Set("aPos", pb.Vec2().Attrib("POSITION"))
	s.Inputs().Set("aUV", pb.Vec2().Attrib("TEXCOORD_0"))
	pb.Main(func(m *builder.Scope) {
		in := m.Inputs()
		m.Builtins().Set("position", pb.Vec4(in.Get("aPos"), 0.0, 1.0))
		m.Outputs().Set("vUV", in.Get("aUV"))
	})
}

func texturedFragment(s *builder.Scope) {
	pb := s.Builder()
	albedo := s.Declare("albedo", pb.Tex2D().Uniform(0).Tag("albedo"))
	gamma := s.Declare("gamma", pb.Float().Uniform(0))
	toLinear := pb.Func("toLinear", []*builder.Var{pb.Vec3("c"), pb.Float("g")}, func(f *builder.Scope) {
		pb.Return(pb.Pow(f.Get("c"), pb.Vec3(f.Get("g"))))
	})
	pb.Main(func(m *builder.Scope) {
		texel := m.Declare("texel", pb.TextureSample(albedo, m.Inputs().Get("vUV")))
		rgb := toLinear.Call(texel.Field("rgb"), gamma)
		m.Outputs().Set("color", pb.Vec4(rgb, texel.Field("a")))
	})
}

func lightingVertex(s *builder.Scope) {
	pb := s.Builder()
	model := s.Declare("model", pb.Mat4().Uniform(0).Tag("model"))
	viewProj := s.Declare("viewProj", pb.Mat4().Uniform(0).Tag("camera"))
	s.Inputs().Set("aPos", pb.Vec3().Attrib("POSITION"))
	s.Inputs().Set("aNormal", pb.Vec3().Attrib("NORMAL"))
	pb.Main(func(m *builder.Scope) {
		in := m.Inputs()
		world := m.Declare("world", pb.Mul(model, pb.Vec4(in.Get("aPos"), 1.0)))
		m.Builtins().Set("position", pb.Mul(viewProj, world))
		m.Outputs().Set("vNormal", pb.Mul(model, pb.Vec4(in.Get("aNormal"), 0.0)).Field("xyz"))
		m.Outputs().Set("vWorld", world.Field("xyz"))
	})
}

func lightingFragment(s *builder.Scope) {
	pb := s.Builder()
	lightDir := s.Declare("lightDir", pb.Vec3().Uniform(0).Tag("light"))
	eye := s.Declare("eye", pb.Vec3().Uniform(0))
	albedo := s.Declare("albedo", pb.Vec3().Uniform(1).Tag("material"))
	shininess := s.Declare("shininess", pb.Float().Uniform(1))
	pb.Main(func(m *builder.Scope) {
		in := m.Inputs()
		n := m.Declare("n", pb.Normalize(in.Get("vNormal")))
		l := m.Declare("l", pb.Normalize(pb.Neg(lightDir)))
		v := m.Declare("v", pb.Normalize(pb.Sub(eye, in.Get("vWorld"))))
		h := m.Declare("h", pb.Normalize(pb.Add(l, v)))
		diffuse := m.Declare("diffuse", pb.Max(pb.Dot(n, l), 0.0))
		specular := m.Declare("specular", pb.Pow(pb.Max(pb.Dot(n, h), 0.0), shininess))
		rgb := pb.Add(pb.Mul(albedo, pb.Add(diffuse, 0.1)), pb.Vec3(specular))
		m.Outputs().Set("color", pb.Vec4(rgb, 1.0))
	})
}

func shadowVertex(s *builder.Scope) {
	pb := s.Builder()
	viewProj := s.Declare("viewProj", pb.Mat4().Uniform(0).Tag("camera"))
	lightViewProj := s.Declare("lightViewProj", pb.Mat4().Uniform(0).Tag("light"))
	s.Inputs().Set("aPos", pb.Vec3().Attrib("POSITION"))
	pb.Main(func(m *builder.Scope) {
		pos := m.Declare("pos", pb.Vec4(m.Inputs().Get("aPos"), 1.0))
		m.Builtins().Set("position", pb.Mul(viewProj, pos))
		m.Outputs().Set("vLightPos", pb.Mul(lightViewProj, pos))
	})
}

func shadowFragment(s *builder.Scope) {
	pb := s.Builder()
	shadowMap := s.Declare("shadowMap", pb.TexDepth2D().Uniform(0).Tag("shadow"))
	baseColor := s.Declare("baseColor", pb.Vec4().Uniform(0))
	bias := s.Declare("bias", pb.Float().Uniform(0))
	pb.Main(func(m *builder.Scope) {
		lp := m.Inputs().Get("vLightPos")
		ndc := m.Declare("ndc", pb.Div(lp.Field("xyz"), lp.Field("w")))
		uv := m.Declare("uv", pb.Add(pb.Mul(ndc.Field("xy"), 0.5), 0.5))
		lit := m.Declare("lit", pb.TextureSampleCompare(shadowMap, uv, pb.Sub(ndc.Field("z"), bias)))
		shade := pb.Mix(0.3, 1.0, lit)
		m.Outputs().Set("color", pb.Vec4(pb.Mul(baseColor.Field("rgb"), shade), baseColor.Field("a")))
	})
}
