// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package samples

import (
	"strings"
	"testing"

	"github.com/gogpu/naga"

	"github.com/gogpu/shaderdsl/builder"
	"github.com/gogpu/shaderdsl/types"
)

var targets = []types.Target{types.WebGL, types.WebGL2, types.WebGPU}

// TestAllSamplesBuild builds every sample on every target it claims and
// checks the emitted WGSL with naga's parser.
func TestAllSamplesBuild(t *testing.T) {
	for _, s := range All() {
		for _, target := range s.Targets {
			t.Run(s.Name+"/"+target.String(), func(t *testing.T) {
				p, err := s.Build(target)
				if err != nil {
					t.Fatalf("Build failed: %v", err)
				}
				for stage, src := range p.Sources() {
					if src == "" {
						t.Errorf("%s stage is empty", stage)
						continue
					}
					if target == types.WebGPU {
						if _, err := naga.Parse(src); err != nil {
							t.Errorf("%s stage does not parse: %v\n%s", stage, err, src)
						}
					} else if !strings.HasPrefix(src, "#version") {
						t.Errorf("%s stage lacks a version line", stage)
					}
				}
			})
		}
	}
}

func TestUnsupportedTargets(t *testing.T) {
	for _, s := range All() {
		for _, target := range targets {
			if s.Supports(target) {
				continue
			}
			t.Run(s.Name+"/"+target.String(), func(t *testing.T) {
				if _, err := s.Build(target); err == nil {
					t.Error("Build succeeded on an unsupported target")
				}
			})
		}
	}
}

func TestRegistry(t *testing.T) {
	names := Names()
	want := []string{"double", "histogram", "invert", "lighting", "shadow", "textured", "triangle"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", names, want)
	}
	for _, n := range names {
		s, ok := Lookup(n)
		if !ok || s.Name != n {
			t.Errorf("Lookup(%q) = %+v, %v", n, s, ok)
		}
		if s.Description == "" {
			t.Errorf("%s has no description", n)
		}
		switch s.Kind {
		case Render:
			if s.Vertex == nil || s.Fragment == nil {
				t.Errorf("%s lacks a render stage", n)
			}
		case Compute:
			if s.Compute == nil {
				t.Errorf("%s lacks a compute stage", n)
			}
		}
	}
	if _, ok := Lookup("missing"); ok {
		t.Error("Lookup(missing) succeeded")
	}
}

// ===== Individual samples =====

func build(t *testing.T, name string, target types.Target, opts ...builder.Option) *Program {
	t.Helper()
	s, ok := Lookup(name)
	if !ok {
		t.Fatalf("no sample %q", name)
	}
	p, err := s.Build(target, opts...)
	if err != nil {
		t.Fatalf("Build(%s, %s) failed: %v", name, target, err)
	}
	return p
}

func mustContain(t *testing.T, src string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(src, want) {
			t.Errorf("missing %q in:\n%s", want, src)
		}
	}
}

func TestTriangle(t *testing.T) {
	p := build(t, "triangle", types.WebGL)
	mustContain(t, p.Render.VertexSource, "attribute vec3 aPos;", "varying vec4 vColor;", "gl_Position")
	mustContain(t, p.Render.FragmentSource, "gl_FragColor")

	p = build(t, "triangle", types.WebGPU)
	if len(p.Render.VertexAttributes) != 2 {
		t.Fatalf("attributes = %+v", p.Render.VertexAttributes)
	}
	if len(p.Render.BindGroupLayouts) != 1 {
		t.Fatalf("bind groups = %+v", p.Render.BindGroupLayouts)
	}
	mustContain(t, p.Render.VertexSource, "zUniforms_g0_v", "@builtin(position)")
}

func TestTextured(t *testing.T) {
	p := build(t, "textured", types.WebGPU)
	mustContain(t, p.Render.FragmentSource,
		"fn toLinear(c: vec3<f32>, g: f32) -> vec3<f32> {",
		"textureSample(albedo, zSampler_albedo,",
		"var zSampler_albedo: sampler;")

	p = build(t, "textured", types.WebGL2)
	mustContain(t, p.Render.FragmentSource, "vec3 toLinear(vec3 c, float g) {", "texture(albedo, vUV)")
}

func TestLightingGroups(t *testing.T) {
	p := build(t, "lighting", types.WebGPU)
	if len(p.Render.BindGroupLayouts) != 2 {
		t.Fatalf("got %d bind groups, want 2", len(p.Render.BindGroupLayouts))
	}
	if p.Render.BindGroupLayouts[0].Group != 0 || p.Render.BindGroupLayouts[1].Group != 1 {
		t.Errorf("groups out of order: %+v", p.Render.BindGroupLayouts)
	}
	mustContain(t, p.Render.FragmentSource, "normalize(", "pow(", "dot(")
}

func TestShadowComparison(t *testing.T) {
	p := build(t, "shadow", types.WebGL2)
	mustContain(t, p.Render.FragmentSource, "sampler2DShadow shadowMap;")

	p = build(t, "shadow", types.WebGPU)
	mustContain(t, p.Render.FragmentSource, "texture_depth_2d", "sampler_comparison", "textureSampleCompare(")
}

func TestComputeSamples(t *testing.T) {
	p := build(t, "histogram", types.WebGPU)
	mustContain(t, p.Compute.Source,
		"@compute @workgroup_size(256, 1, 1)",
		"var<workgroup> localBins: array<atomic<u32>, 256>;",
		"workgroupBarrier();",
		"atomicAdd(&localBins[",
	)
	if p.Compute.WorkgroupSize != [3]int{256, 1, 1} {
		t.Errorf("WorkgroupSize = %v", p.Compute.WorkgroupSize)
	}

	p = build(t, "invert", types.WebGPU)
	mustContain(t, p.Compute.Source,
		"texture_storage_2d<rgba8unorm, write>",
		"textureStore(dst,",
		"textureLoad(src,")
	e, ok := p.Compute.BindGroupLayouts[0].Lookup("dst")
	if !ok || e.Kind != builder.BindingStorageTexture {
		t.Errorf("dst entry = %+v, %v", e, ok)
	}
}
