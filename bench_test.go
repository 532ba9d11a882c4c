// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package shaderdsl

import (
	"runtime"
	"testing"

	"github.com/gogpu/shaderdsl/builder"
	"github.com/gogpu/shaderdsl/samples"
	"github.com/gogpu/shaderdsl/types"
)

// BenchmarkBuildSamples builds each sample for each target it supports with
// a fresh builder per iteration.
func BenchmarkBuildSamples(b *testing.B) {
	for _, s := range samples.All() {
		for _, target := range s.Targets {
			b.Run(s.Name+"/"+target.String(), func(b *testing.B) {
				b.ReportAllocs()
				var p *samples.Program
				for b.Loop() {
					var err error
					p, err = s.Build(target)
					if err != nil {
						b.Fatalf("build failed: %v", err)
					}
				}
				runtime.KeepAlive(p)
			})
		}
	}
}

// BenchmarkReuseBuilder rebuilds one render program on a single builder to
// measure per-build reset cost.
func BenchmarkReuseBuilder(b *testing.B) {
	s, _ := samples.Lookup("lighting")
	for _, target := range Targets {
		b.Run(target.String(), func(b *testing.B) {
			pb := builder.New(target)
			b.ReportAllocs()
			var prog *builder.RenderProgram
			for b.Loop() {
				var err error
				prog, err = pb.BuildRender(s.Vertex, s.Fragment)
				if err != nil {
					b.Fatalf("build failed: %v", err)
				}
			}
			runtime.KeepAlive(prog)
		})
	}
}

// BenchmarkUniformMerge compares merged and unmerged uniform emission.
func BenchmarkUniformMerge(b *testing.B) {
	s, _ := samples.Lookup("lighting")
	for _, merge := range []bool{true, false} {
		name := "merged"
		if !merge {
			name = "unmerged"
		}
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := s.Build(types.WebGPU, builder.WithUniformMerge(merge)); err != nil {
					b.Fatalf("build failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkCheckWGSL measures the naga parse and lower check of emitted
// WGSL.
func BenchmarkCheckWGSL(b *testing.B) {
	s, _ := samples.Lookup("lighting")
	p, err := s.Build(types.WebGPU)
	if err != nil {
		b.Fatalf("build failed: %v", err)
	}
	src := p.Render.FragmentSource
	b.ReportAllocs()
	b.SetBytes(int64(len(src)))
	for b.Loop() {
		if err := CheckWGSL(src); err != nil {
			b.Fatalf("check failed: %v", err)
		}
	}
}
