// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package samples

import (
	"github.com/gogpu/shaderdsl/builder"
	"github.com/gogpu/shaderdsl/types"
)

func doubleCompute(s *builder.Scope) {
	pb := s.Builder()
	pb.WorkgroupSize(64)
	data := s.Declare("data", pb.ArrayOf(types.Float, 0).Storage(0).Tag("data"))
	pb.Main(func(m *builder.Scope) {
		i := m.Declare("i", m.Builtins().Get("globalInvocationId").Field("x"))
		pb.If(pb.LessThan(i, pb.ArrayLength(data)), func(*builder.Scope) {
			pb.Assign(data.At(i), pb.Mul(data.At(i), 2.0))
		})
	})
}

const histogramBins = 256

func histogramCompute(s *builder.Scope) {
	pb := s.Builder()
	pb.WorkgroupSize(histogramBins)
	values := s.Declare("values", pb.ArrayOf(types.Float, 0).Storage(0).Tag("input"))
	bins := s.Declare("bins", pb.ArrayOf(pb.AtomicU32(), histogramBins).Storage(0).Tag("output"))
	local := s.Declare("localBins", pb.ArrayOf(pb.AtomicU32(), histogramBins).Workgroup())
	pb.Main(func(m *builder.Scope) {
		lid := m.Declare("lid", m.Builtins().Get("localInvocationIndex"))
		gid := m.Declare("gid", m.Builtins().Get("globalInvocationId").Field("x"))
		pb.AtomicStore(local.At(lid), uint32(0))
		pb.WorkgroupBarrier()
		pb.If(pb.LessThan(gid, pb.ArrayLength(values)), func(b *builder.Scope) {
			v := b.Declare("v", pb.Clamp(values.At(gid), 0.0, 1.0))
			bin := b.Declare("bin", pb.Uint(pb.Mul(v, float64(histogramBins-1))))
			pb.AtomicAdd(local.At(bin), uint32(1))
		})
		pb.WorkgroupBarrier()
		pb.AtomicAdd(bins.At(lid), pb.AtomicLoad(local.At(lid)))
	})
}

func invertCompute(s *builder.Scope) {
	pb := s.Builder()
	pb.WorkgroupSize(8, 8)
	src := s.Declare("src", pb.Tex2D().Uniform(0).Tag("input"))
	dst := s.Declare("dst", pb.TexStorage2D(storageRGBA).Storage(0).Tag("output"))
	pb.Main(func(m *builder.Scope) {
		gid := m.Builtins().Get("globalInvocationId")
		size := m.Declare("size", pb.TextureDimensions(dst))
		pb.If(pb.Any(pb.GreaterThanEqual(gid.Field("xy"), size)), func(*builder.Scope) {
			pb.Return()
		})
		coord := m.Declare("coord", pb.IVec2(gid.Field("xy")))
		texel := m.Declare("texel", pb.TextureLoad(src, coord, 0))
		pb.TextureStore(dst, coord, pb.Vec4(pb.Sub(1.0, texel.Field("rgb")), texel.Field("a")))
	})
}
