// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"

	"github.com/gogpu/shaderdsl/types"
)

// doubleCS doubles every element of a storage array.
func doubleCS(s *Scope) {
	pb := s.Builder()
	pb.WorkgroupSize(64)
	data := s.Declare("data", pb.ArrayOf(types.Float, 0).Storage(0))
	pb.Main(func(m *Scope) {
		i := m.Builtins().Get("globalInvocationId").Field("x")
		pb.If(pb.LessThan(i, pb.ArrayLength(data)), func(*Scope) {
			pb.Assign(data.At(i), pb.Mul(data.At(i), 2.0))
		})
	})
}

func TestBuildCompute(t *testing.T) {
	prog, err := New(types.WebGPU).BuildCompute(doubleCS)
	if err != nil {
		t.Fatalf("BuildCompute failed: %v", err)
	}
	mustContain(t, prog.Source,
		"@compute @workgroup_size(64, 1, 1)",
		"@group(0) @binding(0) var<storage, read_write> data: array<f32>;",
		"arrayLength(&data)",
		"@builtin(global_invocation_id)",
	)
	if prog.WorkgroupSize != [3]int{64, 1, 1} {
		t.Errorf("WorkgroupSize = %v", prog.WorkgroupSize)
	}
	if len(prog.BindGroupLayouts) != 1 || len(prog.BindGroupLayouts[0].Entries) != 1 {
		t.Fatalf("layouts = %+v", prog.BindGroupLayouts)
	}
	e := prog.BindGroupLayouts[0].Entries[0]
	if e.Kind != BindingStorageBuffer || e.Entry.Buffer.Type != gputypes.BufferBindingTypeStorage {
		t.Errorf("entry = %s %v, want writable storage", e.Kind, e.Entry.Buffer.Type)
	}
	if e.Entry.Visibility != gputypes.ShaderStageCompute {
		t.Errorf("visibility = %v, want compute", e.Entry.Visibility)
	}
}

func TestComputeBuiltinPruning(t *testing.T) {
	prog, err := New(types.WebGPU).BuildCompute(doubleCS)
	if err != nil {
		t.Fatalf("BuildCompute failed: %v", err)
	}
	mustContain(t, prog.Source,
		"struct zComputeInput {",
		"@builtin(global_invocation_id) globalInvocationId: vec3<u32>,",
		"fn main(zInput: zComputeInput) {")
	for _, unread := range []string{
		"num_workgroups", "local_invocation_id", "local_invocation_index", "workgroup_id", "zComputeOutput",
	} {
		if strings.Contains(prog.Source, unread) {
			t.Errorf("unread builtin or struct %q emitted:\n%s", unread, prog.Source)
		}
	}

	noBuiltins := func(s *Scope) {
		pb := s.Builder()
		data := s.Declare("data", pb.ArrayOf(types.Float, 0).Storage(0))
		pb.Main(func(*Scope) {
			pb.Assign(data.At(0), 1.0)
		})
	}
	prog, err = New(types.WebGPU).BuildCompute(noBuiltins)
	if err != nil {
		t.Fatalf("BuildCompute failed: %v", err)
	}
	mustContain(t, prog.Source, "fn main() {")
	for _, absent := range []string{"zComputeInput", "zInput", "zIn"} {
		if strings.Contains(prog.Source, absent) {
			t.Errorf("empty input struct emitted (%q):\n%s", absent, prog.Source)
		}
	}
}

func TestRenderBuiltinPruning(t *testing.T) {
	prog := mustRender(t, New(types.WebGPU), triangleVS, triangleFS)
	mustContain(t, prog.VertexSource, "@builtin(position) position: vec4<f32>,")
	for _, unread := range []string{"vertex_index", "instance_index"} {
		if strings.Contains(prog.VertexSource, unread) {
			t.Errorf("unread vertex builtin %q emitted", unread)
		}
	}
	for _, unread := range []string{"@builtin(position)", "front_facing", "frag_depth", "sample_mask"} {
		if strings.Contains(prog.FragmentSource, unread) {
			t.Errorf("unread fragment builtin %q emitted", unread)
		}
	}
}

func TestComputeSourceParses(t *testing.T) {
	prog, err := New(types.WebGPU).BuildCompute(doubleCS)
	if err != nil {
		t.Fatalf("BuildCompute failed: %v", err)
	}
	if _, err := naga.Parse(prog.Source); err != nil {
		t.Errorf("emitted WGSL does not parse: %v\n%s", err, prog.Source)
	}
}

func TestReadOnlyStorage(t *testing.T) {
	cs := func(s *Scope) {
		pb := s.Builder()
		pb.WorkgroupSize(8, 8)
		src := s.Declare("src", pb.ArrayOf(types.Float, 0).Storage(0))
		dst := s.Declare("dst", pb.ArrayOf(types.Float, 0).Storage(0))
		pb.Main(func(m *Scope) {
			i := m.Builtins().Get("globalInvocationId").Field("x")
			pb.Assign(dst.At(i), src.At(i))
		})
	}
	prog, err := New(types.WebGPU).BuildCompute(cs)
	if err != nil {
		t.Fatalf("BuildCompute failed: %v", err)
	}
	mustContain(t, prog.Source,
		"@compute @workgroup_size(8, 8, 1)",
		"var<storage, read> src: array<f32>;",
		"var<storage, read_write> dst: array<f32>;")
	l := prog.BindGroupLayouts[0]
	src, _ := l.Lookup("src")
	dst, _ := l.Lookup("dst")
	if src == nil || src.Kind != BindingReadOnlyStorageBuffer {
		t.Errorf("src entry = %+v", src)
	}
	if dst == nil || dst.Kind != BindingStorageBuffer || dst.Binding != 1 {
		t.Errorf("dst entry = %+v", dst)
	}
}

func TestAtomicsAndBarriers(t *testing.T) {
	cs := func(s *Scope) {
		pb := s.Builder()
		pb.WorkgroupSize(32)
		counter := s.Declare("counter", pb.AtomicU32().Storage(0))
		local := s.Declare("local", pb.AtomicU32().Workgroup())
		pb.Main(func(m *Scope) {
			pb.AtomicAdd(local, uint32(1))
			pb.WorkgroupBarrier()
			pb.If(pb.Equal(m.Builtins().Get("localInvocationIndex"), uint32(0)), func(*Scope) {
				pb.AtomicAdd(counter, pb.AtomicLoad(local))
			})
		})
	}
	prog, err := New(types.WebGPU).BuildCompute(cs)
	if err != nil {
		t.Fatalf("BuildCompute failed: %v", err)
	}
	mustContain(t, prog.Source,
		"var<storage, read_write> counter: atomic<u32>;",
		"var<workgroup> local: atomic<u32>;",
		"atomicAdd(&local,",
		"workgroupBarrier();",
		"atomicLoad(&local)",
	)
}

func TestComputeErrors(t *testing.T) {
	tests := []struct {
		name   string
		target types.Target
		cs     func(*Scope)
		kind   types.ErrorKind
	}{
		{
			name:   "compute on WebGL2",
			target: types.WebGL2,
			cs:     doubleCS,
			kind:   types.ErrCapability,
		},
		{
			name:   "zero workgroup size",
			target: types.WebGPU,
			cs: func(s *Scope) {
				s.Builder().WorkgroupSize(0)
			},
			kind: types.ErrStructural,
		},
		{
			name:   "too many workgroup dimensions",
			target: types.WebGPU,
			cs: func(s *Scope) {
				s.Builder().WorkgroupSize(1, 1, 1, 1)
			},
			kind: types.ErrStructural,
		},
		{
			name:   "atomic on private value",
			target: types.WebGPU,
			cs: func(s *Scope) {
				pb := s.Builder()
				pb.Main(func(*Scope) {
					pb.AtomicLoad(pb.Uint(1))
				})
			},
			kind: types.ErrType,
		},
		{
			name:   "arrayLength of fixed array",
			target: types.WebGPU,
			cs: func(s *Scope) {
				pb := s.Builder()
				data := s.Declare("data", pb.ArrayOf(types.Float, 4).Storage(0))
				pb.Main(func(*Scope) {
					pb.Touch(pb.ArrayLength(data))
				})
			},
			kind: types.ErrType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.target).BuildCompute(tt.cs)
			wantKind(t, err, tt.kind)
		})
	}
}

func TestBarrierOutsideCompute(t *testing.T) {
	fs := func(s *Scope) {
		pb := s.Builder()
		pb.Main(func(m *Scope) {
			pb.WorkgroupBarrier()
			m.Outputs().Set("color", pb.Vec4(1.0, 1.0, 1.0, 1.0))
		})
	}
	_, err := New(types.WebGPU).BuildRender(fullscreenVS, fs)
	wantKind(t, err, types.ErrStructural)
}
