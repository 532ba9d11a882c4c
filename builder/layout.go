// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderdsl/types"
)

// BindingKind classifies a bind group entry.
type BindingKind int

const (
	BindingUniformBuffer BindingKind = iota
	BindingStorageBuffer
	BindingReadOnlyStorageBuffer
	BindingTexture
	BindingStorageTexture
	BindingExternalTexture
	BindingSampler
)

func (k BindingKind) String() string {
	switch k {
	case BindingUniformBuffer:
		return "uniform-buffer"
	case BindingStorageBuffer:
		return "storage-buffer"
	case BindingReadOnlyStorageBuffer:
		return "read-only-storage-buffer"
	case BindingTexture:
		return "texture"
	case BindingStorageTexture:
		return "storage-texture"
	case BindingExternalTexture:
		return "external-texture"
	case BindingSampler:
		return "sampler"
	}
	return fmt.Sprintf("BindingKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k BindingKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// BindGroupLayoutEntry describes one binding of a program.
type BindGroupLayoutEntry struct {
	Name    string                        `json:"name" msgpack:"name" cbor:"name"`
	Kind    BindingKind                   `json:"kind" msgpack:"kind" cbor:"kind"`
	Binding int                           `json:"binding" msgpack:"binding" cbor:"binding"`
	Entry   gputypes.BindGroupLayoutEntry `json:"entry" msgpack:"entry" cbor:"entry"`
	// Buffer is the byte layout of uniform and storage buffers.
	Buffer *types.BufferLayout `json:"buffer,omitempty" msgpack:"buffer,omitempty" cbor:"buffer,omitempty"`
	// Samplers names the automatic samplers paired with a texture.
	Samplers []string `json:"samplers,omitempty" msgpack:"samplers,omitempty" cbor:"samplers,omitempty"`
	// Members names the uniforms merged into a uniform buffer.
	Members []string `json:"members,omitempty" msgpack:"members,omitempty" cbor:"members,omitempty"`
}

// BindGroupLayout lists the bindings of one group in binding order.
type BindGroupLayout struct {
	Label   string                 `json:"label" msgpack:"label" cbor:"label"`
	Group   int                    `json:"group" msgpack:"group" cbor:"group"`
	Entries []BindGroupLayoutEntry `json:"entries" msgpack:"entries" cbor:"entries"`
	// NameMap maps every resource name, merged uniforms included, to its
	// binding.
	NameMap map[string]int `json:"nameMap" msgpack:"nameMap" cbor:"nameMap"`
}

// Descriptor returns the layout as a WebGPU bind group layout descriptor.
func (l *BindGroupLayout) Descriptor() gputypes.BindGroupLayoutDescriptor {
	entries := make([]gputypes.BindGroupLayoutEntry, len(l.Entries))
	for i, e := range l.Entries {
		entries[i] = e.Entry
	}
	return gputypes.BindGroupLayoutDescriptor{Label: l.Label, Entries: entries}
}

// Lookup returns the entry of the named resource or merged uniform.
func (l *BindGroupLayout) Lookup(name string) (*BindGroupLayoutEntry, bool) {
	b, ok := l.NameMap[name]
	if !ok {
		return nil, false
	}
	for i := range l.Entries {
		if l.Entries[i].Binding == b {
			return &l.Entries[i], true
		}
	}
	return nil, false
}

// bindGroupLayouts describes the bound resources, one layout per group in
// ascending group order.
func (pb *ProgramBuilder) bindGroupLayouts() []BindGroupLayout {
	byGroup := map[int]*BindGroupLayout{}
	var groups []int
	for _, res := range pb.resources.list {
		l, ok := byGroup[res.group]
		if !ok {
			l = &BindGroupLayout{
				Label:   fmt.Sprintf("group%d", res.group),
				Group:   res.group,
				NameMap: map[string]int{},
			}
			byGroup[res.group] = l
			groups = append(groups, res.group)
		}
		e := pb.layoutEntry(res)
		l.Entries = append(l.Entries, e)
		l.NameMap[res.name] = res.binding
		for _, m := range res.members {
			l.NameMap[m.name] = res.binding
		}
	}
	sort.Ints(groups)
	out := make([]BindGroupLayout, len(groups))
	for i, g := range groups {
		l := byGroup[g]
		sort.SliceStable(l.Entries, func(a, b int) bool { return l.Entries[a].Binding < l.Entries[b].Binding })
		out[i] = *l
	}
	return out
}

func (pb *ProgramBuilder) layoutEntry(res *resource) BindGroupLayoutEntry {
	binding, err := safecast.Conv[uint32](res.binding)
	if err != nil {
		bail(types.ErrInternal, "binding %d of %s: %v", res.binding, res.name, err)
	}
	e := BindGroupLayoutEntry{
		Name:    res.name,
		Binding: res.binding,
		Entry: gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStages(res.stages),
		},
	}
	switch res.kind {
	case resMember, resBuffer, resBlock:
		e.Kind = BindingUniformBuffer
		e.Buffer = pb.bufferLayout(res)
		e.Entry.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: minBindingSize(e.Buffer),
		}
		for _, m := range res.members {
			e.Members = append(e.Members, m.name)
		}
	case resStorage:
		e.Kind = BindingReadOnlyStorageBuffer
		kind := gputypes.BufferBindingTypeReadOnlyStorage
		for _, v := range res.vars {
			if v.Writable {
				e.Kind = BindingStorageBuffer
				kind = gputypes.BufferBindingTypeStorage
			}
		}
		e.Buffer = pb.bufferLayout(res)
		e.Entry.Buffer = &gputypes.BufferBindingLayout{Type: kind, MinBindingSize: minBindingSize(e.Buffer)}
	case resTexture:
		t := res.typ.(*types.TextureType)
		e.Kind = BindingTexture
		if t.IsExternal() {
			e.Kind = BindingExternalTexture
		}
		e.Entry.Texture = &gputypes.TextureBindingLayout{
			SampleType:    t.SampleType(res.unfilterable),
			ViewDimension: t.ViewDimension(),
			Multisampled:  t.IsMultisampled(),
		}
		for _, s := range []string{res.sampler, res.comparison} {
			if s != "" {
				e.Samplers = append(e.Samplers, s)
			}
		}
	case resStorageTexture:
		t := res.typ.(*types.TextureType)
		e.Kind = BindingStorageTexture
		e.Entry.StorageTexture = &gputypes.StorageTextureBindingLayout{
			Access:        gputypes.StorageTextureAccessWriteOnly,
			Format:        t.Format,
			ViewDimension: t.ViewDimension(),
		}
	case resSampler:
		e.Kind = BindingSampler
		kind := gputypes.SamplerBindingTypeFiltering
		owner := pb.samplerOwner(res)
		switch {
		case types.Equal(res.typ, types.SamplerComparison):
			kind = gputypes.SamplerBindingTypeComparison
		case owner != nil:
			kind = samplerKindOf(owner)
		}
		if owner != nil {
			// GLSL samplers have no declaration of their own.
			e.Entry.Visibility |= gputypes.ShaderStages(owner.stages)
		}
		e.Entry.Sampler = &gputypes.SamplerBindingLayout{Type: kind}
	}
	return e
}

// samplerOwner returns the texture an automatic sampler belongs to.
func (pb *ProgramBuilder) samplerOwner(s *resource) *resource {
	for _, res := range pb.resources.list {
		if res.kind == resTexture && (res.sampler == s.name || res.comparison == s.name) {
			return res
		}
	}
	return nil
}

// bufferLayout returns the byte layout of a buffer resource. Values that
// are not structs are laid out as a struct with one member.
func (pb *ProgramBuilder) bufferLayout(res *resource) *types.BufferLayout {
	layout := types.LayoutStd140
	switch {
	case res.kind == resStorage:
		layout = types.LayoutDefault
	case pb.target == types.WebGL:
		layout = types.LayoutDefault
	}
	st, ok := res.typ.(*types.StructType)
	if ok {
		layout = st.Layout
	} else {
		wrapped, err := types.NewStructType(res.name, layout, types.Field{Name: res.name, Type: res.typ})
		check(err)
		st = wrapped
	}
	bl, err := st.ToBufferLayout(0, layout)
	check(err)
	return bl
}

func minBindingSize(bl *types.BufferLayout) uint64 {
	if bl == nil || bl.ByteSize <= 0 {
		return 0
	}
	n, err := safecast.Conv[uint64](bl.ByteSize)
	if err != nil {
		return 0
	}
	return n
}
