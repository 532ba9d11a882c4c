// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package samples holds small named shader programs written with the
// builder DSL. The shaderdump command prints them and the end-to-end tests
// build every sample for every target it supports.
package samples

import (
	"fmt"
	"slices"
	"sort"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderdsl/builder"
	"github.com/gogpu/shaderdsl/types"
)

// Kind distinguishes render samples from compute samples.
type Kind uint8

const (
	// Render samples have a vertex and a fragment stage.
	Render Kind = iota
	// Compute samples have a single compute stage.
	Compute
)

// String returns the kind name.
func (k Kind) String() string {
	if k == Compute {
		return "compute"
	}
	return "render"
}

// Sample is a named shader program.
type Sample struct {
	Name        string
	Description string
	Kind        Kind
	// Targets lists the targets the sample builds for.
	Targets []types.Target

	Vertex   func(*builder.Scope)
	Fragment func(*builder.Scope)
	Compute  func(*builder.Scope)
}

// Supports reports whether the sample builds for target.
func (s Sample) Supports(target types.Target) bool {
	return slices.Contains(s.Targets, target)
}

// Program is one built sample.
type Program struct {
	Sample  string                  `json:"sample" msgpack:"sample" cbor:"sample"`
	Kind    string                  `json:"kind" msgpack:"kind" cbor:"kind"`
	Target  string                  `json:"target" msgpack:"target" cbor:"target"`
	Render  *builder.RenderProgram  `json:"render,omitempty" msgpack:"render,omitempty" cbor:"render,omitempty"`
	Compute *builder.ComputeProgram `json:"compute,omitempty" msgpack:"compute,omitempty" cbor:"compute,omitempty"`
}

// Sources returns the emitted stage sources keyed by stage name.
func (p *Program) Sources() map[string]string {
	if p.Compute != nil {
		return map[string]string{"compute": p.Compute.Source}
	}
	if p.Render != nil {
		return map[string]string{"vertex": p.Render.VertexSource, "fragment": p.Render.FragmentSource}
	}
	return nil
}

// Build builds the sample for target with a fresh builder.
func (s Sample) Build(target types.Target, opts ...builder.Option) (*Program, error) {
	if !s.Supports(target) {
		return nil, fmt.Errorf("sample %s does not support %s", s.Name, target)
	}
	p := &Program{Sample: s.Name, Kind: s.Kind.String(), Target: target.String()}
	pb := builder.New(target, opts...)
	var err error
	switch s.Kind {
	case Compute:
		p.Compute, err = pb.BuildCompute(s.Compute)
	default:
		p.Render, err = pb.BuildRender(s.Vertex, s.Fragment)
	}
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", s.Name, err)
	}
	return p, nil
}

var registry = map[string]Sample{}

func register(s Sample) {
	if _, dup := registry[s.Name]; dup {
		panic("samples: duplicate sample " + s.Name)
	}
	registry[s.Name] = s
}

// Names returns the sample names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns every sample sorted by name.
func All() []Sample {
	names := Names()
	out := make([]Sample, len(names))
	for i, n := range names {
		out[i] = registry[n]
	}
	return out
}

// Lookup returns the sample called name.
func Lookup(name string) (Sample, bool) {
	s, ok := registry[name]
	return s, ok
}

var (
	allTargets  = []types.Target{types.WebGL, types.WebGL2, types.WebGPU}
	gl2AndGPU   = []types.Target{types.WebGL2, types.WebGPU}
	webGPUOnly  = []types.Target{types.WebGPU}
	storageRGBA = gputypes.TextureFormatRGBA8Unorm
)

func init() {
	register(Sample{
		Name:        "triangle",
		Description: "transformed vertex colors with a tint uniform",
		Kind:        Render,
		Targets:     allTargets,
		Vertex:      triangleVertex,
		Fragment:    triangleFragment,
	})
	register(Sample{
		Name:        "textured",
		Description: "textured quad with gamma correction in a helper function",
		Kind:        Render,
		Targets:     allTargets,
		Vertex:      texturedVertex,
		Fragment:    texturedFragment,
	})
	register(Sample{
		Name:        "lighting",
		Description: "Blinn-Phong shading with one directional light",
		Kind:        Render,
		Targets:     allTargets,
		Vertex:      lightingVertex,
		Fragment:    lightingFragment,
	})
	register(Sample{
		Name:        "shadow",
		Description: "percentage-closer shadow lookup on a depth texture",
		Kind:        Render,
		Targets:     gl2AndGPU,
		Vertex:      shadowVertex,
		Fragment:    shadowFragment,
	})
	register(Sample{
		Name:        "double",
		Description: "doubles every element of a storage buffer",
		Kind:        Compute,
		Targets:     webGPUOnly,
		Compute:     doubleCompute,
	})
	register(Sample{
		Name:        "histogram",
		Description: "256-bin luminance histogram with workgroup atomics",
		Kind:        Compute,
		Targets:     webGPUOnly,
		Compute:     histogramCompute,
	})
	register(Sample{
		Name:        "invert",
		Description: "inverts a storage texture in place",
		Kind:        Compute,
		Targets:     webGPUOnly,
		Compute:     invertCompute,
	})
}
