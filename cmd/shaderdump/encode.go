// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/shaderdsl/builder"
	"github.com/gogpu/shaderdsl/samples"
)

type format uint8

const (
	formatText format = iota
	formatJSON
	formatMsgpack
	formatCBOR
)

func parseFormat(s string) (format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return formatText, nil
	case "json":
		return formatJSON, nil
	case "msgpack":
		return formatMsgpack, nil
	case "cbor":
		return formatCBOR, nil
	}
	return 0, fmt.Errorf("invalid format %q (text|json|msgpack|cbor)", s)
}

// ext returns the file extension used by the all command.
func (f format) ext() string {
	switch f {
	case formatJSON:
		return ".json"
	case formatMsgpack:
		return ".msgpack"
	case formatCBOR:
		return ".cbor"
	}
	return ".txt"
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("shaderdump: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// encode writes p to w in format f.
func encode(w io.Writer, p *samples.Program, f format) error {
	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case formatMsgpack:
		return msgpack.NewEncoder(w).Encode(p)
	case formatCBOR:
		data, err := cborEncMode.Marshal(p)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return writeText(w, p)
}

func writeText(w io.Writer, p *samples.Program) error {
	var b strings.Builder
	sources := p.Sources()
	stages := make([]string, 0, len(sources))
	for s := range sources {
		stages = append(stages, s)
	}
	// vertex before fragment
	sort.Sort(sort.Reverse(sort.StringSlice(stages)))
	for _, stage := range stages {
		fmt.Fprintf(&b, "// ===== %s %s (%s) =====\n", p.Sample, stage, p.Target)
		b.WriteString(sources[stage])
		if !strings.HasSuffix(sources[stage], "\n") {
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	var layouts []builder.BindGroupLayout
	switch {
	case p.Render != nil:
		layouts = p.Render.BindGroupLayouts
		for _, a := range p.Render.VertexAttributes {
			fmt.Fprintf(&b, "// attribute %s @%d %s (%v)\n", a.Name, a.Location, a.Semantic, a.Format)
		}
	case p.Compute != nil:
		layouts = p.Compute.BindGroupLayouts
		ws := p.Compute.WorkgroupSize
		fmt.Fprintf(&b, "// workgroup size %d x %d x %d\n", ws[0], ws[1], ws[2])
	}
	for _, l := range layouts {
		for _, e := range l.Entries {
			fmt.Fprintf(&b, "// group %d binding %d %s %s\n", l.Group, e.Binding, e.Name, e.Kind)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
