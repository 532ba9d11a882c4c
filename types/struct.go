// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

import (
	"strconv"
	"strings"
)

// Field names a struct member before layout resolution.
type Field struct {
	Name string
	Type Type
}

// StructMember is a laid-out struct member.
type StructMember struct {
	Name string
	Type Type

	// Offset is the byte offset under the struct's layout.
	Offset int

	// Alignment and Size are resolved under the struct's layout.
	Alignment int
	Size      int

	// DefaultAlignment and DefaultSize are resolved under LayoutDefault.
	DefaultAlignment int
	DefaultSize      int
}

// StructType is a named aggregate with a fixed layout mode.
type StructType struct {
	Name    string
	Layout  Layout
	Members []StructMember

	size  int
	align int
	id    string
}

// NewStructType lays out members under layout.
func NewStructType(name string, layout Layout, fields ...Field) (*StructType, error) {
	st := &StructType{Name: name, Layout: layout}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return nil, Errorf(ErrStructural, "duplicate member %q in struct %s", f.Name, name)
		}
		seen[f.Name] = struct{}{}
		st.Members = append(st.Members, StructMember{Name: f.Name, Type: f.Type})
	}
	size, align, err := layoutMembers(st.Members, layout)
	if err != nil {
		return nil, Errorf(ErrType, "struct %s: %s", name, errMessage(err))
	}
	st.size, st.align = size, align
	for i := range st.Members {
		m := &st.Members[i]
		if m.DefaultAlignment, err = memberAlignment(m.Type, LayoutDefault); err != nil {
			return nil, err
		}
		if m.DefaultSize, err = m.Type.LayoutSize(LayoutDefault); err != nil {
			return nil, err
		}
	}
	st.id = st.buildID()
	return st, nil
}

// Extends derives a new struct that appends extra members to s, keeping s's layout.
func (s *StructType) Extends(name string, extra ...Field) (*StructType, error) {
	fields := make([]Field, 0, len(s.Members)+len(extra))
	for _, m := range s.Members {
		fields = append(fields, Field{Name: m.Name, Type: m.Type})
	}
	return NewStructType(name, s.Layout, append(fields, extra...)...)
}

// Member returns the member called name.
func (s *StructType) Member(name string) (StructMember, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return StructMember{}, false
}

// Size returns the struct size under its own layout.
func (s *StructType) Size() int { return s.size }

// TypeID implements Type.
func (s *StructType) TypeID() string { return s.id }

// TypeName implements Type.
func (s *StructType) TypeName(Target) string { return s.Name }

// LayoutAlignment implements Type.
func (s *StructType) LayoutAlignment(layout Layout) (int, error) {
	switch layout {
	case LayoutPacked:
		return 1, nil
	case LayoutStd140:
		return 16, nil
	}
	if layout == s.Layout {
		return s.align, nil
	}
	_, align, err := layoutMembers(cloneMembers(s.Members), layout)
	return align, err
}

// LayoutSize implements Type.
func (s *StructType) LayoutSize(layout Layout) (int, error) {
	if layout == s.Layout {
		return s.size, nil
	}
	size, _, err := layoutMembers(cloneMembers(s.Members), layout)
	return size, err
}

// ToBufferLayout flattens the struct into a buffer description starting at offset.
func (s *StructType) ToBufferLayout(offset int, layout Layout) (*BufferLayout, error) {
	members := cloneMembers(s.Members)
	size, _, err := layoutMembers(members, layout)
	if err != nil {
		return nil, err
	}
	bl := &BufferLayout{ByteSize: size}
	for _, m := range members {
		entry, err := bufferEntry(m.Name, m.Type, offset+m.Offset, m.Size, layout)
		if err != nil {
			return nil, err
		}
		bl.Entries = append(bl.Entries, entry)
	}
	return bl, nil
}

func (*StructType) sealed() {}

func (s *StructType) buildID() string {
	var b strings.Builder
	b.WriteString("struct:")
	b.WriteString(s.Name)
	b.WriteByte(':')
	b.WriteString(s.Layout.String())
	b.WriteByte('{')
	for i, m := range s.Members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(m.Name)
		b.WriteByte(':')
		b.WriteString(m.Type.TypeID())
	}
	b.WriteByte('}')
	return b.String()
}

func cloneMembers(in []StructMember) []StructMember {
	out := make([]StructMember, len(in))
	copy(out, in)
	return out
}

// memberAlignment returns the alignment of t when it is a struct member.
func memberAlignment(t Type, layout Layout) (int, error) {
	if layout == LayoutStd140 {
		switch t.(type) {
		case *StructType, *ArrayType:
			if _, err := t.LayoutSize(layout); err != nil {
				return 0, err
			}
			return 16, nil
		}
	}
	return t.LayoutAlignment(layout)
}

// layoutMembers assigns offsets in place and returns the struct size and alignment.
func layoutMembers(members []StructMember, layout Layout) (int, int, error) {
	offset, structAlign := 0, 1
	for i := range members {
		m := &members[i]
		align, err := memberAlignment(m.Type, layout)
		if err != nil {
			return 0, 0, err
		}
		size, err := m.Type.LayoutSize(layout)
		if err != nil {
			return 0, 0, err
		}
		if arr, ok := m.Type.(*ArrayType); ok && arr.Dim == 0 && i != len(members)-1 {
			return 0, 0, Errorf(ErrType, "runtime-sized array member %q must be the last member", m.Name)
		}
		offset = roundUp(offset, align)
		m.Offset = offset
		m.Alignment, m.Size = align, size
		offset += size
		structAlign = max(structAlign, align)
	}
	if layout == LayoutStd140 {
		return roundUp(offset, 16), 16, nil
	}
	return roundUp(offset, structAlign), structAlign, nil
}

func errMessage(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Message
	}
	return err.Error()
}

// BufferLayout describes how a host buffer maps onto a shader type.
type BufferLayout struct {
	ByteSize int                 `json:"byteSize" msgpack:"byteSize" cbor:"byteSize"`
	Entries  []BufferLayoutEntry `json:"entries" msgpack:"entries" cbor:"entries"`
}

// BufferLayoutEntry is one member of a BufferLayout.
type BufferLayoutEntry struct {
	Name     string `json:"name" msgpack:"name" cbor:"name"`
	Offset   int    `json:"offset" msgpack:"offset" cbor:"offset"`
	ByteSize int    `json:"byteSize" msgpack:"byteSize" cbor:"byteSize"`
	// Type is the primitive of the leaf value; zero for structs.
	Type Primitive `json:"type" msgpack:"type" cbor:"type"`
	// ArraySize is the element count for arrays, zero otherwise.
	ArraySize int           `json:"arraySize" msgpack:"arraySize" cbor:"arraySize"`
	SubLayout *BufferLayout `json:"subLayout,omitempty" msgpack:"subLayout,omitempty" cbor:"subLayout,omitempty"`
}

func bufferEntry(name string, t Type, offset, size int, layout Layout) (BufferLayoutEntry, error) {
	entry := BufferLayoutEntry{Name: name, Offset: offset, ByteSize: size}
	switch t := t.(type) {
	case *PrimitiveType:
		entry.Type = t.prim
	case *AtomicType:
		entry.Type = t.Primitive()
	case *StructType:
		sub, err := t.ToBufferLayout(0, layout)
		if err != nil {
			return entry, err
		}
		entry.SubLayout = sub
	case *ArrayType:
		entry.ArraySize = t.Dim
		switch elem := t.Elem.(type) {
		case *PrimitiveType:
			entry.Type = elem.prim
		case *AtomicType:
			entry.Type = elem.Primitive()
		case *StructType:
			sub, err := elem.ToBufferLayout(0, layout)
			if err != nil {
				return entry, err
			}
			entry.SubLayout = sub
		default:
			return entry, Errorf(ErrType, "array member %q of %s cannot be laid out", name, t.Elem.TypeID())
		}
	default:
		return entry, Errorf(ErrType, "member %q of type %s is not host-shareable", name, t.TypeID())
	}
	return entry, nil
}

func itoa(v int) string { return strconv.Itoa(v) }
