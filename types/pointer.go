// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

// PointerType is a WGSL pointer. Its address space starts unknown and is
// bound the first time the pointer is threaded through a by-reference
// parameter.
type PointerType struct {
	Pointee  Type
	Writable bool

	space AddressSpace
}

// NewPointerType returns a pointer to pointee in space.
func NewPointerType(pointee Type, space AddressSpace) *PointerType {
	return &PointerType{Pointee: pointee, space: space}
}

// Space returns the bound address space.
func (p *PointerType) Space() AddressSpace { return p.space }

// BindSpace binds the address space; rebinding to a different space fails.
func (p *PointerType) BindSpace(space AddressSpace) error {
	if p.space == SpaceUnknown || p.space == space {
		p.space = space
		return nil
	}
	return Errorf(ErrInternal, "pointer to %s already bound to address space %s, cannot rebind to %s",
		p.Pointee.TypeID(), p.space, space)
}

// TypeID implements Type.
func (p *PointerType) TypeID() string {
	id := "ptr:" + p.space.String() + ":" + p.Pointee.TypeID()
	if p.Writable {
		id += ":rw"
	}
	return id
}

// TypeName implements Type.
func (p *PointerType) TypeName(target Target) string {
	if target != WebGPU {
		return p.Pointee.TypeName(target)
	}
	space := p.space
	if space == SpaceUnknown {
		space = SpaceFunction
	}
	name := "ptr<" + space.String() + ", " + p.Pointee.TypeName(target)
	if space == SpaceStorage {
		if p.Writable {
			name += ", read_write"
		} else {
			name += ", read"
		}
	}
	return name + ">"
}

// LayoutAlignment implements Type.
func (p *PointerType) LayoutAlignment(Layout) (int, error) {
	return 0, Errorf(ErrType, "pointer type %s is not host-shareable", p.TypeID())
}

// LayoutSize implements Type.
func (p *PointerType) LayoutSize(Layout) (int, error) {
	return 0, Errorf(ErrType, "pointer type %s is not host-shareable", p.TypeID())
}

func (*PointerType) sealed() {}

// AtomicType is atomic<i32> or atomic<u32>.
type AtomicType struct {
	Signed bool
}

// Canonical atomic types.
var (
	AtomicI32 = &AtomicType{Signed: true}
	AtomicU32 = &AtomicType{Signed: false}
)

// Primitive returns the underlying scalar primitive.
func (a *AtomicType) Primitive() Primitive {
	if a.Signed {
		return PrimI32
	}
	return PrimU32
}

// TypeID implements Type.
func (a *AtomicType) TypeID() string { return "atomic:" + a.Primitive().String() }

// TypeName implements Type.
func (a *AtomicType) TypeName(target Target) string {
	if target == WebGPU {
		return "atomic<" + a.Primitive().String() + ">"
	}
	return Prim(a.Primitive()).TypeName(target)
}

// LayoutAlignment implements Type.
func (a *AtomicType) LayoutAlignment(layout Layout) (int, error) {
	if layout == LayoutPacked {
		return 1, nil
	}
	return 4, nil
}

// LayoutSize implements Type.
func (a *AtomicType) LayoutSize(Layout) (int, error) { return 4, nil }

func (*AtomicType) sealed() {}
