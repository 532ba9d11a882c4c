// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

// ArrayType is a fixed-size array, or a runtime-sized array when Dim is zero.
type ArrayType struct {
	Elem Type
	Dim  int
}

// NewArrayType returns an array of dim elements; dim 0 means runtime-sized.
func NewArrayType(elem Type, dim int) *ArrayType {
	return &ArrayType{Elem: elem, Dim: dim}
}

// IsRuntimeSized reports whether the array has no fixed length.
func (a *ArrayType) IsRuntimeSized() bool { return a.Dim == 0 }

// TypeID implements Type.
func (a *ArrayType) TypeID() string {
	return "array:" + a.Elem.TypeID() + ":" + itoa(a.Dim)
}

// TypeName implements Type.
func (a *ArrayType) TypeName(target Target) string {
	if target == WebGPU {
		if a.Dim == 0 {
			return "array<" + a.Elem.TypeName(target) + ">"
		}
		return "array<" + a.Elem.TypeName(target) + ", " + itoa(a.Dim) + ">"
	}
	return a.Elem.TypeName(target) + a.dimSuffix()
}

func (a *ArrayType) dimSuffix() string {
	if a.Dim == 0 {
		return "[]"
	}
	return "[" + itoa(a.Dim) + "]"
}

// Stride returns the distance between consecutive elements under layout.
func (a *ArrayType) Stride(layout Layout) (int, error) {
	size, err := a.Elem.LayoutSize(layout)
	if err != nil {
		return 0, err
	}
	align, err := a.Elem.LayoutAlignment(layout)
	if err != nil {
		return 0, err
	}
	stride := roundUp(size, align)
	if layout == LayoutStd140 && stride%16 != 0 {
		return 0, Errorf(ErrType, "array element stride %d of %s is not a multiple of 16 in std140 layout", stride, a.TypeID())
	}
	return stride, nil
}

// LayoutAlignment implements Type.
func (a *ArrayType) LayoutAlignment(layout Layout) (int, error) {
	switch layout {
	case LayoutPacked:
		return 1, nil
	case LayoutStd140:
		if _, err := a.Stride(layout); err != nil {
			return 0, err
		}
		return 16, nil
	}
	return a.Elem.LayoutAlignment(layout)
}

// LayoutSize implements Type.
func (a *ArrayType) LayoutSize(layout Layout) (int, error) {
	stride, err := a.Stride(layout)
	if err != nil {
		return 0, err
	}
	return stride * a.Dim, nil
}

func (*ArrayType) sealed() {}
