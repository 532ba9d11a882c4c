// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

import (
	"strings"

	"github.com/gogpu/gputypes"
)

// SamplerType is a sampler or a comparison sampler.
type SamplerType struct {
	Comparison bool
}

// Canonical sampler types.
var (
	Sampler           = &SamplerType{}
	SamplerComparison = &SamplerType{Comparison: true}
)

// TypeID implements Type.
func (s *SamplerType) TypeID() string {
	if s.Comparison {
		return "sampler_comparison"
	}
	return "sampler"
}

// TypeName implements Type. GLSL targets use combined samplers, so the
// name only matters for WGSL.
func (s *SamplerType) TypeName(Target) string { return s.TypeID() }

// LayoutAlignment implements Type.
func (s *SamplerType) LayoutAlignment(Layout) (int, error) {
	return 0, Errorf(ErrType, "%s is not host-shareable", s.TypeID())
}

// LayoutSize implements Type.
func (s *SamplerType) LayoutSize(Layout) (int, error) {
	return 0, Errorf(ErrType, "%s is not host-shareable", s.TypeID())
}

func (*SamplerType) sealed() {}

// TextureDim is the dimensionality of a texture.
type TextureDim uint8

const (
	Dim1D TextureDim = iota
	Dim2D
	Dim3D
	DimCube
)

// TextureFlags qualify a texture type.
type TextureFlags uint8

const (
	TexArray TextureFlags = 1 << iota
	TexStorage
	TexDepth
	TexMultisampled
	TexExternal
)

// TextureType describes a sampled, depth, storage, multisampled or external texture.
type TextureType struct {
	Dim   TextureDim
	Flags TextureFlags
	// Sample is the component kind returned by sampling: f32, i32 or u32.
	Sample Scalar
	// Format is the texel format of storage textures.
	Format gputypes.TextureFormat
}

// NewTextureType returns a texture type; sample defaults to f32.
func NewTextureType(dim TextureDim, flags TextureFlags, sample Scalar) *TextureType {
	if sample == ScalarNone {
		sample = ScalarF32
	}
	return &TextureType{Dim: dim, Flags: flags, Sample: sample}
}

// NewStorageTextureType returns a write-only storage texture of format.
func NewStorageTextureType(dim TextureDim, array bool, format gputypes.TextureFormat) *TextureType {
	flags := TexStorage
	if array {
		flags |= TexArray
	}
	return &TextureType{Dim: dim, Flags: flags, Sample: formatScalar(format), Format: format}
}

func (t *TextureType) IsArray() bool        { return t.Flags&TexArray != 0 }
func (t *TextureType) IsStorage() bool      { return t.Flags&TexStorage != 0 }
func (t *TextureType) IsDepth() bool        { return t.Flags&TexDepth != 0 }
func (t *TextureType) IsMultisampled() bool { return t.Flags&TexMultisampled != 0 }
func (t *TextureType) IsExternal() bool     { return t.Flags&TexExternal != 0 }

// TypeID implements Type.
func (t *TextureType) TypeID() string {
	return "texture:" + t.TypeName(WebGPU)
}

// CoordCols returns the number of coordinate components used to sample t.
func (t *TextureType) CoordCols() int {
	switch t.Dim {
	case Dim1D:
		return 1
	case Dim2D:
		return 2
	default:
		return 3
	}
}

// ViewDimension returns the binding view dimension.
func (t *TextureType) ViewDimension() gputypes.TextureViewDimension {
	switch t.Dim {
	case Dim1D:
		return gputypes.TextureViewDimension1D
	case Dim3D:
		return gputypes.TextureViewDimension3D
	case DimCube:
		if t.IsArray() {
			return gputypes.TextureViewDimensionCubeArray
		}
		return gputypes.TextureViewDimensionCube
	default:
		if t.IsArray() {
			return gputypes.TextureViewDimension2DArray
		}
		return gputypes.TextureViewDimension2D
	}
}

// SampleType returns the binding sample type; unfilterable selects the
// non-filterable float variant for float textures.
func (t *TextureType) SampleType(unfilterable bool) gputypes.TextureSampleType {
	switch {
	case t.IsDepth():
		return gputypes.TextureSampleTypeDepth
	case t.Sample.IsSigned():
		return gputypes.TextureSampleTypeSint
	case t.Sample.IsUnsigned():
		return gputypes.TextureSampleTypeUint
	case unfilterable:
		return gputypes.TextureSampleTypeUnfilterableFloat
	default:
		return gputypes.TextureSampleTypeFloat
	}
}

// CheckTarget reports whether the texture can be declared for target.
func (t *TextureType) CheckTarget(target Target) error {
	if target == WebGPU {
		if t.IsStorage() && storageFormatName(t.Format) == "" {
			return Errorf(ErrType, "texture format %v cannot be used for storage textures", t.Format)
		}
		return nil
	}
	switch {
	case t.IsStorage(), t.IsExternal(), t.IsMultisampled():
		return Errorf(ErrCapability, "%s is not supported by %s", t.TypeName(WebGPU), target)
	case t.Dim == Dim1D:
		return Errorf(ErrCapability, "1D textures are not supported by %s", target)
	case t.Dim == DimCube && t.IsArray():
		return Errorf(ErrCapability, "cube array textures are not supported by %s", target)
	}
	if target == WebGL {
		if t.Dim == Dim3D || t.IsArray() {
			return Errorf(ErrCapability, "%s is not supported by %s", t.TypeName(WebGPU), target)
		}
		if t.Sample.IsInteger() {
			return Errorf(ErrCapability, "integer textures are not supported by %s", target)
		}
	}
	return nil
}

// TypeName implements Type.
func (t *TextureType) TypeName(target Target) string {
	switch target {
	case WebGPU:
		return t.wgslName()
	case WebGL:
		if t.Dim == DimCube {
			return "samplerCube"
		}
		return "sampler2D"
	}
	var b strings.Builder
	if !t.IsDepth() {
		switch {
		case t.Sample.IsSigned():
			b.WriteByte('i')
		case t.Sample.IsUnsigned():
			b.WriteByte('u')
		}
	}
	b.WriteString("sampler")
	switch t.Dim {
	case Dim1D:
		b.WriteString("1D")
	case Dim3D:
		b.WriteString("3D")
	case DimCube:
		b.WriteString("Cube")
	default:
		b.WriteString("2D")
	}
	if t.IsArray() {
		b.WriteString("Array")
	}
	if t.IsDepth() {
		b.WriteString("Shadow")
	}
	return b.String()
}

// SampledName returns the GLSL name used when a depth texture is read with
// an ordinary sampler instead of a comparison sampler.
func (t *TextureType) SampledName(target Target) string {
	if !t.IsDepth() || target == WebGPU {
		return t.TypeName(target)
	}
	plain := *t
	plain.Flags &^= TexDepth
	plain.Sample = ScalarF32
	return plain.TypeName(target)
}

func (t *TextureType) wgslName() string {
	if t.IsExternal() {
		return "texture_external"
	}
	dim := "2d"
	switch t.Dim {
	case Dim1D:
		dim = "1d"
	case Dim3D:
		dim = "3d"
	case DimCube:
		dim = "cube"
	}
	if t.IsArray() {
		dim += "_array"
	}
	switch {
	case t.IsStorage():
		return "texture_storage_" + dim + "<" + storageFormatName(t.Format) + ", write>"
	case t.IsDepth() && t.IsMultisampled():
		return "texture_depth_multisampled_" + dim
	case t.IsDepth():
		return "texture_depth_" + dim
	case t.IsMultisampled():
		return "texture_multisampled_" + dim + "<" + t.Sample.String() + ">"
	}
	return "texture_" + dim + "<" + t.Sample.String() + ">"
}

// LayoutAlignment implements Type.
func (t *TextureType) LayoutAlignment(Layout) (int, error) {
	return 0, Errorf(ErrType, "%s is not host-shareable", t.TypeID())
}

// LayoutSize implements Type.
func (t *TextureType) LayoutSize(Layout) (int, error) {
	return 0, Errorf(ErrType, "%s is not host-shareable", t.TypeID())
}

func (*TextureType) sealed() {}

var storageFormats = map[gputypes.TextureFormat]string{
	gputypes.TextureFormatRGBA8Unorm:  "rgba8unorm",
	gputypes.TextureFormatRGBA8Snorm:  "rgba8snorm",
	gputypes.TextureFormatRGBA8Uint:   "rgba8uint",
	gputypes.TextureFormatRGBA8Sint:   "rgba8sint",
	gputypes.TextureFormatBGRA8Unorm:  "bgra8unorm",
	gputypes.TextureFormatRGBA16Uint:  "rgba16uint",
	gputypes.TextureFormatRGBA16Sint:  "rgba16sint",
	gputypes.TextureFormatRGBA16Float: "rgba16float",
	gputypes.TextureFormatR32Uint:     "r32uint",
	gputypes.TextureFormatR32Sint:     "r32sint",
	gputypes.TextureFormatR32Float:    "r32float",
	gputypes.TextureFormatRG32Uint:    "rg32uint",
	gputypes.TextureFormatRG32Sint:    "rg32sint",
	gputypes.TextureFormatRG32Float:   "rg32float",
	gputypes.TextureFormatRGBA32Uint:  "rgba32uint",
	gputypes.TextureFormatRGBA32Sint:  "rgba32sint",
	gputypes.TextureFormatRGBA32Float: "rgba32float",
}

func storageFormatName(f gputypes.TextureFormat) string {
	return storageFormats[f]
}

func formatScalar(f gputypes.TextureFormat) Scalar {
	name := storageFormatName(f)
	switch {
	case strings.HasSuffix(name, "uint"):
		return ScalarU32
	case strings.HasSuffix(name, "sint"):
		return ScalarI32
	default:
		return ScalarF32
	}
}
