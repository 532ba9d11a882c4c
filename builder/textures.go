// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// texUse is one texture read or write being built.
type texUse struct {
	pb   *ProgramBuilder
	fn   string
	res  *resource
	t    *types.TextureType
	expr ast.Expr
}

func (pb *ProgramBuilder) texture(fn string, tex *Var) *texUse {
	res := pb.resourceOf(fn, tex)
	t, ok := res.typ.(*types.TextureType)
	if !ok {
		bail(types.ErrType, "%s expects a texture, got %s", fn, res.typ.TypeName(types.WebGPU))
	}
	return &texUse{pb: pb, fn: fn, res: res, t: t, expr: tex.value()}
}

func (u *texUse) wgsl() bool { return u.pb.target == types.WebGPU }

func (u *texUse) fragment() bool { return u.pb.active().ctx.Stage == ast.StageFragment }

// sampled checks that the texture can be filtered through a sampler.
func (u *texUse) sampled() {
	switch {
	case u.t.IsStorage(), u.t.IsMultisampled():
		bail(types.ErrType, "%s cannot sample %s", u.fn, u.t.TypeName(types.WebGPU))
	case u.t.Sample.IsInteger():
		bail(types.ErrType, "%s cannot sample integer texture %s", u.fn, u.res.name)
	case u.t.IsExternal() && u.fn != "textureSample":
		bail(types.ErrType, "%s cannot read external texture %s", u.fn, u.res.name)
	}
}

// coordCols is the number of components of the DSL coordinate, the array
// layer included.
func (u *texUse) coordCols() int {
	n := u.t.CoordCols()
	if u.t.IsArray() {
		n++
	}
	return n
}

func vecOf(s types.Scalar, n int) *types.PrimitiveType {
	return types.Prim(types.MakePrimitive(s, 1, n, false))
}

func (u *texUse) coord(a any, s types.Scalar) ast.Expr {
	return coerce(a, vecOf(s, u.coordCols()))
}

// split returns the WGSL coordinate arguments: array textures take the
// layer as a separate integer.
func (u *texUse) split(c ast.Expr) []ast.Expr {
	if !u.t.IsArray() {
		return []ast.Expr{c}
	}
	n := u.t.CoordCols()
	xyz := "xyzw"
	coords := ast.NewFieldAccess(c, xyz[:n], vecOf(c.Type().(*types.PrimitiveType).Primitive().Scalar(), n))
	layer := ast.NewFieldAccess(c, xyz[n:n+1], types.Prim(c.Type().(*types.PrimitiveType).Primitive().ScalarType()))
	var idx ast.Expr = layer
	if !types.IsScalarOf(layer.Type(), types.ScalarI32) {
		idx = ast.NewCast(types.Int, layer)
	}
	return []ast.Expr{coords, idx}
}

// sampler returns the automatic sampler of the texture in the active
// stage. It is declared together with the texture.
func (u *texUse) sampler(comparison bool) ast.Expr {
	sr := u.pb.companionSampler(u.res, comparison)
	v := sr.vars[u.pb.active().ctx.Stage]
	if v == nil {
		bail(types.ErrInternal, "automatic sampler %s is not declared in this stage", sr.name)
	}
	return ast.NewVarRef(v)
}

// samplable reports whether a texture can be read through a sampler.
func samplable(t *types.TextureType) bool {
	return !t.IsStorage() && !t.IsMultisampled() && !t.Sample.IsInteger()
}

// declareSamplers adds the automatic samplers of a texture: a plain one,
// plus a comparison sampler for depth textures. WebGPU declares them in
// the active stage next to the texture. GLSL samplers are part of the
// texture, so there they only appear in the bind group layout.
func (pb *ProgramBuilder) declareSamplers(res *resource) {
	t := res.typ.(*types.TextureType)
	if !samplable(t) {
		return
	}
	for _, comparison := range []bool{false, true} {
		if comparison && !t.IsDepth() {
			continue
		}
		sr := pb.companionSampler(res, comparison)
		if pb.target != types.WebGPU {
			continue
		}
		st := pb.active()
		if sr.vars[st.ctx.Stage] != nil {
			continue
		}
		v := ast.NewVariable(sr.name, sr.typ, ast.DeclUniform)
		v.Group = res.group
		v.Global, v.Space = true, types.SpaceUniform
		sr.vars[st.ctx.Stage] = v
		sr.stages |= stageBit(st.ctx.Stage)
		pb.emit(ast.NewVarDecl(v, nil))
	}
}

// companionSampler returns the automatic sampler resource of res, adding
// it to the resource table after the texture on first request.
func (pb *ProgramBuilder) companionSampler(res *resource, comparison bool) *resource {
	name, typ := "zSampler_"+res.name, types.Sampler
	if comparison {
		name, typ = "zSamplerCmp_"+res.name, types.SamplerComparison
	}
	sr, ok := pb.resources.byName[name]
	if !ok {
		sr = &resource{name: name, group: res.group, kind: resSampler, typ: typ, vars: map[ast.Stage]*ast.Variable{}}
		prev := res
		if s, ok := pb.resources.byName[res.sampler]; ok && res.sampler != "" {
			prev = s
		}
		pb.resources.insertAfter(prev, sr)
		if comparison {
			res.comparison = name
		} else {
			res.sampler = name
		}
	} else if sr.kind != resSampler {
		bail(types.ErrStructural, "%s is already declared", name)
	}
	return sr
}

// depth records how a depth texture is read. GLSL declares it either as a
// shadow sampler or as a plain sampler, never both.
func (u *texUse) depth(compare bool) {
	if !u.t.IsDepth() {
		if compare {
			bail(types.ErrType, "%s needs a depth texture", u.fn)
		}
		return
	}
	if compare {
		u.res.compareUsed = true
	} else {
		u.res.plainDepth = true
	}
	if u.res.compareUsed && u.res.plainDepth && !u.wgsl() {
		bail(types.ErrCapability, "depth texture %s is read both with and without comparison, which %s cannot express",
			u.res.name, u.pb.target)
	}
}

// result returns the value of a sampling call. GLSL reads a depth texture
// through a plain sampler as a vec4.
func (u *texUse) result(name string, args ...ast.Expr) *Var {
	if !u.t.IsDepth() {
		return pureCall(name, vecOf(u.t.Sample, 4), args...)
	}
	if u.wgsl() {
		return pureCall(name, types.Float, args...)
	}
	call := pureCall(name, types.Vec4, args...)
	return exprVar(ast.NewFieldAccess(call.expr, "x", types.Float))
}

// level converts a mip level; WGSL takes an integer level for depth
// textures.
func (u *texUse) level(a any) ast.Expr {
	if u.wgsl() && u.t.IsDepth() {
		if ast.IsLiteral(a) {
			return coerce(a, types.Int)
		}
		e := valueOf(a, nil)
		if types.IsScalarOf(e.Type(), types.ScalarF32) {
			return ast.NewCast(types.Int, e)
		}
		return coerce(e, types.Int)
	}
	return coerce(a, types.Float)
}

// TextureSample samples tex at coord. Outside fragment shaders it reads
// the base mip level.
func (pb *ProgramBuilder) TextureSample(tex *Var, coord any) *Var {
	u := pb.texture("textureSample", tex)
	u.sampled()
	u.depth(false)
	c := u.coord(coord, types.ScalarF32)
	if !u.wgsl() {
		return u.result("textureSample", u.expr, c)
	}
	args := append([]ast.Expr{u.expr, u.sampler(false)}, u.split(c)...)
	switch {
	case u.t.IsExternal():
		return pureCall("textureSampleBaseClampToEdge", types.Vec4, args...)
	case !u.fragment():
		return u.result("textureSampleLevel", append(args, u.level(0.0))...)
	}
	return u.result("textureSample", args...)
}

// TextureSampleBias samples tex with a mip level bias.
func (pb *ProgramBuilder) TextureSampleBias(tex *Var, coord, bias any) *Var {
	u := pb.texture("textureSampleBias", tex)
	u.sampled()
	if u.t.IsDepth() {
		bail(types.ErrType, "textureSampleBias cannot sample depth texture %s", u.res.name)
	}
	if !u.fragment() {
		bail(types.ErrCapability, "textureSampleBias is only available in fragment shaders")
	}
	c := u.coord(coord, types.ScalarF32)
	b := coerce(bias, types.Float)
	if !u.wgsl() {
		return u.result("textureSampleBias", u.expr, c, b)
	}
	args := append([]ast.Expr{u.expr, u.sampler(false)}, u.split(c)...)
	return u.result("textureSampleBias", append(args, b)...)
}

// TextureSampleLevel samples tex at an explicit mip level.
func (pb *ProgramBuilder) TextureSampleLevel(tex *Var, coord, level any) *Var {
	u := pb.texture("textureSampleLevel", tex)
	u.sampled()
	u.depth(false)
	c := u.coord(coord, types.ScalarF32)
	l := u.level(level)
	if !u.wgsl() {
		return u.result("textureSampleLevel", u.expr, c, l)
	}
	args := append([]ast.Expr{u.expr, u.sampler(false)}, u.split(c)...)
	return u.result("textureSampleLevel", append(args, l)...)
}

// TextureSampleGrad samples tex with explicit coordinate derivatives.
func (pb *ProgramBuilder) TextureSampleGrad(tex *Var, coord, ddx, ddy any) *Var {
	u := pb.texture("textureSampleGrad", tex)
	u.sampled()
	if u.t.IsDepth() {
		bail(types.ErrType, "textureSampleGrad cannot sample depth texture %s", u.res.name)
	}
	c := u.coord(coord, types.ScalarF32)
	grad := vecOf(types.ScalarF32, u.t.CoordCols())
	dx, dy := coerce(ddx, grad), coerce(ddy, grad)
	if !u.wgsl() {
		return u.result("textureSampleGrad", u.expr, c, dx, dy)
	}
	args := append([]ast.Expr{u.expr, u.sampler(false)}, u.split(c)...)
	return u.result("textureSampleGrad", append(args, dx, dy)...)
}

// TextureSampleCompare compares ref against the depth texture tex at coord
// and returns the filtered result.
func (pb *ProgramBuilder) TextureSampleCompare(tex *Var, coord, ref any) *Var {
	return pb.compareSample("textureSampleCompare", tex, coord, ref)
}

// TextureSampleCompareLevel is TextureSampleCompare at the base mip level.
func (pb *ProgramBuilder) TextureSampleCompareLevel(tex *Var, coord, ref any) *Var {
	return pb.compareSample("textureSampleCompareLevel", tex, coord, ref)
}

func (pb *ProgramBuilder) compareSample(fn string, tex *Var, coord, ref any) *Var {
	u := pb.texture(fn, tex)
	u.sampled()
	u.depth(true)
	c := u.coord(coord, types.ScalarF32)
	r := coerce(ref, types.Float)
	if !u.wgsl() {
		merged := ast.NewConstructor(vecOf(types.ScalarF32, u.coordCols()+1), []ast.Expr{c, r})
		return pureCall(fn, types.Float, u.expr, merged)
	}
	if fn == "textureSampleCompare" && !u.fragment() {
		fn = "textureSampleCompareLevel"
	}
	args := append([]ast.Expr{u.expr, u.sampler(true)}, u.split(c)...)
	return pureCall(fn, types.Float, append(args, r)...)
}

// TextureLoad reads one texel without filtering. level is the mip level,
// or the sample index of a multisampled texture.
func (pb *ProgramBuilder) TextureLoad(tex *Var, coord, level any) *Var {
	u := pb.texture("textureLoad", tex)
	if u.t.IsStorage() {
		bail(types.ErrType, "textureLoad cannot read write-only storage texture %s", u.res.name)
	}
	if pb.target == types.WebGL {
		bail(types.ErrCapability, "textureLoad is not supported by %s", pb.target)
	}
	u.depth(false)
	c := u.coord(coord, types.ScalarI32)
	l := coerce(level, types.Int)
	if !u.wgsl() {
		return u.result("textureLoad", u.expr, c, l)
	}
	args := append([]ast.Expr{u.expr}, u.split(c)...)
	if u.t.IsExternal() {
		return pureCall("textureLoad", types.Vec4, args...)
	}
	return u.result("textureLoad", append(args, l)...)
}

// TextureStore writes value to a storage texture.
func (pb *ProgramBuilder) TextureStore(tex *Var, coord, value any) {
	u := pb.texture("textureStore", tex)
	if !u.t.IsStorage() {
		bail(types.ErrType, "textureStore needs a storage texture, got %s", u.t.TypeName(types.WebGPU))
	}
	c := u.coord(coord, types.ScalarI32)
	v := coerce(value, vecOf(storageScalar(u.t.Format), 4))
	args := append([]ast.Expr{u.expr}, u.split(c)...)
	args = append(args, v)
	pb.emitCall("textureStore", true, pureSig("textureStore", types.Void, args), args)
}

// storageScalar returns the texel component type of a storage format.
func storageScalar(f gputypes.TextureFormat) types.Scalar {
	switch f {
	case gputypes.TextureFormatR32Sint, gputypes.TextureFormatRG32Sint, gputypes.TextureFormatRGBA32Sint,
		gputypes.TextureFormatRGBA8Sint, gputypes.TextureFormatRGBA16Sint:
		return types.ScalarI32
	case gputypes.TextureFormatR32Uint, gputypes.TextureFormatRG32Uint, gputypes.TextureFormatRGBA32Uint,
		gputypes.TextureFormatRGBA8Uint, gputypes.TextureFormatRGBA16Uint:
		return types.ScalarU32
	}
	return types.ScalarF32
}

// TextureDimensions returns the size of a mip level of tex, the base level
// by default.
func (pb *ProgramBuilder) TextureDimensions(tex *Var, level ...any) *Var {
	u := pb.texture("textureDimensions", tex)
	if pb.target == types.WebGL {
		bail(types.ErrCapability, "textureDimensions is not supported by %s", pb.target)
	}
	if len(level) > 1 {
		bail(types.ErrStructural, "textureDimensions takes at most one level")
	}
	n := u.t.CoordCols()
	if u.t.Dim == types.DimCube {
		n = 2
	}
	ret := vecOf(types.ScalarU32, n)
	if u.wgsl() {
		args := []ast.Expr{u.expr}
		if len(level) == 1 {
			if u.t.IsStorage() || u.t.IsMultisampled() || u.t.IsExternal() {
				bail(types.ErrType, "%s has no mip levels", u.res.name)
			}
			args = append(args, coerce(level[0], types.Int))
		}
		return pureCall("textureDimensions", ret, args...)
	}
	var l ast.Expr
	if len(level) == 1 {
		l = coerce(level[0], types.Int)
	} else {
		lit, err := ast.NewLiteral(types.Int, 0)
		check(err)
		l = lit
	}
	size := u.coordCols()
	if u.t.Dim == types.DimCube {
		size = 2
	}
	var e ast.Expr = pureCall("textureDimensions", vecOf(types.ScalarI32, size), u.expr, l).expr
	if size != n {
		e = ast.NewFieldAccess(e, "xyzw"[:n], vecOf(types.ScalarI32, n))
	}
	return exprVar(ast.NewCast(ret, e))
}

// DefaultSampler requests the automatic sampler paired with tex and sets
// its kind. On every target the sampler is listed in the bind group
// layout. Depth and unfilterable textures only accept non-filtering
// samplers.
func (pb *ProgramBuilder) DefaultSampler(tex *Var, kind gputypes.SamplerBindingType) {
	u := pb.texture("DefaultSampler", tex)
	if !samplable(u.t) {
		bail(types.ErrType, "texture %s cannot be read through a sampler", u.res.name)
	}
	switch kind {
	case gputypes.SamplerBindingTypeFiltering:
		if u.t.IsDepth() || u.res.unfilterable {
			bail(types.ErrType, "texture %s cannot be read through a filtering sampler", u.res.name)
		}
	case gputypes.SamplerBindingTypeNonFiltering:
	default:
		bail(types.ErrType, "automatic sampler of %s must be filtering or non-filtering", u.res.name)
	}
	if u.res.kindSet && u.res.samplerKind != kind {
		bail(types.ErrStructural, "conflicting sampler kinds for texture %s", u.res.name)
	}
	u.res.samplerKind, u.res.kindSet = kind, true
	pb.declareSamplers(u.res)
}

// samplerKindOf returns the binding type of the automatic sampler of res.
func samplerKindOf(res *resource) gputypes.SamplerBindingType {
	if res.kindSet {
		return res.samplerKind
	}
	if t, ok := res.typ.(*types.TextureType); ok && t.IsDepth() || res.unfilterable {
		return gputypes.SamplerBindingTypeNonFiltering
	}
	return gputypes.SamplerBindingTypeFiltering
}

func pureSig(name string, ret types.Type, args []ast.Expr) *types.FunctionType {
	params := make([]types.Param, len(args))
	for i, a := range args {
		params[i] = types.Param{Name: string(rune('a' + i)), Type: a.Type()}
	}
	return types.NewFunctionType(name, ret, params...)
}
