// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "strings"

// reservedWords lists GLSL ES 1.00 and 3.00 keywords, reserved words and
// builtin function names that user identifiers must not shadow.
var reservedWords = [...]string{
	// types
	`void bool int uint float double vec2 vec3 vec4 ivec2 ivec3 ivec4 uvec2 uvec3 uvec4
	 bvec2 bvec3 bvec4 mat2 mat3 mat4 mat2x2 mat2x3 mat2x4 mat3x2 mat3x3 mat3x4 mat4x2 mat4x3 mat4x4`,
	// samplers
	`sampler2D sampler3D samplerCube sampler2DShadow samplerCubeShadow sampler2DArray
	 sampler2DArrayShadow isampler2D isampler3D isamplerCube isampler2DArray usampler2D
	 usampler3D usamplerCube usampler2DArray samplerExternalOES`,
	// keywords
	`attribute const uniform varying layout centroid flat smooth break continue do for while
	 switch case default if else in out inout true false invariant discard return struct
	 lowp mediump highp precision`,
	// reserved for future use
	`asm class union enum typedef template this packed resource goto inline noinline volatile
	 public static extern external interface long short half fixed unsigned superp input output
	 hvec2 hvec3 hvec4 dvec2 dvec3 dvec4 fvec2 fvec3 fvec4 sampler3DRect filter image1D image2D
	 image3D imageCube sizeof cast namespace using buffer shared coherent restrict readonly writeonly`,
	// builtin functions
	`main radians degrees sin cos tan asin acos atan sinh cosh tanh asinh acosh atanh pow exp log
	 exp2 log2 sqrt inversesqrt abs sign floor trunc round roundEven ceil fract mod modf min max
	 clamp mix step smoothstep isnan isinf floatBitsToInt floatBitsToUint intBitsToFloat
	 uintBitsToFloat packSnorm2x16 unpackSnorm2x16 packUnorm2x16 unpackUnorm2x16 packHalf2x16
	 unpackHalf2x16 length distance dot cross normalize faceforward reflect refract
	 matrixCompMult outerProduct transpose determinant inverse lessThan lessThanEqual greaterThan
	 greaterThanEqual equal notEqual any all not textureSize texture textureProj textureLod
	 textureOffset texelFetch texelFetchOffset textureProjOffset textureLodOffset textureProjLod
	 textureProjLodOffset textureGrad textureGradOffset textureProjGrad textureProjGradOffset
	 texture2D texture2DProj texture2DLod texture2DProjLod textureCube textureCubeLod
	 texture2DLodEXT texture2DProjLodEXT textureCubeLodEXT texture2DGradEXT textureCubeGradEXT
	 dFdx dFdy fwidth`,
}

var glslKeywords = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, group := range reservedWords {
		for _, w := range strings.Fields(group) {
			m[w] = struct{}{}
		}
	}
	return m
}()

// isKeyword checks if a name is a GLSL keyword or reserved word.
func isKeyword(name string) bool {
	_, ok := glslKeywords[name]
	return ok
}

// escapeKeyword escapes a name that collides with a reserved word or uses
// a reserved prefix.
func escapeKeyword(name string) string {
	switch {
	case name == "":
		return "_unnamed"
	case isKeyword(name), strings.HasPrefix(name, "gl_"), strings.HasPrefix(name, "webgl_"):
		return "_" + name
	case strings.Contains(name, "__"):
		return strings.ReplaceAll(name, "__", "_0")
	}
	return name
}
