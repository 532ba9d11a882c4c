// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// Version represents a GLSL ES version.
type Version struct {
	Major uint8
	Minor uint8
}

// Supported GLSL ES versions.
var (
	VersionES100 = Version{Major: 1, Minor: 0} // WebGL 1.0
	VersionES300 = Version{Major: 3, Minor: 0} // WebGL 2.0
)

// String returns the version as a #version directive value.
func (v Version) String() string {
	if v == VersionES100 {
		return "100"
	}
	return fmt.Sprintf("%d%02d es", v.Major, v.Minor)
}

// VersionFor returns the GLSL ES version used for target.
func VersionFor(target types.Target) (Version, error) {
	switch target {
	case types.WebGL:
		return VersionES100, nil
	case types.WebGL2:
		return VersionES300, nil
	default:
		return Version{}, types.Errorf(types.ErrInternal, "glsl: target %s is not a GLSL target", target)
	}
}

// TranslationInfo contains metadata about the translation.
type TranslationInfo struct {
	// Version is the emitted GLSL ES version.
	Version Version

	// UsedExtensions lists the extension directives the shader enables.
	UsedExtensions []string

	// PrecisionTypes lists the sampler types that received explicit
	// default precision statements.
	PrecisionTypes []string
}

// Render generates GLSL source for the stage described by ctx.
func Render(ctx *ast.Context) (string, TranslationInfo, error) {
	version, err := VersionFor(ctx.Target)
	if err != nil {
		return "", TranslationInfo{}, err
	}
	if ctx.Stage == ast.StageCompute {
		return "", TranslationInfo{}, types.Errorf(types.ErrCapability, "compute shaders are not supported by %s", ctx.Target)
	}

	w := newWriter(ctx, version)
	if err := w.writeModule(); err != nil {
		return "", TranslationInfo{}, fmt.Errorf("glsl: %w", err)
	}

	info := TranslationInfo{
		Version:        version,
		UsedExtensions: ctx.Extensions(),
		PrecisionTypes: w.precisionTypes,
	}
	return w.String(), info, nil
}
