// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"log/slog"

	"github.com/gogpu/shaderdsl/ast"
)

// Options configures a ProgramBuilder.
type Options struct {
	// Precision is the GLSL ES default float and int precision.
	Precision ast.Precision

	// MergeUniforms folds individually declared uniforms into generated
	// uniform blocks, one per group and stage visibility.
	MergeUniforms bool

	// Logger overrides the package logger for this builder.
	Logger *slog.Logger
}

// DefaultOptions returns the options used by New.
func DefaultOptions() Options {
	return Options{
		Precision:     ast.PrecisionHigh,
		MergeUniforms: true,
	}
}

// Option modifies Options.
type Option func(*Options)

// WithPrecision sets the GLSL ES default precision.
func WithPrecision(p ast.Precision) Option {
	return func(o *Options) { o.Precision = p }
}

// WithUniformMerge enables or disables uniform merging.
func WithUniformMerge(enabled bool) Option {
	return func(o *Options) { o.MergeUniforms = enabled }
}

// WithLogger sets the logger for one builder.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}
