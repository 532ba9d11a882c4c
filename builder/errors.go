// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"errors"
	"fmt"

	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// BuildError reports a failed build. It unwraps to the *types.Error that
// aborted it.
type BuildError struct {
	Target types.Target
	Stage  string
	Err    *types.Error
}

// Error implements error.
func (e *BuildError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("%s: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("%s %s shader: %v", e.Target, e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error { return e.Err }

// Kind returns the error kind.
func (e *BuildError) Kind() types.ErrorKind { return e.Err.Kind }

// bail aborts the current build.
func bail(kind types.ErrorKind, format string, args ...any) {
	panic(types.Errorf(kind, format, args...))
}

// check aborts the current build when err is non-nil. Errors that do not
// wrap a *types.Error are reported as internal errors.
func check(err error) {
	if err == nil {
		return
	}
	var te *types.Error
	if errors.As(err, &te) {
		panic(te)
	}
	panic(types.NewError(types.ErrInternal, err.Error()))
}

func stageName(s ast.Stage) string { return s.String() }
