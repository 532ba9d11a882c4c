// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes shader build errors.
type ErrorKind uint8

const (
	// ErrType indicates a bad coercion, an out-of-range literal, a write
	// through a read-only binding or a primitive the target cannot express.
	ErrType ErrorKind = iota

	// ErrStructural indicates a duplicate declaration, an unknown identifier
	// or overload, an arity mismatch or a conflicting struct redefinition.
	ErrStructural

	// ErrCapability indicates a feature the active target does not support.
	ErrCapability

	// ErrInternal indicates a broken builder invariant.
	ErrInternal
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrType:
		return "TypeError"
	case ErrStructural:
		return "StructuralError"
	case ErrCapability:
		return "CapabilityError"
	case ErrInternal:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Error is the single error type raised while building a shader program.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError creates a new error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf creates a new error of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err wraps an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
