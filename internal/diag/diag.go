// Package diag defines the structured failure values the engine returns
// to coercion call sites. Failures are plain values, never panics; the
// host's error-reporting surface consumes them as errors.
package diag

import (
	"fmt"

	"github.com/funvibe/funcast/internal/kind"
	"github.com/google/uuid"
)

// Code identifies the failure class.
type Code string

const (
	// DuplicateDeclaration: the same mechanism was recorded twice for a
	// (type, kind) slot. Definition-time; the first registration stays.
	DuplicateDeclaration Code = "DuplicateDeclaration"
	// DistinctCallableConflict: both mechanisms are declared with two
	// different callables for the same (type, kind).
	DistinctCallableConflict Code = "DistinctCallableConflict"
	// InvalidReturnType: a declared callable's return shape can never
	// conform to the target kind.
	InvalidReturnType Code = "InvalidReturnType"
	// NoCoercion: the kind has no declaration and its default policy
	// does not produce a value.
	NoCoercion Code = "NoCoercion"
	// RuntimeShapeViolation: the callable ran but returned a value of
	// the wrong shape.
	RuntimeShapeViolation Code = "RuntimeShapeViolation"
	// CoercionCycle: a callable re-entered coercion on the same
	// (instance, kind) pair before its own invocation completed.
	CoercionCycle Code = "CoercionCycle"
)

// Failure is a structured coercion failure. ID is a correlation id for
// the host's error-reporting surface; two failures for the same cached
// conflict share the conflict's message but get distinct ids.
type Failure struct {
	ID       string
	Code     Code
	TypeName string
	Kind     kind.Kind
	Message  string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// New builds a Failure with a fresh correlation id.
func New(code Code, typeName string, k kind.Kind, format string, args ...any) *Failure {
	return &Failure{
		ID:       uuid.NewString(),
		Code:     code,
		TypeName: typeName,
		Kind:     k,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Clone returns a copy of f with a fresh correlation id. Cached conflict
// outcomes are cloned per call so every surfaced failure is traceable
// independently.
func (f *Failure) Clone() *Failure {
	c := *f
	c.ID = uuid.NewString()
	return &c
}

// IsCode reports whether err is a *Failure carrying the given code.
func IsCode(err error, code Code) bool {
	f, ok := err.(*Failure)
	return ok && f.Code == code
}
