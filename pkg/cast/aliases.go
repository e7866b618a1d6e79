package cast

import (
	"github.com/funvibe/funcast/internal/descriptor"
	"github.com/funvibe/funcast/internal/diag"
	"github.com/funvibe/funcast/internal/dispatch"
	"github.com/funvibe/funcast/internal/kind"
	"github.com/funvibe/funcast/internal/resolver"
)

// Kind is a target primitive kind.
type Kind = kind.Kind

const (
	Bool    = kind.Bool
	String  = kind.String
	Int     = kind.Int
	Float   = kind.Float
	List    = kind.List
	Element = kind.Element
	Length  = kind.Length
)

// Mechanism is one of the two capability declaration mechanisms.
type Mechanism = descriptor.Mechanism

const (
	MethodConvention = descriptor.MethodConvention
	MarkerInterface  = descriptor.MarkerInterface
)

// Failure is the structured failure value every engine error carries.
type Failure = diag.Failure

// Code identifies a failure class.
type Code = diag.Code

const (
	DuplicateDeclaration     = diag.DuplicateDeclaration
	DistinctCallableConflict = diag.DistinctCallableConflict
	InvalidReturnType        = diag.InvalidReturnType
	NoCoercion               = diag.NoCoercion
	RuntimeShapeViolation    = diag.RuntimeShapeViolation
	CoercionCycle            = diag.CoercionCycle
)

// IsCode reports whether err is a *Failure with the given code.
func IsCode(err error, code Code) bool { return diag.IsCode(err, code) }

// Outcome is a cached resolution verdict for one (type, kind) pair.
type Outcome = resolver.Outcome

// State is the verdict class of an Outcome.
type State = resolver.State

const (
	Supported   = resolver.Supported
	Unsupported = resolver.Unsupported
	Conflicting = resolver.Conflicting
)

// Policy produces a kind's value for instances with no declared
// coercion.
type Policy = dispatch.Policy
