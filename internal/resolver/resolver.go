// Package resolver turns a type's raw capability declarations into the
// single authoritative coercion decision for a (type, kind) pair.
// Everything here is a pure function of its input; the resolution cache
// guarantees each pair is resolved at most once.
package resolver

import (
	"reflect"

	"github.com/funvibe/funcast/internal/descriptor"
	"github.com/funvibe/funcast/internal/diag"
	"github.com/funvibe/funcast/internal/kind"
)

// State is the resolver's verdict class.
type State int

const (
	Supported State = iota
	Unsupported
	Conflicting
)

func (s State) String() string {
	switch s {
	case Supported:
		return "SUPPORTED"
	case Unsupported:
		return "UNSUPPORTED"
	case Conflicting:
		return "CONFLICT"
	}
	return "UNKNOWN"
}

// Outcome is the authoritative decision for one (type, kind) pair.
// For scalar kinds Callable carries the winning mechanism's function.
// For List the Elem and Len callables of the two sub-resolutions are
// carried instead. Deferred flags mark callables whose declared return
// is an interface, so shape checking moves to call time.
type Outcome struct {
	State     State
	Kind      kind.Kind
	Mechanism descriptor.Mechanism

	Callable *descriptor.Callable
	Deferred bool

	Elem        *descriptor.Callable
	Len         *descriptor.Callable
	LenDeferred bool

	Failure *diag.Failure
}

// Resolve computes the outcome for a scalar or sub-capability kind.
func Resolve(t reflect.Type, k kind.Kind, decl descriptor.Declaration) Outcome {
	if decl.Empty() {
		return Outcome{State: Unsupported, Kind: k}
	}

	chosen := decl.Marker
	mech := descriptor.MarkerInterface
	if chosen == nil {
		chosen = decl.Method
		mech = descriptor.MethodConvention
	} else if decl.Method != nil && !decl.Method.Same(decl.Marker) {
		// Two distinct callables through the two mechanisms: reported,
		// never silently resolved one way.
		return conflict(t, k, diag.DistinctCallableConflict,
			"method and marker declare distinct callables for %s/%s", t, k)
	}

	fn := chosen.Fn.Type()
	if bad := checkSignature(t, k, fn); bad != "" {
		return conflict(t, k, diag.InvalidReturnType, "%s for %s/%s", bad, t, k)
	}

	match := kind.MatchDeclared(k, fn.Out(0))
	if match == kind.ShapeMismatch {
		return conflict(t, k, diag.InvalidReturnType,
			"declared return %s does not conform to %s shape for %s", fn.Out(0), k, t)
	}

	return Outcome{
		State:     Supported,
		Kind:      k,
		Mechanism: mech,
		Callable:  chosen,
		Deferred:  match == kind.ShapeDeferred,
	}
}

// ResolveList composes a List outcome from the Element and Length
// sub-resolutions. Both must be Supported; a partial capability is not
// enough. A conflict in either sub-capability surfaces as the List
// conflict.
func ResolveList(t reflect.Type, elem, length Outcome) Outcome {
	if elem.State == Conflicting {
		return Outcome{State: Conflicting, Kind: kind.List, Failure: elem.Failure}
	}
	if length.State == Conflicting {
		return Outcome{State: Conflicting, Kind: kind.List, Failure: length.Failure}
	}
	if elem.State != Supported || length.State != Supported {
		return Outcome{State: Unsupported, Kind: kind.List}
	}
	return Outcome{
		State:       Supported,
		Kind:        kind.List,
		Mechanism:   elem.Mechanism,
		Elem:        elem.Callable,
		Len:         length.Callable,
		LenDeferred: length.Deferred,
	}
}

// checkSignature verifies arity and the instance parameter. The empty
// string means the signature is acceptable.
func checkSignature(t reflect.Type, k kind.Kind, fn reflect.Type) string {
	wantIn := 1
	if k == kind.Element {
		wantIn = 2
	}
	if fn.NumIn() != wantIn || fn.NumOut() != 1 {
		return "callable has wrong arity"
	}
	if !t.AssignableTo(fn.In(0)) {
		return "callable does not accept the instance type"
	}
	if k == kind.Element && fn.In(1).Kind() != reflect.Int {
		return "element callable index parameter must be int"
	}
	return ""
}

func conflict(t reflect.Type, k kind.Kind, code diag.Code, format string, args ...any) Outcome {
	return Outcome{
		State:   Conflicting,
		Kind:    k,
		Failure: diag.New(code, t.String(), k, format, args...),
	}
}
