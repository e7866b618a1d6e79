package dispatch

import (
	"reflect"

	"github.com/funvibe/funcast/internal/diag"
	"github.com/funvibe/funcast/internal/kind"
)

// Policy produces a kind's value for an instance with no declared
// coercion. Policies are pure functions of the instance, not global
// mutable state; hosts may swap them per kind.
type Policy func(instance any) (any, *diag.Failure)

// TruthyBoolPolicy mirrors the precedent that an instantiated object is
// never false without explicit declaration: any non-absent instance
// coerces to true.
func TruthyBoolPolicy(instance any) (any, *diag.Failure) {
	return !absent(instance), nil
}

// NoCoercionPolicy is the default for every kind but Bool: there is no
// silent numeric or string rendition of an arbitrary object.
func NoCoercionPolicy(k kind.Kind) Policy {
	return func(instance any) (any, *diag.Failure) {
		return nil, diag.New(diag.NoCoercion, typeName(instance), k,
			"no %s coercion declared for %s", k, typeName(instance))
	}
}

// DefaultPolicies returns the per-kind policy table the engine starts
// with.
func DefaultPolicies() map[kind.Kind]Policy {
	return map[kind.Kind]Policy{
		kind.Bool:   TruthyBoolPolicy,
		kind.String: NoCoercionPolicy(kind.String),
		kind.Int:    NoCoercionPolicy(kind.Int),
		kind.Float:  NoCoercionPolicy(kind.Float),
		kind.List:   NoCoercionPolicy(kind.List),
	}
}

func absent(instance any) bool {
	if instance == nil {
		return true
	}
	v := reflect.ValueOf(instance)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func typeName(instance any) string {
	t := reflect.TypeOf(instance)
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
