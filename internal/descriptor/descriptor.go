// Package descriptor holds the raw capability declarations discovered at
// type-definition time. Pure data: no resolution logic lives here.
package descriptor

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/funvibe/funcast/internal/diag"
	"github.com/funvibe/funcast/internal/kind"
)

// Mechanism is one of the two ways a capability can be declared.
type Mechanism int

const (
	// MethodConvention: the type carries a conventionally-named method
	// (ToBool, ToString, ToInt, ToFloat, Item, Len).
	MethodConvention Mechanism = iota
	// MarkerInterface: the type is explicitly marked by a capability
	// interface.
	MarkerInterface
)

func (m Mechanism) String() string {
	switch m {
	case MethodConvention:
		return "method"
	case MarkerInterface:
		return "marker"
	default:
		return "unknown"
	}
}

// MechanismFromName maps a manifest spelling back to a Mechanism.
func MechanismFromName(name string) (Mechanism, bool) {
	switch name {
	case "method":
		return MethodConvention, true
	case "marker":
		return MarkerInterface, true
	}
	return 0, false
}

// Callable wraps a registered coercion function for later reflective
// invocation. Identity is the func value's data word captured at
// registration: two closures made from the same literal stay distinct,
// while two registrations of the same method expression or the same func
// value collapse to one callable. Code-pointer comparison would conflate
// distinct closures and reflect.MakeFunc results.
type Callable struct {
	Fn reflect.Value
	id unsafe.Pointer
}

func newCallable(fn any, v reflect.Value) *Callable {
	// The second word of a non-nil func interface is the funcval
	// pointer.
	id := (*[2]unsafe.Pointer)(unsafe.Pointer(&fn))[1]
	return &Callable{Fn: v, id: id}
}

// Same reports whether both callables reference the very same underlying
// function.
func (c *Callable) Same(other *Callable) bool {
	if c == nil || other == nil {
		return false
	}
	return c.id == other.id
}

// Declaration is the raw capability record for one (type, kind) slot: at
// most one callable per mechanism. Zero value means "nothing declared".
type Declaration struct {
	Method *Callable
	Marker *Callable
}

// Empty reports whether nothing was declared for the slot.
func (d Declaration) Empty() bool {
	return d.Method == nil && d.Marker == nil
}

func (d Declaration) byMechanism(m Mechanism) *Callable {
	if m == MethodConvention {
		return d.Method
	}
	return d.Marker
}

// Store maps (type, kind) to its declaration slots. Writes happen at
// type-definition time; the host serializes definition relative to first
// use of a type, the store only guards against races between unrelated
// registrations.
type Store struct {
	reg registry
}

func NewStore() *Store {
	return &Store{reg: newRegistry()}
}

// Record registers one mechanism's callable for (t, k). Append-once per
// slot: a second record for the same (type, kind, mechanism) fails with
// DuplicateDeclaration and the first registration stays authoritative.
func (s *Store) Record(t reflect.Type, k kind.Kind, m Mechanism, fn any) error {
	if t == nil {
		return fmt.Errorf("descriptor: nil type")
	}
	if !k.Declarable() {
		return fmt.Errorf("descriptor: kind %s has no direct mechanism", k)
	}
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("descriptor: callable for %s/%s must be a non-nil func", t, k)
	}
	return s.reg.record(t, k, m, newCallable(fn, v))
}

// Lookup returns the declaration for (t, k). It never fails: an unknown
// pair yields the empty declaration.
func (s *Store) Lookup(t reflect.Type, k kind.Kind) Declaration {
	return s.reg.lookup(t, k)
}

// Forget drops all declarations for (t, k). Only meaningful for hosts
// that permit type redefinition; callers must invalidate the resolution
// cache in the same breath.
func (s *Store) Forget(t reflect.Type, k kind.Kind) {
	s.reg.forget(t, k)
}

// Replace swaps the callable for one mechanism slot, creating it if
// absent. The redefinition companion to Record.
func (s *Store) Replace(t reflect.Type, k kind.Kind, m Mechanism, fn any) error {
	if !k.Declarable() {
		return fmt.Errorf("descriptor: kind %s has no direct mechanism", k)
	}
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("descriptor: callable for %s/%s must be a non-nil func", t, k)
	}
	s.reg.replace(t, k, m, newCallable(fn, v))
	return nil
}

// Types returns every type with at least one recorded declaration.
func (s *Store) Types() []reflect.Type {
	return s.reg.types()
}

func duplicate(t reflect.Type, k kind.Kind, m Mechanism) *diag.Failure {
	return diag.New(diag.DuplicateDeclaration, t.String(), k,
		"mechanism %s already declared for %s/%s", m, t, k)
}
