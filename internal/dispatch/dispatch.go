// Package dispatch is the engine's public entry point at a coercion
// site: it consults the resolution cache, falls back to the resolver,
// invokes the resolved callable and validates its result against the
// target kind's shape.
//
// A callable that blocks forever or panics is a caller-provided hazard,
// the same as any externally supplied callback; the dispatcher does not
// guard against it.
package dispatch

import (
	"reflect"

	"github.com/funvibe/funcast/internal/descriptor"
	"github.com/funvibe/funcast/internal/diag"
	"github.com/funvibe/funcast/internal/kind"
	"github.com/funvibe/funcast/internal/rescache"
	"github.com/funvibe/funcast/internal/resolver"
)

// ResolveHook observes each first resolution; the engine uses it for
// logging. May be nil.
type ResolveHook func(t reflect.Type, k kind.Kind, out resolver.Outcome)

type Dispatcher struct {
	store    *descriptor.Store
	cache    *rescache.Cache
	policies map[kind.Kind]Policy
	guard    *guard
	onRes    ResolveHook
}

func New(store *descriptor.Store, cache *rescache.Cache, policies map[kind.Kind]Policy, hook ResolveHook) *Dispatcher {
	merged := DefaultPolicies()
	for k, p := range policies {
		merged[k] = p
	}
	return &Dispatcher{
		store:    store,
		cache:    cache,
		policies: merged,
		guard:    newGuard(),
		onRes:    hook,
	}
}

// Coerce converts instance to the requested kind. All failures are
// returned as *diag.Failure values; nothing here is fatal to the host.
func (d *Dispatcher) Coerce(instance any, k kind.Kind) (any, error) {
	if !k.Requestable() {
		return nil, diag.New(diag.NoCoercion, typeName(instance), k,
			"kind %s is not requestable at a coercion site", k)
	}
	if absent(instance) {
		return d.applyPolicy(instance, k)
	}

	t := reflect.TypeOf(instance)
	out := d.Outcome(t, k)

	switch out.State {
	case resolver.Unsupported:
		return d.applyPolicy(instance, k)
	case resolver.Conflicting:
		// The conflict is cached once per pair; every call still
		// surfaces it, each with its own correlation id.
		return nil, out.Failure.Clone()
	}

	if !d.guard.enter(instance, k) {
		return nil, diag.New(diag.CoercionCycle, t.String(), k,
			"coercion of %s to %s re-entered before completing", t, k)
	}
	defer d.guard.exit(instance, k)

	if k == kind.List {
		return d.invokeList(instance, t, out)
	}
	return d.invokeScalar(instance, t, k, out.Callable)
}

// Outcome returns the cached resolution for (t, k), computing it on
// first use. List is compound: its Element and Length sub-resolutions
// are cached pairs of their own.
func (d *Dispatcher) Outcome(t reflect.Type, k kind.Kind) resolver.Outcome {
	if k == kind.List {
		return d.cache.GetOrCompute(t, kind.List, func() resolver.Outcome {
			elem := d.Outcome(t, kind.Element)
			length := d.Outcome(t, kind.Length)
			out := resolver.ResolveList(t, elem, length)
			d.resolved(t, kind.List, out)
			return out
		})
	}
	return d.cache.GetOrCompute(t, k, func() resolver.Outcome {
		out := resolver.Resolve(t, k, d.store.Lookup(t, k))
		d.resolved(t, k, out)
		return out
	})
}

func (d *Dispatcher) resolved(t reflect.Type, k kind.Kind, out resolver.Outcome) {
	if d.onRes != nil {
		d.onRes(t, k, out)
	}
}

func (d *Dispatcher) applyPolicy(instance any, k kind.Kind) (any, error) {
	policy, ok := d.policies[k]
	if !ok {
		policy = NoCoercionPolicy(k)
	}
	v, f := policy(instance)
	if f != nil {
		return nil, f
	}
	return v, nil
}

func (d *Dispatcher) invokeScalar(instance any, t reflect.Type, k kind.Kind, c *descriptor.Callable) (any, error) {
	raw := call(c, instance)
	v, ok := kind.NormalizeRuntime(k, raw)
	if !ok {
		// The cache entry stays Supported; the violation is per call.
		return nil, diag.New(diag.RuntimeShapeViolation, t.String(), k,
			"callable for %s/%s returned %T, want %s shape", t, k, raw, k)
	}
	return v, nil
}

func (d *Dispatcher) invokeList(instance any, t reflect.Type, out resolver.Outcome) (any, error) {
	rawLen := call(out.Len, instance)
	nv, ok := kind.NormalizeRuntime(kind.Length, rawLen)
	if !ok {
		return nil, diag.New(diag.RuntimeShapeViolation, t.String(), kind.List,
			"length callable for %s returned %v (%T), want non-negative int", t, rawLen, rawLen)
	}
	n := int(nv.(int64))
	items := make([]any, n)
	for i := 0; i < n; i++ {
		items[i] = callIndexed(out.Elem, instance, i)
	}
	return items, nil
}

func call(c *descriptor.Callable, instance any) any {
	return c.Fn.Call([]reflect.Value{reflect.ValueOf(instance)})[0].Interface()
}

func callIndexed(c *descriptor.Callable, instance any, i int) any {
	args := []reflect.Value{reflect.ValueOf(instance), reflect.ValueOf(i)}
	return c.Fn.Call(args)[0].Interface()
}
