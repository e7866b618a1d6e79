package descriptor

import (
	"reflect"
	"sync"

	"github.com/funvibe/funcast/internal/kind"
)

// registry is the locked map behind the Store. Registration happens at
// type-definition time; reads happen from many coercion sites.
type registry struct {
	mu    sync.RWMutex
	slots map[reflect.Type]map[kind.Kind]*Declaration
}

func newRegistry() registry {
	return registry{slots: make(map[reflect.Type]map[kind.Kind]*Declaration)}
}

func (r *registry) record(t reflect.Type, k kind.Kind, m Mechanism, c *Callable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds, ok := r.slots[t]
	if !ok {
		kinds = make(map[kind.Kind]*Declaration)
		r.slots[t] = kinds
	}
	decl, ok := kinds[k]
	if !ok {
		decl = &Declaration{}
		kinds[k] = decl
	}
	if decl.byMechanism(m) != nil {
		// Reject the duplicate, keep the first registration intact.
		return duplicate(t, k, m)
	}
	if m == MethodConvention {
		decl.Method = c
	} else {
		decl.Marker = c
	}
	return nil
}

func (r *registry) lookup(t reflect.Type, k kind.Kind) Declaration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if kinds, ok := r.slots[t]; ok {
		if decl, ok := kinds[k]; ok {
			return *decl
		}
	}
	return Declaration{}
}

func (r *registry) forget(t reflect.Type, k kind.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if kinds, ok := r.slots[t]; ok {
		delete(kinds, k)
	}
}

func (r *registry) replace(t reflect.Type, k kind.Kind, m Mechanism, c *Callable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds, ok := r.slots[t]
	if !ok {
		kinds = make(map[kind.Kind]*Declaration)
		r.slots[t] = kinds
	}
	decl, ok := kinds[k]
	if !ok {
		decl = &Declaration{}
		kinds[k] = decl
	}
	if m == MethodConvention {
		decl.Method = c
	} else {
		decl.Marker = c
	}
}

func (r *registry) types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]reflect.Type, 0, len(r.slots))
	for t := range r.slots {
		out = append(out, t)
	}
	return out
}
