package dispatch

import (
	"reflect"
	"sync"

	"github.com/funvibe/funcast/internal/kind"
	"github.com/petermattis/goid"
)

// guardKey identifies one in-flight coercion: goroutine, instance
// identity and target kind. Reentrancy is a same-goroutine property; two
// goroutines coercing the same instance concurrently is legitimate.
type guardKey struct {
	gid int64
	t   reflect.Type
	ptr uintptr
	k   kind.Kind
}

// guard tracks in-flight (instance, kind) coercions per goroutine so a
// callable that triggers formatting of its own receiver fails with
// CoercionCycle instead of recursing forever.
type guard struct {
	mu       sync.Mutex
	inflight map[guardKey]struct{}
}

func newGuard() *guard {
	return &guard{inflight: make(map[guardKey]struct{})}
}

func keyFor(instance any, k kind.Kind) guardKey {
	key := guardKey{gid: goid.Get(), t: reflect.TypeOf(instance), k: k}
	v := reflect.ValueOf(instance)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		key.ptr = v.Pointer()
	}
	return key
}

// enter registers the pair; false means it is already in flight on this
// goroutine.
func (g *guard) enter(instance any, k kind.Kind) bool {
	key := keyFor(instance, k)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.inflight[key]; ok {
		return false
	}
	g.inflight[key] = struct{}{}
	return true
}

func (g *guard) exit(instance any, k kind.Kind) {
	key := keyFor(instance, k)
	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()
}
