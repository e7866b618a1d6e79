// Package rescache memoizes resolver output per (type, kind) pair. It is
// the engine's only concurrency-sensitive component: the first caller for
// a pair computes the outcome, racers on the same pair block until it is
// published, and unrelated pairs never block each other.
package rescache

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/funvibe/funcast/internal/kind"
	"github.com/funvibe/funcast/internal/resolver"
)

type pair struct {
	t reflect.Type
	k kind.Kind
}

// entry carries its own once so the critical section is scoped to the
// pair, not the cache.
type entry struct {
	once      sync.Once
	published atomic.Bool
	outcome   resolver.Outcome
}

// Cache stores at most one resolver.Outcome per (type, kind) pair.
// Entries are never evicted unless Invalidate is called; types are
// assumed to live for the process lifetime.
type Cache struct {
	mu      sync.RWMutex
	entries map[pair]*entry
}

func New() *Cache {
	return &Cache{entries: make(map[pair]*entry)}
}

// GetOrCompute returns the cached outcome for (t, k), running compute at
// most once per pair even when concurrent first uses race. All callers
// observe the same published outcome, Conflicting included.
func (c *Cache) GetOrCompute(t reflect.Type, k kind.Kind, compute func() resolver.Outcome) resolver.Outcome {
	key := pair{t, k}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()
		e, ok = c.entries[key]
		if !ok {
			e = &entry{}
			c.entries[key] = e
		}
		c.mu.Unlock()
	}

	// The map lock is released before computing: racers on this pair
	// block inside the entry's once, other pairs proceed.
	e.once.Do(func() {
		e.outcome = compute()
		e.published.Store(true)
	})
	return e.outcome
}

// Peek returns the cached outcome without computing. A pending entry
// whose compute has not published yet reports a miss.
func (c *Cache) Peek(t reflect.Type, k kind.Kind) (resolver.Outcome, bool) {
	c.mu.RLock()
	e, ok := c.entries[pair{t, k}]
	c.mu.RUnlock()
	if !ok || !e.published.Load() {
		return resolver.Outcome{}, false
	}
	return e.outcome, true
}

// Invalidate drops the entry for (t, k). Atomic with respect to readers:
// a concurrent GetOrCompute sees either the old entry or a fresh one,
// never a torn state.
func (c *Cache) Invalidate(t reflect.Type, k kind.Kind) {
	c.mu.Lock()
	delete(c.entries, pair{t, k})
	c.mu.Unlock()
}

// Len reports the number of published or pending entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
