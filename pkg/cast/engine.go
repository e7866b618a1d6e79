// Package cast is the embedding API of the funcast coercion engine: it
// lets a host runtime's user-defined objects supply their own rendition
// when coerced to a primitive kind.
//
// Declarations are recorded at type-definition time and are expected to
// be finished before the type's first coercion; the engine does not
// protect a Coerce racing an unfinished definition of the same type.
package cast

import (
	"fmt"
	"reflect"

	"github.com/funvibe/funcast/internal/descriptor"
	"github.com/funvibe/funcast/internal/dispatch"
	"github.com/funvibe/funcast/internal/kind"
	"github.com/funvibe/funcast/internal/rescache"
	"github.com/funvibe/funcast/internal/resolver"
	log "github.com/sirupsen/logrus"
)

// Engine wires the descriptor store, resolver, resolution cache and
// dispatcher into one embeddable unit.
type Engine struct {
	store  *descriptor.Store
	cache  *rescache.Cache
	disp   *dispatch.Dispatcher
	logger log.FieldLogger
}

// New creates an Engine with default policies and the standard logger.
func New(opts ...Option) *Engine {
	cfg := options{
		logger:   log.StandardLogger(),
		policies: make(map[Kind]Policy),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		store:  descriptor.NewStore(),
		cache:  rescache.New(),
		logger: cfg.logger,
	}
	e.disp = dispatch.New(e.store, e.cache, cfg.policies, e.logResolution)
	return e
}

// Declare records one mechanism's callable for (t, k). The callable must
// be a func taking the instance (plus an int index for Element) and
// returning one value. Declaring the same (type, kind, mechanism) slot
// twice fails with DuplicateDeclaration; the first registration stays.
func (e *Engine) Declare(t reflect.Type, k Kind, m Mechanism, fn any) error {
	if err := e.store.Record(t, k, m, fn); err != nil {
		return err
	}
	e.logger.WithFields(log.Fields{
		"type": t.String(), "kind": k.String(), "mechanism": m.String(),
	}).Debug("capability declared")
	return nil
}

// Coerce converts instance to the requested kind, applying the kind's
// default policy when the type declares nothing for it.
func (e *Engine) Coerce(instance any, k Kind) (any, error) {
	return e.disp.Coerce(instance, k)
}

// Resolution returns the cached (computing on first use) verdict for
// (t, k) without touching an instance.
func (e *Engine) Resolution(t reflect.Type, k Kind) Outcome {
	return e.disp.Outcome(t, k)
}

// Invalidate drops the cached resolution for (t, k). For the compound
// List kind's components the composite entry is dropped too. Only needed
// by hosts that permit type redefinition.
func (e *Engine) Invalidate(t reflect.Type, k Kind) {
	e.cache.Invalidate(t, k)
	if k == Element || k == Length {
		e.cache.Invalidate(t, List)
	}
}

// Redeclare atomically swaps one mechanism slot and invalidates the
// affected cache entries: concurrent readers observe either the old or
// the new outcome, never a torn state.
func (e *Engine) Redeclare(t reflect.Type, k Kind, m Mechanism, fn any) error {
	if err := e.store.Replace(t, k, m, fn); err != nil {
		return err
	}
	e.Invalidate(t, k)
	return nil
}

// Bool coerces instance to its truth value.
func (e *Engine) Bool(instance any) (bool, error) {
	v, err := e.Coerce(instance, Bool)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("cast: bool policy produced %T", v)
	}
	return b, nil
}

// String coerces instance to its string rendition.
func (e *Engine) String(instance any) (string, error) {
	v, err := e.Coerce(instance, String)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Int coerces instance to its integer value.
func (e *Engine) Int(instance any) (int64, error) {
	v, err := e.Coerce(instance, Int)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Float coerces instance to its float value.
func (e *Engine) Float(instance any) (float64, error) {
	v, err := e.Coerce(instance, Float)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// List coerces instance to an ordered sequence.
func (e *Engine) List(instance any) ([]any, error) {
	v, err := e.Coerce(instance, List)
	if err != nil {
		return nil, err
	}
	return v.([]any), nil
}

// DeclaredTypes returns every type with at least one recorded
// declaration.
func (e *Engine) DeclaredTypes() []reflect.Type {
	return e.store.Types()
}

func (e *Engine) logResolution(t reflect.Type, k kind.Kind, out resolver.Outcome) {
	fields := log.Fields{"type": t.String(), "kind": k.String(), "state": out.State.String()}
	if out.State == resolver.Conflicting {
		e.logger.WithFields(fields).Warnf("coercion conflict: %s", out.Failure.Message)
		return
	}
	e.logger.WithFields(fields).Debug("coercion resolved")
}
