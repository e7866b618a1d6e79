package cast_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/funvibe/funcast/pkg/cast"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Flag supplies its own truth value through the conventional method; it
// thereby also satisfies the Boolable marker.
type Flag struct{ set bool }

func (f *Flag) ToBool() bool { return f.set }

// Empty declares nothing.
type Empty struct{}

// Seq declares both List sub-capabilities.
type Seq struct{ items []string }

func (s *Seq) Item(i int) any { return s.items[i] }
func (s *Seq) Len() int       { return len(s.items) }

// Partial declares only element access, not sequencing.
type Partial struct{}

func (p *Partial) Item(i int) any { return i }

var _ cast.Boolable = (*Flag)(nil)
var _ cast.Itemable = (*Seq)(nil)
var _ cast.Countable = (*Seq)(nil)

func quietEngine(opts ...cast.Option) *cast.Engine {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return cast.New(append([]cast.Option{cast.WithLogger(logger)}, opts...)...)
}

func TestFlagScenario(t *testing.T) {
	e := quietEngine()
	require.NoError(t, e.Register(&Flag{}))

	got, err := e.Bool(&Flag{set: false})
	require.NoError(t, err)
	assert.False(t, got, "Flag declares its own falsity")

	got, err = e.Bool(&Flag{set: true})
	require.NoError(t, err)
	assert.True(t, got)

	// Method and marker resolved to one callable, no conflict.
	out := e.Resolution(reflect.TypeOf(&Flag{}), cast.Bool)
	assert.Equal(t, cast.Supported, out.State)
	assert.Equal(t, cast.MarkerInterface, out.Mechanism)
}

func TestEmptyScenario(t *testing.T) {
	e := quietEngine()
	require.NoError(t, e.Register(&Empty{}))

	// An instantiated object is truthy without explicit declaration.
	got, err := e.Bool(&Empty{})
	require.NoError(t, err)
	assert.True(t, got)

	// And deterministically so.
	got, err = e.Bool(&Empty{})
	require.NoError(t, err)
	assert.True(t, got)

	_, err = e.String(&Empty{})
	assert.True(t, cast.IsCode(err, cast.NoCoercion))
}

func TestDupScenario(t *testing.T) {
	e := quietEngine()
	t1 := reflect.TypeOf(&Flag{})

	first := func(*Flag) bool { return true }
	second := func(*Flag) bool { return false }
	require.NoError(t, e.Declare(t1, cast.Bool, cast.MethodConvention, first))

	err := e.Declare(t1, cast.Bool, cast.MethodConvention, second)
	require.Error(t, err)
	assert.True(t, cast.IsCode(err, cast.DuplicateDeclaration))

	// The first registration stays authoritative.
	got, err := e.Bool(&Flag{})
	require.NoError(t, err)
	assert.True(t, got)
}

func TestConflictSurfacesOnEveryCall(t *testing.T) {
	e := quietEngine()
	t1 := reflect.TypeOf(&Empty{})
	require.NoError(t, e.Declare(t1, cast.Int, cast.MethodConvention, func(*Empty) int64 { return 1 }))
	require.NoError(t, e.Declare(t1, cast.Int, cast.MarkerInterface, func(*Empty) int64 { return 2 }))

	for i := 0; i < 3; i++ {
		_, err := e.Int(&Empty{})
		require.Error(t, err)
		assert.True(t, cast.IsCode(err, cast.DistinctCallableConflict),
			"the cached conflict must surface on call %d", i)
	}
}

func TestSameCallableExemption(t *testing.T) {
	e := quietEngine()
	t1 := reflect.TypeOf(&Empty{})
	fn := func(*Empty) int64 { return 7 }
	require.NoError(t, e.Declare(t1, cast.Int, cast.MethodConvention, fn))
	require.NoError(t, e.Declare(t1, cast.Int, cast.MarkerInterface, fn))

	v, err := e.Int(&Empty{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func TestIdempotentCoercion(t *testing.T) {
	e := quietEngine()
	require.NoError(t, e.Register(&Seq{}))
	s := &Seq{items: []string{"a", "b"}}

	first, err := e.List(s)
	require.NoError(t, err)
	second, err := e.List(s)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []any{"a", "b"}, first)
}

func TestPartialListCapability(t *testing.T) {
	e := quietEngine()
	require.NoError(t, e.Register(&Partial{}))

	out := e.Resolution(reflect.TypeOf(&Partial{}), cast.Element)
	assert.Equal(t, cast.Supported, out.State, "the partial capability itself resolves")

	_, err := e.List(&Partial{})
	assert.True(t, cast.IsCode(err, cast.NoCoercion),
		"element access without sequencing must not make a List coercion")
}

func TestStrictBoolPolicy(t *testing.T) {
	e := quietEngine(cast.WithStrictBool())
	_, err := e.Bool(&Empty{})
	assert.True(t, cast.IsCode(err, cast.NoCoercion))
}

func TestCustomPolicy(t *testing.T) {
	e := quietEngine(cast.WithPolicy(cast.String, func(any) (any, *cast.Failure) {
		return "<object>", nil
	}))
	v, err := e.String(&Empty{})
	require.NoError(t, err)
	assert.Equal(t, "<object>", v)
}

func TestRuntimeShapeViolationKeepsSupport(t *testing.T) {
	e := quietEngine()
	t1 := reflect.TypeOf(&Empty{})
	require.NoError(t, e.Declare(t1, cast.Float, cast.MethodConvention, func(*Empty) any { return "nope" }))

	_, err := e.Float(&Empty{})
	assert.True(t, cast.IsCode(err, cast.RuntimeShapeViolation))
	assert.Equal(t, cast.Supported, e.Resolution(t1, cast.Float).State,
		"a call-time violation must not poison the cache entry")
}

func TestRedeclareAndInvalidate(t *testing.T) {
	e := quietEngine()
	t1 := reflect.TypeOf(&Empty{})
	require.NoError(t, e.Declare(t1, cast.Int, cast.MethodConvention, func(*Empty) int64 { return 1 }))

	v, err := e.Int(&Empty{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	// Redefinition swaps the declaration and the cache entry together.
	require.NoError(t, e.Redeclare(t1, cast.Int, cast.MethodConvention, func(*Empty) int64 { return 2 }))
	v, err = e.Int(&Empty{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestInvalidateSubCapabilityDropsList(t *testing.T) {
	e := quietEngine()
	require.NoError(t, e.Register(&Seq{}))
	s := &Seq{items: []string{"x"}}

	_, err := e.List(s)
	require.NoError(t, err)

	seqType := reflect.TypeOf(&Seq{})
	require.NoError(t, e.Redeclare(seqType, cast.Length, cast.MethodConvention, func(*Seq) int { return 0 }))

	// The composite entry was invalidated along with its component.
	v, err := e.List(s)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestCoercionCycle(t *testing.T) {
	e := quietEngine()
	t1 := reflect.TypeOf(&Empty{})

	var inner error
	require.NoError(t, e.Declare(t1, cast.String, cast.MethodConvention, func(x *Empty) string {
		_, inner = e.String(x)
		return "ok"
	}))

	x := &Empty{}
	v, err := e.String(x)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.True(t, cast.IsCode(inner, cast.CoercionCycle))
}

func TestConcurrentFirstUseResolvesOnce(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	e := cast.New(cast.WithLogger(logger))
	require.NoError(t, e.Register(&Flag{}))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.Bool(&Flag{set: true})
			assert.NoError(t, err)
			assert.True(t, got)
		}()
	}
	wg.Wait()

	resolved := 0
	for _, entry := range hook.AllEntries() {
		if entry.Message == "coercion resolved" {
			resolved++
		}
	}
	assert.Equal(t, 1, resolved, "the resolver must run exactly once per pair")
}
