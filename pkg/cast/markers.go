package cast

import "reflect"

// The marker interfaces. Conforming to one explicitly declares the
// capability; each marker requires exactly the conventional method, so a
// type that satisfies a marker and a type that merely carries the method
// supply the very same callable.

// Boolable marks a type that supplies its own truth value.
type Boolable interface {
	ToBool() bool
}

// Stringable marks a type that supplies its own string rendition.
type Stringable interface {
	ToString() string
}

// Intable marks a type that supplies its own integer value.
type Intable interface {
	ToInt() int64
}

// Floatable marks a type that supplies its own float value.
type Floatable interface {
	ToFloat() float64
}

// Itemable marks a type with positional element access. Together with
// Countable it makes a type coercible to a list; alone it is not enough.
type Itemable interface {
	Item(i int) any
}

// Countable marks a type that knows its own element count.
type Countable interface {
	Len() int
}

var (
	boolableType   = reflect.TypeOf((*Boolable)(nil)).Elem()
	stringableType = reflect.TypeOf((*Stringable)(nil)).Elem()
	intableType    = reflect.TypeOf((*Intable)(nil)).Elem()
	floatableType  = reflect.TypeOf((*Floatable)(nil)).Elem()
	itemableType   = reflect.TypeOf((*Itemable)(nil)).Elem()
	countableType  = reflect.TypeOf((*Countable)(nil)).Elem()
)
