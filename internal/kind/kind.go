package kind

import "reflect"

// Kind is a target primitive kind an instance can be coerced to.
// Bool, String, Int, Float and List are requestable at coercion sites.
// Element and Length are the two sub-capabilities that jointly make a
// type coercible to List; they are declarable but not requestable.
type Kind int

const (
	Bool Kind = iota
	String
	Int
	Float
	List
	Element
	Length
)

var kindNames = map[Kind]string{
	Bool:    "Bool",
	String:  "String",
	Int:     "Int",
	Float:   "Float",
	List:    "List",
	Element: "Element",
	Length:  "Length",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Requestable reports whether a coercion site may ask for k directly.
// Element and Length only exist as components of List.
func (k Kind) Requestable() bool {
	return k.Valid() && k != Element && k != Length
}

// Declarable reports whether a mechanism can be recorded for k.
// List has no direct mechanism; it is composed from Element and Length.
func (k Kind) Declarable() bool {
	return k.Valid() && k != List
}

// FromName maps a kind name (as written in manifests) back to its Kind.
func FromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

var (
	boolType   = reflect.TypeOf(false)
	stringType = reflect.TypeOf("")
	intType    = reflect.TypeOf(int64(0))
	floatType  = reflect.TypeOf(float64(0))
	listType   = reflect.TypeOf([]any(nil))
	anyType    = reflect.TypeOf((*any)(nil)).Elem()
)

// ShapeOf returns the canonical Go type a coercion to k must produce.
// Element has no fixed result shape (elements are any).
func ShapeOf(k Kind) reflect.Type {
	switch k {
	case Bool:
		return boolType
	case String:
		return stringType
	case Int:
		return intType
	case Float:
		return floatType
	case List:
		return listType
	case Length:
		return intType
	default:
		return anyType
	}
}

// ShapeMatch classifies a callable's declared return type against k's shape.
type ShapeMatch int

const (
	// ShapeExact means the declared type conforms statically.
	ShapeExact ShapeMatch = iota
	// ShapeDeferred means the declaration is an interface type, so
	// conformance can only be checked against the runtime value.
	ShapeDeferred
	// ShapeMismatch means the declared type can never conform.
	ShapeMismatch
)

// MatchDeclared classifies a declared return type t against kind k.
// Integer-shaped kinds accept any signed integer width; Float accepts
// float32. Interface declarations defer the check to call time.
func MatchDeclared(k Kind, t reflect.Type) ShapeMatch {
	if t.Kind() == reflect.Interface {
		return ShapeDeferred
	}
	if k == Element {
		// Elements carry no shape constraint beyond existing.
		return ShapeExact
	}
	switch k {
	case Bool:
		if t.Kind() == reflect.Bool {
			return ShapeExact
		}
	case String:
		if t.Kind() == reflect.String {
			return ShapeExact
		}
	case Int, Length:
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return ShapeExact
		}
	case Float:
		switch t.Kind() {
		case reflect.Float32, reflect.Float64:
			return ShapeExact
		}
	case List:
		if t == listType {
			return ShapeExact
		}
	}
	return ShapeMismatch
}

// NormalizeRuntime validates a runtime value v against kind k's shape and
// converts it to the canonical representation (int64 for Int, float64 for
// Float). The bool result is false when v does not conform.
func NormalizeRuntime(k Kind, v any) (any, bool) {
	if k == Element {
		return v, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	switch k {
	case Bool:
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), true
		}
	case String:
		if rv.Kind() == reflect.String {
			return rv.String(), true
		}
	case Int:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Int(), true
		}
	case Float:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return rv.Float(), true
		}
	case List:
		if lst, ok := v.([]any); ok {
			return lst, true
		}
	case Length:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if rv.Int() < 0 {
				return nil, false
			}
			return rv.Int(), true
		}
	}
	return nil, false
}
