package manifest

import (
	"fmt"
	"reflect"

	"github.com/funvibe/funcast/internal/descriptor"
	"github.com/funvibe/funcast/internal/kind"
	"github.com/funvibe/funcast/pkg/cast"
)

// returnTypes maps manifest return-type spellings to reflect types.
var returnTypes = map[string]reflect.Type{
	"bool":    reflect.TypeOf(false),
	"string":  reflect.TypeOf(""),
	"int":     reflect.TypeOf(int(0)),
	"int64":   reflect.TypeOf(int64(0)),
	"float32": reflect.TypeOf(float32(0)),
	"float64": reflect.TypeOf(float64(0)),
	"any":     reflect.TypeOf((*any)(nil)).Elem(),
}

var anyType = returnTypes["any"]

// Entry is one lint result: the resolution verdict for a (type, kind)
// pair, or the declaration error that prevented recording it.
type Entry struct {
	Type    string
	Kind    cast.Kind
	Outcome cast.Outcome
	Err     error
}

// Conflicted reports whether the entry is a conflict or a declaration
// error.
func (e Entry) Conflicted() bool {
	return e.Err != nil || e.Outcome.State == cast.Conflicting
}

// Check declares every manifest type into the engine with synthesized
// callables and resolves each declared pair, plus List for any type
// declaring either of its sub-capabilities.
func Check(m *Manifest, eng *cast.Engine) []Entry {
	var entries []Entry
	for _, mt := range m.Types {
		t := identityFor(mt.Name)
		wantList := false
		for _, c := range mt.Capabilities {
			k, _ := kind.FromName(c.Kind)
			if k == kind.Element || k == kind.Length {
				wantList = true
			}
			if err := declare(eng, t, k, c); err != nil {
				entries = append(entries, Entry{Type: mt.Name, Kind: k, Err: err})
				continue
			}
			entries = append(entries, Entry{Type: mt.Name, Kind: k, Outcome: eng.Resolution(t, k)})
		}
		if wantList {
			entries = append(entries, Entry{Type: mt.Name, Kind: cast.List, Outcome: eng.Resolution(t, cast.List)})
		}
	}
	return entries
}

func declare(eng *cast.Engine, t reflect.Type, k cast.Kind, c Capability) error {
	ret := kind.ShapeOf(k)
	if c.Returns != "" {
		ret = returnTypes[c.Returns]
	}
	shared := synthesize(k, ret)
	for _, name := range c.Mechanisms {
		mech, _ := descriptor.MechanismFromName(name)
		fn := shared
		if c.Distinct {
			fn = synthesize(k, ret)
		}
		if err := eng.Declare(t, k, mech, fn); err != nil {
			return err
		}
	}
	return nil
}

// synthesize builds a callable of the declared shape that returns the
// zero value. Each call yields a distinct underlying func, so sameness
// between mechanisms is controlled by whether the result is shared.
func synthesize(k cast.Kind, ret reflect.Type) any {
	in := []reflect.Type{anyType}
	if k == kind.Element {
		in = append(in, reflect.TypeOf(int(0)))
	}
	ft := reflect.FuncOf(in, []reflect.Type{ret}, false)
	return reflect.MakeFunc(ft, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{reflect.Zero(ret)}
	}).Interface()
}

// identityFor gives each manifest type its own reflect.Type identity: a
// struct type distinguished by a name-bearing tag.
func identityFor(name string) reflect.Type {
	return reflect.StructOf([]reflect.StructField{{
		Name: "Name",
		Type: reflect.TypeOf(""),
		Tag:  reflect.StructTag(fmt.Sprintf("funcast:%q", name)),
	}})
}
