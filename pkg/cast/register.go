package cast

import (
	"fmt"
	"reflect"

	"github.com/funvibe/funcast/internal/config"
)

// conventions pairs each declarable kind with its conventional method
// name and its marker interface.
var conventions = []struct {
	k      Kind
	method string
	marker reflect.Type
}{
	{Bool, config.ToBoolMethodName, boolableType},
	{String, config.ToStringMethodName, stringableType},
	{Int, config.ToIntMethodName, intableType},
	{Float, config.ToFloatMethodName, floatableType},
	{Element, config.ItemMethodName, itemableType},
	{Length, config.LenMethodName, countableType},
}

// Register inspects sample's dynamic type structurally and records its
// capability declarations: the method-convention mechanism for every
// conventionally-named method found, and the marker mechanism for every
// marker interface the type satisfies. Because each marker requires
// exactly the conventional method, a type declaring through both
// mechanisms supplies one underlying callable and resolves without
// conflict.
//
// Conformance is a derived structural check, not a subtype relation: a
// type is treated as marked just by having the right method shape. A
// conventionally-named method with the wrong shape is still recorded and
// surfaces as an InvalidReturnType conflict at first resolution.
func (e *Engine) Register(sample any) error {
	t := reflect.TypeOf(sample)
	if t == nil {
		return fmt.Errorf("cast: cannot register a nil sample")
	}
	for _, c := range conventions {
		m, ok := t.MethodByName(c.method)
		if !ok {
			continue
		}
		// Method expression form: the receiver is the first argument.
		fn := m.Func.Interface()
		if err := e.Declare(t, c.k, MethodConvention, fn); err != nil {
			return err
		}
		if t.Implements(c.marker) {
			if err := e.Declare(t, c.k, MarkerInterface, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
