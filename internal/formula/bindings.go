package formula

import (
	"sort"

	"github.com/spf13/cast"
)

// ToBindings coerces loosely typed values, as decoded from JSON or a node's
// inputs, into Bindings. Keys must be identifiers; values must convert to a
// number. Failures are ValueErrors naming the offending key.
func ToBindings(values map[string]interface{}) (Bindings, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make(Bindings, len(values))
	for _, name := range names {
		if !IsIdentifier(name) {
			return nil, valueErrorf("Invalid variable name: '%s'", name)
		}
		raw := values[name]
		if raw == nil {
			return nil, valueErrorf("Variable '%s' has no value.", name)
		}
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, valueErrorf("Variable '%s' must be a number, got %T.", name, raw)
		}
		vars[name] = v
	}
	return vars, nil
}
