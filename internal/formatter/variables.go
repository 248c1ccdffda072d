package formatter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownVariable is returned when a template names a variable that has no value.
var ErrUnknownVariable = errors.New("unknown template variable")

// Variables maps template variable names to their values.
type Variables map[string]string

// Resolve returns the value of name, or ErrUnknownVariable listing what is available.
func (v Variables) Resolve(name string) (string, error) {
	if value, ok := v[name]; ok {
		return value, nil
	}
	return "", fmt.Errorf("%w: %s (available: %s)", ErrUnknownVariable, name, strings.Join(v.names(), ", "))
}

// With returns a copy of v with extra pairs applied on top.
func (v Variables) With(pairs ...string) Variables {
	out := make(Variables, len(v)+len(pairs)/2)
	for k, val := range v {
		out[k] = val
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		out[pairs[i]] = pairs[i+1]
	}
	return out
}

func (v Variables) names() []string {
	names := make([]string, 0, len(v))
	for k := range v {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
