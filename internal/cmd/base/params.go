package base

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
)

// Params collects repeated -param name=value flags. Names are dotted for
// nesting, so "configuration.pin-attempts=5" becomes
// {"configuration": {"pin-attempts": "5"}}. Struct fields are matched in
// kebab, snake or camel case; keys of map fields such as placeholders are
// kept as written.
type Params map[string]string

func (p Params) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + p[k]
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value.
func (p Params) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	p[strings.TrimSpace(name)] = value
	return nil
}

// Map returns the parameters as a nested map. A name that is both a value
// and a parent of other names is an error.
func (p Params) Map() (map[string]any, error) {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]any)
	for _, name := range names {
		segments := strings.Split(name, ".")
		m := out
		for i, seg := range segments {
			if i == len(segments)-1 {
				if _, ok := m[seg]; ok {
					return nil, fmt.Errorf("parameter %q is also used as a parent", name)
				}
				m[seg] = p[name]
				break
			}
			next, ok := m[seg].(map[string]any)
			if !ok {
				if _, exists := m[seg]; exists {
					return nil, fmt.Errorf("parameter %q is also set as a value",
						strings.Join(segments[:i+1], "."))
				}
				next = make(map[string]any)
				m[seg] = next
			}
			m = next
		}
	}
	return out, nil
}

// Decode converts the parameters into v, a pointer to a request struct.
// Values are converted loosely ("true" to bool, "5" to int) and
// comma-separated values fill slices.
func (p Params) Decode(v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		MatchName:        matchName,
		Result:           v,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	m, err := p.Map()
	if err != nil {
		return err
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func matchName(key, field string) bool {
	return strcase.ToLowerCamel(key) == field || strings.EqualFold(key, field)
}
