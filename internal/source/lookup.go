package source

import (
	"fmt"
	"strings"
)

// AsMap normalizes v to a string-keyed mapping. YAML decoders may produce
// map[any]any for documents with non-string keys; those keys are rendered
// with fmt.Sprint.
func AsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return map[string]any(m), true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// Items returns v as a list. HCL-derived documents wrap nested blocks in
// lists while hand-written JSON often uses a bare object, so a single
// mapping is returned as a one-element list. nil yields nil.
func Items(v any) []any {
	switch l := v.(type) {
	case nil:
		return nil
	case []any:
		return l
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out
	}
	if m, ok := AsMap(v); ok {
		return []any{m}
	}
	return nil
}

// Lookup walks a chain of mapping keys. A missing key or a non-mapping
// intermediate value reports absence. When an intermediate value is a list,
// its first element is used.
func Lookup(v any, path ...string) (any, bool) {
	cur := v
	for _, key := range path {
		if l, ok := cur.([]any); ok {
			if len(l) == 0 {
				return nil, false
			}
			cur = l[0]
		}
		m, ok := AsMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String looks up path and returns the value when it is a non-blank string.
func String(v any, path ...string) (string, bool) {
	raw, ok := Lookup(v, path...)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// IsUnresolved reports whether s is an expression the loader could not
// evaluate, such as "${data.akamai_property_rules_template.rules.json}".
func IsUnresolved(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}")
}
