package source

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ErrUnresolvedRules is returned by DecodeRules when the rule tree is an
// expression the loader could not evaluate.
var ErrUnresolvedRules = errors.New("rule tree is an unresolved expression")

// Rule is one node of an Akamai property rule tree.
type Rule struct {
	Name                string      `mapstructure:"name"`
	Comments            string      `mapstructure:"comments"`
	CriteriaMustSatisfy string      `mapstructure:"criteriaMustSatisfy"`
	Behaviors           []Behavior  `mapstructure:"behaviors"`
	Criteria            []Criterion `mapstructure:"criteria"`
	Children            []*Rule     `mapstructure:"children"`
}

// Behavior is a named rule behavior with its raw options.
type Behavior struct {
	Name    string         `mapstructure:"name"`
	Options map[string]any `mapstructure:"options"`
}

// Criterion is a named match condition with its raw options.
type Criterion struct {
	Name    string         `mapstructure:"name"`
	Options map[string]any `mapstructure:"options"`
}

// MatchAny reports whether a single matching criterion is enough.
func (r *Rule) MatchAny() bool {
	return r.CriteriaMustSatisfy == "any"
}

// DecodeRules decodes a rule tree given either as a mapping or as a JSON
// string. The PAPI export wrapper {"rules": {...}} is unwrapped.
func DecodeRules(v any) (*Rule, error) {
	if s, ok := v.(string); ok {
		if IsUnresolved(s) {
			return nil, ErrUnresolvedRules
		}
		var parsed any
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			return nil, fmt.Errorf("invalid rules JSON: %w", err)
		}
		v = parsed
	}

	m, ok := AsMap(v)
	if !ok {
		return nil, fmt.Errorf("rules must be an object, got %T", v)
	}
	if inner, ok := AsMap(m[KeyRules]); ok {
		m = inner
	}

	var rule Rule
	if err := DecodeOptions(m, &rule); err != nil {
		return nil, fmt.Errorf("failed to decode rule tree: %w", err)
	}
	return &rule, nil
}

// DecodeOptions decodes a raw mapping into a typed struct using mapstructure
// tags. Scalars are converted leniently (e.g. "8080" into an int field).
func DecodeOptions(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ZeroFields:       true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// Walk visits the tree depth-first, parents before children. fn receives
// the rule and its ancestors, root first. Returning an error stops the walk.
func (r *Rule) Walk(fn func(rule *Rule, ancestors []*Rule) error) error {
	return r.walk(nil, fn)
}

func (r *Rule) walk(ancestors []*Rule, fn func(*Rule, []*Rule) error) error {
	if err := fn(r, ancestors); err != nil {
		return err
	}
	path := make([]*Rule, len(ancestors), len(ancestors)+1)
	copy(path, ancestors)
	path = append(path, r)
	for _, child := range r.Children {
		if child == nil {
			continue
		}
		if err := child.walk(path, fn); err != nil {
			return err
		}
	}
	return nil
}
