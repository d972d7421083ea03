package hcl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// TypeRulesTemplate is the Akamai data source that assembles a rule tree
// from JSON snippets.
const TypeRulesTemplate = "akamai_property_rules_template"

const (
	includePrefix   = "#include:"
	maxIncludeDepth = 16
)

// rulesTemplate expands a rules template data source once its template_file
// is known. The result exposes the rendered tree as .json.
func (m *module) rulesTemplate(p pendingData) (cty.Value, bool) {
	attr, ok := p.body.Attributes["template_file"]
	if !ok {
		return cty.NilVal, false
	}
	v, diags := attr.Expr.Value(m.evalContext(p.file))
	if diags.HasErrors() || !v.IsWhollyKnown() || v.Type() != cty.String || v.IsNull() {
		return cty.NilVal, false
	}

	path := resolvePath(p.file.dir, v.AsString())
	rendered, err := expandTemplate(path)
	if err != nil {
		m.logger.Warn("Failed to expand rules template.", "data", "data."+p.typ+"."+p.name, "error", err)
		return cty.NilVal, false
	}
	m.logger.Debug("Expanded rules template.", "template_file", path, "bytes", len(rendered))

	return cty.ObjectVal(map[string]cty.Value{
		"template_file": cty.StringVal(path),
		"json":          cty.StringVal(rendered),
	}), true
}

// expandTemplate reads a rules template and replaces every "#include:<file>"
// string with the parsed content of that file. Includes resolve against the
// directory of the top-level template.
func expandTemplate(path string) (string, error) {
	v, err := readInclude(filepath.Dir(path), path, 0)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readInclude(dir, path string, depth int) (any, error) {
	if depth > maxIncludeDepth {
		return nil, fmt.Errorf("include depth exceeds %d at %s", maxIncludeDepth, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return resolveIncludes(dir, v, depth)
}

func resolveIncludes(dir string, v any, depth int) (any, error) {
	switch t := v.(type) {
	case string:
		if name, ok := strings.CutPrefix(t, includePrefix); ok {
			return readInclude(dir, filepath.Join(dir, strings.TrimSpace(name)), depth+1)
		}
	case []any:
		for i := range t {
			r, err := resolveIncludes(dir, t[i], depth)
			if err != nil {
				return nil, err
			}
			t[i] = r
		}
	case map[string]any:
		for k := range t {
			r, err := resolveIncludes(dir, t[k], depth)
			if err != nil {
				return nil, err
			}
			t[k] = r
		}
	}
	return v, nil
}
