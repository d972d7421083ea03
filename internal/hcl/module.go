package hcl

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/akamai2azion/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Terraform meta-arguments that carry no resource configuration.
var metaArguments = map[string]bool{
	"count":      true,
	"for_each":   true,
	"depends_on": true,
	"provider":   true,
}

var metaBlocks = map[string]bool{
	"lifecycle":   true,
	"provisioner": true,
	"connection":  true,
	"dynamic":     true,
}

// module holds the statically known values of a set of .tf files.
type module struct {
	logger *slog.Logger
	files  []*file

	vars      map[string]cty.Value
	locals    map[string]cty.Value
	data      map[string]map[string]cty.Value
	resources map[string]map[string]cty.Value
	known     int // resource attributes resolved so far
}

type pendingExpr struct {
	name string
	expr hclsyntax.Expression
	file *file
}

type pendingData struct {
	typ, name string
	body      *hclsyntax.Body
	file      *file
}

func newModule(ctx context.Context, files []*file) *module {
	return &module{
		logger:    ctxlog.FromContext(ctx),
		files:     files,
		vars:      make(map[string]cty.Value),
		locals:    make(map[string]cty.Value),
		data:      make(map[string]map[string]cty.Value),
		resources: make(map[string]map[string]cty.Value),
	}
}

// resolve evaluates variables, then locals, data sources and resource
// attributes until no more of them can be resolved. Whatever is left stays
// unknown.
func (m *module) resolve() {
	var locals []pendingExpr
	var data []pendingData

	for _, f := range m.files {
		for _, block := range f.body.Blocks {
			switch {
			case block.Type == "variable" && len(block.Labels) == 1:
				m.variable(block)
			case block.Type == "locals":
				for _, name := range sortedAttributes(block.Body) {
					locals = append(locals, pendingExpr{name: name, expr: block.Body.Attributes[name].Expr, file: f})
				}
			case block.Type == "data" && len(block.Labels) == 2 && block.Labels[0] == TypeRulesTemplate:
				data = append(data, pendingData{typ: block.Labels[0], name: block.Labels[1], body: block.Body, file: f})
			}
		}
	}

	for progress := true; progress; {
		progress = false

		remaining := locals[:0]
		for _, p := range locals {
			v, diags := p.expr.Value(m.evalContext(p.file))
			if diags.HasErrors() || !v.IsWhollyKnown() {
				remaining = append(remaining, p)
				continue
			}
			m.locals[p.name] = v
			progress = true
		}
		locals = remaining

		left := data[:0]
		for _, p := range data {
			v, ok := m.rulesTemplate(p)
			if !ok {
				left = append(left, p)
				continue
			}
			if m.data[p.typ] == nil {
				m.data[p.typ] = make(map[string]cty.Value)
			}
			m.data[p.typ][p.name] = v
			progress = true
		}
		data = left

		if m.resolveResources() {
			progress = true
		}
	}

	for _, p := range locals {
		m.logger.Debug("Local value left unresolved.", "local", p.name, "file", p.file.path)
	}
	for _, p := range data {
		m.logger.Warn("Rules template could not be expanded, references to it stay unresolved.", "data", "data."+p.typ+"."+p.name)
	}
}

// variable records the default of a variable block. TF_VAR_<name> overrides
// the default the same way it does for Terraform itself.
func (m *module) variable(block *hclsyntax.Block) {
	name := block.Labels[0]
	if env, ok := os.LookupEnv("TF_VAR_" + name); ok {
		m.vars[name] = cty.StringVal(env)
		return
	}
	attr, ok := block.Body.Attributes["default"]
	if !ok {
		return
	}
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		m.logger.Debug("Variable default is not a constant.", "variable", name)
		return
	}
	m.vars[name] = v
}

// resolveResources exposes the statically known top-level attributes of
// every resource, so a reference such as akamai_edge_hostname.edge.edge_hostname
// resolves when its target is a literal. It reports whether anything new
// became known.
func (m *module) resolveResources() bool {
	next := make(map[string]map[string]cty.Value)
	known := 0
	for _, f := range m.files {
		ectx := m.evalContext(f)
		for _, block := range f.body.Blocks {
			if block.Type != "resource" || len(block.Labels) != 2 {
				continue
			}
			attrs := make(map[string]cty.Value)
			for name, attr := range block.Body.Attributes {
				if metaArguments[name] {
					continue
				}
				v, diags := attr.Expr.Value(ectx)
				if diags.HasErrors() || !v.IsWhollyKnown() {
					continue
				}
				attrs[name] = v
				known++
			}
			typ := block.Labels[0]
			if next[typ] == nil {
				next[typ] = make(map[string]cty.Value)
			}
			next[typ][block.Labels[1]] = cty.ObjectVal(attrs)
		}
	}

	m.resources = next
	if known <= m.known {
		return false
	}
	m.known = known
	return true
}

func (m *module) evalContext(f *file) *hcl.EvalContext {
	data := make(map[string]cty.Value, len(m.data))
	for typ, byName := range m.data {
		data[typ] = cty.ObjectVal(byName)
	}
	vars := map[string]cty.Value{
		"var":   cty.ObjectVal(m.vars),
		"local": cty.ObjectVal(m.locals),
		"data":  cty.ObjectVal(data),
		"path": cty.ObjectVal(map[string]cty.Value{
			"module": cty.StringVal(f.dir),
			"root":   cty.StringVal(f.dir),
			"cwd":    cty.StringVal(cwd()),
		}),
	}
	for typ, byName := range m.resources {
		if _, taken := vars[typ]; !taken {
			vars[typ] = cty.ObjectVal(byName)
		}
	}
	return &hcl.EvalContext{Variables: vars, Functions: functions(f.dir)}
}

// body renders a block body as a mapping. Nested blocks become lists of
// mappings keyed by block type, in source order.
func (m *module) body(f *file, b *hclsyntax.Body) map[string]any {
	ectx := m.evalContext(f)
	out := make(map[string]any, len(b.Attributes))

	for _, name := range sortedAttributes(b) {
		if metaArguments[name] {
			continue
		}
		out[name] = m.value(f, ectx, b.Attributes[name].Expr)
	}

	for _, block := range b.Blocks {
		if metaBlocks[block.Type] {
			m.logger.Debug("Skipping meta block.", "block", block.Type, "file", f.path)
			continue
		}
		list, _ := out[block.Type].([]any)
		out[block.Type] = append(list, m.body(f, block.Body))
	}
	return out
}

// value evaluates expr, falling back to its source text when it depends on
// something only a Terraform run could know.
func (m *module) value(f *file, ectx *hcl.EvalContext, expr hclsyntax.Expression) any {
	v, diags := expr.Value(ectx)
	if !diags.HasErrors() && v.IsWhollyKnown() {
		native, err := ctyToGo(v)
		if err == nil {
			return native
		}
		m.logger.Debug("Value has no native representation.", "error", err)
	}
	return unresolved(f, expr)
}

// unresolved renders expr as an interpolation string.
func unresolved(f *file, expr hclsyntax.Expression) string {
	switch e := expr.(type) {
	case *hclsyntax.TemplateWrapExpr:
		return "${" + sourceText(f, e.Wrapped) + "}"
	case *hclsyntax.TemplateExpr:
		if src := sourceText(f, e); len(src) >= 2 && src[0] == '"' && src[len(src)-1] == '"' {
			return src[1 : len(src)-1]
		}
	}
	return "${" + sourceText(f, expr) + "}"
}

func sourceText(f *file, expr hclsyntax.Expression) string {
	return strings.TrimSpace(string(expr.Range().SliceBytes(f.src)))
}

func sortedAttributes(b *hclsyntax.Body) []string {
	names := make([]string, 0, len(b.Attributes))
	for name := range b.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cwd() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
