package akamai_property

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/akamai2azion/internal/ctxlog"
	"github.com/vk/akamai2azion/internal/resource"
	"github.com/vk/akamai2azion/internal/source"
)

// Azion rules engine phases.
const (
	phaseDefault  = "default"
	phaseRequest  = "request"
	phaseResponse = "response"
)

// translator accumulates the records of one property. It only ever reads
// records it created itself.
type translator struct {
	logger   *slog.Logger
	g        *resource.Globals
	app      string
	features features
	records  []resource.Record
	out      *resource.Collection

	origins   map[string]string // hostname -> origin record name
	functions map[string]string // edgeWorker id -> instance record name
	groups    map[*source.Rule][]any
}

func newTranslator(ctx context.Context, g *resource.Globals, app string, out *resource.Collection) *translator {
	return &translator{
		logger:    ctxlog.FromContext(ctx),
		g:         g,
		app:       app,
		out:       out,
		origins:   make(map[string]string),
		functions: make(map[string]string),
		groups:    make(map[*source.Rule][]any),
	}
}

// ruleOutput collects what a single Akamai rule turns into.
type ruleOutput struct {
	request  []any
	response []any
	cache    *cachePolicy
}

func (t *translator) translate(root *source.Rule) error {
	if !hasOrigin(root) {
		name := t.origin(originOptions{Hostname: t.g.OriginHostname, ForwardHostHeader: "REQUEST_HOST_HEADER"})
		t.logger.Debug("Root rule has no origin behavior, using the resolved origin hostname.", "origin", name)
	}

	return root.Walk(func(r *source.Rule, ancestors []*source.Rule) error {
		isRoot := len(ancestors) == 0

		var ro ruleOutput
		if isRoot {
			if !hasOrigin(r) {
				ro.request = append(ro.request, setOrigin(t.origins[t.g.OriginHostname]))
			}
		}
		for _, bhv := range r.Behaviors {
			if err := t.behavior(r, bhv, &ro); err != nil {
				return wrapRule(r, fmt.Sprintf("behavior %q", bhv.Name), err)
			}
		}

		criteria := t.criteria(r, ancestors)

		if ro.cache != nil {
			cacheName := t.cacheSetting(r, isRoot, ro.cache)
			ro.request = append(ro.request, behavior("set_cache_policy",
				resource.NewRef(resource.TypeCacheSetting, cacheName, "cache_settings", "cache_setting_id")))
		}

		if len(ro.request) > 0 {
			phase := phaseRequest
			if isRoot {
				phase = phaseDefault
			}
			t.ruleEngine(r, isRoot, phase, criteria, ro.request)
		}
		if len(ro.response) > 0 {
			t.ruleEngine(r, isRoot, phaseResponse, criteria, ro.response)
		}
		return nil
	})
}

func hasOrigin(r *source.Rule) bool {
	for _, b := range r.Behaviors {
		if b.Name == "origin" {
			return true
		}
	}
	return false
}

func (t *translator) scopedName(typ, suffix string) string {
	base := t.app
	if s := source.Sanitize(suffix); s != "" {
		base = t.app + "_" + s
	}
	return t.out.Reserve(typ, base)
}

func (t *translator) ruleEngine(r *source.Rule, isRoot bool, phase string, criteria []any, behaviors []any) {
	display := ruleLabel(r)
	if isRoot {
		display = "Default Rule"
	}
	if phase == phaseResponse {
		display += " (response)"
	}

	name := t.scopedName(resource.TypeRuleEngine, display)
	results := map[string]any{
		"name":        display,
		"phase":       phase,
		"description": r.Comments,
		"is_active":   true,
		"criteria":    criteria,
		"behaviors":   behaviors,
	}
	t.records = append(t.records, resource.Record{
		Type: resource.TypeRuleEngine,
		Name: name,
		Attributes: map[string]any{
			"edge_application_id": resource.ApplicationID(t.app),
			"results":             results,
		},
	})
}

// behavior builds a rules engine behavior entry. A nil target omits
// target_object.
func behavior(name string, target any) map[string]any {
	b := map[string]any{"name": name}
	if target != nil {
		b["target_object"] = map[string]any{"target": target}
	}
	return b
}

func setOrigin(originName string) map[string]any {
	return behavior("set_origin", resource.NewRef(resource.TypeOrigin, originName, "origin", "origin_id"))
}
