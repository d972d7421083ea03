// Package akamai_property converts akamai_property resources, including
// their rule trees, into an Azion edge application: main setting, origins,
// cache settings, edge function instances and rules engine entries.
package akamai_property

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/akamai2azion/internal/ctxlog"
	"github.com/vk/akamai2azion/internal/extract"
	"github.com/vk/akamai2azion/internal/registry"
	"github.com/vk/akamai2azion/internal/resource"
	"github.com/vk/akamai2azion/internal/source"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the converter with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterConverter(extract.TypeProperty, Convert)
}

// Convert is the registry.Converter for akamai_property.
func Convert(ctx context.Context, g *resource.Globals, label string, attrs map[string]any, out *resource.Collection) error {
	logger := ctxlog.FromContext(ctx)

	base := extract.PropertyName(label, attrs)
	if base == "" {
		return errors.New("property has neither a usable name nor a label")
	}
	app := out.Reserve(resource.TypeMainSetting, g.Qualify(base))

	var tree *source.Rule
	if raw, ok := attrs[source.KeyRules]; ok && raw != nil {
		var err error
		tree, err = source.DecodeRules(raw)
		switch {
		case errors.Is(err, source.ErrUnresolvedRules):
			logger.Warn("Rule tree is an unresolved expression, converting without rules.", "rules", raw)
			tree = nil
		case err != nil:
			return err
		}
	}
	if tree == nil {
		tree = &source.Rule{Name: "default"}
	}

	t := newTranslator(ctx, g, app, out)
	if err := t.translate(tree); err != nil {
		return err
	}

	out.Append(mainSetting(app, attrs, t.features))
	for _, r := range t.records {
		out.Append(r)
	}
	logger.Debug("Property converted.", "main_setting", app, "records", len(t.records)+1)
	return nil
}

// features are the main setting switches turned on by behaviors.
type features struct {
	EdgeFunctions           bool
	ImageOptimization       bool
	HTTP3                   bool
	L2Caching               bool
	ApplicationAcceleration bool
}

func mainSetting(app string, attrs map[string]any, f features) resource.Record {
	protocol := "http"
	https := false
	raw, _ := source.Lookup(attrs, "hostnames")
	for _, h := range source.Items(raw) {
		if _, ok := source.String(h, "cert_provisioning_type"); ok {
			protocol = "http,https"
			https = true
			break
		}
	}

	edgeApp := map[string]any{
		"name":                     app,
		"supported_ciphers":        "all",
		"delivery_protocol":        protocol,
		"http_port":                []any{80},
		"minimum_tls_version":      "",
		"debug_rules":              false,
		"caching":                  true,
		"edge_functions":           f.EdgeFunctions,
		"image_optimization":       f.ImageOptimization,
		"http3":                    f.HTTP3,
		"application_acceleration": f.ApplicationAcceleration,
		"l2_caching":               f.L2Caching,
		"load_balancer":            false,
		"raw_logs":                 false,
		"device_detection":         false,
		"web_application_firewall": false,
	}
	if https {
		edgeApp["https_port"] = []any{443}
		edgeApp["minimum_tls_version"] = "tls_1_2"
	}

	return resource.Record{
		Type:       resource.TypeMainSetting,
		Name:       app,
		Attributes: map[string]any{"edge_application": edgeApp},
	}
}

func ruleLabel(r *source.Rule) string {
	if r.Name != "" {
		return r.Name
	}
	return "rule"
}

func wrapRule(r *source.Rule, what string, err error) error {
	return fmt.Errorf("rule %q, %s: %w", ruleLabel(r), what, err)
}
