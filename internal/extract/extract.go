// Package extract locates the configuration-wide identity fields of an
// Akamai document: edge hostname, origin hostname, main setting name and
// environment. Every lookup is nil-safe; a missing intermediate key simply
// means the field is absent.
package extract

import (
	"fmt"
	"strings"

	"github.com/vk/akamai2azion/internal/resource"
	"github.com/vk/akamai2azion/internal/source"
)

// Akamai resource types the extractors inspect.
const (
	TypeProperty     = "akamai_property"
	TypeEdgeHostname = "akamai_edge_hostname"
)

const (
	// Placeholder substitutes a hostname that could not be found.
	Placeholder = "placeholder.example.com"
	// DefaultMainSettingName is used when nothing in the document names it.
	DefaultMainSettingName = "akamai_main_setting"
)

// EdgeHostname returns the first edge hostname declared by, in order: an
// akamai_edge_hostname resource, the cname_to of the first akamai_property
// hostnames block, or context.edge_hostname.
func EdgeHostname(doc source.Document) (string, bool) {
	for _, b := range doc.BlocksOfType(TypeEdgeHostname) {
		if h, ok := hostname(b.Body, "edge_hostname"); ok {
			return h, true
		}
	}
	for _, b := range doc.BlocksOfType(TypeProperty) {
		if h, ok := hostname(b.Body, "hostnames", "cname_to"); ok {
			return h, true
		}
	}
	return hostname(doc.Context(), "edge_hostname")
}

// hostname is source.String that also rejects expressions the loader could
// not evaluate.
func hostname(v any, path ...string) (string, bool) {
	h, ok := source.String(v, path...)
	if !ok || source.IsUnresolved(h) {
		return "", false
	}
	return h, true
}

// OriginHostname returns the hostname of the first origin behavior found in
// the rule trees of the akamai_property resources, then in the top-level
// rules document, falling back to context.origin_hostname. Rule trees that
// cannot be decoded are skipped.
func OriginHostname(doc source.Document) (string, bool) {
	for _, b := range doc.BlocksOfType(TypeProperty) {
		rules, ok := source.Lookup(b.Body, source.KeyRules)
		if !ok {
			continue
		}
		if h, ok := originInRules(rules); ok {
			return h, true
		}
	}
	if rules, ok := doc[source.KeyRules]; ok {
		if h, ok := originInRules(rules); ok {
			return h, true
		}
	}
	return hostname(doc.Context(), "origin_hostname")
}

func originInRules(raw any) (string, bool) {
	tree, err := source.DecodeRules(raw)
	if err != nil {
		return "", false
	}
	var found string
	_ = tree.Walk(func(r *source.Rule, _ []*source.Rule) error {
		if found != "" {
			return nil
		}
		for _, bhv := range r.Behaviors {
			if bhv.Name != "origin" {
				continue
			}
			if h, ok := hostname(bhv.Options, "hostname"); ok {
				found = h
				return nil
			}
		}
		return nil
	})
	return found, found != ""
}

// MainSettingName derives the base name of the edge application. It never
// returns an empty string.
func MainSettingName(doc source.Document) string {
	if props := doc.BlocksOfType(TypeProperty); len(props) > 0 {
		attrs, _ := props[0].Attributes()
		if name := PropertyName(props[0].Label, attrs); name != "" {
			return name
		}
	}
	if name, ok := source.String(doc.Context(), "property_name"); ok {
		if s := source.Sanitize(name); s != "" {
			return s
		}
	}
	return DefaultMainSettingName
}

// PropertyName is the sanitized name of an akamai_property: its name
// attribute, or its label when the attribute is missing or unusable.
func PropertyName(label string, attrs map[string]any) string {
	if name, ok := source.String(attrs, "name"); ok && !source.IsUnresolved(name) {
		if s := source.Sanitize(name); s != "" {
			return s
		}
	}
	return source.Sanitize(label)
}

// Environment returns context.environment, defaulting to production when it
// is absent, blank or not a scalar. Numbers and booleans are used as text.
func Environment(doc source.Document) string {
	raw, _ := source.Lookup(doc.Context(), "environment")
	switch v := raw.(type) {
	case string:
		if env := strings.TrimSpace(v); env != "" {
			return env
		}
	case bool, int, int64, float64:
		return fmt.Sprint(v)
	}
	return resource.Production
}

// Hostnames collects every hostnames block of every akamai_property, in
// document order. Blocks without a cname_from are ignored.
func Hostnames(doc source.Document) []source.Hostname {
	var out []source.Hostname
	for _, b := range doc.BlocksOfType(TypeProperty) {
		raw, _ := source.Lookup(b.Body, "hostnames")
		for _, item := range source.Items(raw) {
			from, ok := source.String(item, "cname_from")
			if !ok {
				continue
			}
			to, _ := source.String(item, "cname_to")
			cert, _ := source.String(item, "cert_provisioning_type")
			out = append(out, source.Hostname{From: from, To: to, CertProvisioningType: cert})
		}
	}
	return out
}
