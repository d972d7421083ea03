// Package akamai_edge_hostname converts akamai_edge_hostname resources into
// Azion domains bound to the main edge application.
package akamai_edge_hostname

import (
	"context"
	"errors"

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
	r.RegisterConverter(extract.TypeEdgeHostname, Convert)
}

// Convert is the registry.Converter for akamai_edge_hostname.
func Convert(ctx context.Context, g *resource.Globals, label string, attrs map[string]any, out *resource.Collection) error {
	logger := ctxlog.FromContext(ctx)

	hostname, ok := source.String(attrs, "edge_hostname")
	if !ok {
		logger.Warn("Edge hostname resource without edge_hostname, naming the domain after its label.", "label", label)
		hostname = label
	}
	name := source.Sanitize(hostname)
	if name == "" {
		return errors.New("edge hostname has neither a usable edge_hostname nor a label")
	}

	cnames := []any{}
	for _, h := range g.Hostnames {
		if h.To == hostname {
			cnames = append(cnames, h.From)
		}
	}

	var certificate any
	if cert, ok := attrs["certificate"]; ok && cert != nil {
		certificate = cert
	}

	out.Append(resource.Record{
		Type: resource.TypeDomain,
		Name: out.Reserve(resource.TypeDomain, g.Qualify(name)),
		Attributes: map[string]any{
			"domain": map[string]any{
				"name":                   hostname,
				"cnames":                 cnames,
				"cname_access_only":      false,
				"digital_certificate_id": certificate,
				"edge_application_id":    resource.ApplicationID(g.MainSettingName),
				"is_active":              true,
			},
		},
	})
	logger.Debug("Edge hostname converted.", "domain", hostname, "cnames", len(cnames))
	return nil
}
