// Package akamai_property_activation recognizes akamai_property_activation
// resources. Azion applies configuration on write, so activations produce no
// records; the target network is only reported.
package akamai_property_activation

import (
	"context"

	"github.com/vk/akamai2azion/internal/ctxlog"
	"github.com/vk/akamai2azion/internal/registry"
	"github.com/vk/akamai2azion/internal/resource"
	"github.com/vk/akamai2azion/internal/source"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the converter with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterConverter("akamai_property_activation", Convert)
}

// Convert is the registry.Converter for akamai_property_activation.
func Convert(ctx context.Context, g *resource.Globals, label string, attrs map[string]any, _ *resource.Collection) error {
	network, ok := source.String(attrs, "network")
	if !ok {
		network = "STAGING"
	}
	ctxlog.FromContext(ctx).Info("Property activation is implicit on Azion, skipping.",
		"label", label, "network", network, "environment", g.Environment)
	return nil
}
