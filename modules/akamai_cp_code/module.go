// Package akamai_cp_code recognizes akamai_cp_code resources. CP codes are
// Akamai reporting and billing buckets with no Azion counterpart, so nothing
// is emitted for them.
package akamai_cp_code

import (
	"context"

	"github.com/vk/akamai2azion/internal/ctxlog"
	"github.com/vk/akamai2azion/internal/registry"
	"github.com/vk/akamai2azion/internal/resource"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the converter with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterConverter("akamai_cp_code", Convert)
}

// Convert is the registry.Converter for akamai_cp_code.
func Convert(ctx context.Context, _ *resource.Globals, label string, attrs map[string]any, _ *resource.Collection) error {
	ctxlog.FromContext(ctx).Debug("CP code has no Azion equivalent, nothing to emit.", "label", label, "name", attrs["name"])
	return nil
}
