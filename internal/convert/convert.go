package convert

import (
	"context"
	"fmt"

	"github.com/vk/akamai2azion/internal/ctxlog"
	"github.com/vk/akamai2azion/internal/extract"
	"github.com/vk/akamai2azion/internal/registry"
	"github.com/vk/akamai2azion/internal/resource"
	"github.com/vk/akamai2azion/internal/source"
)

// GlobalSettingsName is the name of the always-first record.
const GlobalSettingsName = "global_settings"

// Result is the output document of a conversion.
type Result struct {
	Resources []resource.Record `json:"resources"`
}

// Converter turns Akamai documents into Azion resources using a fixed
// registry. It holds no per-call state and may be shared.
type Converter struct {
	registry *registry.Registry
}

// New creates a Converter backed by reg.
func New(reg *registry.Registry) *Converter {
	return &Converter{registry: reg}
}

// Convert translates doc. On error no partial result is returned.
func (c *Converter) Convert(ctx context.Context, doc source.Document) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Converting Akamai configuration.")

	g := ResolveGlobals(ctx, doc)
	out := resource.NewCollection()
	out.Append(globalSettings(g))

	for i, entry := range doc.Entries() {
		if err := c.dispatch(ctx, g, out, i, entry); err != nil {
			logger.Error("Error processing resource.", "index", i, "error", err)
			return nil, err
		}
	}

	logger.Debug("Conversion finished.", "records", out.Len())
	return &Result{Resources: out.Records()}, nil
}

// ResolveGlobals runs the field extractors once, applying the placeholder
// fallback and the environment suffix.
func ResolveGlobals(ctx context.Context, doc source.Document) *resource.Globals {
	logger := ctxlog.FromContext(ctx)

	edge, ok := extract.EdgeHostname(doc)
	if !ok {
		logger.Warn("Edge hostname not found. Using placeholder as fallback.", "placeholder", extract.Placeholder)
		edge = extract.Placeholder
	}

	env := extract.Environment(doc)
	name := resource.QualifyName(extract.MainSettingName(doc), env)
	logger.Info("Main setting name deduced.", "main_setting_name", name, "environment", env)

	origin, ok := extract.OriginHostname(doc)
	if !ok {
		logger.Warn("Origin hostname not found. Using placeholder as fallback.", "placeholder", extract.Placeholder)
		origin = extract.Placeholder
	}

	docCtx := doc.Context()
	if docCtx == nil {
		docCtx = map[string]any{}
	}

	return &resource.Globals{
		MainSettingName: name,
		EdgeHostname:    edge,
		OriginHostname:  origin,
		Environment:     env,
		FunctionMap:     doc.FunctionMap(),
		Context:         docCtx,
		Hostnames:       extract.Hostnames(doc),
	}
}

func globalSettings(g *resource.Globals) resource.Record {
	return resource.Record{
		Type: resource.TypeGlobalSettings,
		Name: GlobalSettingsName,
		Attributes: map[string]any{
			"main_setting_name": g.MainSettingName,
			"edge_hostname":     g.EdgeHostname,
			"origin_hostname":   g.OriginHostname,
			"function_map":      g.FunctionMap,
			"environment":       g.Environment,
			"context":           g.Context,
		},
	}
}

// dispatch routes one source entry to the converters of its blocks.
func (c *Converter) dispatch(ctx context.Context, g *resource.Globals, out *resource.Collection, index int, entry any) error {
	logger := ctxlog.FromContext(ctx)

	blocks := source.Blocks(entry)
	if len(blocks) == 0 {
		logger.Warn("Skipping resource entry without a recognizable type.", "index", index)
		return nil
	}

	for _, b := range blocks {
		fn, ok := c.registry.Lookup(b.Type)
		if !ok {
			logger.Warn("Unsupported resource type, skipping.", "index", index, "type", b.Type, "name", b.Label)
			continue
		}

		attrs, ok := b.Attributes()
		if !ok {
			return fmt.Errorf("resource %s: attributes must be a mapping, got %T", b.Address(), b.Body)
		}

		before := out.Len()
		if err := fn(ctxlog.With(ctx, "resource", b.Address()), g, b.Label, attrs, out); err != nil {
			return fmt.Errorf("failed to convert %s: %w", b.Address(), err)
		}
		logger.Debug("Converted resource.", "resource", b.Address(), "records", out.Len()-before)
	}
	return nil
}
