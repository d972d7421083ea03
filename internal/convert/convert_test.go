package convert

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/akamai2azion/internal/ctxlog"
	"github.com/vk/akamai2azion/internal/extract"
	"github.com/vk/akamai2azion/internal/registry"
	"github.com/vk/akamai2azion/internal/resource"
	"github.com/vk/akamai2azion/internal/source"
	"github.com/vk/akamai2azion/modules/akamai_cp_code"
	"github.com/vk/akamai2azion/modules/akamai_edge_hostname"
	"github.com/vk/akamai2azion/modules/akamai_property"
	"github.com/vk/akamai2azion/modules/akamai_property_activation"
)

func newConverter() *Converter {
	return New(registry.NewWithModules(
		&akamai_property.Module{},
		&akamai_edge_hostname.Module{},
		&akamai_cp_code.Module{},
		&akamai_property_activation.Module{},
	))
}

// logCtx returns a context whose logger writes into the returned buffer.
func logCtx(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), buf
}

func entry(typ, label string, attrs any) map[string]any {
	return map[string]any{typ: map[string]any{label: attrs}}
}

func siteDocument() source.Document {
	return source.Document{
		"context":      map[string]any{"environment": "production"},
		"function_map": map[string]any{"1": "fn"},
		"resource": []any{
			entry("akamai_cp_code", "cp", map[string]any{"name": "site"}),
			entry("akamai_property", "site", map[string]any{
				"name": "site",
				"hostnames": []any{map[string]any{
					"cname_from": "www.example.com", "cname_to": "www.example.com.edgesuite.net", "cert_provisioning_type": "CPS_MANAGED",
				}},
				"rules": map[string]any{"name": "default", "behaviors": []any{
					map[string]any{"name": "origin", "options": map[string]any{"hostname": "origin.example.com"}},
				}},
			}),
			entry("akamai_edge_hostname", "edge", map[string]any{"edge_hostname": "www.example.com.edgesuite.net"}),
			entry("akamai_property_activation", "act", map[string]any{"network": "PRODUCTION"}),
		},
	}
}

func TestConvert_GlobalSettings(t *testing.T) {
	ctx, _ := logCtx(t)
	res, err := newConverter().Convert(ctx, siteDocument())
	require.NoError(t, err)

	require.NotEmpty(t, res.Resources)
	gs := res.Resources[0]
	assert.Equal(t, resource.TypeGlobalSettings, gs.Type)
	assert.Equal(t, GlobalSettingsName, gs.Name)
	assert.Equal(t, "site", gs.Attributes["main_setting_name"])
	assert.Equal(t, "www.example.com.edgesuite.net", gs.Attributes["edge_hostname"])
	assert.Equal(t, "origin.example.com", gs.Attributes["origin_hostname"])
	assert.Equal(t, "production", gs.Attributes["environment"])
	assert.Equal(t, map[string]any{"1": "fn"}, gs.Attributes["function_map"])
	assert.Equal(t, map[string]any{"environment": "production"}, gs.Attributes["context"])

	var types []string
	for _, r := range res.Resources {
		types = append(types, r.Type)
	}
	assert.Equal(t, []string{
		resource.TypeGlobalSettings,
		resource.TypeMainSetting,
		resource.TypeOrigin,
		resource.TypeRuleEngine,
		resource.TypeDomain,
	}, types)
}

func TestConvert_PlaceholderHostnames(t *testing.T) {
	ctx, logs := logCtx(t)
	res, err := newConverter().Convert(ctx, source.Document{})
	require.NoError(t, err)

	require.Len(t, res.Resources, 1)
	gs := res.Resources[0]
	assert.Equal(t, extract.Placeholder, gs.Attributes["edge_hostname"])
	assert.Equal(t, extract.Placeholder, gs.Attributes["origin_hostname"])
	assert.Equal(t, extract.DefaultMainSettingName, gs.Attributes["main_setting_name"])
	assert.Nil(t, gs.Attributes["function_map"])
	assert.Equal(t, map[string]any{}, gs.Attributes["context"])

	assert.Contains(t, logs.String(), "level=WARN msg=\"Edge hostname not found. Using placeholder as fallback.\"")
	assert.Contains(t, logs.String(), "level=WARN msg=\"Origin hostname not found. Using placeholder as fallback.\"")
}

func TestConvert_EnvironmentNaming(t *testing.T) {
	testCases := []struct {
		name    string
		context any
		wantEnv string
		want    string
	}{
		{name: "absent context", context: nil, wantEnv: "production", want: "site"},
		{name: "absent environment", context: map[string]any{}, wantEnv: "production", want: "site"},
		{name: "explicit production", context: map[string]any{"environment": "production"}, wantEnv: "production", want: "site"},
		{name: "staging", context: map[string]any{"environment": "staging"}, wantEnv: "staging", want: "site_staging"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc := source.Document{"resource": []any{entry("akamai_property", "site", map[string]any{})}}
			if tc.context != nil {
				doc["context"] = tc.context
			}

			ctx, logs := logCtx(t)
			res, err := newConverter().Convert(ctx, doc)
			require.NoError(t, err)

			gs := res.Resources[0]
			assert.Equal(t, tc.wantEnv, gs.Attributes["environment"])
			assert.Equal(t, tc.want, gs.Attributes["main_setting_name"])
			assert.Equal(t, tc.want, res.Resources[1].Name, "main setting record follows the qualified name")
			assert.Contains(t, logs.String(), "main_setting_name="+tc.want)
		})
	}
}

func TestConvert_GlobalSettingsAlwaysFirst(t *testing.T) {
	doc := siteDocument()
	entries := doc.Entries()
	reversed := make([]any, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}
	doc["resource"] = reversed

	ctx, _ := logCtx(t)
	res, err := newConverter().Convert(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, resource.TypeGlobalSettings, res.Resources[0].Type)
	assert.Equal(t, resource.TypeDomain, res.Resources[1].Type)
}

func TestConvert_UnknownTypeIsSkipped(t *testing.T) {
	doc := source.Document{"resource": []any{
		entry("akamai_gtm_domain", "gtm", map[string]any{"name": "gtm"}),
		entry("akamai_edge_hostname", "edge", map[string]any{"edge_hostname": "e.edgesuite.net"}),
	}}

	ctx, logs := logCtx(t)
	res, err := newConverter().Convert(ctx, doc)
	require.NoError(t, err)

	require.Len(t, res.Resources, 2)
	assert.Equal(t, resource.TypeGlobalSettings, res.Resources[0].Type)
	assert.Equal(t, resource.TypeDomain, res.Resources[1].Type)
	assert.Contains(t, logs.String(), "Unsupported resource type, skipping.")
	assert.Contains(t, logs.String(), "type=akamai_gtm_domain")
}

func TestConvert_ShapelessEntriesAreSkipped(t *testing.T) {
	doc := source.Document{"resource": []any{
		"just a string",
		map[string]any{},
		map[string]any{"akamai_gtm_domain": "no labels"},
	}}

	ctx, logs := logCtx(t)
	res, err := newConverter().Convert(ctx, doc)
	require.NoError(t, err)
	assert.Len(t, res.Resources, 1)
	assert.Contains(t, logs.String(), "Skipping resource entry without a recognizable type.")
}

func TestConvert_ConverterErrorPropagates(t *testing.T) {
	testCases := []struct {
		name    string
		doc     source.Document
		errText string
	}{
		{
			name: "invalid rules",
			doc: source.Document{"resource": []any{
				entry("akamai_edge_hostname", "edge", map[string]any{"edge_hostname": "e.edgesuite.net"}),
				entry("akamai_property", "site", map[string]any{"rules": "{not json"}),
			}},
			errText: "failed to convert akamai_property.site: invalid rules JSON",
		},
		{
			name:    "attributes not a mapping",
			doc:     source.Document{"resource": []any{entry("akamai_property", "site", []any{"x"})}},
			errText: "resource akamai_property.site: attributes must be a mapping",
		},
		{
			name:    "recognized type without labels",
			doc:     source.Document{"resource": []any{map[string]any{"akamai_property": "oops"}}},
			errText: "resource akamai_property: attributes must be a mapping",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ctx, logs := logCtx(t)
			res, err := newConverter().Convert(ctx, tc.doc)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Contains(t, err.Error(), tc.errText)
			assert.Contains(t, logs.String(), "Error processing resource.")
		})
	}
}

func TestConvert_Idempotent(t *testing.T) {
	c := newConverter()
	ctx, _ := logCtx(t)

	first, err := c.Convert(ctx, siteDocument())
	require.NoError(t, err)
	second, err := c.Convert(ctx, siteDocument())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("conversions differ (-first +second):\n%s", diff)
	}
}

func TestConvert_ParallelCallsAreIsolated(t *testing.T) {
	c := newConverter()
	for _, env := range []string{"production", "staging", "dev"} {
		env := env
		t.Run(env, func(t *testing.T) {
			t.Parallel()
			doc := siteDocument()
			doc["context"] = map[string]any{"environment": env}

			res, err := c.Convert(context.Background(), doc)
			require.NoError(t, err)
			assert.Equal(t, resource.QualifyName("site", env), res.Resources[0].Attributes["main_setting_name"])
		})
	}
}
