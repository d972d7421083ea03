package summary

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/akamai2azion/internal/ctxlog"
	"github.com/vk/akamai2azion/internal/resource"
)

func records() []resource.Record {
	return []resource.Record{
		{Type: resource.TypeGlobalSettings, Name: "global_settings"},
		{Type: resource.TypeMainSetting, Name: "site"},
		{Type: resource.TypeRuleEngine, Name: "site_default_rule"},
		{Type: resource.TypeOrigin, Name: "site_origin"},
		{Type: resource.TypeRuleEngine, Name: "site_images"},
		{Type: resource.TypeDomain, Name: "www"},
	}
}

func TestBuild(t *testing.T) {
	s := Build(records())

	assert.Equal(t, 6, s.Total)
	assert.Equal(t, []TypeCount{
		{Type: resource.TypeGlobalSettings, Count: 1},
		{Type: resource.TypeMainSetting, Count: 1},
		{Type: resource.TypeRuleEngine, Count: 2},
		{Type: resource.TypeOrigin, Count: 1},
		{Type: resource.TypeDomain, Count: 1},
	}, s.ByType)
	assert.Equal(t, 2, s.Count(resource.TypeRuleEngine))
	assert.Equal(t, 0, s.Count(resource.TypeCacheSetting))
	assert.Equal(t, []string{
		resource.TypeDomain,
		resource.TypeMainSetting,
		resource.TypeOrigin,
		resource.TypeRuleEngine,
		resource.TypeGlobalSettings,
	}, s.Types())
}

func TestBuild_Empty(t *testing.T) {
	s := Build(nil)
	assert.Zero(t, s.Total)
	assert.Empty(t, s.ByType)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(records()).Write(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, []string{"TYPE", "COUNT"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{resource.TypeRuleEngine, "2"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"total", "6"}, strings.Fields(lines[6]))
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	Build(records()).Log(ctx)

	out := buf.String()
	assert.Contains(t, out, `msg="Conversion summary." total=6 types="[`+resource.TypeDomain+" ")
	assert.Contains(t, out, "type="+resource.TypeRuleEngine+" count=2")
}
