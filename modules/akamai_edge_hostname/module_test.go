package akamai_edge_hostname

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/akamai2azion/internal/resource"
	"github.com/vk/akamai2azion/internal/source"
)

func TestConvert(t *testing.T) {
	g := &resource.Globals{
		MainSettingName: "site",
		Environment:     resource.Production,
		Hostnames: []source.Hostname{
			{From: "www.example.com", To: "www.example.com.edgesuite.net"},
			{From: "other.example.com", To: "other.edgekey.net"},
		},
	}
	out := resource.NewCollection()

	err := Convert(context.Background(), g, "edge", map[string]any{
		"edge_hostname": "www.example.com.edgesuite.net",
		"certificate":   123,
	}, out)
	require.NoError(t, err)

	records := out.Records()
	require.Len(t, records, 1)
	assert.Equal(t, resource.TypeDomain, records[0].Type)
	assert.Equal(t, "www_example_com_edgesuite_net", records[0].Name)

	domain := records[0].Attributes["domain"].(map[string]any)
	assert.Equal(t, []any{"www.example.com"}, domain["cnames"])
	assert.Equal(t, false, domain["cname_access_only"])
	assert.Equal(t, 123, domain["digital_certificate_id"])
	assert.Equal(t, resource.ApplicationID("site"), domain["edge_application_id"])
}

func TestConvert_FallsBackToLabel(t *testing.T) {
	g := &resource.Globals{MainSettingName: "site_dev", Environment: "dev"}
	out := resource.NewCollection()

	require.NoError(t, Convert(context.Background(), g, "My Edge", map[string]any{}, out))

	records := out.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "my_edge_dev", records[0].Name)
	domain := records[0].Attributes["domain"].(map[string]any)
	assert.Equal(t, []any{}, domain["cnames"])
	assert.Nil(t, domain["digital_certificate_id"])
}

func TestConvert_DuplicateHostnamesGetDistinctNames(t *testing.T) {
	g := &resource.Globals{MainSettingName: "site", Environment: resource.Production}
	out := resource.NewCollection()

	for _, label := range []string{"a", "b"} {
		require.NoError(t, Convert(context.Background(), g, label, map[string]any{"edge_hostname": "www.example.com.edgesuite.net"}, out))
	}

	records := out.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "www_example_com_edgesuite_net", records[0].Name)
	assert.Equal(t, "www_example_com_edgesuite_net_2", records[1].Name)
	for _, r := range records {
		assert.Equal(t, false, r.Attributes["domain"].(map[string]any)["cname_access_only"])
	}
}

func TestConvert_NoName(t *testing.T) {
	err := Convert(context.Background(), &resource.Globals{}, "", map[string]any{}, resource.NewCollection())
	require.Error(t, err)
}
