package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupAppTest creates an app with debug logging captured in a buffer. Set
// AKAMAI2AZION_TEST_LOGS=true to print the logs of every test.
func setupAppTest(t *testing.T, cfg Config) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	a := NewApp(out, logs, validated)

	t.Cleanup(func() {
		if os.Getenv("AKAMAI2AZION_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs
}

func writeTestFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const propertyTF = `
variable "domain" {
  default = "example.com"
}

resource "akamai_cp_code" "cp" {
  name = "site"
}

resource "akamai_edge_hostname" "edge" {
  edge_hostname = "www.${var.domain}.edgesuite.net"
}

resource "akamai_property" "site" {
  name = "site"
  hostnames {
    cname_from             = "www.${var.domain}"
    cname_to               = akamai_edge_hostname.edge.edge_hostname
    cert_provisioning_type = "CPS_MANAGED"
  }
  rules = jsonencode({
    rules = {
      name = "default"
      behaviors = [
        { name = "origin", options = { hostname = "origin.${var.domain}", forwardHostHeader = "REQUEST_HOST_HEADER" } },
      ]
      children = [
        {
          name     = "Images"
          criteria = [{ name = "fileExtension", options = { matchOperator = "IS_ONE_OF", values = ["jpg", "png"] } }]
          behaviors = [
            { name = "caching", options = { behavior = "MAX_AGE", ttl = "7d" } },
          ]
        },
      ]
    }
  })
}

resource "akamai_property_activation" "prod" {
  network = "PRODUCTION"
}
`
