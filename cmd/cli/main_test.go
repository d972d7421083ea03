package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/akamai2azion/internal/cli"
)

func TestRun_Converts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(input, []byte(`{
		"context": {"environment": "dev"},
		"resource": [{"akamai_edge_hostname": {"edge": {"edge_hostname": "www.example.com.edgesuite.net"}}}]
	}`), 0o600))

	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	require.NoError(t, run(out, logs, []string{"-log-level", "debug", input}))

	var doc struct {
		Resources []struct {
			Type string `json:"type"`
			Name string `json:"name"`
		} `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Resources, 2)
	assert.Equal(t, "global_settings", doc.Resources[0].Type)
	assert.Equal(t, "www_example_com_edgesuite_net_dev", doc.Resources[1].Name)
	assert.Contains(t, logs.String(), "Converting Akamai configuration.")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := run(out, errOut, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	assert.Contains(t, errOut.String(), "Usage:", "help text goes to the error writer")
	assert.Empty(t, out.String())
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_InvalidTerraform(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.tf"), []byte(`
		resource "akamai_property" "site" {
			name = "site"
		// Missing closing brace here
	`), 0o600))

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{dir})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
	assert.Contains(t, err.Error(), "failed to parse HCL file")
}
