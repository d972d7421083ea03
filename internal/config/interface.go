package config

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/vk/akamai2azion/internal/source"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths and returns it as a
	// single document.
	Load(ctx context.Context, paths ...string) (source.Document, error)
}

// Format identifies an input format.
type Format string

const (
	FormatTerraform Format = "terraform"
	FormatDocument  Format = "document"
)

// DetectFormat picks the loader for path by its extension. Directories and
// .tf files are Terraform; everything else is read as a JSON/YAML document.
func DetectFormat(path string, isDir bool) Format {
	if isDir {
		return FormatTerraform
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tf", ".hcl":
		return FormatTerraform
	default:
		return FormatDocument
	}
}
