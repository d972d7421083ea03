// Package document loads Akamai configuration that is already in document
// form: a JSON or YAML file whose top level holds resource, context,
// function_map and rules. It also loads standalone function maps.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/akamai2azion/internal/ctxlog"
	"github.com/vk/akamai2azion/internal/source"
	"gopkg.in/yaml.v3"
)

// Loader is the JSON/YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new document loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads each path as a document and merges them in order: resource
// entries are concatenated, any other top-level key is taken from the last
// document that sets it.
func (l *Loader) Load(ctx context.Context, paths ...string) (source.Document, error) {
	logger := ctxlog.FromContext(ctx)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no document paths given")
	}

	merged := source.Document{}
	var entries []any
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", path, err)
		}
		doc, err := Parse(raw, path)
		if err != nil {
			return nil, err
		}
		logger.Debug("Parsed document.", "path", path, "entries", len(doc.Entries()))

		for k, v := range doc {
			if k == source.KeyResource {
				continue
			}
			merged[k] = v
		}
		entries = append(entries, doc.Entries()...)
	}
	merged[source.KeyResource] = entries

	logger.Info("Document configuration loaded.", "files", len(paths), "resources", len(entries))
	return merged, nil
}

// Parse decodes a single document. name is used for error messages and to
// pick the decoder: .json files are read as JSON, everything else as YAML.
func Parse(raw []byte, name string) (source.Document, error) {
	v, err := decode(raw, name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", name, err)
	}
	if v == nil {
		return source.Document{}, nil
	}
	m, ok := source.AsMap(v)
	if !ok {
		return nil, fmt.Errorf("document %s: top level must be a mapping, got %T", name, v)
	}
	return source.Document(m), nil
}

// LoadFunctionMap reads a function map file. The value is returned exactly
// as decoded; its shape is interpreted by the edgeWorker conversion.
func LoadFunctionMap(ctx context.Context, path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read function map %s: %w", path, err)
	}
	v, err := decode(raw, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse function map %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Loaded function map.", "path", path)
	return v, nil
}

func decode(raw []byte, name string) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var v any
	if strings.EqualFold(filepath.Ext(name), ".json") {
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
