package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/akamai2azion/internal/ctxlog"
	"github.com/vk/akamai2azion/internal/fsutil"
	"github.com/vk/akamai2azion/internal/source"
)

// Loader is the Terraform implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new Terraform configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// file is one parsed .tf file.
type file struct {
	path string
	dir  string
	src  []byte
	body *hclsyntax.Body
}

// Load parses every .tf file found under paths and returns their resources
// in file order, then source order.
func (l *Loader) Load(ctx context.Context, paths ...string) (source.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Terraform loader started.", "path_count", len(paths))

	names, err := findTerraformFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no Terraform files found in %v", paths)
	}
	logger.Debug("Discovered Terraform files.", "count", len(names))

	parser := hclparse.NewParser()
	files := make([]*file, 0, len(names))
	for _, name := range names {
		hf, diags := parser.ParseHCLFile(name)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", name, diags)
		}
		body, ok := hf.Body.(*hclsyntax.Body)
		if !ok {
			return nil, fmt.Errorf("failed to parse HCL file %s: unexpected body type %T", name, hf.Body)
		}
		files = append(files, &file{path: name, dir: filepath.Dir(name), src: hf.Bytes, body: body})
	}

	m := newModule(ctx, files)
	m.resolve()

	var entries []any
	for _, f := range files {
		for _, block := range f.body.Blocks {
			if block.Type != "resource" || len(block.Labels) != 2 {
				continue
			}
			typ, label := block.Labels[0], block.Labels[1]
			entries = append(entries, map[string]any{
				typ: map[string]any{label: m.body(f, block.Body)},
			})
		}
	}

	logger.Info("Terraform configuration loaded.", "files", len(files), "resources", len(entries))
	return source.Document{source.KeyResource: entries}, nil
}

// findTerraformFiles expands directories into their .tf files. Explicit file
// paths are taken as they are. A path that does not exist is an error.
func findTerraformFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		all = append(all, p)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".tf")
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	return all, nil
}
