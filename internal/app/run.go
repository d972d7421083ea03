package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/akamai2azion/internal/config"
	"github.com/vk/akamai2azion/internal/ctxlog"
	"github.com/vk/akamai2azion/internal/document"
	"github.com/vk/akamai2azion/internal/hcl"
	"github.com/vk/akamai2azion/internal/output"
	"github.com/vk/akamai2azion/internal/resource"
	"github.com/vk/akamai2azion/internal/source"
	"github.com/vk/akamai2azion/internal/summary"
)

// Run loads the configured input, converts it and writes the result.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "input", a.config.InputPath, "format", a.config.Format)

	doc, err := a.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := a.inject(ctx, doc); err != nil {
		return err
	}

	res, err := a.converter.Convert(ctx, doc)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	s := summary.Build(res.Resources)
	s.Log(ctx)
	if s.Count(resource.TypeDomain) == 0 {
		a.logger.Warn("No domain was converted, nothing routes traffic to the edge application.")
	}

	format, err := output.ParseFormat(a.config.Format)
	if err != nil {
		return err
	}
	if !a.config.writesToFile() {
		return output.Write(a.outW, format, res.Resources)
	}

	if ext := filepath.Ext(a.config.OutputPath); !strings.EqualFold(ext, format.Extension()) {
		a.logger.Warn("Output file extension does not match the output format.", "path", a.config.OutputPath, "format", format, "want", format.Extension())
	}
	if err := writeFile(a.config.OutputPath, func(w io.Writer) error {
		return output.Write(w, format, res.Resources)
	}); err != nil {
		return err
	}
	a.logger.Info("Output written.", "path", a.config.OutputPath, "format", format)
	return s.Write(a.outW)
}

func (a *App) load(ctx context.Context) (source.Document, error) {
	path := a.config.InputPath
	if path == StdinPath {
		raw, err := io.ReadAll(a.inR)
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		a.logger.Debug("Reading document from standard input.", "bytes", len(raw))
		return document.Parse(raw, "stdin")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var loader config.Loader
	switch config.DetectFormat(path, info.IsDir()) {
	case config.FormatTerraform:
		loader = hcl.NewLoader()
	default:
		loader = document.NewLoader()
	}
	a.logger.Debug("Loader selected.", "loader", fmt.Sprintf("%T", loader))
	return loader.Load(ctx, path)
}

// inject applies the command-line overrides to the loaded document.
func (a *App) inject(ctx context.Context, doc source.Document) error {
	if env := a.config.Environment; env != "" {
		docCtx := make(map[string]any)
		for k, v := range doc.Context() {
			docCtx[k] = v
		}
		docCtx["environment"] = env
		doc[source.KeyContext] = docCtx
		a.logger.Debug("Environment set from configuration.", "environment", env)
	}

	if path := a.config.FunctionMapPath; path != "" {
		fm, err := document.LoadFunctionMap(ctx, path)
		if err != nil {
			return err
		}
		if doc.FunctionMap() != nil {
			a.logger.Warn("Replacing the document's function map.", "path", path)
		}
		doc[source.KeyFunctionMap] = fm
	}
	return nil
}

// writeFile creates path, including missing parent directories, and hands it
// to write.
func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
