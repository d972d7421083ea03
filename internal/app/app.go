package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/vk/akamai2azion/internal/convert"
	"github.com/vk/akamai2azion/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	inR       io.Reader
	logger    *slog.Logger
	config    *Config
	registry  *registry.Registry
	converter *convert.Converter
}

// NewApp is the constructor for the main application. Converted output and
// the summary go to outW, logs go to logW. When no modules are given the
// core converters are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.NewWithModules(modules...)
	logger.Debug("All converter modules registered.", "count", len(modules), "types", reg.Types())

	return &App{
		outW:      outW,
		inR:       os.Stdin,
		logger:    logger,
		config:    cfg,
		registry:  reg,
		converter: convert.New(reg),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
