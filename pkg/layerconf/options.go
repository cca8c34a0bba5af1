package layerconf

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/nauticalab/layerconf/internal/loader"
	"github.com/nauticalab/layerconf/internal/registry"
	"github.com/nauticalab/layerconf/pkg/settings"
	"github.com/nauticalab/layerconf/pkg/source"
)

// Hook runs after expansion and before validation. The keys of the returned
// mapping replace the top-level keys of the configuration.
type Hook func(ctx context.Context, cfg map[string]any) (map[string]any, error)

// Registry holds the per-load environment snapshot and properties. Managers
// create their own unless one is shared through WithRegistry.
type Registry = registry.Registry

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return registry.New()
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	hook       Hook
	environ    []string
	vars       map[string]string
	separator  string
	properties settings.Properties
	registry   *Registry
	rootDir    string
	strategies []loader.Option
}

func defaultOptions() options {
	return options{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		separator:  settings.DefaultSeparator,
		properties: settings.DefaultProperties(),
	}
}

// environment builds the snapshot taken at the start of a load.
func (o options) environment() settings.Environment {
	if o.vars != nil {
		return settings.FromMap(o.vars, o.separator)
	}
	if o.environ != nil {
		return settings.Snapshot(o.environ, o.separator)
	}
	return settings.Snapshot(os.Environ(), o.separator)
}

// WithHook sets a hook run between expansion and validation.
func WithHook(hook Hook) Option {
	return func(o *options) {
		o.hook = hook
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEnvironment replaces the process environment with vars.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) {
		o.vars = vars
		if o.vars == nil {
			o.vars = map[string]string{}
		}
	}
}

// WithEnviron replaces the process environment with "key=value" pairs.
func WithEnviron(environ []string) Option {
	return func(o *options) {
		o.environ = environ
		if o.environ == nil {
			o.environ = []string{}
		}
	}
}

// WithEnvSeparator sets the separator marking environment variables that
// address configuration keys. Defaults to ".".
func WithEnvSeparator(separator string) Option {
	return func(o *options) {
		if separator != "" {
			o.separator = separator
		}
	}
}

// WithProperties replaces the property set naming the environment keys
// that locate files and select profiles.
func WithProperties(properties settings.Properties) Option {
	return func(o *options) {
		o.properties = properties
	}
}

// WithRegistry shares reg with other managers. Only one of them may load at
// a time.
func WithRegistry(reg *Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithStrategy registers a source strategy for an extension such as ".toml".
func WithStrategy(extension string, strategy source.Strategy) Option {
	return func(o *options) {
		o.strategies = append(o.strategies, loader.WithStrategy(extension, strategy))
	}
}

// WithRootDir sets the directory a relative base location is resolved
// against. Defaults to the working directory.
func WithRootDir(dir string) Option {
	return func(o *options) {
		o.rootDir = dir
	}
}
