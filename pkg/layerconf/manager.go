package layerconf

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nauticalab/layerconf/internal/expand"
	"github.com/nauticalab/layerconf/internal/loader"
	"github.com/nauticalab/layerconf/internal/registry"
	"github.com/nauticalab/layerconf/internal/tree"
)

// State is the lifecycle stage of a Manager.
type State int

const (
	StateIdle State = iota
	StateRegistryPrimed
	StateLoaded
	StateTransformed
	StateValidated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRegistryPrimed:
		return "registry-primed"
	case StateLoaded:
		return "loaded"
	case StateTransformed:
		return "transformed"
	case StateValidated:
		return "validated"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Manager runs one configuration load and holds its validated result.
// A Manager is not safe for concurrent use.
type Manager[T any] struct {
	validator Validator[T]
	opts      options
	registry  *Registry

	state    State
	value    T
	raw      map[string]any
	files    []string
	profiles []string
}

// New creates a Manager that validates with v.
func New[T any](v Validator[T], opts ...Option) *Manager[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	reg := o.registry
	if reg == nil {
		reg = registry.New()
	}

	return &Manager[T]{
		validator: v,
		opts:      o,
		registry:  reg,
		state:     StateIdle,
	}
}

// State returns the current lifecycle stage.
func (m *Manager[T]) State() State {
	return m.state
}

// Load runs the pipeline once: prime the registry, load and merge the
// files, expand placeholders, apply the hook and validate.
func (m *Manager[T]) Load(ctx context.Context) (T, error) {
	var zero T

	if m.state != StateIdle {
		return zero, fmt.Errorf("%w: manager is %s", ErrAlreadyLoaded, m.state)
	}

	logger := m.opts.logger.With("loadId", uuid.NewString())
	start := time.Now()

	value, err := m.run(ctx, logger)
	if err != nil {
		m.state = StateFailed
		return zero, err
	}

	m.value = value
	m.state = StateValidated
	logger.Info("configuration loaded",
		"files", len(m.files),
		"profiles", m.profiles,
		"duration", time.Since(start))

	return value, nil
}

func (m *Manager[T]) run(ctx context.Context, logger *slog.Logger) (T, error) {
	var zero T

	if err := m.prime(); err != nil {
		return zero, err
	}
	defer m.registry.Clear()
	m.state = StateRegistryPrimed

	loaderOpts := append([]loader.Option{
		loader.WithLogger(logger),
		loader.WithSeparator(m.opts.separator),
		loader.WithRootDir(m.opts.rootDir),
	}, m.opts.strategies...)

	ldr, err := loader.New(m.registry, loaderOpts...)
	if err != nil {
		return zero, err
	}
	m.profiles = ldr.ActiveProfiles()
	logger.Debug("active profiles", "profiles", m.profiles)

	if m.files, err = ldr.Files(); err != nil {
		return zero, err
	}

	merged, err := ldr.LoadFiles(m.files)
	if err != nil {
		return zero, err
	}
	m.state = StateLoaded

	cfg, err := expand.New(m.registry).Expand(merged)
	if err != nil {
		return zero, err
	}
	m.state = StateTransformed

	if m.opts.hook != nil {
		patch, err := m.opts.hook(ctx, tree.Clone(cfg).(map[string]any))
		if err != nil {
			return zero, fmt.Errorf("configuration hook failed: %w", err)
		}
		for key, value := range patch {
			cfg[key] = value
		}
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	info := m.validator.Info()
	logger.Info("validating configuration", "vendor", info.Vendor, "version", info.Version)

	result, err := m.validator.Validate(withReservedRoots(ctx, m.opts.properties.Normalized().Roots()), cfg)
	if err != nil {
		return zero, fmt.Errorf("validator %s failed: %w", info.Vendor, err)
	}
	if len(result.Issues) > 0 {
		for _, issue := range result.Issues {
			logger.Error(issue.Message, "path", issue.Path)
		}
		return zero, &ValidationError{Issues: result.Issues}
	}

	m.raw = cfg
	return result.Value, nil
}

// prime writes the normalized properties and the environment snapshot into
// the registry.
func (m *Manager[T]) prime() error {
	if err := m.registry.SafeSet(registry.ConfigProperties, m.opts.properties.Normalized()); err != nil {
		return fmt.Errorf("failed to prime registry: %w", err)
	}
	if err := m.registry.SafeSet(registry.EnvironmentVariables, m.opts.environment()); err != nil {
		m.registry.Delete(registry.ConfigProperties)
		return fmt.Errorf("failed to prime registry: %w", err)
	}
	return nil
}

// Config returns the validated configuration.
func (m *Manager[T]) Config() (T, error) {
	if m.state != StateValidated {
		var zero T
		return zero, fmt.Errorf("%w: manager is %s", ErrNotLoaded, m.state)
	}
	return m.value, nil
}

// MustConfig is like Config but panics if the configuration is not loaded.
func (m *Manager[T]) MustConfig() T {
	cfg, err := m.Config()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Raw returns a copy of the expanded configuration that was handed to the
// validator.
func (m *Manager[T]) Raw() (map[string]any, error) {
	if m.state != StateValidated {
		return nil, fmt.Errorf("%w: manager is %s", ErrNotLoaded, m.state)
	}
	return tree.Clone(m.raw).(map[string]any), nil
}

// Files returns the configuration files of the last load, in merge order.
func (m *Manager[T]) Files() []string {
	out := make([]string, len(m.files))
	copy(out, m.files)
	return out
}

// Profiles returns the active profiles of the last load.
func (m *Manager[T]) Profiles() []string {
	out := make([]string, len(m.profiles))
	copy(out, m.profiles)
	return out
}
