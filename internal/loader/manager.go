// Package loader resolves the configuration files of a load, parses each of
// them with the strategy registered for its extension and folds the
// resulting documents into one merged configuration.
//
// Merge order encodes precedence:
//
//	default file → additional files (in listed order) → environment
//
// Within a file, documents are merged in the order they appear. A document
// is merged only when its profile selector matches the active profiles.
package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nauticalab/layerconf/internal/registry"
	"github.com/nauticalab/layerconf/internal/tree"
	"github.com/nauticalab/layerconf/pkg/settings"
	"github.com/nauticalab/layerconf/pkg/source"
)

var (
	// ErrFileNotFound is returned when a resolved configuration file does
	// not exist.
	ErrFileNotFound = errors.New("unable to find the file")
	// ErrMissingDefaultFile is returned when the default file name resolves
	// to an empty value.
	ErrMissingDefaultFile = errors.New("default configuration file is not set")
	// ErrUnsupportedExtension is returned for files no strategy handles.
	ErrUnsupportedExtension = errors.New("unsupported configuration file extension")
)

type registration struct {
	extension string
	strategy  source.Strategy
}

// Manager loads and merges configuration files.
type Manager struct {
	env        settings.Environment
	properties settings.Properties
	profiles   []string
	separator  string
	rootDir    string
	strategies []registration
	logger     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithStrategy registers strategy for files ending in extension (".toml").
// Registering a built-in extension replaces the built-in strategy.
func WithStrategy(extension string, strategy source.Strategy) Option {
	return func(m *Manager) {
		m.register(extension, strategy)
	}
}

// WithRootDir sets the directory relative base locations are resolved
// against. Defaults to the working directory.
func WithRootDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithSeparator sets the separator that marks environment variables
// addressing configuration keys. Defaults to settings.DefaultSeparator.
func WithSeparator(separator string) Option {
	return func(m *Manager) {
		m.separator = separator
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Manager from the environment snapshot and properties stored
// in reg. Both must have been set before.
func New(reg *registry.Registry, opts ...Option) (*Manager, error) {
	env, err := reg.Environment()
	if err != nil {
		return nil, fmt.Errorf("failed to create loader: %w", err)
	}
	properties, err := reg.Properties()
	if err != nil {
		return nil, fmt.Errorf("failed to create loader: %w", err)
	}

	m := &Manager{
		env:        env,
		properties: properties,
		separator:  settings.DefaultSeparator,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	m.register(".yaml", source.YAML{})
	m.register(".yml", source.YAML{})
	m.register(".json", source.JSON{})

	for _, opt := range opts {
		opt(m)
	}

	m.profiles = ActiveProfiles(properties.ActiveProfiles, env)

	return m, nil
}

func (m *Manager) register(extension string, strategy source.Strategy) {
	extension = strings.ToLower(extension)
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	for i, r := range m.strategies {
		if r.extension == extension {
			m.strategies[i].strategy = strategy
			return
		}
	}
	m.strategies = append(m.strategies, registration{extension: extension, strategy: strategy})
}

// ActiveProfiles returns the active profiles, in configured order.
func (m *Manager) ActiveProfiles() []string {
	out := make([]string, len(m.profiles))
	copy(out, m.profiles)
	return out
}

// SupportedExtensions lists the extensions with a registered strategy, in
// registration order.
func (m *Manager) SupportedExtensions() []string {
	out := make([]string, 0, len(m.strategies))
	for _, r := range m.strategies {
		out = append(out, r.extension)
	}
	return out
}

// Load resolves, parses and merges all configuration files, then merges the
// environment on top.
func (m *Manager) Load() (map[string]any, error) {
	files, err := m.Files()
	if err != nil {
		return nil, err
	}
	return m.LoadFiles(files)
}

// LoadFiles parses and merges files, as resolved by Files, in order and then
// merges the environment on top.
func (m *Manager) LoadFiles(files []string) (map[string]any, error) {
	m.logger.Debug("resolved configuration files", "files", files, "profiles", m.profiles)

	merged := make(map[string]any)
	for _, file := range files {
		fragment, err := m.loadFile(file)
		if err != nil {
			return nil, err
		}

		for index, doc := range fragment.Documents() {
			if err := m.mergeDocument(merged, doc, file, index); err != nil {
				return nil, err
			}
		}
	}

	if err := m.mergeEnvironment(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// Files resolves the absolute paths of the configuration files to load.
// An empty base location means there is nothing to load.
func (m *Manager) Files() ([]string, error) {
	baseLocation, _ := m.properties.BaseLocation.Lookup(m.env)
	baseLocation = strings.TrimSpace(baseLocation)
	if baseLocation == "" {
		return nil, nil
	}

	defaultFile, _ := m.properties.DefaultFile.Lookup(m.env)
	defaultFile = strings.TrimSpace(defaultFile)
	if defaultFile == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingDefaultFile, m.properties.DefaultFile.Name)
	}

	names := []string{defaultFile}
	if additional, ok := m.properties.AdditionalFiles.Lookup(m.env); ok {
		names = append(names, settings.SplitList(additional)...)
	}

	files := make([]string, 0, len(names))
	for _, name := range names {
		path, err := m.resolve(baseLocation, name)
		if err != nil {
			return nil, err
		}
		files = append(files, path)
	}

	return files, nil
}

func (m *Manager) resolve(baseLocation, name string) (string, error) {
	path := filepath.Join(baseLocation, name)
	if !filepath.IsAbs(path) && m.rootDir != "" {
		path = filepath.Join(m.rootDir, path)
	}

	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve configuration file %s: %w", path, err)
	}

	info, err := os.Stat(absolute)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w %s", ErrFileNotFound, absolute)
		}
		return "", fmt.Errorf("failed to stat configuration file %s: %w", absolute, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w %s: path is a directory", ErrFileNotFound, absolute)
	}

	return absolute, nil
}

func (m *Manager) loadFile(path string) (source.Fragment, error) {
	lower := strings.ToLower(path)

	for _, r := range m.strategies {
		if strings.HasSuffix(lower, r.extension) {
			fragment, err := r.strategy.LoadConfiguration(path)
			if err != nil {
				return source.Fragment{}, err
			}
			m.logger.Debug("loaded configuration file", "path", path, "documents", fragment.Len())
			return fragment, nil
		}
	}

	return source.Fragment{}, fmt.Errorf("%w: cannot load %s. Only %s are supported",
		ErrUnsupportedExtension, path, strings.Join(m.SupportedExtensions(), ","))
}

func (m *Manager) mergeDocument(merged map[string]any, doc any, file string, index int) error {
	if !tree.IsMapping(doc) {
		m.logger.Debug("skipping non-mapping document", "path", file, "document", index)
		return nil
	}

	declared := DeclaredProfiles(doc, m.properties.OnProfile.Name)
	if !Matches(declared, m.profiles) {
		m.logger.Debug("skipping document for inactive profile",
			"path", file, "document", index, "declared", declared, "active", m.profiles)
		return nil
	}

	if _, err := tree.Merge(merged, doc); err != nil {
		return fmt.Errorf("failed to merge document %d of %s: %w", index, file, err)
	}
	return nil
}

// mergeEnvironment merges every separator-bearing environment variable at
// the path its key spells out, giving the environment the last word.
func (m *Manager) mergeEnvironment(merged map[string]any) error {
	keys := make([]string, 0, len(m.env))
	for key := range m.env {
		if strings.Contains(key, m.separator) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	// With both "a.b" and "a.b.c" set, the deeper key wins on every run.
	sort.Strings(keys)

	overlay := make(map[string]any)
	for _, key := range keys {
		if err := tree.SetPath(overlay, strings.Split(key, m.separator), m.env[key]); err != nil {
			return fmt.Errorf("failed to apply environment variable %s: %w", key, err)
		}
	}

	if _, err := tree.Merge(merged, overlay); err != nil {
		return fmt.Errorf("failed to merge environment variables: %w", err)
	}
	return nil
}
