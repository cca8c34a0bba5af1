// Package registry holds the values derived once at the start of a load and
// read by every later stage: the environment snapshot and the normalized
// configuration properties.
//
// Each key can be written once per load cycle. The owner clears the registry
// when the cycle ends. Two loads sharing one Registry at the same time are a
// usage error and surface as ErrAlreadySet on the second priming.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nauticalab/layerconf/pkg/settings"
)

// Key names a registry entry.
type Key string

const (
	// EnvironmentVariables holds a settings.Environment.
	EnvironmentVariables Key = "environmentVariables"
	// ConfigProperties holds a settings.Properties.
	ConfigProperties Key = "configProperties"
)

var (
	// ErrAlreadySet is returned when a key is written twice in one cycle.
	ErrAlreadySet = errors.New("already set in registry")
	// ErrMissingKey is returned when a key is read before it was written.
	ErrMissingKey = errors.New("missing in registry")
)

// Registry is a write-once store scoped to a single load.
type Registry struct {
	mu    sync.Mutex
	store map[Key]any
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{store: make(map[Key]any)}
}

// SafeSet stores value under key. It fails if key is already present.
func (r *Registry) SafeSet(key Key, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.store == nil {
		r.store = make(map[Key]any)
	}
	if _, exists := r.store[key]; exists {
		return fmt.Errorf("%s is %w", key, ErrAlreadySet)
	}
	r.store[key] = value
	return nil
}

// StrictGet returns the value stored under key. It fails if key is absent.
func (r *Registry) StrictGet(key Key) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, ok := r.store[key]
	if !ok {
		return nil, fmt.Errorf("%s is %w", key, ErrMissingKey)
	}
	return value, nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (r *Registry) Delete(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, key)
}

// Clear removes every entry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.store)
}

// Environment returns the environment snapshot.
func (r *Registry) Environment() (settings.Environment, error) {
	return get[settings.Environment](r, EnvironmentVariables)
}

// Properties returns the configuration properties.
func (r *Registry) Properties() (settings.Properties, error) {
	return get[settings.Properties](r, ConfigProperties)
}

func get[T any](r *Registry, key Key) (T, error) {
	var zero T

	value, err := r.StrictGet(key)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%s holds %T, expected %T", key, value, zero)
	}
	return typed, nil
}
