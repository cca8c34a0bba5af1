package layerconf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nauticalab/layerconf/internal/expand"
	"github.com/nauticalab/layerconf/internal/loader"
	"github.com/nauticalab/layerconf/internal/registry"
	"github.com/nauticalab/layerconf/internal/tree"
)

var (
	// ErrNotLoaded is returned when the configuration is read before a
	// successful Load.
	ErrNotLoaded = errors.New("configuration not loaded")
	// ErrAlreadyLoaded is returned when Load is called a second time on
	// the same Manager.
	ErrAlreadyLoaded = errors.New("configuration load already attempted")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("configuration validation failed")
)

// Errors raised by the pipeline stages, re-exported for errors.Is checks.
var (
	ErrFileNotFound         = loader.ErrFileNotFound
	ErrMissingDefaultFile   = loader.ErrMissingDefaultFile
	ErrUnsupportedExtension = loader.ErrUnsupportedExtension
	ErrUnresolvedReference  = expand.ErrUnresolvedReference
	ErrNotMapping           = tree.ErrNotMapping
	ErrAlreadySet           = registry.ErrAlreadySet
	ErrMissingKey           = registry.ErrMissingKey
)

// Issue is one problem reported by a validator.
type Issue struct {
	// Message describes the problem.
	Message string
	// Path is the dotted path of the offending value, if known.
	Path string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// ValidationError carries every issue reported by the validator.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		messages = append(messages, issue.String())
	}
	return fmt.Sprintf("%s:\n  - %s", ErrValidation, strings.Join(messages, "\n  - "))
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
