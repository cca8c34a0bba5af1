package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nauticalab/layerconf/internal/tree"
	"github.com/nauticalab/layerconf/pkg/layerconf"
)

// ValidateOptions holds configuration for the validate command
type ValidateOptions struct {
	LoadOptions
	Require []string
}

// RequiredKeys returns a validator that reports every dotted key in keys
// that is absent or null in the configuration.
func RequiredKeys(keys []string) layerconf.Validator[map[string]any] {
	return layerconf.ValidatorFunc[map[string]any](func(_ context.Context, input map[string]any) (layerconf.Result[map[string]any], error) {
		var issues []layerconf.Issue
		for _, key := range keys {
			if value, ok := tree.Get(input, key, true); !ok || value == nil {
				issues = append(issues, layerconf.Issue{
					Message: fmt.Sprintf("'%s' is required", key),
					Path:    key,
				})
			}
		}
		return layerconf.Result[map[string]any]{Value: input, Issues: issues}, nil
	})
}

// ValidateRun loads the configuration for the active profiles and checks
// the required keys.
func ValidateRun(ctx context.Context, opts ValidateOptions, out io.Writer) error {
	fmt.Fprintln(out, "🔍 Validating configuration...")

	manager := newManager(opts.LoadOptions, RequiredKeys(opts.Require), opts.Profiles)
	_, err := manager.Load(ctx)

	var validationErr *layerconf.ValidationError
	switch {
	case errors.As(err, &validationErr):
		printIssues(out, validationErr.Issues)
		return err
	case err != nil:
		fmt.Fprintf(out, "❌ Configuration Error: %v\n", err)
		return err
	}

	if opts.Verbose {
		printLoadSummary(out, manager.Files(), manager.Profiles())
	}
	fmt.Fprintf(out, "✅ Configuration is valid! (%d files, %d required keys)\n", len(manager.Files()), len(opts.Require))
	return nil
}

func printIssues(out io.Writer, issues []layerconf.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(out, "❌ Missing Key: %s\n", issue.Message)
	}
	fmt.Fprintf(out, "❌ Validation failed with %d errors\n", len(issues))

	fmt.Fprintln(out, "\n💡 Suggestions:")
	fmt.Fprintln(out, "   • Add the keys to a configuration file for the active profiles")
	fmt.Fprintln(out, "   • Or set them as environment variables, e.g. database.password=...")
}
