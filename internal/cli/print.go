package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nauticalab/layerconf/pkg/layerconf"
)

// PrintOptions holds configuration for the print command
type PrintOptions struct {
	LoadOptions
	Format string
}

// PrintRun loads the configuration without schema validation and writes the
// expanded result to out.
func PrintRun(ctx context.Context, opts PrintOptions, out io.Writer) error {
	encode, err := encoderFor(opts.Format)
	if err != nil {
		return err
	}

	manager := newManager(opts.LoadOptions, layerconf.Passthrough(), opts.Profiles)
	cfg, err := manager.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.Verbose {
		printLoadSummary(opts.stderr(), manager.Files(), manager.Profiles())
	}

	return encode(out, cfg)
}

type encoder func(io.Writer, map[string]any) error

func encoderFor(format string) (encoder, error) {
	switch format {
	case "", "yaml":
		return func(w io.Writer, cfg map[string]any) error {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("failed to encode YAML: %w", err)
			}
			return enc.Close()
		}, nil
	case "json":
		return func(w io.Writer, cfg map[string]any) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("failed to encode JSON: %w", err)
			}
			return nil
		}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use yaml or json)", format)
	}
}
