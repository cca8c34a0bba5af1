package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nauticalab/layerconf/internal/cli"
)

var (
	// Validate command flags
	validateRequire []string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the configuration loads and has the required keys",
	Long: `Load the configuration for the active profiles and check it.

This command checks for:
- Missing configuration files
- Unsupported file extensions
- Placeholders that resolve to nothing
- Required keys that are absent or null

Examples:
  layerconf validate
  layerconf validate --require database.host,database.password
  layerconf validate --profiles prod --require server.port`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ValidateOptions{
			LoadOptions: loadOpts,
			Require:     validateRequire,
		}
		return cli.ValidateRun(cmd.Context(), opts, os.Stdout)
	},
}

func init() {
	validateCmd.Flags().StringSliceVar(&validateRequire, "require", nil, "Comma-separated dotted keys that must be present")
}
