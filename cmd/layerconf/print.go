package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nauticalab/layerconf/internal/cli"
)

var (
	// Print command flags
	printFormat string
)

// printCmd represents the print command
var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the merged and expanded configuration",
	Long: `Load the configuration for the active profiles and print the result after
merging and placeholder expansion. No schema validation is applied.

Examples:
  layerconf print
  layerconf print --base ./config --profiles dev,local
  layerconf print --format json --additional secrets.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.PrintOptions{
			LoadOptions: loadOpts,
			Format:      printFormat,
		}
		return cli.PrintRun(cmd.Context(), opts, os.Stdout)
	},
}

func init() {
	printCmd.Flags().StringVarP(&printFormat, "format", "o", "yaml", "Output format (yaml or json)")
}
