package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nauticalab/layerconf/internal/cli"
)

var (
	// Check command flags
	checkRequire []string
	checkWorkers int
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check PROFILES...",
	Short: "Load the configuration once per profile set",
	Long: `Load the configuration once for every profile set given as an argument and
report which sets load and carry the required keys. Each argument is a
comma-separated list of profiles. Sets are loaded in parallel.

Examples:
  layerconf check default dev prod
  layerconf check dev,local prod --require database.host`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.CheckOptions{
			LoadOptions: loadOpts,
			Require:     checkRequire,
			Workers:     checkWorkers,
		}
		return cli.CheckRun(cmd.Context(), opts, args, os.Stdout)
	},
}

func init() {
	checkCmd.Flags().StringSliceVar(&checkRequire, "require", nil, "Comma-separated dotted keys that must be present")
	checkCmd.Flags().IntVar(&checkWorkers, "workers", 4, "Number of profile sets loaded at once")
}
