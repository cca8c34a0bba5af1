package main

import (
	"github.com/spf13/cobra"

	"github.com/nauticalab/layerconf/internal/cli"
)

var (
	// Global flags (available to all commands)
	verbose  bool
	loadOpts cli.LoadOptions
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "layerconf",
	Short: "Load layered, profile-aware application configuration",
	Long: `layerconf loads YAML and JSON configuration files the way an application
using the layerconf package would, and prints or checks the result.

Files, profiles and overrides come from environment variables
(config.baseLocation, config.location, config.additionalLocation,
profiles.active, and any dotted key such as database.password).
The flags below set the same variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadOpts.Verbose = verbose
	},
}

func init() {
	// Global flags available to all subcommands
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVar(&loadOpts.BaseLocation, "base", "", "Directory containing the configuration files (config.baseLocation)")
	flags.StringVar(&loadOpts.DefaultFile, "file", "", "Configuration file loaded first (config.location)")
	flags.StringVar(&loadOpts.Additional, "additional", "", "Comma-separated files merged after the first one (config.additionalLocation)")
	flags.StringVar(&loadOpts.Profiles, "profiles", "", "Comma-separated active profiles (profiles.active)")
	flags.StringVar(&loadOpts.RootDir, "root", "", "Directory a relative base location is resolved against")

	// Add subcommands to root
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}
