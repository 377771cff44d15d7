package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "gl2s3ig",
	Short: "gl2s3ig - convert Gitleaks rules to SSSIG rules",
	Long: `gl2s3ig converts a Gitleaks config.toml into an SSSIG rules.yaml.

Each Gitleaks regex is split around its secret capture group into the
prefix, target and suffix patterns of an SSSIG target.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setLogLevel,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(versionCmd)
}

func setLogLevel(cmd *cobra.Command, args []string) error {
	log.SetOutput(cmd.ErrOrStderr())
	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
