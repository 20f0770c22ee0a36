// Package cli implements the newscred command line.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/factchecker/newscred/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

const defaultConfigPath = "config.yaml"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "newscred",
	Short: "newscred - news credibility checks against published fact-checks",
	Long: `newscred extracts short factual claims from a news item (title, body and
optionally the article page), looks each one up in a fact-check service and
aggregates the verdicts into a single credibility score and label.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "newscred %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigPath, "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
}

// loadConfig reads the config file. A missing default file falls back to
// built-in defaults with the API key taken from FACT_CHECK_API_KEY; a missing
// file named with --config is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		if _, statErr := os.Stat(cfgFile); !errors.Is(statErr, os.ErrNotExist) || cmd.Flags().Changed("config") {
			return nil, err
		}
		cfg = config.DefaultConfig()
		cfg.FactCheck.APIKey = os.Getenv("FACT_CHECK_API_KEY")
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}
