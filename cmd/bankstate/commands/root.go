// Package commands provides the CLI commands for bankstate.
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/thealiamalia/nyami-bank-state/internal/config"
	"github.com/thealiamalia/nyami-bank-state/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	logLevel   string
	prettyLogs bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "bankstate",
	Short: "Expose bank open/closed state to localhost for overlays",
	Long: `bankstate serves a single flag, whether the bank interface is open,
as JSON on http://127.0.0.1:<port>/state for overlay applications.

Run 'bankstate serve' to start the status server, and 'bankstate probe'
to query a running one.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional
		_ = godotenv.Load()

		logging.Init(logging.Config{
			Level:  logging.ParseLevel(logLevel),
			Output: os.Stderr,
			Pretty: prettyLogs,
		})
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty", false, "Human-readable log output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $BANKSTATE_CONFIG or $XDG_CONFIG_HOME/bankstate/config.json)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("bankstate %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(widgetCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// resolveConfigPath returns the --config flag or the default location.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}
