// Command gradesheet serves the grade sheet API and runs ingestion from the command line.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/gradesheet/internal/pkg/logger"
)

const (
	Version = "0.1.0"
	appName = "gradesheet"
)

// BuildTime is set with -ldflags at release time
var BuildTime = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		// Use the default logger setup by the logger package's init
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Student grade sheet ingestion service",
		Long: `gradesheet ingests .xlsx and .csv grade sheets, validates every row,
stores the resulting student records and serves them to the dashboard over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Config file path (YAML)")

	cmd.AddCommand(
		serveCmd(&configPath),
		ingestCmd(&configPath),
		migrateCmd(&configPath),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}
