package main

import (
	"github.com/spf13/cobra"

	"github.com/yigit/gradesheet/internal/bootstrap"
	"github.com/yigit/gradesheet/internal/server"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
			if err != nil {
				return err
			}

			srv, err := server.NewServer(cmd.Context(), cfg, lgr)
			if err != nil {
				return err
			}

			// Run blocks until shutdown
			if err := srv.Run(); err != nil {
				return err
			}

			lgr.Info().Msg("Application finished gracefully.")
			return nil
		},
	}
}
