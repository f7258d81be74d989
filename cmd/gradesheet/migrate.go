package main

import (
	"github.com/spf13/cobra"

	"github.com/yigit/gradesheet/internal/bootstrap"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations (postgres) or indexes (mongo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			storage, err := bootstrap.OpenStorage(ctx, cfg, lgr)
			if err != nil {
				return err
			}

			cmd.Printf("%s storage schema is up to date\n", storage.Driver)
			return storage.Close(ctx)
		},
	}
}
