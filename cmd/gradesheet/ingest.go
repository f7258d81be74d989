package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yigit/gradesheet/internal/bootstrap"
	"github.com/yigit/gradesheet/internal/pkg/apperrors"
)

func ingestCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>",
		Short: "Replace the stored students with the contents of a grade sheet",
		Long: `Runs the same pipeline as POST /api/upload against the configured storage.
The whole file is validated before anything is written; the first bad row aborts the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
			if err != nil {
				return err
			}

			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("%w: %v", apperrors.ErrNoFileProvided, err)
			}
			if info.Size() > cfg.Server.MaxUploadSize {
				return fmt.Errorf("%w: %s is %d bytes, limit is %d", apperrors.ErrFileTooLarge, path, info.Size(), cfg.Server.MaxUploadSize)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%w: %v", apperrors.ErrDecodeFailure, err)
			}

			ctx := cmd.Context()
			storage, err := bootstrap.OpenStorage(ctx, cfg, lgr)
			if err != nil {
				return err
			}
			defer storage.Close(ctx)

			deps, err := bootstrap.BuildDependencies(cfg, storage, lgr)
			if err != nil {
				return err
			}

			result, err := deps.UploadService.Ingest(ctx, filepath.Base(path), "", data)
			if err != nil {
				return err
			}

			cmd.Printf("Ingested %d students from %s into %s storage\n", result.StudentsCount, result.Filename, storage.Driver)
			return nil
		},
	}
}
