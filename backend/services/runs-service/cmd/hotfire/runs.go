package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hotfire/backend/services/runs-service/internal/app"
)

func newRunsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List the runs of the configured data source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := cliLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			src, client, err := app.NewSource(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			if client != nil {
				defer client.Close()
			}

			runs, err := src.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, run := range runs {
				fmt.Fprintln(cmd.OutOrStdout(), run)
			}
			return nil
		},
	}
}
