package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hotfire/backend/services/runs-service/internal/catalog"
	"hotfire/backend/services/runs-service/internal/normalize"
	"hotfire/backend/services/runs-service/internal/source"
)

func newChartsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "charts <file.csv>",
		Short: "Print the normalized chart groups of a local run file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.Catalog.File)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := source.ReadRecords(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			run := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			charts := normalize.BuildRunCharts(run, records, cat, cfg.Normalize.Sentinel)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(charts)
		},
	}
}
