package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hotfire/backend/libs/logging"
	"hotfire/backend/services/runs-service/internal/config"
)

const configFlag = "config"

// NewRootCommand builds the hotfire command tree. Without a subcommand the
// server is started.
func NewRootCommand() *cobra.Command {
	serve := newServeCommand()
	root := &cobra.Command{
		Use:           "hotfire",
		Short:         "Browse and chart rocket engine hot-fire test runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().String(configFlag, "", "YAML config file (defaults to $CONFIG_FILE)")
	root.AddCommand(serve, newChartsCommand(), newRunsCommand())
	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString(configFlag)
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	return config.LoadFile(path)
}

// cliLogger keeps stdout free for command output.
func cliLogger() (*zap.Logger, error) {
	return logging.NewLoggerWith(os.Getenv("LOG_LEVEL"), "console", "stderr")
}
