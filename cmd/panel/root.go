package main

import (
	"github.com/spf13/cobra"

	"github.com/xiaot623/gogo/panel/internal/config"
	"github.com/xiaot623/gogo/panel/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "panel",
		Short:         "Run queries across a panel of specialist models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		newRunCmd(opts),
		newSessionsCmd(opts),
		newRestoreCmd(opts),
		newFeedbackCmd(opts),
		newServeCmd(opts),
		newBackendCmd(opts),
		newWatchCmd(),
	)
	return cmd
}
