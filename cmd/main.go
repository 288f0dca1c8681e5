package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"brc20v2-ledger/config"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
)

func main() {
	root := &cobra.Command{
		Use:           "brc20v2",
		Short:         "Deterministic BRC-20 v2 token ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			level, err := logrus.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")

	root.AddCommand(newApplyCmd(), newReplayCmd(), newInspectCmd())

	if err := root.Execute(); err != nil {
		logrus.Fatalf("%v", err)
	}
}
