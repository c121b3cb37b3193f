package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/featurizer/pkg/log"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "featurize",
		Short:         "Streaming fill imputers for nullable value streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			return log.SetupLogger(cfg.LogLevel)
		},
	}

	root.PersistentFlags().String("config", "", "YAML config file")
	root.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(newTransformCmd(), newInspectCmd(), newVersionCmd())
	return root
}

// configFrom loads the --config file, applies explicit flags and validates
// the result.
func configFrom(cmd *cobra.Command) (Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return Config{}, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.applyFlags(cmd); err != nil {
		return cfg, err
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
