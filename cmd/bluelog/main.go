package main

import (
	"os"

	"github.com/bluelog/core/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "bluelog",
		Short:         "A simple blog engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to YAML config file")
	root.AddCommand(
		newServeCmd(&configPath),
		newInitDBCmd(&configPath),
		newForgeCmd(&configPath),
		newInitCmd(&configPath),
	)
	return root
}
