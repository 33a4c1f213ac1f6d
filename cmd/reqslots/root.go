package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "reqslots",
		Short:        "Cached, shared and retried HTTP requests",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "path to a YAML configuration file")
	root.AddCommand(newFetchCmd())
	return root
}
