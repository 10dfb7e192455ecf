package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aspcal/handlers"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the aspcal version",
		// Skip settings resolution so version works without a valid config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "aspcal %s\n", handlers.GetVersion())
		},
	}
}
