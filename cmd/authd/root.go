package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the authd binary. Running it
// without a subcommand starts the server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authd",
		Short: "Account registration and session token service",
		Long: `authd registers accounts, verifies credentials and issues signed
session tokens. Configuration is read from environment variables.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
