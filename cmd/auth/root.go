package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the auth CLI. Without a subcommand it serves.
func NewRootCmd() *cobra.Command {
	serve := NewServeCmd()

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Credential service: user registration and login",
		Long: `auth registers users with a username, email and bcrypt-hashed password
and verifies their credentials on login. The store is selected with
STORE_DRIVER (postgres, sqlite or memory).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
