package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/unimatch-app/unimatch/internal/interfaces/cli/migrate"
	"github.com/unimatch-app/unimatch/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "unimatch",
		Short: "Unimatch - feature entitlement and usage metering service",
		Long:  `Unimatch resolves plan and per-user feature entitlements, meters usage, and exposes an administration API.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
