package main

import (
	"os"

	"github.com/spf13/cobra"

	"invitio/internal/interfaces/cli/migrate"
	"invitio/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "invitio",
		Short: "Invitio - subscription and payment service",
		Long:  `Invitio is the subscription billing service for the invitation platform, with a built-in server and migration tools.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
