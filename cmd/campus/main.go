package main

import (
	"os"

	"github.com/spf13/cobra"

	"campus/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "campus",
		Short: "Campus - multi-tenant university administration backend",
		Long:  `Campus is the administrative backend serving multiple universities from a single deployment.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
