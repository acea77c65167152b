package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "support-desk",
		Short: "Equipment support desk API",
		Long:  `Support desk backend: ticket lifecycle, companies, machines, knowledge base and notifications.`,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newBootstrapCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
