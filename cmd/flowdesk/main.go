package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/flowdesk-inc/flowdesk/internal/interfaces/cli/migrate"
	"github.com/flowdesk-inc/flowdesk/internal/interfaces/cli/server"
	"github.com/flowdesk-inc/flowdesk/internal/interfaces/cli/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flowdesk",
		Short: "Flowdesk - workspace calendar and task sync service",
		Long:  `Flowdesk synchronizes workspace tasks with external calendar and task providers.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		worker.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
