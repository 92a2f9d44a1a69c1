package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/recordsdesk/triage/internal/interfaces/cli/engine"
	"github.com/recordsdesk/triage/internal/interfaces/cli/migrate"
	"github.com/recordsdesk/triage/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "triage",
		Short:        "Triage - work assignment and SLA escalation engine",
		Long:         `Triage routes records work to staff under SLA deadlines and WIP limits, escalates along each worker's chain and sweeps overdue assignments.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		engine.NewSweepCommand(),
		engine.NewReconcileCommand(),
		engine.NewTailCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
