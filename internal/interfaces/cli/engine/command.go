// Package engine holds one-shot operator commands that drive the engine without the API.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	sweepUsecases "github.com/recordsdesk/triage/internal/application/sweep/usecases"
	"github.com/recordsdesk/triage/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/recordsdesk/triage/internal/interfaces/http"
)

var (
	env        string
	configPath string
	dryRun     bool
	scope      string
	resumeID   string
)

func addEnvFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
}

// NewSweepCommand runs one overdue sweep and prints the report as JSON.
func NewSweepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one overdue sweep",
		Long:  `Mark assignments past their SLA deadline as overdue, notify assignees and refresh container health scores.`,
		RunE:  runSweep,
	}

	addEnvFlags(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report overdue assignments without changing anything")
	cmd.Flags().StringVar(&scope, "scope", "", "Only sweep assignments in this container")
	cmd.Flags().StringVar(&resumeID, "resume", "", "Finish notifications for an earlier sweep ID")

	return cmd
}

// NewReconcileCommand recounts every worker's open assignments and fixes drifted counters.
func NewReconcileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recount open assignments per worker",
		Long:  `Recompute each staff member's open assignment count from the assignment table and correct drift.`,
		RunE:  runReconcile,
	}

	addEnvFlags(cmd)

	return cmd
}

func withContainer(ctx context.Context, fn func(c *httpRouter.Container) (any, error), out io.Writer) error {
	rt, err := bootstrap.Init(ctx, bootstrap.Options{Env: env, ConfigPath: configPath, Redis: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	container, err := httpRouter.NewContainer(rt.DB, rt.Redis, rt.Config, rt.Log)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer container.Shutdown()

	result, err := fn(container)
	if err != nil {
		return err
	}
	return printJSON(out, result)
}

func sweepCommandFromFlags() (sweepUsecases.SweepCommand, error) {
	command := sweepUsecases.SweepCommand{DryRun: dryRun}
	if scope != "" {
		command.ContainerID = &scope
	}
	if resumeID != "" {
		if dryRun {
			return command, fmt.Errorf("--resume cannot be combined with --dry-run")
		}
		command.ResumeSweepID = &resumeID
	}
	return command, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	command, err := sweepCommandFromFlags()
	if err != nil {
		return err
	}

	return withContainer(cmd.Context(), func(c *httpRouter.Container) (any, error) {
		return c.Sweeper().Execute(cmd.Context(), command)
	}, cmd.OutOrStdout())
}

func runReconcile(cmd *cobra.Command, args []string) error {
	return withContainer(cmd.Context(), func(c *httpRouter.Container) (any, error) {
		return c.Reconciler().ReconcileAll(cmd.Context())
	}, cmd.OutOrStdout())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
