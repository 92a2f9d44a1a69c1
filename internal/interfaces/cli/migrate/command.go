package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recordsdesk/triage/internal/infrastructure/migration"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/seeds"
	"github.com/recordsdesk/triage/internal/infrastructure/repository"
	"github.com/recordsdesk/triage/internal/interfaces/cli/bootstrap"
)

var (
	env         string
	configPath  string
	steps       int
	autoMigrate bool
	seedPath    string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage the engine schema: apply or roll back migrations, check status and load the SLA table.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newSeedSLACommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}

	cmd.Flags().BoolVar(&autoMigrate, "auto", false, "Use gorm AutoMigrate instead of the goose scripts")

	return cmd
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newSeedSLACommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-sla",
		Short: "Load the SLA deadline table",
		Long:  `Upsert every (work item type, priority) deadline from the SLA table file.`,
		RunE:  runSeedSLA,
	}

	cmd.Flags().StringVarP(&seedPath, "file", "f", "", "SLA table file (default: engine.sla_seed_path)")

	return cmd
}

func initEnv(cmd *cobra.Command) (*bootstrap.Runtime, error) {
	return bootstrap.Init(cmd.Context(), bootstrap.Options{Env: env, ConfigPath: configPath})
}

func gooseStrategy(rt *bootstrap.Runtime) (*migration.GooseStrategy, error) {
	return migration.NewGooseStrategy(rt.Config.Database.Driver, rt.Log)
}

func runUp(cmd *cobra.Command, args []string) error {
	rt, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Log.Infow("running up migrations", "environment", env, "auto", autoMigrate)

	if err := rt.Migrate(autoMigrate); err != nil {
		return err
	}

	rt.Log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	rt, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Log.Infow("running down migrations", "environment", env, "steps", steps)

	strategy, err := gooseStrategy(rt)
	if err != nil {
		return err
	}
	if err := strategy.MigrateDown(rt.DB, steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}

	rt.Log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	strategy, err := gooseStrategy(rt)
	if err != nil {
		return err
	}

	version, err := strategy.GetVersion(rt.DB)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Driver:          %s\n", rt.Config.Database.Driver)
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	if err := strategy.Status(rt.DB); err != nil {
		return fmt.Errorf("failed to get detailed status: %w", err)
	}
	return nil
}

func runSeedSLA(cmd *cobra.Command, args []string) error {
	rt, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	path := seedPath
	if path == "" {
		path = rt.Config.Engine.SLASeedPath
	}
	if path == "" {
		return fmt.Errorf("no SLA table file given and engine.sla_seed_path is empty")
	}

	n, err := seeds.SeedSLA(cmd.Context(), repository.NewSLAConfigRepository(rt.DB, rt.Log), path, rt.Log)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d SLA deadlines from %s\n", n, path)
	return nil
}
