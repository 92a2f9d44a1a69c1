package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/recordsdesk/triage/internal/infrastructure/permission"
	"github.com/recordsdesk/triage/internal/infrastructure/scheduler"
	"github.com/recordsdesk/triage/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/recordsdesk/triage/internal/interfaces/http"
	"github.com/recordsdesk/triage/internal/shared/goroutine"
)

var (
	env           string
	configPath    string
	autoMigrate   bool
	skipMigration bool
	skipSeed      bool
	withScheduler bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the triage HTTP API with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Use gorm AutoMigrate instead of the goose scripts")
	cmd.Flags().BoolVar(&skipMigration, "skip-migration", false, "Do not migrate the schema on startup")
	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "Do not load the SLA table on startup")
	cmd.Flags().BoolVar(&withScheduler, "with-scheduler", false, "Run the overdue sweep and reconcile jobs in this process")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}
	ginMode := mapEnvToGinMode(env)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Init(ctx, bootstrap.Options{
		Env:        ginMode,
		ConfigPath: configPath,
		Debug:      ginMode == gin.DebugMode,
		Redis:      true,
	})
	if err != nil {
		return err
	}
	defer rt.Close()
	log := rt.Log

	log.Infow("starting server",
		"environment", env,
		"auto_migrate", autoMigrate,
		"with_scheduler", withScheduler,
	)

	gin.SetMode(ginMode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if skipMigration {
		log.Infow("skipping schema migration")
	} else if err := rt.Migrate(autoMigrate); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	container, err := httpRouter.NewContainer(rt.DB, rt.Redis, rt.Config, log)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer container.Shutdown()

	if err := permission.InitEnginePermissions(container.Enforcer()); err != nil {
		return fmt.Errorf("failed to initialize permissions: %w", err)
	}

	if path := rt.Config.Engine.SLASeedPath; path != "" && !skipSeed {
		n, err := container.SeedSLA(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to seed SLA table: %w", err)
		}
		log.Infow("SLA table loaded", "path", path, "pairs", n)
	}

	if withScheduler {
		sched, err := scheduler.NewSchedulerManager(log)
		if err != nil {
			return err
		}
		if err := sched.RegisterSweepJob(container.Sweeper(), rt.Config.Sweep.Interval, rt.Config.Sweep.Timeout); err != nil {
			return err
		}
		if err := sched.RegisterReconcileJob(container.Reconciler(), rt.Config.Sweep.ReconcileInterval); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				log.Errorw("failed to stop scheduler", "error", err)
			}
		}()
	}

	container.SetupRoutes()

	srv := &http.Server{
		Addr:              rt.Config.Server.GetAddr(),
		Handler:           container.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	goroutine.SafeGo(log, "http-server", func() {
		defer close(serveErr)
		log.Infow("server listening", "address", srv.Addr, "mode", ginMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	})

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Infow("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
