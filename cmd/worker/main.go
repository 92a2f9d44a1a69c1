package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/recordsdesk/triage/internal/infrastructure/scheduler"
	"github.com/recordsdesk/triage/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/recordsdesk/triage/internal/interfaces/http"
)

func main() {
	// Parse environment from command line or env variable
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	if err := run(env); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(env string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Init(ctx, bootstrap.Options{
		Env:        env,
		ConfigPath: os.Getenv("TRIAGE_CONFIG"),
		Redis:      true,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	log := rt.Log
	log.Infow("starting sweep worker", "environment", env)

	container, err := httpRouter.NewContainer(rt.DB, rt.Redis, rt.Config, log)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer container.Shutdown()

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
	log.Infow("sweep worker started",
		"sweep_interval", rt.Config.Sweep.Interval,
		"reconcile_interval", rt.Config.Sweep.ReconcileInterval,
	)

	<-ctx.Done()
	log.Infow("received signal, shutting down")

	if err := sched.Stop(); err != nil {
		log.Errorw("failed to stop scheduler", "error", err)
		return err
	}

	log.Infow("sweep worker stopped")
	return nil
}
