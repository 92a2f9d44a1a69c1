package engine

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/recordsdesk/triage/internal/infrastructure/pubsub"
	"github.com/recordsdesk/triage/internal/interfaces/cli/bootstrap"
)

var recipient uint

// NewTailCommand prints notification intents as they are published.
func NewTailCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tail-notifications",
		Short: "Follow published notification intents",
		Long:  `Subscribe to the notification channel and print each intent as JSON until interrupted.`,
		RunE:  runTail,
	}

	addEnvFlags(cmd)
	cmd.Flags().UintVar(&recipient, "recipient", 0, "Only show intents for this user")

	return cmd
}

func runTail(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Init(ctx, bootstrap.Options{Env: env, ConfigPath: configPath, Redis: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.Redis == nil {
		return fmt.Errorf("redis is not configured")
	}

	out := cmd.OutOrStdout()
	bus := pubsub.NewRedisNotificationBus(rt.Redis, rt.Log)
	err = bus.Subscribe(ctx, func(_ context.Context, event pubsub.NotificationEvent) {
		if recipient != 0 && event.RecipientID != recipient {
			return
		}
		if err := printJSON(out, event); err != nil {
			rt.Log.Warnw("failed to print notification event", "error", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
