package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"autoreel/shared/config"
	"autoreel/shared/scheduler"
	"autoreel/statsync"
)

var syncOnce bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh YouTube stats for recorded videos",
	Long: `Sync view, like and comment counts from YouTube into the video store.
Runs on a schedule unless --once is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		agent := statsync.New(cfg)
		sched := scheduler.New(cfg, agent)

		if syncOnce {
			if err := agent.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize agent: %w", err)
			}
			return sched.RunOnce(ctx)
		}

		fmt.Printf("Starting scheduler (%s)...\n", cfg.Sync.Schedule)
		if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncOnce, "once", false, "run a single sync and exit")

	rootCmd.AddCommand(syncCmd)
}
