package cli

import (
	"fmt"

	"tweettoot/internal/health"
	"tweettoot/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runOnStart bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Mirror posts on the SCHEDULE until interrupted",
	RunE:  watchAction,
}

func init() {
	watchCmd.Flags().BoolVar(&runOnStart, "run-on-start", true, "run once immediately before the first scheduled tick")
}

func watchAction(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	application, log, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer func() {
		if err := application.Close(); err != nil {
			log.Warn("Failed to close app", zap.Error(err))
		}
	}()

	scheduler, err := service.NewScheduler(application.Mirror, application.Config.Schedule, runOnStart, log.With(zap.String("component", "scheduler")))
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	if application.Config.HealthCheckEnabled {
		var db health.Pinger
		if application.DB != nil {
			db = application.DB
		}
		healthServer := health.NewServer(application.Config.HealthPort, scheduler, db, application.Mastodon, log)
		go func() {
			if err := healthServer.Start(); err != nil {
				log.Error("Health check server failed", zap.Error(err))
			}
		}()
		defer func() {
			if err := healthServer.Stop(); err != nil {
				log.Warn("Failed to stop health check server", zap.Error(err))
			}
		}()
	}

	return scheduler.Run(ctx)
}
