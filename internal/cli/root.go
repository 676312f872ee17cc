// Package cli содержит командный интерфейс tweettoot.
package cli

import (
	"context"
	"fmt"

	"tweettoot/internal/app"
	"tweettoot/internal/config"
	"tweettoot/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version и Commit задаются через ldflags при сборке
var (
	Version = "dev"
	Commit  = "none"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:           "tweettoot",
	Short:         "Mirror new posts from a profile page to a Mastodon instance",
	Long:          "tweettoot checks a profile page for posts newer than the stored watermark and publishes them to a Mastodon-compatible instance.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tweettoot %s (%s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")
	rootCmd.AddCommand(versionCmd, runCmd, fetchCmd, watchCmd)
}

// Execute запускает корневую команду
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// bootstrap загружает конфигурацию и создает логгер
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, log.With(zap.String("app", cfg.AppName)), nil
}

// newApp собирает приложение для команды
func newApp(ctx context.Context) (*app.App, *zap.Logger, error) {
	cfg, log, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, fmt.Errorf("create app: %w", err)
	}

	return application, log, nil
}
