package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the profile page once and publish new posts",
	RunE:  runAction,
}

func runAction(cmd *cobra.Command, _ []string) error {
	application, log, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer func() {
		if err := application.Close(); err != nil {
			log.Warn("Failed to close app", zap.Error(err))
		}
	}()

	_, err = application.Mirror.RunOnce(cmd.Context())
	return err
}
