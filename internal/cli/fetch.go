package cli

import (
	"encoding/json"
	"fmt"

	"tweettoot/internal/model"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Print posts from the profile page as JSON without publishing",
	RunE:  fetchAction,
}

func fetchAction(cmd *cobra.Command, _ []string) error {
	application, log, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer func() { _ = application.Close() }()

	posts, err := application.Fetcher.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch posts: %w", err)
	}

	return writePosts(cmd, model.SortByTime(posts))
}

func writePosts(cmd *cobra.Command, posts []model.Post) error {
	if posts == nil {
		posts = []model.Post{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(posts)
}
