package scraper

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"tweettoot/internal/infrastructure/httpclient"
	"tweettoot/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

var statusIDRe = regexp.MustCompile(`/status(?:es)?/(\d+)`)

// FeedFetcher получает посты из RSS/Atom ленты профиля (например, Nitter)
type FeedFetcher struct {
	config Config
	logger *zap.Logger
	parser *gofeed.Parser
}

// NewFeedFetcher создает новый экземпляр FeedFetcher
func NewFeedFetcher(cfg Config, transport http.RoundTripper, logger *zap.Logger) *FeedFetcher {
	parser := gofeed.NewParser()
	if cfg.UserAgent != "" {
		parser.UserAgent = cfg.UserAgent
	}
	parser.Client = &http.Client{
		Transport: &httpclient.HeaderTransport{
			Base:    transport,
			Headers: cfg.requestHeaders(),
		},
	}

	return &FeedFetcher{
		config: cfg,
		logger: logger,
		parser: parser,
	}
}

// Fetch загружает ленту и возвращает посты в порядке ленты
func (f *FeedFetcher) Fetch(ctx context.Context) ([]model.Post, error) {
	url := f.config.AccountURL
	if err := f.config.Validate(); err != nil {
		f.logger.Error("Invalid source account URL, could not retrieve posts",
			zap.String("url", url),
			zap.Error(err))
		return nil, err
	}

	var feed *gofeed.Feed
	err := WithRetry(ctx, f.logger, f.config.RetryConfig, func() error {
		var err error
		feed, err = f.parser.ParseURLWithContext(url, ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", url, err)
	}

	var posts []model.Post
	for i, item := range feed.Items {
		post, err := feedItemToPost(item)
		if err != nil {
			f.logger.Error("Skipping feed item", zap.Int("index", i), zap.Error(err))
			continue
		}
		posts = append(posts, post)
	}

	if len(posts) == 0 {
		f.logger.Info("Feed has no posts", zap.String("url", url))
		return nil, nil
	}

	f.logger.Info("Fetched posts from feed", zap.String("url", url), zap.Int("count", len(posts)))
	return posts, nil
}

// feedItemToPost переводит элемент ленты в пост
func feedItemToPost(item *gofeed.Item) (model.Post, error) {
	id := feedItemID(item)
	if id == "" {
		return model.Post{}, ErrMissingItemID
	}

	var published *time.Time
	switch {
	case item.PublishedParsed != nil:
		published = item.PublishedParsed
	case item.UpdatedParsed != nil:
		published = item.UpdatedParsed
	default:
		return model.Post{}, fmt.Errorf("item %s: %w", id, ErrMissingTimestamp)
	}

	text := item.Title
	if strings.TrimSpace(text) == "" {
		text = stripHTML(item.Description)
	}

	post := model.Post{
		ID:   id,
		Text: cleanText(text),
		Time: published.UnixMilli(),
	}
	if err := post.Validate(); err != nil {
		return model.Post{}, fmt.Errorf("item %s: %w", id, err)
	}
	return post, nil
}

// feedItemID берет числовой id статуса из ссылки, иначе GUID или саму ссылку
func feedItemID(item *gofeed.Item) string {
	for _, candidate := range []string{item.Link, item.GUID} {
		if m := statusIDRe.FindStringSubmatch(candidate); len(m) > 1 {
			return m[1]
		}
	}
	if guid := strings.TrimSpace(item.GUID); guid != "" {
		return guid
	}
	return strings.TrimSpace(item.Link)
}

// stripHTML возвращает видимый текст HTML фрагмента
func stripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return doc.Text()
}
