package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"tweettoot/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// HTMLFetcher получает страницу профиля через colly и разбирает ленту
type HTMLFetcher struct {
	config    Config
	logger    *zap.Logger
	transport http.RoundTripper
}

// NewHTMLFetcher создает новый экземпляр HTMLFetcher
func NewHTMLFetcher(config Config, transport http.RoundTripper, logger *zap.Logger) *HTMLFetcher {
	return &HTMLFetcher{
		config:    config,
		logger:    logger,
		transport: transport,
	}
}

// Fetch загружает страницу профиля и возвращает посты в порядке страницы
func (f *HTMLFetcher) Fetch(ctx context.Context) ([]model.Post, error) {
	url := f.config.AccountURL
	if err := f.config.Validate(); err != nil {
		f.logger.Error("Invalid source account URL, could not retrieve posts",
			zap.String("url", url),
			zap.Error(err))
		return nil, err
	}

	var body []byte
	err := WithRetry(ctx, f.logger, f.config.RetryConfig, func() error {
		var err error
		body, err = f.download(ctx, url)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	posts, err := ParseTimeline(doc, f.logger)
	if err != nil {
		f.logger.Error("Could not retrieve posts from the page, check the source account URL",
			zap.String("url", url),
			zap.Error(err))
		return nil, err
	}

	if posts == nil {
		f.logger.Info("Timeline has no posts", zap.String("url", url))
		return nil, nil
	}

	f.logger.Info("Fetched posts", zap.String("url", url), zap.Int("count", len(posts)))
	return posts, nil
}

// download выполняет один GET запрос новым коллектором и возвращает тело ответа
func (f *HTMLFetcher) download(ctx context.Context, url string) ([]byte, error) {
	collector := f.newCollector(ctx)

	var body []byte
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := collector.Visit(url); err != nil {
		return nil, err
	}
	collector.Wait()

	return body, nil
}

// newCollector creates a new Colly collector with configured middleware
func (f *HTMLFetcher) newCollector(ctx context.Context) *colly.Collector {
	options := []colly.CollectorOption{
		colly.MaxDepth(1),
		colly.StdlibContext(ctx),
	}
	if f.config.UserAgent != "" {
		options = append(options, colly.UserAgent(f.config.UserAgent))
	}
	collector := colly.NewCollector(options...)

	if f.transport != nil {
		collector.WithTransport(f.transport)
	}

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", acceptLanguage)
		r.Headers.Set("DNT", doNotTrack)
		f.logger.Debug("Making request", zap.String("url", r.URL.String()))
	})

	collector.OnResponse(func(r *colly.Response) {
		f.logger.Debug("Received response",
			zap.String("url", r.Request.URL.String()),
			zap.Int("status", r.StatusCode),
			zap.Int("size", len(r.Body)))
	})

	return collector
}
