package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"tweettoot/internal/model"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Селекторы разметки страницы профиля
const (
	timelineSelector  = "#timeline"
	itemSelector      = "li.stream-item"
	itemIDAttr        = "data-item-id"
	textSelector      = "p.tweet-text"
	timestampSelector = "span._timestamp"
	timestampAttr     = "data-time-ms"
)

// itemResult результат разбора одного элемента ленты: пост или причина пропуска
type itemResult struct {
	post model.Post
	err  error
}

// ParseTimeline разбирает ленту на посты в порядке страницы.
// Битые элементы пропускаются с записью в лог. Если контейнер ленты не найден,
// возвращается ErrTimelineNotFound; если постов нет, возвращается nil без ошибки.
func ParseTimeline(doc *goquery.Document, logger *zap.Logger) ([]model.Post, error) {
	timeline := doc.Find(timelineSelector)
	if timeline.Length() == 0 {
		return nil, ErrTimelineNotFound
	}

	var posts []model.Post
	timeline.Find(itemSelector).Each(func(i int, item *goquery.Selection) {
		result := parseItem(item)
		if result.err != nil {
			logger.Error("Skipping timeline item",
				zap.Int("index", i),
				zap.Error(result.err))
			return
		}
		posts = append(posts, result.post)
	})

	if len(posts) == 0 {
		return nil, nil
	}

	return posts, nil
}

// parseItem извлекает id, текст и время из элемента ленты
func parseItem(item *goquery.Selection) itemResult {
	id, ok := item.Attr(itemIDAttr)
	if !ok {
		return itemResult{err: ErrMissingItemID}
	}

	textNode := item.Find(textSelector).First()
	if textNode.Length() == 0 {
		return itemResult{err: fmt.Errorf("item %s: %w", id, ErrMissingText)}
	}

	rawTime, ok := item.Find(timestampSelector).First().Attr(timestampAttr)
	if !ok {
		return itemResult{err: fmt.Errorf("item %s: %w", id, ErrMissingTimestamp)}
	}

	ms, err := strconv.ParseInt(strings.TrimSpace(rawTime), 10, 64)
	if err != nil {
		return itemResult{err: fmt.Errorf("item %s: %w: %q", id, ErrInvalidTimestamp, rawTime)}
	}

	post := model.Post{
		ID:   strings.TrimSpace(id),
		Text: cleanText(textNode.Text()),
		Time: ms,
	}
	if err := post.Validate(); err != nil {
		return itemResult{err: fmt.Errorf("item %s: %w", id, err)}
	}

	return itemResult{post: post}
}

// cleanText приводит текст поста к NFC и обрезает пробелы по краям
func cleanText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
