// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Post, SortByTime
package model

import (
	"sort"
	"time"
)

// Post представляет один пост со страницы профиля
type Post struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	// Time время публикации в миллисекундах Unix
	Time int64 `json:"time"`
}

var _ Validator = Post{}

// Validate проверяет, что время поста не отрицательное. Пустой id допустим.
func (p Post) Validate() error {
	var errors ValidationErrors

	if err := ValidateNonNegativeInt64("time", p.Time); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// PublishedAt возвращает время публикации в UTC
func (p Post) PublishedAt() time.Time {
	return time.UnixMilli(p.Time).UTC()
}

// SortByTime возвращает копию постов, отсортированную от старых к новым
func SortByTime(posts []Post) []Post {
	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	return sorted
}

// Newest возвращает самый свежий пост
func Newest(posts []Post) (Post, bool) {
	if len(posts) == 0 {
		return Post{}, false
	}
	newest := posts[0]
	for _, p := range posts[1:] {
		if p.Time > newest.Time {
			newest = p
		}
	}
	return newest, true
}
