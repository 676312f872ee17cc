package checkpoint

import (
	"context"
	"fmt"

	"tweettoot/internal/model"
)

// RepositoryStore хранит метку в репозитории под заданным ключом
type RepositoryStore struct {
	repo model.WatermarkRepository
	key  string
}

// NewRepositoryStore создает хранилище поверх репозитория водяных меток
func NewRepositoryStore(repo model.WatermarkRepository, key string) *RepositoryStore {
	return &RepositoryStore{repo: repo, key: key}
}

// Load читает метку по ключу
func (s *RepositoryStore) Load(ctx context.Context) (int64, bool, error) {
	watermark, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return 0, false, fmt.Errorf("failed to load checkpoint %s: %w", s.key, err)
	}
	if watermark == nil {
		return 0, false, nil
	}
	return watermark.Value, true, nil
}

// Save записывает метку по ключу
func (s *RepositoryStore) Save(ctx context.Context, value int64) error {
	if err := s.repo.Set(ctx, s.key, value); err != nil {
		return fmt.Errorf("failed to save checkpoint %s: %w", s.key, err)
	}
	return nil
}
