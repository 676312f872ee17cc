package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
)

// FileStore хранит метку в текстовом файле одним десятичным числом
type FileStore struct {
	path string
}

// NewFileStore создает хранилище в файле name внутри каталога dir
func NewFileStore(dir, name string) *FileStore {
	return &FileStore{path: filepath.Join(dir, name)}
}

// Path возвращает путь к файлу метки
func (s *FileStore) Path() string {
	return s.path
}

// Load читает метку. Отсутствующий или пустой файл означает, что метки нет.
func (s *FileStore) Load(ctx context.Context) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read checkpoint %s: %w", s.path, err)
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return 0, false, nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s: %q", ErrCorrupt, s.path, raw)
	}

	return value, true, nil
}

// Save атомарно перезаписывает метку
func (s *FileStore) Save(ctx context.Context, value int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	data := []byte(strconv.FormatInt(value, 10))
	if err := renameio.WriteFile(s.path, data, 0o644, renameio.WithStaticPermissions(0o644)); err != nil {
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}

	return nil
}
