// Package checkpoint хранит водяную метку: время последнего опубликованного поста.
package checkpoint

import (
	"context"
	"errors"
)

// ErrCorrupt сохраненное значение не является целым числом
var ErrCorrupt = errors.New("checkpoint value is not an integer")

// Store хранилище водяной метки в миллисекундах Unix.
// Load возвращает ok == false, если метка еще ни разу не записывалась.
type Store interface {
	Load(ctx context.Context) (value int64, ok bool, err error)
	Save(ctx context.Context, value int64) error
}
