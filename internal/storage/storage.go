// storage определяет контракты доступа к БД для news-function.
package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/news-function/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrEmptyPatch — в патче нет ни одного поля для обновления.
	ErrEmptyPatch = errors.New("empty patch")
	// ErrConstraint — нарушение ограничения БД (CHECK/NOT NULL).
	ErrConstraint = errors.New("constraint violation")
)

// NewsStorage описывает операции над сущностью models.News.
type NewsStorage interface {
	// CreateNews вставляет новость и возвращает её с серверными полями (id, created_at).
	// updated_at у созданной записи не заполняется.
	CreateNews(ctx context.Context, news models.News) (*models.News, error)
	// NewsByID возвращает новость по идентификатору.
	// Если запись не найдена — ErrNotFound.
	NewsByID(ctx context.Context, id int64) (*models.News, error)
	// ListPublished возвращает не более limit опубликованных новостей,
	// отсортированных по created_at DESC.
	ListPublished(ctx context.Context, limit int) ([]models.News, error)
	// UpdateNews применяет патч и сдвигает updated_at.
	// ErrEmptyPatch — если обновлять нечего, ErrNotFound — если записи нет.
	UpdateNews(ctx context.Context, id int64, patch models.NewsPatch) (*models.News, error)
	// DeleteNews физически удаляет запись и возвращает её id.
	// Если запись не найдена — ErrNotFound.
	DeleteNews(ctx context.Context, id int64) (int64, error)
}

// Storage — хранилище, привязанное к одному соединению.
// Close возвращает соединение (в пул или закрывает его).
type Storage interface {
	NewsStorage
	Close()
}

// Opener выдаёт Storage на время одного вызова обработчика.
// Вызывающая сторона обязана вызвать Close у полученного Storage.
type Opener interface {
	Open(ctx context.Context) (Storage, error)
}
