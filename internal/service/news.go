package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pribylovaa/news-function/internal/models"
	"github.com/pribylovaa/news-function/internal/pkg/log"
	"github.com/pribylovaa/news-function/internal/storage"
)

// ListNews возвращает ленту опубликованных новостей, новые сверху.
// Размер ленты ограничен limits.List.
func (s *Service) ListNews(ctx context.Context) ([]models.News, error) {
	const op = "service.news.ListNews"

	lg := log.From(ctx).With("op", op)

	items, err := s.storage.ListPublished(ctx, s.limits.List)
	if err != nil {
		lg.Error("list_news_storage_error", slog.String("err", err.Error()))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Debug("list_news_ok", slog.Int("items", len(items)))

	return items, nil
}

// NewsByID возвращает новость по идентификатору.
//
// Ошибки:
//   - ErrNotFound — если запись отсутствует;
//   - прочие ошибки стораджа — обёрнутые и прокинуты наверх.
func (s *Service) NewsByID(ctx context.Context, id int64) (*models.News, error) {
	const op = "service.news.NewsByID"

	lg := log.From(ctx).With("op", op, "id", id)

	news, err := s.storage.NewsByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("news_by_id_not_found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("news_by_id_storage_error", slog.String("err", err.Error()))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return news, nil
}

// CreateNews создаёт новость.
//
// Валидация:
//   - title и content обязательны и не пусты — иначе ErrTitleContentRequired.
//
// Значения по умолчанию: author = models.DefaultAuthor, published = true.
func (s *Service) CreateNews(ctx context.Context, in models.CreateNewsInput) (*models.News, error) {
	const op = "service.news.CreateNews"

	lg := log.From(ctx).With("op", op)

	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Content, validation.Required),
	); err != nil {
		lg.Warn("invalid argument", slog.String("err", err.Error()))

		return nil, fmt.Errorf("%s: %w", op, ErrTitleContentRequired)
	}

	news := models.News{
		Title:     in.Title,
		Content:   in.Content,
		Author:    models.DefaultAuthor,
		Published: true,
	}
	if in.Author != nil {
		news.Author = *in.Author
	}
	if in.Published != nil {
		news.Published = *in.Published
	}

	created, err := s.storage.CreateNews(ctx, news)
	if err != nil {
		if errors.Is(err, storage.ErrConstraint) {
			lg.Warn("create_news_constraint", slog.String("err", err.Error()))

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		lg.Error("create_news_storage_error", slog.String("err", err.Error()))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("create_news_ok", slog.Int64("id", created.ID))

	return created, nil
}

// UpdateNews частично обновляет новость.
//
// Правила:
//   - id == 0 -> ErrIDRequired;
//   - пустые title/content не считаются переданными (пустой заголовок или текст
//     нарушил бы инвариант сущности), published учитывается при любом значении;
//   - если после этого патч пуст -> ErrNoFieldsToUpdate;
//   - запись не найдена -> ErrNotFound.
func (s *Service) UpdateNews(ctx context.Context, id int64, patch models.NewsPatch) (*models.News, error) {
	const op = "service.news.UpdateNews"

	lg := log.From(ctx).With("op", op, "id", id)

	if id == 0 {
		lg.Warn("invalid argument: empty id")

		return nil, fmt.Errorf("%s: %w", op, ErrIDRequired)
	}

	if patch.Title != nil && *patch.Title == "" {
		patch.Title = nil
	}
	if patch.Content != nil && *patch.Content == "" {
		patch.Content = nil
	}

	if patch.IsEmpty() {
		lg.Warn("invalid argument: no fields to update")

		return nil, fmt.Errorf("%s: %w", op, ErrNoFieldsToUpdate)
	}

	updated, err := s.storage.UpdateNews(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("update_news_not_found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrEmptyPatch):
			return nil, fmt.Errorf("%s: %w", op, ErrNoFieldsToUpdate)
		case errors.Is(err, storage.ErrConstraint):
			lg.Warn("update_news_constraint", slog.String("err", err.Error()))

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		default:
			lg.Error("update_news_storage_error", slog.String("err", err.Error()))

			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	lg.Info("update_news_ok")

	return updated, nil
}

// DeleteNews удаляет новость и возвращает её id.
// Наличие id проверяет транспорт: явно переданный 0 ищется как обычный id.
//
// Ошибки:
//   - ErrNotFound — записи нет (в том числе при повторном удалении).
func (s *Service) DeleteNews(ctx context.Context, id int64) (int64, error) {
	const op = "service.news.DeleteNews"

	lg := log.From(ctx).With("op", op, "id", id)

	deleted, err := s.storage.DeleteNews(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("delete_news_not_found")

			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("delete_news_storage_error", slog.String("err", err.Error()))

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("delete_news_ok")

	return deleted, nil
}
