package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/news-function/internal/models"
	"github.com/pribylovaa/news-function/internal/storage"
)

// newsColumns — единый список колонок таблицы news для SELECT/RETURNING,
// чтобы порядок сканирования совпадал с scanNews.
const newsColumns = `id, title, content, author, created_at, updated_at, published`

// scanNews сканирует одну строку newsColumns в доменную модель.
func scanNews(row pgx.Row) (*models.News, error) {
	var news models.News

	if err := row.Scan(
		&news.ID,
		&news.Title,
		&news.Content,
		&news.Author,
		&news.CreatedAt,
		&news.UpdatedAt,
		&news.Published,
	); err != nil {
		return nil, err
	}

	normalize(&news)

	return &news, nil
}

// normalize приводит временные метки к UTC.
func normalize(news *models.News) {
	news.CreatedAt = news.CreatedAt.UTC()
	if news.UpdatedAt != nil {
		updated := news.UpdatedAt.UTC()
		news.UpdatedAt = &updated
	}
}

// mapError переводит ошибки pgx в ошибки storage.
func mapError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, storage.ErrConstraint)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// CreateNews вставляет новость. id и created_at выставляет БД.
func (s *Storage) CreateNews(ctx context.Context, news models.News) (*models.News, error) {
	const op = "storage.postgres.CreateNews"

	var created models.News
	err := s.db.QueryRow(ctx, `
	INSERT INTO news (title, content, author, published)
	VALUES ($1, $2, $3, $4)
	RETURNING id, title, content, author, created_at, published
	`, news.Title, news.Content, news.Author, news.Published).Scan(
		&created.ID,
		&created.Title,
		&created.Content,
		&created.Author,
		&created.CreatedAt,
		&created.Published,
	)
	if err != nil {
		return nil, mapError(op, err)
	}

	normalize(&created)

	return &created, nil
}

// NewsByID возвращает новость по идентификатору.
// Если запись не найдена — storage.ErrNotFound.
func (s *Storage) NewsByID(ctx context.Context, id int64) (*models.News, error) {
	const op = "storage.postgres.NewsByID"

	news, err := scanNews(s.db.QueryRow(ctx, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(op, err)
	}

	return news, nil
}

// listPrealloc ограничивает предвыделение под результат ListPublished.
const listPrealloc = 64

// ListPublished возвращает опубликованные новости, новые сверху.
// Тай-брейк по id DESC, чтобы порядок был стабильным при равных created_at.
func (s *Storage) ListPublished(ctx context.Context, limit int) ([]models.News, error) {
	const op = "storage.postgres.ListPublished"

	if limit <= 0 {
		limit = 1
	}

	rows, err := s.db.Query(ctx, `
	SELECT `+newsColumns+`
	FROM news
	WHERE published = true
	ORDER BY created_at DESC, id DESC
	LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]models.News, 0, min(limit, listPrealloc))
	for rows.Next() {
		news, scanErr := scanNews(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, scanErr)
		}

		items = append(items, *news)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return items, nil
}

// UpdateNews выполняет частичный апдейт: обновляет только поля,
// заданные непустыми указателями патча, и сдвигает updated_at.
// Значения всегда передаются параметрами.
func (s *Storage) UpdateNews(ctx context.Context, id int64, patch models.NewsPatch) (*models.News, error) {
	const op = "storage.postgres.UpdateNews"

	if patch.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEmptyPatch)
	}

	sets := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}

	if patch.Content != nil {
		args = append(args, *patch.Content)
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)))
	}

	if patch.Published != nil {
		args = append(args, *patch.Published)
		sets = append(sets, fmt.Sprintf("published = $%d", len(args)))
	}

	sets = append(sets, "updated_at = timezone('utc', now())")
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE news SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), newsColumns)

	news, err := scanNews(s.db.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, mapError(op, err)
	}

	return news, nil
}

// DeleteNews удаляет запись и возвращает её id.
// Если запись не найдена — storage.ErrNotFound.
func (s *Storage) DeleteNews(ctx context.Context, id int64) (int64, error) {
	const op = "storage.postgres.DeleteNews"

	var deleted int64
	if err := s.db.QueryRow(ctx, `DELETE FROM news WHERE id = $1 RETURNING id`, id).Scan(&deleted); err != nil {
		return 0, mapError(op, err)
	}

	return deleted, nil
}
