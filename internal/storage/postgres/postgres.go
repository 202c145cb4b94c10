// postgres предоставляет реализацию storage.Storage на базе PostgreSQL (pgx).
//
// Два способа получить соединение на время вызова:
//   - Dialer — отдельное соединение на каждый вызов (FaaS-режим);
//   - Pool — соединение из pgxpool, которое возвращается в пул при Close (серверный режим).
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pribylovaa/news-function/internal/storage"
)

// closeTimeout ограничивает закрытие одиночного соединения.
const closeTimeout = 5 * time.Second

// querier — общий минимум *pgx.Conn и *pgxpool.Conn.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Storage — хранилище новостей поверх одного соединения.
type Storage struct {
	db      querier
	release func()
}

// Close освобождает соединение. Повторный вызов — no-op.
func (s *Storage) Close() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// Dialer открывает новое соединение на каждый Open.
type Dialer struct {
	cfg *pgx.ConnConfig
}

// NewDialer разбирает строку подключения. Сетевых обращений не делает.
func NewDialer(dbURL string) (*Dialer, error) {
	const op = "storage.postgres.NewDialer"

	cfg, err := pgx.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Dialer{cfg: cfg}, nil
}

// Open устанавливает соединение; Close у результата закрывает его.
func (d *Dialer) Open(ctx context.Context) (storage.Storage, error) {
	const op = "storage.postgres.Dialer.Open"

	conn, err := pgx.ConnectConfig(ctx, d.cfg.Copy())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		db: conn,
		release: func() {
			ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()
			_ = conn.Close(ctx)
		},
	}, nil
}

// Pool — пул соединений для долгоживущего процесса.
type Pool struct {
	db *pgxpool.Pool
}

// NewPool создает пул соединений к PostgreSQL и проверяет доступность БД.
func NewPool(ctx context.Context, dbURL string) (*Pool, error) {
	const op = "storage.postgres.NewPool"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Pool{db: db}, nil
}

// Open берёт соединение из пула; Close у результата возвращает его обратно.
func (p *Pool) Open(ctx context.Context) (storage.Storage, error) {
	const op = "storage.postgres.Pool.Open"

	conn, err := p.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: conn, release: conn.Release}, nil
}

// Ping проверяет доступность БД.
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// Close закрывает пул соединений.
func (p *Pool) Close() {
	p.db.Close()
}

// Проверка на соответствие интерфейсам storage.
var (
	_ storage.Storage = (*Storage)(nil)
	_ storage.Opener  = (*Dialer)(nil)
	_ storage.Opener  = (*Pool)(nil)
)
