package faas

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pribylovaa/news-function/internal/models"
	"github.com/pribylovaa/news-function/internal/storage"
)

// memStore — хранилище в памяти для сценарных тестов обработчика.
// Считает открытия и закрытия, чтобы проверять освобождение соединения.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]models.News
	clock  time.Time

	opened int
	closed int
}

func newMemStore() *memStore {
	return &memStore{
		items: make(map[int64]models.News),
		clock: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) Open(context.Context) (storage.Storage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.opened++
	return &memConn{memStore: m}, nil
}

func (m *memStore) counts() (opened, closed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.opened, m.closed
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

type memConn struct {
	*memStore
	closed bool
}

func (c *memConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		c.memStore.closed++
	}
}

func (c *memConn) CreateNews(_ context.Context, n models.News) (*models.News, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	n.ID = c.nextID
	n.CreatedAt = c.tick()
	n.UpdatedAt = nil
	c.items[n.ID] = n

	return &n, nil
}

func (c *memConn) NewsByID(_ context.Context, id int64) (*models.News, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &n, nil
}

func (c *memConn) ListPublished(_ context.Context, limit int) ([]models.News, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.News, 0, len(c.items))
	for _, n := range c.items {
		if n.Published {
			out = append(out, n)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (c *memConn) UpdateNews(_ context.Context, id int64, patch models.NewsPatch) (*models.News, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if patch.IsEmpty() {
		return nil, storage.ErrEmptyPatch
	}

	n, ok := c.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.Published != nil {
		n.Published = *patch.Published
	}

	now := c.tick()
	n.UpdatedAt = &now
	c.items[id] = n

	return &n, nil
}

func (c *memConn) DeleteNews(_ context.Context, id int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return 0, storage.ErrNotFound
	}
	delete(c.items, id)

	return id, nil
}
