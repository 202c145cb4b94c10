// models содержит доменные сущности news-function.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"
)

// DefaultAuthor — автор новости, если он не передан при создании.
const DefaultAuthor = "Admin"

// News — доменная сущность новости.
//
// Особенности:
//   - ID — целочисленный, генерируется БД (SERIAL);
//   - UpdatedAt == nil, пока запись ни разу не обновлялась;
//   - временные метки — в UTC (колонки TIMESTAMP без зоны).
type News struct {
	// ID — уникальный идентификатор новости.
	ID int64
	// Title — заголовок, не пустой.
	Title string
	// Content — текст новости, не пустой.
	Content string
	// Author — подпись автора.
	Author string
	// Published — видимость в публичной ленте.
	Published bool
	// CreatedAt — время создания записи.
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления.
	UpdatedAt *time.Time
}

// CreateNewsInput — входные данные для создания новости.
// Необязательные поля заданы указателями: nil означает «не передано».
type CreateNewsInput struct {
	Title     string
	Content   string
	Author    *string
	Published *bool
}

// NewsPatch — частичное обновление новости.
// Обновляются только поля с непустыми указателями.
type NewsPatch struct {
	Title     *string
	Content   *string
	Published *bool
}

// IsEmpty сообщает, что в патче нет ни одного обновляемого поля.
func (p NewsPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Published == nil
}
