// service содержит бизнес-логику news-function:
// валидацию входных данных, значения по умолчанию и маппинг ошибок хранилища.
package service

import (
	"errors"

	"github.com/pribylovaa/news-function/internal/config"
	"github.com/pribylovaa/news-function/internal/storage"
)

var (
	// ErrNotFound — новость не найдена.
	// Транспорт: 404.
	ErrNotFound = errors.New("not found")
	// ErrTitleContentRequired — при создании не передан title или content.
	// Транспорт: 400.
	ErrTitleContentRequired = errors.New("title and content are required")
	// ErrIDRequired — не передан идентификатор новости.
	// Транспорт: 400.
	ErrIDRequired = errors.New("news id is required")
	// ErrNoFieldsToUpdate — в запросе на обновление нет ни одного поля.
	// Транспорт: 400.
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	// ErrInvalidArgument — данные отвергнуты ограничениями БД.
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Service — бизнес-логика над одним соединением с хранилищем.
// Создаётся на каждый вызов обработчика и живёт не дольше соединения.
type Service struct {
	storage storage.NewsStorage
	limits  config.LimitsConfig
}

// New создает новый экземпляр Service.
func New(storage storage.NewsStorage, limits config.LimitsConfig) *Service {
	return &Service{
		storage: storage,
		limits:  limits,
	}
}
