// errors стандартизирует ответы об ошибках транспортного слоя.
// На вход принимает ошибку сервисного слоя или транспорта,
// на выход даёт HTTP-статус и тело {"error": "<message>"}.
//
// Известны только ошибки из таблицы ниже. Всё остальное (сбои БД и т.п.)
// считается внутренней ошибкой: FaaS-обработчик возвращает её рантайму,
// локальный HTTP-сервер отвечает 500.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/news-function/internal/service"
)

var (
	// ErrUnauthorized — нет ключа администратора или он неверный.
	ErrUnauthorized = stderrors.New("unauthorized")
	// ErrMethodNotAllowed — неподдерживаемый HTTP-метод.
	ErrMethodNotAllowed = stderrors.New("method not allowed")
	// ErrInvalidJSON — тело запроса не является корректным JSON-объектом.
	ErrInvalidJSON = stderrors.New("invalid json body")
	// ErrInvalidID — идентификатор новости не является целым числом.
	ErrInvalidID = stderrors.New("invalid news id")
	// ErrBodyTooLarge — тело запроса превышает допустимый размер.
	ErrBodyTooLarge = stderrors.New("request body too large")
)

// MessageInternal — тело ответа для внутренних ошибок, детали наружу не отдаём.
const MessageInternal = "Internal server error"

// ErrorResponse — единый формат ошибки для клиента.
type ErrorResponse struct {
	Error string `json:"error"`
}

// mapping — таблица известных ошибок. Порядок важен: проверяется сверху вниз.
var mapping = []struct {
	err     error
	status  int
	message string
}{
	{ErrUnauthorized, http.StatusForbidden, "Unauthorized"},
	{ErrMethodNotAllowed, http.StatusMethodNotAllowed, "Method not allowed"},
	{ErrInvalidJSON, http.StatusBadRequest, "Invalid JSON body"},
	{ErrInvalidID, http.StatusBadRequest, "Invalid news ID"},
	{ErrBodyTooLarge, http.StatusRequestEntityTooLarge, "Request body too large"},
	{service.ErrNotFound, http.StatusNotFound, "News not found"},
	{service.ErrTitleContentRequired, http.StatusBadRequest, "Title and content are required"},
	{service.ErrIDRequired, http.StatusBadRequest, "News ID is required"},
	{service.ErrNoFieldsToUpdate, http.StatusBadRequest, "No fields to update"},
	{service.ErrInvalidArgument, http.StatusBadRequest, "Invalid argument"},
}

// Lookup ищет err в таблице известных ошибок.
// ok == false означает внутреннюю ошибку.
func Lookup(err error) (status int, message string, ok bool) {
	if err == nil {
		return 0, "", false
	}

	for _, m := range mapping {
		if stderrors.Is(err, m.err) {
			return m.status, m.message, true
		}
	}

	return 0, "", false
}

// ToHTTP конвертирует ошибку в HTTP-статус и тело ответа.
//
// Поведение:
//   - известная ошибка — статус и сообщение из таблицы;
//   - err == nil — программная ошибка вызова: 500, чтобы не послать "200 OK" с телом ошибки;
//   - прочие ошибки — 500 без утечки деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	if status, msg, ok := Lookup(err); ok {
		return status, ErrorResponse{Error: msg}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: MessageInternal}
}

// WriteError пишет статус и тело ошибки в HTTP-ответ.
func WriteError(w http.ResponseWriter, err error) {
	status, resp := ToHTTP(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
