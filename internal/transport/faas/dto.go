package faas

import (
	"bytes"
	"encoding/json"
	"strconv"

	apierrors "github.com/pribylovaa/news-function/internal/errors"
	"github.com/pribylovaa/news-function/internal/models"
)

// newsID — идентификатор в теле запроса.
// Принимается как JSON-число или как строка с числом; null и "" означают «не передан».
type newsID int64

func (id *newsID) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if bytes.Equal(raw, []byte("null")) {
		return nil
	}

	s := string(raw)
	if unq, err := strconv.Unquote(s); err == nil {
		if unq == "" {
			return nil
		}
		s = unq
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return apierrors.ErrInvalidID
	}

	*id = newsID(n)
	return nil
}

// createRequest — тело POST.
type createRequest struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Author    *string `json:"author"`
	Published *bool   `json:"published"`
}

func (r createRequest) toInput() models.CreateNewsInput {
	return models.CreateNewsInput{
		Title:     r.Title,
		Content:   r.Content,
		Author:    r.Author,
		Published: r.Published,
	}
}

// updateRequest — тело PUT. Прочие поля (например, author из админки) игнорируются.
type updateRequest struct {
	ID        newsID  `json:"id"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

func (r updateRequest) toPatch() models.NewsPatch {
	return models.NewsPatch{
		Title:     r.Title,
		Content:   r.Content,
		Published: r.Published,
	}
}

// newsResponse — полная новость (GET, PUT). updated_at равен null, пока запись не обновлялась.
type newsResponse struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Author    string  `json:"author"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
	Published bool    `json:"published"`
}

// createdResponse — ответ на POST, без updated_at.
type createdResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
	Published bool   `json:"published"`
}

type deleteResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

func toNewsResponse(n models.News) newsResponse {
	resp := newsResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Author:    n.Author,
		CreatedAt: models.FormatTimestamp(n.CreatedAt),
		Published: n.Published,
	}
	if n.UpdatedAt != nil {
		s := models.FormatTimestamp(*n.UpdatedAt)
		resp.UpdatedAt = &s
	}

	return resp
}

func toNewsListResponse(items []models.News) []newsResponse {
	out := make([]newsResponse, 0, len(items))
	for _, n := range items {
		out = append(out, toNewsResponse(n))
	}

	return out
}

func toCreatedResponse(n models.News) createdResponse {
	return createdResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Author:    n.Author,
		CreatedAt: models.FormatTimestamp(n.CreatedAt),
		Published: n.Published,
	}
}

// marshal кодирует ответ без экранирования HTML-символов.
func marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}

	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
