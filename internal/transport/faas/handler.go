// faas реализует обработчик новостей для FaaS-рантайма.
//
// Обработчик принимает нормализованное HTTP-событие (events.APIGatewayProxyRequest),
// выполняет одну CRUD-операцию и возвращает events.APIGatewayProxyResponse.
// Соединение с хранилищем открывается на один вызов и закрывается на всех путях выхода.
package faas

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pribylovaa/news-function/internal/auth"
	"github.com/pribylovaa/news-function/internal/config"
	apierrors "github.com/pribylovaa/news-function/internal/errors"
	"github.com/pribylovaa/news-function/internal/metrics"
	"github.com/pribylovaa/news-function/internal/pkg/log"
	"github.com/pribylovaa/news-function/internal/pkg/redact"
	"github.com/pribylovaa/news-function/internal/service"
	"github.com/pribylovaa/news-function/internal/storage"
)

const (
	allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowHeaders = "Content-Type, X-Admin-Key"
)

// Options — параметры обработчика.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Limits  config.LimitsConfig
	CORS    config.CORSConfig
	// Timeout — дедлайн обработки одного вызова; 0 — без дедлайна.
	Timeout time.Duration
}

// Handler — обработчик CRUD-операций над новостями.
type Handler struct {
	opener   storage.Opener
	verifier *auth.Verifier
	opts     Options
}

// New создаёт Handler. Пустые значения Options заменяются значениями по умолчанию.
func New(opener storage.Opener, verifier *auth.Verifier, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Limits.List <= 0 {
		opts.Limits.List = 50
	}
	if opts.CORS == (config.CORSConfig{}) {
		opts.CORS = config.CORSConfig{AllowOrigin: "*", MaxAge: 86400}
	}
	if opts.CORS.AllowOrigin == "" {
		opts.CORS.AllowOrigin = "*"
	}

	return &Handler{
		opener:   opener,
		verifier: verifier,
		opts:     opts,
	}
}

// Handle обрабатывает одно событие.
//
// Известные ошибки (403/400/404/405) возвращаются как ответ с телом {"error": "..."}.
// Сбои хранилища возвращаются как error: рантайм сообщит о них как о падении вызова.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	const op = "transport.faas.Handle"

	start := time.Now()

	// Событие без метода трактуется как GET.
	method := strings.ToUpper(req.HTTPMethod)
	if method == "" {
		method = http.MethodGet
	}

	ctx = log.With(log.Into(ctx, h.opts.Logger),
		slog.String("request_id", requestID(req)),
		slog.String("method", method),
	)
	lg := log.From(ctx)

	if h.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.Timeout)
		defer cancel()
	}

	resp, err := h.dispatch(ctx, method, req)
	if err != nil {
		if status, msg, ok := apierrors.Lookup(err); ok {
			lg.Warn("request_rejected", slog.Int("status", status), slog.String("err", err.Error()))
			resp, err = h.errorResponse(status, msg), nil
		} else {
			lg.Error("request_failed", slog.String("err", err.Error()))
			err = fmt.Errorf("%s: %w", op, err)
		}
	}

	dur := time.Since(start)
	h.opts.Metrics.Observe(method, resp.StatusCode, dur)

	if err == nil {
		lg.Info("request_done", slog.Int("status", resp.StatusCode), slog.Duration("dur", dur))
	}

	return resp, err
}

func (h *Handler) dispatch(ctx context.Context, method string, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch method {
	case http.MethodOptions:
		return h.preflight(), nil
	case http.MethodGet:
		return h.get(ctx, req)
	case http.MethodPost:
		return h.create(ctx, req)
	case http.MethodPut:
		return h.update(ctx, req)
	case http.MethodDelete:
		return h.delete(ctx, req)
	default:
		return events.APIGatewayProxyResponse{}, apierrors.ErrMethodNotAllowed
	}
}

func (h *Handler) get(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id, hasID, err := queryID(req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	return h.withService(ctx, func(svc *service.Service) (events.APIGatewayProxyResponse, error) {
		if hasID {
			news, err := svc.NewsByID(ctx, id)
			if err != nil {
				return events.APIGatewayProxyResponse{}, err
			}

			return h.jsonResponse(http.StatusOK, toNewsResponse(*news))
		}

		items, err := svc.ListNews(ctx)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		return h.jsonResponse(http.StatusOK, toNewsListResponse(items))
	})
}

func (h *Handler) create(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := h.authorize(ctx, req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	var body createRequest
	if err := decodeBody(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	return h.withService(ctx, func(svc *service.Service) (events.APIGatewayProxyResponse, error) {
		news, err := svc.CreateNews(ctx, body.toInput())
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		return h.jsonResponse(http.StatusCreated, toCreatedResponse(*news))
	})
}

func (h *Handler) update(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := h.authorize(ctx, req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	var body updateRequest
	if err := decodeBody(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	return h.withService(ctx, func(svc *service.Service) (events.APIGatewayProxyResponse, error) {
		news, err := svc.UpdateNews(ctx, int64(body.ID), body.toPatch())
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		return h.jsonResponse(http.StatusOK, toNewsResponse(*news))
	})
}

func (h *Handler) delete(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := h.authorize(ctx, req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	id, hasID, err := queryID(req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	if !hasID {
		return events.APIGatewayProxyResponse{}, service.ErrIDRequired
	}

	return h.withService(ctx, func(svc *service.Service) (events.APIGatewayProxyResponse, error) {
		deleted, err := svc.DeleteNews(ctx, id)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		return h.jsonResponse(http.StatusOK, deleteResponse{Success: true, ID: deleted})
	})
}

// authorize проверяет ключ администратора. Хранилище до этой проверки не открывается.
func (h *Handler) authorize(ctx context.Context, req events.APIGatewayProxyRequest) error {
	key := header(req, headerAdminKey)
	if !h.verifier.Verify(key) {
		log.From(ctx).Warn("admin_key_rejected", slog.String("admin_key", redact.Secret(key)))

		return apierrors.ErrUnauthorized
	}

	return nil
}

// withService открывает хранилище на время fn и закрывает его на любом пути выхода.
func (h *Handler) withService(
	ctx context.Context,
	fn func(svc *service.Service) (events.APIGatewayProxyResponse, error),
) (events.APIGatewayProxyResponse, error) {
	const op = "transport.faas.withService"

	st, err := h.opener.Open(ctx)
	if err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("%s: open storage: %w", op, err)
	}
	defer st.Close()

	return fn(service.New(st, h.opts.Limits))
}

func (h *Handler) preflight() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  h.opts.CORS.AllowOrigin,
			"Access-Control-Allow-Methods": allowMethods,
			"Access-Control-Allow-Headers": allowHeaders,
			"Access-Control-Max-Age":       strconv.Itoa(h.opts.CORS.MaxAge),
		},
		Body: "",
	}
}

func (h *Handler) jsonResponse(status int, value any) (events.APIGatewayProxyResponse, error) {
	body, err := marshal(value)
	if err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("transport.faas.jsonResponse: %w", err)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    h.headers(),
		Body:       body,
	}, nil
}

func (h *Handler) errorResponse(status int, message string) events.APIGatewayProxyResponse {
	// ErrorResponse содержит одну строку и кодируется всегда.
	body, _ := marshal(apierrors.ErrorResponse{Error: message})

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    h.headers(),
		Body:       body,
	}
}

func (h *Handler) headers() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": h.opts.CORS.AllowOrigin,
	}
}
