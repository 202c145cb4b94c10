package httpapi

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"

	apierrors "github.com/pribylovaa/news-function/internal/errors"
	"github.com/pribylovaa/news-function/internal/pkg/log"
	"github.com/pribylovaa/news-function/internal/transport/http/middleware"
)

// maxBodyBytes — предел размера тела запроса.
const maxBodyBytes = 1 << 20

// EventHandler — обработчик нормализованных HTTP-событий (faas.Handler).
type EventHandler interface {
	Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

// Adapt превращает EventHandler в http.Handler.
// Ошибка обработчика (сбой хранилища и т.п.) превращается в 500.
func Adapt(h EventHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event, err := toEvent(w, r)
		if err != nil {
			log.From(r.Context()).Warn("read_body_failed", slog.String("err", err.Error()))

			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				apierrors.WriteError(w, apierrors.ErrBodyTooLarge)
				return
			}

			apierrors.WriteError(w, apierrors.ErrInvalidJSON)
			return
		}

		resp, err := h.Handle(r.Context(), event)
		if err != nil {
			log.From(r.Context()).Error("handler_failed", slog.String("err", err.Error()))
			apierrors.WriteError(w, err)
			return
		}

		writeResponse(w, resp)
	})
}

// toEvent собирает событие из HTTP-запроса.
// Тело, не являющееся корректным UTF-8, передаётся в base64.
func toEvent(w http.ResponseWriter, r *http.Request) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	event := events.APIGatewayProxyRequest{
		HTTPMethod:                      r.Method,
		Path:                            r.URL.Path,
		Headers:                         make(map[string]string, len(r.Header)),
		MultiValueHeaders:               make(map[string][]string, len(r.Header)),
		QueryStringParameters:           make(map[string]string),
		MultiValueQueryStringParameters: make(map[string][]string),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:  middleware.RequestIDFrom(r.Context()),
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
		},
	}

	for k, vs := range r.Header {
		if len(vs) > 0 {
			event.Headers[k] = vs[0]
		}
		event.MultiValueHeaders[k] = vs
	}

	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			event.QueryStringParameters[k] = vs[0]
		}
		event.MultiValueQueryStringParameters[k] = vs
	}

	if utf8.Valid(body) {
		event.Body = string(body)
	} else {
		event.Body = base64.StdEncoding.EncodeToString(body)
		event.IsBase64Encoded = true
	}

	return event, nil
}

func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	for k, vs := range resp.MultiValueHeaders {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		if decoded, err := base64.StdEncoding.DecodeString(resp.Body); err == nil {
			body = decoded
		}
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	w.WriteHeader(status)
	_, _ = w.Write(body)
}
