package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-function/internal/auth"
	"github.com/pribylovaa/news-function/internal/config"
	"github.com/pribylovaa/news-function/internal/models"
	"github.com/pribylovaa/news-function/internal/transport/faas"
	"github.com/pribylovaa/news-function/mocks"
)

// eventFunc — EventHandler из функции.
type eventFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

func (f eventFunc) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return f(ctx, req)
}

func TestAdapt_BuildsEvent(t *testing.T) {
	var got events.APIGatewayProxyRequest

	h := eventFunc(func(_ context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		got = req
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusCreated,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"id":1}`,
		}, nil
	})

	srv := httptest.NewServer(NewRouter(h, Options{BasePath: "/news"}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/news?id=5&id=6", strings.NewReader(`{"title":"A"}`))
	require.NoError(t, err)
	req.Header.Set("X-Admin-Key", "k")
	req.Header.Set("X-Request-Id", "rid-9")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.Equal(t, "rid-9", resp.Header.Get("X-Request-Id"))

	require.Equal(t, http.MethodPost, got.HTTPMethod)
	require.Equal(t, "/news", got.Path)
	require.Equal(t, "k", got.Headers["X-Admin-Key"])
	require.Equal(t, "5", got.QueryStringParameters["id"])
	require.Equal(t, []string{"5", "6"}, got.MultiValueQueryStringParameters["id"])
	require.Equal(t, `{"title":"A"}`, got.Body)
	require.False(t, got.IsBase64Encoded)
	require.Equal(t, "rid-9", got.RequestContext.RequestID)
}

func TestAdapt_BinaryBodyIsBase64(t *testing.T) {
	var got events.APIGatewayProxyRequest

	h := eventFunc(func(_ context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		got = req
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/news", bytes.NewReader([]byte{0xff, 0xfe}))
	NewRouter(h, Options{BasePath: "news"}).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, got.IsBase64Encoded)
	require.Equal(t, "//4=", got.Body)
}

func TestAdapt_HandlerErrorIs500(t *testing.T) {
	h := eventFunc(func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return events.APIGatewayProxyResponse{}, errors.New("db down")
	})

	rr := httptest.NewRecorder()
	NewRouter(h, Options{BasePath: "/news"}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/news", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.JSONEq(t, `{"error":"Internal server error"}`, rr.Body.String())
	require.NotContains(t, rr.Body.String(), "db down")
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdapt_OversizeBodyIs413(t *testing.T) {
	called := false
	h := eventFunc(func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		called = true
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
	})

	body := strings.NewReader(`{"title":"` + strings.Repeat("a", maxBodyBytes) + `"}`)
	rr := httptest.NewRecorder()
	NewRouter(h, Options{BasePath: "/news", AllowOrigin: "https://admin.example.org"}).
		ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/news", body))

	require.False(t, called)
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	require.JSONEq(t, `{"error":"Request body too large"}`, rr.Body.String())
	require.Equal(t, "https://admin.example.org", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdapt_PanicIs500(t *testing.T) {
	h := eventFunc(func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	NewRouter(h, Options{BasePath: "/news"}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/news", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.JSONEq(t, `{"error":"Internal server error"}`, rr.Body.String())
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_BasePathAndTimeout(t *testing.T) {
	calls := 0
	h := eventFunc(func(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		calls++
		_, ok := ctx.Deadline()
		require.True(t, ok)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusNoContent}, nil
	})

	r := NewRouter(h, Options{BasePath: "/news", Timeout: time.Second})

	for _, path := range []string{"/news", "/news/"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, path, nil))
		require.Equal(t, http.StatusNoContent, rr.Code, path)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/other", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, 2, calls)
}

func TestRouter_WithNewsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	opener := mocks.NewMockOpener(ctrl)
	st := mocks.NewMockStorage(ctrl)

	v, err := auth.NewVerifier("secret", "")
	require.NoError(t, err)

	h := faas.New(opener, v, faas.Options{
		Limits: config.LimitsConfig{List: 50},
		CORS:   config.CORSConfig{AllowOrigin: "*", MaxAge: 86400},
	})
	r := NewRouter(h, Options{BasePath: "/news"})

	t.Run("options", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/news", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		require.Empty(t, rr.Body.String())
		require.Equal(t, "86400", rr.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("forbidden", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/news?id=1", nil))

		require.Equal(t, http.StatusForbidden, rr.Code)
		require.JSONEq(t, `{"error":"Unauthorized"}`, rr.Body.String())
	})

	t.Run("get_by_id", func(t *testing.T) {
		opener.EXPECT().Open(gomock.Any()).Return(st, nil)
		st.EXPECT().Close()
		st.EXPECT().NewsByID(gomock.Any(), int64(1)).Return(&models.News{
			ID:        1,
			Title:     "A",
			Content:   "B",
			Author:    "Admin",
			Published: true,
			CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		}, nil)

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/news?id=1", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		require.JSONEq(t,
			`{"id":1,"title":"A","content":"B","author":"Admin","created_at":"2024-01-01 10:00:00","updated_at":null,"published":true}`,
			rr.Body.String(),
		)
	})

	t.Run("storage_failure", func(t *testing.T) {
		opener.EXPECT().Open(gomock.Any()).Return(nil, errors.New("connection refused"))

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/news", nil))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		require.JSONEq(t, `{"error":"Internal server error"}`, rr.Body.String())
	})
}
