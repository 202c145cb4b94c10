// httpapi поднимает обработчик новостей за обычным HTTP-сервером
// для локального запуска и интеграционных проверок.
package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/news-function/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// BasePath — путь обработчика новостей, например "/news". Пустой — корень.
	BasePath string
	// AllowOrigin — значение Access-Control-Allow-Origin; пустое — "*".
	AllowOrigin string
}

// NewRouter собирает chi-роутер: мидлвары и обработчик новостей на BasePath.
// Все методы передаются обработчику, он сам отвечает 405 на неподдерживаемые.
func NewRouter(h EventHandler, opts Options) http.Handler {
	root := chi.NewRouter()

	// Внешний -> внутренний.
	root.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Logging(opts.Logger),
	)

	// CORS-заголовок ставится до обработчика, поэтому попадает и в ответы
	// об ошибках адаптера, и в 500 от Recover.
	news := middleware.Chain(Adapt(h),
		middleware.AllowOrigin(opts.AllowOrigin),
		middleware.Timeout(opts.Timeout),
	)

	base := "/" + strings.Trim(opts.BasePath, "/")
	root.Handle(base, news)
	if base != "/" {
		root.Handle(base+"/", news)
	}

	return root
}
