// interceptors содержит unary-интерсепторы gRPC-сервера news-server.
package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// WithTimeout ставит дедлайн d на контекст вызова, если его ещё нет.
// d <= 0 отключает интерсептор; существующий дедлайн клиента не переопределяется.
func WithTimeout(d time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if d <= 0 {
			return handler(ctx, req)
		}
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}

		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		return handler(ctx, req)
	}
}
