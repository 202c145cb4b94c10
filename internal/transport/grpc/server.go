// grpc поднимает gRPC-сервер news-server.
//
// Сервер не содержит прикладных RPC: наружу отдаётся только grpc.health.v1,
// статус которого следует за доступностью базы данных.
package grpc

import (
	"log/slog"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/pribylovaa/news-function/pkg/interceptors"
)

// ServerOptions — параметры сборки gRPC-сервера.
type ServerOptions struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// Reflection включает gRPC reflection (local/dev).
	Reflection bool
	// Metrics подключает go-grpc-prometheus интерсепторы.
	Metrics bool
}

// NewServer создаёт grpc.Server с цепочкой Recover -> Logging -> Timeout
// и регистрирует на нём health.
func NewServer(h *Health, opts ServerOptions) *grpc.Server {
	unary := []grpc.UnaryServerInterceptor{
		interceptors.Recover(opts.Logger),
		interceptors.Logging(opts.Logger),
		interceptors.WithTimeout(opts.Timeout),
	}
	var stream []grpc.StreamServerInterceptor

	if opts.Metrics {
		grpc_prometheus.EnableHandlingTimeHistogram()
		unary = append(unary, grpc_prometheus.UnaryServerInterceptor)
		stream = append(stream, grpc_prometheus.StreamServerInterceptor)
	}

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(unary...),
		grpc.ChainStreamInterceptor(stream...),
	)

	h.Register(s)

	if opts.Reflection {
		reflection.Register(s)
	}
	if opts.Metrics {
		grpc_prometheus.Register(s)
	}

	return s
}
