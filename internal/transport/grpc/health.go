package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName — имя сервиса в grpc.health.v1 помимо пустого (весь сервер).
const ServiceName = "news.NewsFunction"

// Pinger — проверка доступности зависимости (postgres.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthOptions — параметры периодической проверки.
type HealthOptions struct {
	Logger *slog.Logger
	// Interval — период пинга; <= 0 — 10s.
	Interval time.Duration
	// Timeout — таймаут одного пинга; <= 0 — 2s.
	Timeout time.Duration
}

// Health держит статус grpc.health.v1 в соответствии с результатом Ping.
type Health struct {
	server *health.Server
	pinger Pinger
	opts   HealthOptions
}

// NewHealth создаёт Health в статусе NOT_SERVING до первой успешной проверки.
func NewHealth(p Pinger, opts HealthOptions) *Health {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}

	h := &Health{
		server: health.NewServer(),
		pinger: p,
		opts:   opts,
	}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)

	return h
}

// Register регистрирует health-сервис на s.
func (h *Health) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Check выполняет один пинг и обновляет статус. Возвращает ошибку пинга.
func (h *Health) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.opts.Timeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.opts.Logger.Warn("health_ping_failed", slog.String("err", err.Error()))
		h.set(healthpb.HealthCheckResponse_NOT_SERVING)

		return err
	}

	h.set(healthpb.HealthCheckResponse_SERVING)
	return nil
}

// Run проверяет зависимость сразу и затем раз в Interval до отмены ctx.
// После отмены статус переводится в NOT_SERVING.
func (h *Health) Run(ctx context.Context) {
	_ = h.Check(ctx)

	ticker := time.NewTicker(h.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.Shutdown()
			return
		case <-ticker.C:
			_ = h.Check(ctx)
		}
	}
}

// Shutdown переводит все сервисы в NOT_SERVING и больше не меняет статус.
func (h *Health) Shutdown() {
	h.server.Shutdown()
}

func (h *Health) set(st healthpb.HealthCheckResponse_ServingStatus) {
	h.server.SetServingStatus("", st)
	h.server.SetServingStatus(ServiceName, st)
}
