// news-server запускает обработчик новостей как обычный HTTP-сервис
// (локальная разработка, docker-compose) и gRPC health рядом с ним.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/pribylovaa/news-function/internal/auth"
	"github.com/pribylovaa/news-function/internal/config"
	"github.com/pribylovaa/news-function/internal/metrics"
	"github.com/pribylovaa/news-function/internal/pkg/logger"
	"github.com/pribylovaa/news-function/internal/pkg/redact"
	"github.com/pribylovaa/news-function/internal/storage/postgres"
	"github.com/pribylovaa/news-function/internal/transport/faas"
	grpcapi "github.com/pribylovaa/news-function/internal/transport/grpc"
	httpapi "github.com/pribylovaa/news-function/internal/transport/http"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	// .env не обязателен: в контейнере переменные приходят из окружения.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("dotenv_load_failed", slog.String("err", err.Error()))
	}

	cfg := config.MustLoad(configPath)

	log := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)
	log.Info("starting news-server", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	pool, err := postgres.NewPool(dbCtx, cfg.DB.URL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	log.Info("postgres_connected")

	verifier, err := auth.NewVerifier(cfg.Admin.Key, cfg.Admin.KeyHash)
	if err != nil {
		log.Error("admin_key_invalid", slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("admin_key_loaded",
		slog.String("mode", verifier.Mode()),
		slog.String("key", redact.Secret(cfg.Admin.Key+cfg.Admin.KeyHash)),
	)

	handler := faas.New(pool, verifier, faas.Options{
		Logger:  log,
		Metrics: metrics.New(prometheus.DefaultRegisterer),
		Limits:  cfg.Limits,
		CORS:    cfg.CORS,
	})

	router := httpapi.NewRouter(handler, httpapi.Options{
		Logger:      log,
		Timeout:     cfg.Timeouts.Service,
		BasePath:    cfg.HTTP.BasePath,
		AllowOrigin: cfg.CORS.AllowOrigin,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	health := grpcapi.NewHealth(pool, grpcapi.HealthOptions{Logger: log})
	grpcServer := grpcapi.NewServer(health, grpcapi.ServerOptions{
		Logger:     log,
		Timeout:    cfg.Timeouts.Service,
		Reflection: cfg.Env == logger.EnvLocal || cfg.Env == logger.EnvDev,
		Metrics:    true,
	})

	grpcLis, err := net.Listen("tcp", cfg.GRPC.Addr())
	if err != nil {
		log.Error("grpc_listen_failed", slog.String("addr", cfg.GRPC.Addr()), slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("grpc_listen_start", slog.String("addr", cfg.GRPC.Addr()))

	httpLis, err := net.Listen("tcp", httpSrv.Addr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpSrv.Addr), slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("http_listen_start", slog.String("addr", httpSrv.Addr), slog.String("base_path", cfg.HTTP.BasePath))

	go health.Run(rootCtx)

	serveErrCh := make(chan error, 2)
	go func() {
		if err := grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErrCh <- err
		}
	}()
	go func() {
		if err := httpSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		log.Error("serve_failed", slog.String("err", err.Error()))
	}

	health.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc_stopped")
	case <-shutdownCtx.Done():
		log.Warn("grpc_force_stop")
		grpcServer.Stop()
	}

	log.Info("service_stopped")
}
