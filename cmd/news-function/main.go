// news-function — точка входа FaaS-обработчика новостей.
// Конфигурация берётся из окружения (DATABASE_URL, ADMIN_KEY или ADMIN_KEY_HASH и т.д.).
package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/news-function/internal/auth"
	"github.com/pribylovaa/news-function/internal/config"
	"github.com/pribylovaa/news-function/internal/metrics"
	"github.com/pribylovaa/news-function/internal/pkg/logger"
	"github.com/pribylovaa/news-function/internal/storage/postgres"
	"github.com/pribylovaa/news-function/internal/transport/faas"
)

func main() {
	cfg := config.MustLoad("")

	log := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	dialer, err := postgres.NewDialer(cfg.DB.URL)
	if err != nil {
		log.Error("db_config_invalid", slog.String("err", err.Error()))
		os.Exit(1)
	}

	verifier, err := auth.NewVerifier(cfg.Admin.Key, cfg.Admin.KeyHash)
	if err != nil {
		log.Error("admin_key_invalid", slog.String("err", err.Error()))
		os.Exit(1)
	}

	handler := faas.New(dialer, verifier, faas.Options{
		Logger:  log,
		Metrics: metrics.New(prometheus.DefaultRegisterer),
		Limits:  cfg.Limits,
		CORS:    cfg.CORS,
		Timeout: cfg.Timeouts.Service,
	})

	log.Info("news_function_ready",
		slog.String("env", cfg.Env),
		slog.String("admin_key_mode", verifier.Mode()),
		slog.Int("list_limit", cfg.Limits.List),
	)

	lambda.Start(handler.Handle)
}
