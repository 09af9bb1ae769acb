package main

import (
	"log"

	"go.uber.org/zap"

	"bizaudit-backend/internal/shared/config"
	"bizaudit-backend/internal/shared/server"
	"bizaudit-backend/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := telemetry.MustNew(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	r := server.NewRouter(cfg, logger)
	addr := server.Addr(cfg.Port)
	logger.Info("starting API server", zap.String("addr", addr), zap.String("env", cfg.Env))

	if err := r.Run(addr); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
