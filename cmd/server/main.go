package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/backend"
	"github.com/hongminglow/vendorhub-be/internal/config"
	"github.com/hongminglow/vendorhub-be/internal/logging"
	"github.com/hongminglow/vendorhub-be/internal/server"
	postgres "github.com/hongminglow/vendorhub-be/internal/storage/postgres"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	if envErr != nil {
		logger.Info("no .env file found; relying on existing environment")
	}

	ctx := context.Background()
	store, err := postgres.NewVendorStore(ctx, cfg.DatabaseURL, cfg.AutoMigrate)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	defer store.Close()

	api := backend.New(cfg.BackendURL,
		backend.WithTimeout(cfg.BackendTimeout),
		backend.WithLogger(logger.Named("backend")))
	if !api.Configured() {
		logger.Warn("BACKEND_API_URL is not set; backend-backed routes will answer 500")
	}

	srv := server.New(cfg, api, store, logger)

	go func() {
		logger.Info("vendorhub BFF listening", zap.String("addr", cfg.HTTPAddress()))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown error", zap.Error(err))
	}
}
