package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/mortgage-calc-go/internal/config"
	"github.com/cloud-ru/mortgage-calc-go/internal/handler"
	"github.com/cloud-ru/mortgage-calc-go/internal/logging"
	"github.com/cloud-ru/mortgage-calc-go/internal/middleware"
	"github.com/cloud-ru/mortgage-calc-go/internal/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

	tracer, shutdownTracing, err := tracing.InitTracing(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to init tracing: %v", err)
	}

	limiter := middleware.NewRateLimiter(cfg.RouteLimits(), time.Minute)
	defer limiter.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler.NewRouter(cfg, tracer, logger, limiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.Addr()).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Errorf("Server failed: %v", err)
	case <-quit:
		logger.Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Errorf("Error during tracer shutdown: %v", err)
	}

	logger.Info("Server exited")
}
