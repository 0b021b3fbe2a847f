// Command server runs the order-entry gateway: it accepts plain TCP
// connections, speaks a hand-rolled HTTP/1.1 subset and RFC 6455
// WebSocket protocol over them, authenticates each connection with an
// RS256 bearer token, and processes order submissions against Postgres
// and Redis.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fireorder/gateway/internal/authn"
	"github.com/fireorder/gateway/internal/cache"
	"github.com/fireorder/gateway/internal/config"
	"github.com/fireorder/gateway/internal/gateway"
	"github.com/fireorder/gateway/internal/orderengine"
	"github.com/fireorder/gateway/internal/risk"
	"github.com/fireorder/gateway/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	ch, err := cache.New(cfg.RedisURL, logger)
	if err != nil {
		logger.Error("failed to open cache", "error", err)
		os.Exit(1)
	}

	verifier, err := authn.NewVerifier(cfg.JWTPublicKey, logger)
	if err != nil {
		logger.Error("failed to load jwt public key", "error", err)
		os.Exit(1)
	}

	riskChecker := risk.NewChecker(logger)
	engine := orderengine.New(st, ch, riskChecker, logger)
	router := gateway.NewRouter(engine, st, logger)
	srv := gateway.NewServer(gateway.Config{
		Addr:             cfg.ListenAddr,
		ReadTimeout:      cfg.ReadTimeout,
		IdleFrameTimeout: cfg.IdleFrameTimeout,
	}, verifier, router, engine, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx)
	}()

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("gateway stopped unexpectedly", "error", err)
		}
	}

	cancel()
	srv.Wait()
	ch.Close()
	st.Close()
	logger.Info("shutdown complete")
}

func newLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
