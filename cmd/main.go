// cmd/main.go is the API entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/letsgo/internal/config"
	"github.com/Shivanand-hulikatti/letsgo/internal/database"
	"github.com/Shivanand-hulikatti/letsgo/internal/handler"
	"github.com/Shivanand-hulikatti/letsgo/internal/jobs"
	"github.com/Shivanand-hulikatti/letsgo/internal/logger"
	"github.com/Shivanand-hulikatti/letsgo/internal/payment"
	"github.com/Shivanand-hulikatti/letsgo/internal/repository"
	"github.com/Shivanand-hulikatti/letsgo/internal/service"
	"github.com/Shivanand-hulikatti/letsgo/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "letsgo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Configuration and logging ─────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get()

	tp, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	// ── 2. Connect to PostgreSQL and Redis ───────────────────────────────
	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	if cfg.Database.ApplySchema {
		if err := database.ApplySchema(ctx, pool); err != nil {
			return err
		}
	}
	log.Info("connected to postgres", zap.String("host", cfg.Database.Host))

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	enqueuer := jobs.NewClient(cfg.Redis, cfg.Jobs)
	defer enqueuer.Close()

	gateway, err := payment.NewGateway(cfg.Payment)
	if err != nil {
		return fmt.Errorf("payment gateway: %w", err)
	}
	log.Info("payment gateway ready", zap.String("gateway", gateway.Name()))

	// ── 3. Wire up layers ────────────────────────────────────────────────
	events := repository.NewEventRepository(pool)
	bookings := repository.NewBookingRepository(pool)

	router := handler.NewRouter(handler.RouterDeps{
		Events:     service.NewEventService(events),
		Categories: service.NewCategoryService(repository.NewCategoryRepository(pool)),
		Bookings:   service.NewBookingService(bookings, gateway, enqueuer, cfg.Payment, log),
		Ratings:    service.NewRatingService(repository.NewRatingRepository(pool), events, bookings),
		Friends: service.NewFriendService(
			repository.NewUserRepository(pool),
			repository.NewFriendRequestRepository(pool),
		),
		JWTSecret:      cfg.Auth.JWTSecret,
		JWTIssuer:      cfg.Auth.Issuer,
		Redis:          rdb,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		Health: map[string]handler.Pinger{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log: log,
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}
