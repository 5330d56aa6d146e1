// cmd/worker runs the asynq worker that processes booking side effects.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/letsgo/internal/config"
	"github.com/Shivanand-hulikatti/letsgo/internal/database"
	"github.com/Shivanand-hulikatti/letsgo/internal/jobs"
	"github.com/Shivanand-hulikatti/letsgo/internal/logger"
	"github.com/Shivanand-hulikatti/letsgo/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "letsgo-worker: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name + "-worker",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "letsgo-worker: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	pool, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	h := jobs.NewHandler(repository.NewNotificationRepository(pool), log)
	srv := jobs.NewServer(cfg.Redis, cfg.Jobs, log)

	log.Info("worker started",
		zap.String("queue", cfg.Jobs.Queue),
		zap.Int("concurrency", cfg.Jobs.Concurrency),
	)
	// Run blocks until SIGINT or SIGTERM and then drains in-flight tasks.
	if err := srv.Run(jobs.NewServeMux(h)); err != nil {
		log.Fatal("worker stopped", zap.Error(err))
	}
}
