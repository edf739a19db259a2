package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"squish/internal/activities"
	"squish/internal/config"
	"squish/internal/dispatch"
	"squish/internal/logger"
	"squish/internal/providers"
	"squish/internal/storage"
	"squish/internal/workflows"
)

func main() {
	if err := run(); err != nil {
		logger.New(os.Stderr, "info").Error("squish worker stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	log := logger.New(os.Stderr, cfg.LogLevel)

	provider, err := providers.NewProvider(cfg)
	if err != nil {
		return err
	}
	// Chunk activities override this with their workflow ID.
	opts := []providers.ClientOption{providers.WithRunID("worker-" + uuid.NewString())}
	if cfg.AuditPostgresURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		db, repo, err := storage.OpenAudit(ctx, cfg.AuditPostgresURL)
		cancel()
		if err != nil {
			log.Warn("call audit disabled", "err", err)
		} else {
			defer db.Close()
			opts = append(opts, providers.WithRecorder(repo))
		}
	}

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		return fmt.Errorf("dial temporal: %w", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize: max(dispatch.EffectiveConcurrency(cfg), 1) + 2,
	})
	workflows.Register(w)
	activities.Register(w, activities.New(cfg, providers.NewClient(provider, log, opts...)))

	log.Info("squish worker listening", "temporal", cfg.TemporalAddress, "queue", cfg.TemporalTaskQueue, "engine", cfg.Engine, "model", cfg.Model)
	return w.Run(worker.InterruptCh())
}
