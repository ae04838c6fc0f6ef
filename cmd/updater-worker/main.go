// Command updater-worker is the asynq.Server half of the Freshness
// Orchestrator (§4.H): it consumes crawl:refresh tasks enqueued by
// cmd/scheduler and runs each one to completion, including the
// restart/notify protocol that follows.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/aditeya/ragtenant/internal/config"
	"github.com/aditeya/ragtenant/internal/logger"
	"github.com/aditeya/ragtenant/internal/models/embedding"
	"github.com/aditeya/ragtenant/internal/models/provider"
	"github.com/aditeya/ragtenant/internal/scheduler"
	"github.com/aditeya/ragtenant/internal/vectorstore"
	"github.com/hibiken/asynq"
)

func main() {
	configPath := flag.String("config", "", "path to config YAML (optional, env vars take precedence)")
	redisAddr := flag.String("redis-addr", "127.0.0.1:6379", "redis address backing the asynq queue")
	concurrency := flag.Int("concurrency", 4, "number of refresh tasks processed concurrently")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	vectors, err := vectorstore.NewQdrant(cfg.VectorStore.Addr)
	if err != nil {
		log.Fatalf("connect vector store: %v", err)
	}

	embedder, err := embedding.NewEmbedder(embedding.Config{
		Provider:  provider.ProviderName(cfg.Models.EmbeddingProvider),
		BaseURL:   cfg.Models.EmbeddingBaseURL,
		ModelName: cfg.Models.EmbeddingModel,
		APIKey:    cfg.Models.EmbeddingAPIKey,
	})
	if err != nil {
		log.Fatalf("build embedder: %v", err)
	}

	notifier := scheduler.NewNotifier(
		cfg.Scheduler.BotURL,
		cfg.Scheduler.AdminBackendURL,
		cfg.Security.ServiceSecret,
		cfg.Scheduler.RestartTimeout,
		cfg.Scheduler.NotifyTimeout,
	)
	notifier.JWTSigningKey = cfg.Security.JWTSigningKey
	handler := scheduler.NewUpdaterHandler(vectors, embedder, notifier)

	mux := asynq.NewServeMux()
	mux.HandleFunc(scheduler.TaskTypeRefresh, handler.Handle)

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: *redisAddr},
		asynq.Config{Concurrency: *concurrency},
	)

	ctx := logger.CloneContext(context.Background())
	logger.Info(ctx, "updater worker starting", "redis_addr", *redisAddr, "concurrency", *concurrency)
	if err := server.Run(mux); err != nil {
		log.Fatalf("updater worker stopped: %v", err)
	}
}
