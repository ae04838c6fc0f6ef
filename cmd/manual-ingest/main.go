// Command manual-ingest indexes operator-supplied text directly into a
// tenant's vector collection, per §4.G.5's manual knowledge ingestion
// entry point. Text is read from stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aditeya/ragtenant/internal/crawler"
	"github.com/aditeya/ragtenant/internal/logger"
	"github.com/aditeya/ragtenant/internal/models/embedding"
	"github.com/aditeya/ragtenant/internal/models/provider"
	"github.com/aditeya/ragtenant/internal/vectorstore"
)

func main() {
	resourceID := flag.String("resource-id", "", "tenant resource identifier (required)")
	vectorStoreAddr := flag.String("vector-store-path", "127.0.0.1:6334", "qdrant address")
	collectionName := flag.String("collection-name", "scraped_content", "qdrant collection name")
	sourceURL := flag.String("source-url", "manual://ingest", "source tag attached to the ingested chunks")
	embeddingModelName := flag.String("embedding-model-name", "", "embedding model name (required)")
	embeddingProvider := flag.String("embedding-provider", "", "embedding provider (default: detected from base URL)")
	embeddingBaseURL := flag.String("embedding-base-url", "", "embedding provider base URL")
	embeddingAPIKey := flag.String("embedding-api-key", "", "embedding provider API key")
	flag.Parse()

	if *resourceID == "" {
		fmt.Fprintln(os.Stderr, "resource-id is required")
		os.Exit(2)
	}

	text, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
		os.Exit(2)
	}

	ctx := logger.WithField(context.Background(), "resource_id", *resourceID)

	vectors, err := vectorstore.NewQdrant(*vectorStoreAddr)
	if err != nil {
		logger.Error(ctx, "connect vector store failed", "error", err)
		os.Exit(1)
	}

	embedder, err := embedding.NewEmbedder(embedding.Config{
		Provider:  provider.ProviderName(*embeddingProvider),
		BaseURL:   *embeddingBaseURL,
		ModelName: *embeddingModelName,
		APIKey:    *embeddingAPIKey,
	})
	if err != nil {
		logger.Error(ctx, "build embedder failed", "error", err)
		os.Exit(1)
	}
	if err := vectors.EnsureCollection(ctx, *collectionName, uint64(embedder.GetDimensions())); err != nil {
		logger.Error(ctx, "ensure collection failed", "error", err)
		os.Exit(1)
	}

	chunks, err := crawler.IngestManual(ctx, vectors, embedder, *collectionName, *sourceURL, string(text))
	if err != nil {
		logger.Error(ctx, "manual ingest failed", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "manual ingest complete", "chunks_indexed", chunks)
}
