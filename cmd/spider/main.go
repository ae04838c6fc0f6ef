// Command spider runs one discovery->extraction->indexing pass of the
// Crawl-and-Index Pipeline (§4.G) against a single tenant, for manual
// or scripted invocation outside the scheduler supervisor. Exit codes
// follow §6's CLI convention: 0 success, 1 failure, 2 bad arguments.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/aditeya/ragtenant/internal/crawler"
	"github.com/aditeya/ragtenant/internal/logger"
	"github.com/aditeya/ragtenant/internal/models/embedding"
	"github.com/aditeya/ragtenant/internal/models/provider"
	"github.com/aditeya/ragtenant/internal/recordstore"
	"github.com/aditeya/ragtenant/internal/vectorstore"
)

func main() {
	startURL := flag.String("start-url", "", "seed URL that defines the crawl scope (required)")
	domain := flag.String("domain", "", "allowed domain (default: derived from start-url's host)")
	resourceID := flag.String("resource-id", "", "tenant resource identifier (required)")
	userID := flag.String("user-id", "", "legacy alias for resource-id")
	vectorStoreAddr := flag.String("vector-store-path", "127.0.0.1:6334", "qdrant address")
	collectionName := flag.String("collection-name", "scraped_content", "qdrant collection name")
	recordStoreDSN := flag.String("record-store-dsn", "", "tenant postgres DSN (required)")
	embeddingModelName := flag.String("embedding-model-name", "", "embedding model name (required)")
	embeddingProvider := flag.String("embedding-provider", "", "embedding provider (default: detected from base URL)")
	embeddingBaseURL := flag.String("embedding-base-url", "", "embedding provider base URL")
	embeddingAPIKey := flag.String("embedding-api-key", "", "embedding provider API key")
	sitemapURL := flag.String("sitemap-url", "", "optional sitemap URL to prime discovery")
	maxDepth := flag.Int("max-depth", 999, "maximum crawl depth")
	maxLinksPerPage := flag.Int("max-links-per-page", 1000, "outgoing link cap per page")
	respectRobots := flag.Bool("respect-robots", false, "passed to the crawler; robots.txt is not fetched or consulted")
	aggressiveDiscover := flag.Bool("aggressive-discovery", true, "passed to the crawler; link discovery does not change with it")
	jobID := flag.String("job-id", "", "opaque job identifier echoed in logs")
	flag.Parse()

	tenant := *resourceID
	if tenant == "" {
		tenant = *userID
	}
	if *startURL == "" || tenant == "" || *recordStoreDSN == "" {
		fmt.Fprintln(os.Stderr, "start-url, resource-id, and record-store-dsn are required")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithField(ctx, "job_id", *jobID)
	ctx = logger.WithField(ctx, "resource_id", tenant)

	vectors, err := vectorstore.NewQdrant(*vectorStoreAddr)
	if err != nil {
		logger.Error(ctx, "connect vector store failed", "error", err)
		os.Exit(1)
	}
	records, err := recordstore.Open(*recordStoreDSN)
	if err != nil {
		logger.Error(ctx, "open record store failed", "error", err)
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

	stats, err := crawler.Run(ctx, crawler.RunOptions{
		StartURL:           *startURL,
		Domain:             resolveDomain(*domain, *startURL),
		SitemapURL:         *sitemapURL,
		MaxDepth:           *maxDepth,
		MaxLinksPerPage:    *maxLinksPerPage,
		RespectRobots:      *respectRobots,
		AggressiveDiscover: *aggressiveDiscover,
		Vectors:            vectors,
		Embedder:           embedder,
		Records:            records,
		Collection:         *collectionName,
	})
	if err != nil {
		logger.Error(ctx, "spider run failed", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "spider run complete",
		"pages_visited", stats.PagesVisited, "pages_new", stats.PagesNew,
		"pages_modified", stats.PagesModified, "chunks_indexed", stats.ChunksIndexed,
		"pages_failed", stats.PagesFailed)
}

func resolveDomain(domain, startURL string) string {
	if domain != "" {
		return domain
	}
	u, err := url.Parse(startURL)
	if err != nil {
		return ""
	}
	return u.Host
}
