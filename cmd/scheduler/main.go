// Command scheduler is the per-tenant supervisor half of the Freshness
// Orchestrator (§4.H): it enqueues a crawl:refresh task on a fixed
// interval for cmd/updater-worker to consume, writes a PID file, and
// emits a JSON status line on start and on stop.
package main

import (
	"context"
	"flag"
	"log"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/aditeya/ragtenant/internal/scheduler"
	"github.com/hibiken/asynq"
)

func main() {
	startURL := flag.String("start-url", "", "seed URL that defines the crawl scope (required)")
	domain := flag.String("domain", "", "allowed domain (default: derived from start-url's host)")
	tenantID := flag.String("tenant-id", "", "tenant resource identifier (required)")
	vectorCollection := flag.String("vector-collection", "scraped_content", "qdrant collection name")
	recordStoreDSN := flag.String("record-store-dsn", "", "tenant postgres DSN (required)")
	sitemapURL := flag.String("sitemap-url", "", "optional sitemap URL to prime discovery")
	maxDepth := flag.Int("max-depth", 999, "maximum crawl depth")
	maxLinksPerPage := flag.Int("max-links-per-page", 1000, "outgoing link cap per page")
	respectRobots := flag.Bool("respect-robots", false, "passed to the crawler; robots.txt is not fetched or consulted")
	aggressiveDiscover := flag.Bool("aggressive-discovery", true, "passed to the crawler; link discovery does not change with it")
	intervalMinutes := flag.Int("interval-minutes", 5, "interval in minutes between updates")
	runImmediately := flag.Bool("run-immediately", false, "run the updater immediately on startup")
	pidFile := flag.String("pid-file", "./scheduler.pid", "path to write this process's PID")
	redisAddr := flag.String("redis-addr", "127.0.0.1:6379", "redis address backing the asynq queue")
	flag.Parse()

	if *startURL == "" || *tenantID == "" || *recordStoreDSN == "" {
		log.Fatal("start-url, tenant-id, and record-store-dsn are required")
	}

	resolvedDomain := *domain
	if resolvedDomain == "" {
		resolvedDomain = deriveDomain(*startURL)
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: *redisAddr})
	defer client.Close()

	sup := &scheduler.Supervisor{
		Client:       client,
		Interval:     time.Duration(*intervalMinutes) * time.Minute,
		PIDFilePath:  *pidFile,
		RunImmediate: *runImmediately,
		NextPayload: func() scheduler.RefreshPayload {
			return scheduler.RefreshPayload{
				TenantID:           *tenantID,
				StartURL:           *startURL,
				Domain:             resolvedDomain,
				SitemapURL:         *sitemapURL,
				VectorCollection:   *vectorCollection,
				RecordStoreDSN:     *recordStoreDSN,
				MaxDepth:           *maxDepth,
				MaxLinksPerPage:    *maxLinksPerPage,
				RespectRobots:      *respectRobots,
				AggressiveDiscover: *aggressiveDiscover,
			}
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sup.Run(ctx); err != nil {
		log.Fatalf("scheduler stopped: %v", err)
	}
}

func deriveDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		log.Fatalf("unable to derive domain from start-url %q", rawURL)
	}
	return u.Host
}
