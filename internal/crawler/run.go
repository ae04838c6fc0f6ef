package crawler

import (
	"context"
	"strings"
	"sync"

	"github.com/aditeya/ragtenant/internal/logger"
	"github.com/aditeya/ragtenant/internal/models/embedding"
	"github.com/aditeya/ragtenant/internal/recordstore"
	"github.com/aditeya/ragtenant/internal/vectorstore"
)

// Stats summarizes one crawl run; its callers log it when the run ends.
type Stats struct {
	PagesVisited   int
	ChunksIndexed  int
	PagesNew       int
	PagesModified  int
	PagesUnchanged int
	PagesFailed    int
}

// RunOptions configures one crawl-and-index pass.
type RunOptions struct {
	StartURL           string
	Domain             string
	SitemapURL         string
	MaxDepth           int
	MaxLinksPerPage    int
	RespectRobots      bool
	AggressiveDiscover bool
	Vectors            vectorstore.VectorStore
	Embedder           embedding.Embedder
	Records            *recordstore.Store
	Collection         string
}

// Run drives one full discovery -> extraction -> change-detection ->
// indexing pass, per §4.G. The Discoverer fetches pages concurrently; the
// per-page work below (extraction, change detection, indexing, stats)
// runs under one mutex, one page at a time, since Stats and the
// ContentPipeline's dedup set are not safe for concurrent use.
func Run(ctx context.Context, opts RunOptions) (Stats, error) {
	discoverer := NewDiscoverer(opts.Domain)
	if opts.MaxDepth > 0 {
		discoverer.MaxDepth = opts.MaxDepth
	}
	if opts.MaxLinksPerPage > 0 {
		discoverer.MaxLinksPerPage = opts.MaxLinksPerPage
	}
	discoverer.RespectRobots = opts.RespectRobots

	pipeline := NewContentPipeline(opts.Vectors, opts.Embedder, opts.Collection)
	stats := Stats{}

	var visitMu sync.Mutex
	err := discoverer.Crawl(ctx, opts.StartURL, opts.SitemapURL, func(page Page) error {
		visitMu.Lock()
		defer visitMu.Unlock()
		stats.PagesVisited++

		extracted, err := ExtractPage(page.URL, page.HTML)
		if err != nil {
			stats.PagesFailed++
			logger.Warn(ctx, "extraction failed", "url", page.URL, "error", err)
			return nil
		}

		text := extracted.FullText
		words := strings.Fields(text)
		if IsThinContent(text) {
			if rendered, err := RenderWithHeadlessBrowser(ctx, page.URL); err == nil {
				if reExtracted, err := ExtractPage(page.URL, rendered); err == nil {
					extracted = reExtracted
					text = extracted.FullText
					words = strings.Fields(text)
				}
			}
		}

		if IsBoilerplateText(text) || !HasGoodWordVariety(words) {
			stats.PagesUnchanged++
			return nil
		}

		kind, err := DetectChange(ctx, opts.Records, page.URL, text)
		if err != nil {
			stats.PagesFailed++
			logger.Warn(ctx, "change detection failed", "url", page.URL, "error", err)
			return nil
		}

		switch kind {
		case "new":
			stats.PagesNew++
		case "modified":
			stats.PagesModified++
			if err := opts.Vectors.DeleteByURL(ctx, opts.Collection, page.URL); err != nil {
				logger.Warn(ctx, "failed to drop stale chunks before re-indexing", "url", page.URL, "error", err)
			}
		case "unchanged":
			stats.PagesUnchanged++
			return nil
		}

		n, err := pipeline.IngestPage(ctx, page.URL, text, "full_page_text")
		if err != nil {
			stats.PagesFailed++
			logger.Warn(ctx, "ingest failed", "url", page.URL, "error", err)
			return nil
		}
		stats.ChunksIndexed += n

		if extracted.Title != "" {
			if n, err := pipeline.IngestPage(ctx, page.URL, extracted.Title, "title"); err == nil {
				stats.ChunksIndexed += n
			}
		}
		if extracted.MetaDescription != "" {
			if n, err := pipeline.IngestPage(ctx, page.URL, extracted.MetaDescription, "meta_description"); err == nil {
				stats.ChunksIndexed += n
			}
		}
		if extracted.StructuredText != "" {
			if n, err := pipeline.IngestPage(ctx, page.URL, extracted.StructuredText, "structured_data"); err == nil {
				stats.ChunksIndexed += n
			}
		}
		return nil
	})

	return stats, err
}
