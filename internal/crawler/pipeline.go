package crawler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aditeya/ragtenant/internal/chunker"
	"github.com/aditeya/ragtenant/internal/logger"
	"github.com/aditeya/ragtenant/internal/models/embedding"
	"github.com/aditeya/ragtenant/internal/types"
	"github.com/aditeya/ragtenant/internal/vectorstore"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/crypto/blake2b"
)

const (
	batchSize         = 50
	maxRetries        = 3
	retryBaseWait     = 500 * time.Millisecond
	upsertConcurrency = 4
)

// ContentPipeline dedups pages by content hash, chunks survivors, and
// batch-inserts their chunks into the tenant's vector collection with
// retry-on-failure and a duplicate-id fallback, matching
// pipelines.py's ContentPipeline + ChunkingPipeline + the storage half of
// ChromaDBPipeline.
type ContentPipeline struct {
	vectors    vectorstore.VectorStore
	embedder   embedding.Embedder
	collection string
	seenHashes map[string]struct{}
}

// NewContentPipeline builds a pipeline writing into collection. embedder
// computes each chunk's vector before it is upserted — the pipeline itself
// never stores a chunk it hasn't embedded.
func NewContentPipeline(vectors vectorstore.VectorStore, embedder embedding.Embedder, collection string) *ContentPipeline {
	return &ContentPipeline{
		vectors:    vectors,
		embedder:   embedder,
		collection: collection,
		seenHashes: make(map[string]struct{}),
	}
}

// IngestPage chunks page's text and writes the resulting chunks,
// returning how many chunks it submitted. It returns 0 without writing
// when the cleaned text was already ingested by this pipeline (same
// content digest), has fewer than three words, or yields no chunks. A
// chunk that fails every upsert attempt is logged and still counted.
func (p *ContentPipeline) IngestPage(ctx context.Context, pageURL, text string, source string) (int, error) {
	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" {
		return 0, nil
	}

	digest := contentDigest(cleaned)
	if _, dup := p.seenHashes[digest]; dup {
		return 0, nil
	}
	p.seenHashes[digest] = struct{}{}

	if len(strings.Fields(cleaned)) < 3 {
		return 0, nil
	}

	chunks := chunker.Chunk(cleaned)
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := p.embedder.BatchEmbed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embed chunks for %s: %w", pageURL, err)
	}

	docs := make([]types.VectorDocument, 0, len(chunks))
	for i, c := range chunks {
		docs = append(docs, types.VectorDocument{
			ID:        deterministicChunkID(pageURL, i, c),
			Text:      c,
			URL:       pageURL,
			Embedding: vectors[i],
			Metadata: map[string]interface{}{
				"content_type":   source,
				"chunk_index":    i,
				"chunk_length":   len(c),
				"chunk_word_cnt": len(strings.Fields(c)),
			},
		})
	}

	if err := p.insertBatchWithRetry(ctx, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// contentDigest hashes cleaned page text for the in-memory dedup set.
// Uses blake2b rather than sha256 (reserved for changedetect.go's
// persisted ContentHash, the pipeline's single source of truth for
// change detection) since this digest never leaves process memory.
func contentDigest(s string) string {
	sum := blake2b.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}

// deterministicChunkID derives a stable id from the page URL, chunk index
// and chunk text so re-crawling an unchanged page upserts the same points instead
// of accumulating duplicates, rather than the original's
// timestamp-salted id (which guaranteed freshness at the cost of
// guaranteeing duplication on every re-crawl).
func deterministicChunkID(pageURL string, chunkIndex int, text string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", pageURL, chunkIndex, text)))
	return hex.EncodeToString(sum[:])
}

// insertBatchWithRetry splits docs into batchSize-sized groups and upserts
// them concurrently through a bounded ants.Pool so a slow or throttled
// vector store doesn't serialize a whole page's chunks behind one
// round trip. Each batch still retries with exponential backoff before
// falling back to per-item inserts.
func (p *ContentPipeline) insertBatchWithRetry(ctx context.Context, docs []types.VectorDocument) error {
	if len(docs) == 0 {
		return nil
	}

	var batches [][]types.VectorDocument
	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batches = append(batches, docs[start:end])
	}

	pool, err := ants.NewPool(upsertConcurrency)
	if err != nil {
		for _, batch := range batches {
			p.upsertBatchWithFallback(ctx, batch)
		}
		return nil
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, batch := range batches {
		batch := batch
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			p.upsertBatchWithFallback(ctx, batch)
		}); err != nil {
			wg.Done()
			p.upsertBatchWithFallback(ctx, batch)
		}
	}
	wg.Wait()
	return nil
}

func (p *ContentPipeline) upsertBatchWithFallback(ctx context.Context, batch []types.VectorDocument) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := p.vectors.Upsert(ctx, p.collection, batch)
		if err == nil {
			return
		}
		lastErr = err
		if attempt < maxRetries {
			wait := retryBaseWait * time.Duration(1<<attempt)
			logger.Warn(ctx, "vector upsert batch failed, retrying", "attempt", attempt, "wait", wait, "error", err)
			time.Sleep(wait)
		}
	}
	logger.Warn(ctx, "vector upsert batch failed after retries, falling back to per-item inserts", "error", lastErr)
	p.insertIndividually(ctx, batch)
}

func (p *ContentPipeline) insertIndividually(ctx context.Context, batch []types.VectorDocument) {
	for _, doc := range batch {
		if err := p.vectors.Upsert(ctx, p.collection, []types.VectorDocument{doc}); err != nil {
			logger.Warn(ctx, "failed to store individual chunk", "id", doc.ID, "error", err)
		}
	}
}
