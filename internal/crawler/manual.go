package crawler

import (
	"context"

	"github.com/aditeya/ragtenant/internal/models/embedding"
	"github.com/aditeya/ragtenant/internal/vectorstore"
)

// IngestManual indexes operator-supplied text directly, bypassing
// discovery/extraction/change-detection entirely, tagged content_type
// "manual" so it's distinguishable from crawled chunks downstream.
func IngestManual(ctx context.Context, vectors vectorstore.VectorStore, embedder embedding.Embedder, collection, sourceURL, text string) (int, error) {
	pipeline := NewContentPipeline(vectors, embedder, collection)
	return pipeline.IngestPage(ctx, sourceURL, text, "manual")
}
