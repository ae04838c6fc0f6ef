package crawler

import (
	"context"
	"strings"
	"testing"

	"github.com/aditeya/ragtenant/internal/types"
)

type fakeVectorStore struct {
	upserts [][]types.VectorDocument
	failN   int
}

func (f *fakeVectorStore) EnsureCollection(ctx context.Context, name string, vectorSize uint64) error {
	return nil
}
func (f *fakeVectorStore) Upsert(ctx context.Context, collection string, docs []types.VectorDocument) error {
	f.upserts = append(f.upserts, docs)
	return nil
}
func (f *fakeVectorStore) Query(ctx context.Context, collection string, embedding []float32, limit uint64) ([]types.ScoredDocument, error) {
	return nil, nil
}
func (f *fakeVectorStore) DeleteByURL(ctx context.Context, collection string, url string) error {
	return nil
}
func (f *fakeVectorStore) DeleteCollection(ctx context.Context, collection string) error { return nil }
func (f *fakeVectorStore) Count(ctx context.Context, collection string) (uint64, error)  { return 0, nil }
func (f *fakeVectorStore) Close() error                                                  { return nil }

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}
func (fakeEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vecs[i] = []float32{0.1, 0.2}
	}
	return vecs, nil
}
func (fakeEmbedder) GetModelName() string { return "fake-embedder" }
func (fakeEmbedder) GetDimensions() int   { return 2 }

func TestContentPipelineDedupesByContentHash(t *testing.T) {
	fv := &fakeVectorStore{}
	p := NewContentPipeline(fv, fakeEmbedder{}, "scraped_content")
	text := strings.Repeat("Acme ships worldwide with reliable logistics partners handling every order carefully. ", 4)

	n1, err := p.IngestPage(context.Background(), "https://example.com/a", text, "full_page_text")
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if n1 == 0 {
		t.Fatal("expected first ingest to store chunks")
	}

	n2, err := p.IngestPage(context.Background(), "https://example.com/b", text, "full_page_text")
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if n2 != 0 {
		t.Fatalf("expected duplicate content hash to be skipped, stored %d chunks", n2)
	}
}

func TestContentPipelineDropsShortFragments(t *testing.T) {
	fv := &fakeVectorStore{}
	p := NewContentPipeline(fv, fakeEmbedder{}, "scraped_content")
	n, err := p.IngestPage(context.Background(), "https://example.com/a", "hi there", "full_page_text")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 2-word fragment to be dropped, stored %d chunks", n)
	}
}

func TestDeterministicChunkIDStableAcrossCalls(t *testing.T) {
	id1 := deterministicChunkID("https://example.com/a", 0, "some chunk text")
	id2 := deterministicChunkID("https://example.com/a", 0, "some chunk text")
	if id1 != id2 {
		t.Fatal("expected deterministicChunkID to be stable for identical inputs")
	}
	id3 := deterministicChunkID("https://example.com/a", 1, "some chunk text")
	if id1 == id3 {
		t.Fatal("expected different chunk index to change the id")
	}
}
