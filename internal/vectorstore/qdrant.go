// Package vectorstore is the per-tenant vector collection backend behind
// §4.D's retrieval passes and §4.G's indexing writes, grounded on the
// teacher's Qdrant retriever (moved in place from
// internal/application/repository/retriever/qdrant/structs.go and
// rewritten against this spec's document shape).
package vectorstore

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/aditeya/ragtenant/internal/types"
	"github.com/qdrant/go-client/qdrant"
)

// VectorStore is the interface the retrieval engine and crawl pipeline
// depend on; Qdrant is the only implementation, but the interface keeps
// the engine's unit tests free of a live Qdrant dependency.
type VectorStore interface {
	EnsureCollection(ctx context.Context, name string, vectorSize uint64) error
	Upsert(ctx context.Context, collection string, docs []types.VectorDocument) error
	Query(ctx context.Context, collection string, embedding []float32, limit uint64) ([]types.ScoredDocument, error)
	DeleteByURL(ctx context.Context, collection string, url string) error
	DeleteCollection(ctx context.Context, collection string) error
	Count(ctx context.Context, collection string) (uint64, error)
	Close() error
}

// Qdrant implements VectorStore against a Qdrant gRPC endpoint, one
// collection per tenant (§4.F's registry keys engines by collection name).
type Qdrant struct {
	client *qdrant.Client
}

// NewQdrant dials a Qdrant instance at addr ("host:port").
func NewQdrant(addr string) (*Qdrant, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("parse qdrant address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("parse qdrant port %q: %w", portStr, err)
	}
	client, err := qdrant.NewClient(&qdrant.Config{Host: host, Port: port})
	if err != nil {
		return nil, fmt.Errorf("dial qdrant: %w", err)
	}
	return &Qdrant{client: client}, nil
}

// EnsureCollection creates the tenant's collection with cosine distance
// if it does not already exist.
func (q *Qdrant) EnsureCollection(ctx context.Context, name string, vectorSize uint64) error {
	exists, err := q.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", name, err)
	}
	if exists {
		return nil
	}
	return q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func toPayload(doc types.VectorDocument) map[string]*qdrant.Value {
	payload := map[string]*qdrant.Value{
		"text":  qdrant.NewValueString(doc.Text),
		"url":   qdrant.NewValueString(doc.URL),
		"title": qdrant.NewValueString(doc.Title),
	}
	for k, v := range doc.Metadata {
		if s, ok := v.(string); ok {
			payload[k] = qdrant.NewValueString(s)
		}
	}
	return payload
}

// Upsert writes (or overwrites) documents by their deterministic ids,
// idempotent under the crawl pipeline's retry-on-duplicate-id fallback.
func (q *Qdrant) Upsert(ctx context.Context, collection string, docs []types.VectorDocument) error {
	if len(docs) == 0 {
		return nil
	}
	points := make([]*qdrant.PointStruct, 0, len(docs))
	for _, doc := range docs {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(doc.ID),
			Vectors: qdrant.NewVectors(doc.Embedding...),
			Payload: toPayload(doc),
		})
	}
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert %d points into %s: %w", len(points), collection, err)
	}
	return nil
}

// Query performs a nearest-neighbor search, one pass of §4.D.3's
// multi-pass retrieval.
func (q *Qdrant) Query(ctx context.Context, collection string, embedding []float32, limit uint64) ([]types.ScoredDocument, error) {
	withPayload := qdrant.NewWithPayload(true)
	results, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          &limit,
		WithPayload:    withPayload,
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	docs := make([]types.ScoredDocument, 0, len(results))
	for _, point := range results {
		payload := point.GetPayload()
		docs = append(docs, types.ScoredDocument{
			Document: types.VectorDocument{
				ID:   point.GetId().GetUuid(),
				Text: payload["text"].GetStringValue(),
				URL:  payload["url"].GetStringValue(),
				Title: payload["title"].GetStringValue(),
			},
			Score: point.GetScore(),
		})
	}
	return docs, nil
}

// DeleteByURL removes every point tagged with the given source URL, used
// when the crawl pipeline detects a page's content changed (its old
// chunks are superseded by freshly written ones).
func (q *Qdrant) DeleteByURL(ctx context.Context, collection string, url string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("url", url),
			},
		}),
	})
	if err != nil {
		return fmt.Errorf("delete by url %s in %s: %w", url, collection, err)
	}
	return nil
}

// DeleteCollection drops a tenant's entire collection.
func (q *Qdrant) DeleteCollection(ctx context.Context, collection string) error {
	return q.client.DeleteCollection(ctx, collection)
}

// Count returns the number of points in a tenant's collection, reported
// back to the edge surface's /refresh-cache response as document_count.
func (q *Qdrant) Count(ctx context.Context, collection string) (uint64, error) {
	count, err := q.client.Count(ctx, &qdrant.CountPoints{CollectionName: collection})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return count, nil
}

// Close releases the underlying gRPC connection. Only the tenant
// registry calls this, when it destroys the Engine that owns this
// handle (§4.F).
func (q *Qdrant) Close() error {
	return q.client.Close()
}
