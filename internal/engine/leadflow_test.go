package engine

import (
	"context"
	"testing"

	"github.com/aditeya/ragtenant/internal/models/chat"
	"github.com/aditeya/ragtenant/internal/models/rerank"
	"github.com/aditeya/ragtenant/internal/recordstore"
	"github.com/aditeya/ragtenant/internal/sessionstore"
	"github.com/aditeya/ragtenant/internal/types"
	"github.com/aditeya/ragtenant/internal/vectorstore"
)

type fakeVectorStore struct {
	docs   []types.ScoredDocument
	closed bool
}

func (f *fakeVectorStore) EnsureCollection(ctx context.Context, name string, vectorSize uint64) error {
	return nil
}
func (f *fakeVectorStore) Upsert(ctx context.Context, collection string, docs []types.VectorDocument) error {
	return nil
}
func (f *fakeVectorStore) Query(ctx context.Context, collection string, embedding []float32, limit uint64) ([]types.ScoredDocument, error) {
	return f.docs, nil
}
func (f *fakeVectorStore) DeleteByURL(ctx context.Context, collection string, url string) error {
	return nil
}
func (f *fakeVectorStore) DeleteCollection(ctx context.Context, collection string) error { return nil }
func (f *fakeVectorStore) Count(ctx context.Context, collection string) (uint64, error) {
	return uint64(len(f.docs)), nil
}
func (f *fakeVectorStore) Close() error {
	f.closed = true
	return nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}
func (fakeEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}
func (fakeEmbedder) GetModelName() string { return "fake-embedder" }
func (fakeEmbedder) GetDimensions() int   { return 2 }

type fakeReranker struct{}

func (fakeReranker) Rerank(ctx context.Context, query string, documents []string) ([]rerank.RankResult, error) {
	results := make([]rerank.RankResult, len(documents))
	for i, d := range documents {
		results[i] = rerank.RankResult{Index: i, Document: rerank.DocumentInfo{Text: d}, RelevanceScore: float64(len(documents) - i)}
	}
	return results, nil
}
func (fakeReranker) GetModelName() string { return "fake-reranker" }

type fakeChatModel struct{}

func (fakeChatModel) Complete(ctx context.Context, messages []chat.Message) (string, error) {
	return "fake answer", nil
}
func (fakeChatModel) CompleteWithOptions(ctx context.Context, messages []chat.Message, opts chat.CompleteOptions) (string, error) {
	return "fake answer", nil
}
func (fakeChatModel) GetModelName() string { return "fake-chat" }

var _ vectorstore.VectorStore = (*fakeVectorStore)(nil)

func newTestEngine(t *testing.T) (*Engine, *sessionstore.Store) {
	t.Helper()
	sessions := sessionstore.New("127.0.0.1:0")
	return &Engine{
		tenant:     types.TenantConfig{TenantID: "acme"},
		vectors:    &fakeVectorStore{},
		records:    nil,
		sessions:   sessions,
		embedder:   fakeEmbedder{},
		reranker:   fakeReranker{},
		chatModel:  fakeChatModel{},
		collection: "scraped_content",
	}, sessions
}

func TestHasPricingIntent(t *testing.T) {
	cases := map[string]bool{
		"how much does this cost":  true,
		"what are your rates":     true,
		"tell me about your team": false,
	}
	for q, want := range cases {
		if got := hasPricingIntent(q); got != want {
			t.Errorf("hasPricingIntent(%q) = %v, want %v", q, got, want)
		}
	}
}

func TestIsLocationQuestion(t *testing.T) {
	if !isLocationQuestion("where is this information from?") {
		t.Error("expected location trigger phrase to match")
	}
	if isLocationQuestion("what services do you offer?") {
		t.Error("did not expect an ordinary question to match")
	}
}

func TestSQLValidatorAcceptsSelectOverLeads(t *testing.T) {
	_, err := recordstore.NewSQLValidator().ValidateAndNormalize("SELECT * FROM leads")
	if err != nil {
		t.Fatalf("expected base select over whitelisted table to validate, got %v", err)
	}
}
