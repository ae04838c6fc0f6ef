package engine

import (
	"context"
	"testing"

	"github.com/aditeya/ragtenant/internal/types"
)

func TestSignificantWordsDropsShortTokens(t *testing.T) {
	got := significantWords("Where is the about page?")
	want := []string{"where", "about", "page"}
	if len(got) != len(want) {
		t.Fatalf("significantWords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("significantWords = %v, want %v", got, want)
		}
	}
}

func TestJoinEntitiesSkipsSentenceLeadingWord(t *testing.T) {
	got := joinEntities("Does Acme Corp ship internationally?")
	if got != "Acme Corp" {
		t.Fatalf("joinEntities = %q, want %q", got, "Acme Corp")
	}
}

func TestJoinEntitiesCapsAtFive(t *testing.T) {
	got := joinEntities("Ask Alpha Bravo Charlie Delta Echo Foxtrot about pricing")
	if got != "Alpha Bravo Charlie Delta Echo" {
		t.Fatalf("joinEntities = %q, want first five tokens joined", got)
	}
}

func TestHybridRerankAppliesKeywordBonus(t *testing.T) {
	e := &Engine{reranker: fakeReranker{}}
	docs := []types.ScoredDocument{
		{Document: types.VectorDocument{ID: "1", Text: "our shipping policy covers international orders"}},
		{Document: types.VectorDocument{ID: "2", Text: "unrelated content about office furniture"}},
	}
	ranked, err := e.hybridRerank(context.Background(), "shipping policy", docs)
	if err != nil {
		t.Fatalf("hybridRerank error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked docs, got %d", len(ranked))
	}
	if ranked[0].Document.ID != "1" {
		t.Fatalf("expected doc 1 (keyword match) to rank first, got %s", ranked[0].Document.ID)
	}
}

func TestMultiPassRetrieveDedupesByID(t *testing.T) {
	docs := []types.ScoredDocument{
		{Document: types.VectorDocument{ID: "dup", Text: "same doc every pass"}, Score: 0.5},
	}
	e := &Engine{
		vectors:    &fakeVectorStore{docs: docs},
		embedder:   fakeEmbedder{},
		collection: "scraped_content",
	}
	merged, err := e.multiPassRetrieve(context.Background(), "Does Acme ship?")
	if err != nil {
		t.Fatalf("multiPassRetrieve error: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected duplicate doc id to merge into 1 entry, got %d", len(merged))
	}
}
