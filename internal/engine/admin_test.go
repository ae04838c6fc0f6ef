package engine

import (
	"context"
	"testing"

	"github.com/aditeya/ragtenant/internal/types"
)

func TestContactInfoExtractsFromRetrievedPassages(t *testing.T) {
	e, _ := newTestEngine(t)
	e.vectors = &fakeVectorStore{docs: []types.ScoredDocument{
		{Document: types.VectorDocument{Text: "Reach our support team at help@acme.example or call 555-0100."}},
	}}

	info, formatted, err := e.ContactInfo(context.Background())
	if err != nil {
		t.Fatalf("ContactInfo: %v", err)
	}
	if len(info.Emails) != 1 || info.Emails[0] != "help@acme.example" {
		t.Fatalf("Emails = %v, want [help@acme.example]", info.Emails)
	}
	if formatted == "" {
		t.Fatal("expected a non-empty formatted response")
	}
}

func TestCloseClosesVectorHandle(t *testing.T) {
	e, _ := newTestEngine(t)
	fv := &fakeVectorStore{}
	e.vectors = fv

	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !fv.closed {
		t.Fatal("expected Close to close the vector handle")
	}
}

func TestCountDocumentsDelegatesToVectorStore(t *testing.T) {
	e, _ := newTestEngine(t)
	e.vectors = &fakeVectorStore{docs: []types.ScoredDocument{{}, {}, {}}}

	n, err := e.CountDocuments(context.Background())
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if n != 3 {
		t.Fatalf("CountDocuments = %d, want 3", n)
	}
}
