package chunker

import (
	"strings"
	"testing"
)

func TestChunkShortTextDropped(t *testing.T) {
	chunks := Chunk("Too short.")
	if chunks != nil {
		t.Fatalf("expected nil for text under minChunkSize, got %v", chunks)
	}
}

func TestChunkSingleChunk(t *testing.T) {
	text := strings.Repeat("This is a reasonably long sentence about widgets. ", 6)
	chunks := Chunk(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %v", len(chunks), chunks)
	}
	if len(chunks[0]) < minChunkSize {
		t.Fatalf("chunk too short: %d chars", len(chunks[0]))
	}
}

func TestChunkSplitsLongText(t *testing.T) {
	sentence := "Widgets are manufactured in our primary facility using a proprietary process. "
	text := strings.Repeat(sentence, 150)
	chunks := Chunk(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks for long text, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len(c) > maxChunkSize {
			t.Fatalf("chunk exceeds max size: %d", len(c))
		}
	}
}

func TestChunkDropsFewWordFragments(t *testing.T) {
	chunks := Chunk("Ok.")
	if chunks != nil {
		t.Fatalf("expected nil for trivially short fragment, got %v", chunks)
	}
}
