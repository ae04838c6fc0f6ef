package crawler

import "testing"

func TestContentHashStableAndSensitive(t *testing.T) {
	a := ContentHash("Acme ships worldwide.")
	b := ContentHash("Acme ships worldwide.")
	if a != b {
		t.Fatal("expected identical text to hash identically")
	}
	c := ContentHash("Acme ships worldwide!")
	if a == c {
		t.Fatal("expected a single-character change to change the hash")
	}
}
