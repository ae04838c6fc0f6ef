package crawler

import "testing"

func TestCanonicalizeURLStripsTrackingParams(t *testing.T) {
	got := CanonicalizeURL("https://example.com/blog/post?utm_source=twitter&id=5#section")
	want := "https://example.com/blog/post?id=5"
	if got != want {
		t.Fatalf("CanonicalizeURL = %q, want %q", got, want)
	}
}

func TestCanonicalizeURLCollapsesSlashes(t *testing.T) {
	got := CanonicalizeURL("https://example.com//about//team")
	want := "https://example.com/about/team"
	if got != want {
		t.Fatalf("CanonicalizeURL = %q, want %q", got, want)
	}
}

func TestShouldSkipURLMatchesFileExtension(t *testing.T) {
	if !ShouldSkipURL("https://example.com/files/report.pdf") {
		t.Error("expected .pdf URL to be skipped")
	}
	if ShouldSkipURL("https://example.com/about") {
		t.Error("did not expect a page URL to be skipped")
	}
}
