package crawler

import "testing"

func TestCalculateLinkPriorityBoostsContentPaths(t *testing.T) {
	about := calculateLinkPriority("https://example.com/about")
	random := calculateLinkPriority("https://example.com/xyz")
	if about <= random {
		t.Errorf("expected /about priority (%d) to exceed /xyz priority (%d)", about, random)
	}
}

func TestCalculateLinkPriorityPenalizesDeepPaths(t *testing.T) {
	shallow := calculateLinkPriority("https://example.com/a")
	deep := calculateLinkPriority("https://example.com/a/b/c/d/e/f/g/h")
	if deep >= shallow {
		t.Errorf("expected deep path priority (%d) to be lower than shallow (%d)", deep, shallow)
	}
}

func TestShouldFollowLinkRejectsOffDomain(t *testing.T) {
	if shouldFollowLink("https://other.com/page", "example.com") {
		t.Error("expected off-domain link to be rejected")
	}
	if !shouldFollowLink("https://example.com/page", "example.com") {
		t.Error("expected same-domain link to be accepted")
	}
}

func TestShouldFollowLinkRejectsAdminPaths(t *testing.T) {
	if shouldFollowLink("https://example.com/wp-admin/edit", "example.com") {
		t.Error("expected admin path to be rejected")
	}
}

func TestExtractLinksResolvesRelativeURLs(t *testing.T) {
	html := `<html><body><a href="/contact">Contact</a><a href="javascript:void(0)">skip</a></body></html>`
	links, err := extractLinks("https://example.com/about", html)
	if err != nil {
		t.Fatalf("extractLinks error: %v", err)
	}
	if len(links) != 1 || links[0] != "https://example.com/contact" {
		t.Fatalf("extractLinks = %v, want [https://example.com/contact]", links)
	}
}
