package crawler

import "testing"

const sampleHTML = `
<html>
<head>
  <title>  About   Acme  </title>
  <meta name="description" content="Acme builds   widgets for everyone." />
  <script type="application/ld+json">
    {"@type": "Organization", "name": "Acme Corp", "description": "A widget company founded in 1990."}
  </script>
</head>
<body>
  <main><p>Acme has been building high quality widgets since 1990 for customers worldwide.</p></main>
</body>
</html>`

func TestExtractPage(t *testing.T) {
	page, err := ExtractPage("https://example.com/about", sampleHTML)
	if err != nil {
		t.Fatalf("ExtractPage error: %v", err)
	}
	if page.Title != "About Acme" {
		t.Errorf("Title = %q, want %q", page.Title, "About Acme")
	}
	if page.MetaDescription != "Acme builds widgets for everyone." {
		t.Errorf("MetaDescription = %q", page.MetaDescription)
	}
	if page.FullText == "" {
		t.Error("expected non-empty FullText from <main>")
	}
	if page.StructuredText == "" {
		t.Error("expected JSON-LD structured text to be extracted")
	}
}
