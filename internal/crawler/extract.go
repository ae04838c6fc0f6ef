package crawler

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExtractedPage is the raw material the content pipeline chunks and
// indexes for one crawled page.
type ExtractedPage struct {
	URL             string
	Title           string
	FullText        string
	MetaDescription string
	StructuredText  string
}

// mainContentSelectors mirrors spider.py's all_selectors list, trimmed to
// the containers that carry real page content; generic tags (div, span,
// p) are not walked individually. The whole body text is used only when
// none of these selectors matches.
var mainContentSelectors = []string{
	"article", "main", "[role='main']", ".content", "#content",
	".post-content", ".entry-content", ".article-content", ".page-content",
}

// ExtractPage parses an HTML document into the page's title, full text,
// meta description, and any JSON-LD structured text, matching
// _extract_content_from_page's extraction surface condensed to the
// containers actually worth chunking separately.
func ExtractPage(pageURL string, html string) (ExtractedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ExtractedPage{}, err
	}

	page := ExtractedPage{URL: pageURL}
	page.Title = cleanWhitespace(doc.Find("title").First().Text())

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		page.MetaDescription = cleanWhitespace(desc)
	} else if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		page.MetaDescription = cleanWhitespace(desc)
	}

	var b strings.Builder
	for _, sel := range mainContentSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			text := cleanWhitespace(s.Text())
			if len(text) > 5 {
				b.WriteString(text)
				b.WriteString(" ")
			}
		})
	}
	if b.Len() == 0 {
		b.WriteString(cleanWhitespace(doc.Find("body").Text()))
	}
	page.FullText = strings.TrimSpace(b.String())

	var structured []string
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var data interface{}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return
		}
		if text := extractJSONLDText(data); len(text) > 20 {
			structured = append(structured, text)
		}
	})
	page.StructuredText = strings.Join(structured, " ")

	return page, nil
}

func cleanWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

var jsonLDTextFields = map[string]bool{
	"name": true, "title": true, "description": true, "text": true,
	"articleBody": true, "headline": true, "summary": true,
}

// extractJSONLDText walks a decoded JSON-LD document collecting known
// text-bearing fields plus any standalone strings over 20 characters,
// matching _extract_text_from_jsonld.
func extractJSONLDText(data interface{}) string {
	var parts []string
	var walk func(interface{})
	walk = func(node interface{}) {
		switch v := node.(type) {
		case map[string]interface{}:
			for field, val := range v {
				if jsonLDTextFields[field] {
					if s, ok := val.(string); ok {
						parts = append(parts, strings.TrimSpace(s))
					}
				}
			}
			for _, val := range v {
				walk(val)
			}
		case []interface{}:
			for _, item := range v {
				walk(item)
			}
		case string:
			if len(strings.TrimSpace(v)) > 20 {
				parts = append(parts, strings.TrimSpace(v))
			}
		}
	}
	walk(data)
	return strings.Join(parts, " ")
}
