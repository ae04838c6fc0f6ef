// Package crawler is the Crawl-and-Index Pipeline of §4.G: discovery,
// extraction, change detection, and content indexing, grounded on
// Scraping2/spiders/spider.py's FixedUniversalSpider and
// Scraping2/pipelines.py's ChunkingPipeline.
package crawler

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var trackingParams = map[string]bool{
	"utm_source": true, "utm_medium": true, "utm_campaign": true,
	"utm_term": true, "utm_content": true, "gclid": true, "fbclid": true,
	"mc_cid": true, "mc_eid": true, "igshid": true, "ref": true,
	"ref_src": true, "mkt_tok": true, "yclid": true, "msclkid": true,
}

var repeatedSlashes = regexp.MustCompile(`//+`)

// CanonicalizeURL strips the fragment, drops tracking query parameters,
// and collapses repeated path slashes, matching _canonicalize_url so
// the same logical page is never counted twice under different
// tracking-decorated URLs.
func CanonicalizeURL(raw string) string {
	raw = strings.SplitN(raw, "#", 2)[0]
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	query := parsed.Query()
	kept := url.Values{}
	for k, vs := range query {
		if trackingParams[k] || strings.HasPrefix(k, "utm_") || strings.HasPrefix(k, "hsa_") {
			continue
		}
		kept[k] = vs
	}
	parsed.RawQuery = encodeSorted(kept)
	parsed.Path = repeatedSlashes.ReplaceAllString(parsed.Path, "/")
	if parsed.Path == "" {
		parsed.Path = "/"
	}
	return parsed.String()
}

func encodeSorted(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		for j, v := range values[k] {
			if i > 0 || j > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

var skipExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".rtf", ".odt", ".ods", ".odp", ".txt", ".csv",
	".zip", ".rar", ".7z", ".tar", ".gz", ".bz2",
	".exe", ".msi", ".dmg", ".pkg", ".deb", ".rpm",
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".ico", ".webp",
	".mp4", ".avi", ".mov", ".wmv", ".flv", ".mkv", ".webm",
	".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma",
	".css", ".js", ".xml", ".json", ".rss", ".atom",
	".ttf", ".otf", ".woff", ".woff2", ".eot",
}

// ShouldSkipURL reports whether url's path extension marks it as a
// non-page resource that the content pipeline has no use for.
func ShouldSkipURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	lower := strings.ToLower(parsed.Path)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
