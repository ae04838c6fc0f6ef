package engine

import (
	"context"
	"sort"
	"strings"
)

var locationTriggers = []string{
	"where is this", "which page", "source", "link", "url",
	"where did you get this", "about page", "where can i find",
	"what page", "page located",
}

var locationWordTokens = map[string]bool{"source": true, "link": true, "url": true}

var locationPositiveTerms = []string{"about", "who we are", "company", "our story", "mission"}
var locationNegativePaths = []string{"/blog", "/category", "/tag"}

func isLocationQuestion(question string) bool {
	lower := strings.ToLower(question)
	for _, trigger := range locationTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	for _, word := range strings.Fields(lower) {
		if locationWordTokens[strings.Trim(word, ".,!?;:")] {
			return true
		}
	}
	return false
}

// locationFastPath implements §4.D.1 step 1: if the question is asking
// where content lives, answer with exactly one "{title}\n{url}" line
// instead of running full retrieval.
func (e *Engine) locationFastPath(ctx context.Context, question string) (url, title string, matched bool) {
	if !isLocationQuestion(question) {
		return "", "", false
	}

	embedding, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return "", "", false
	}
	candidates, err := e.vectors.Query(ctx, e.collection, embedding, 50)
	if err != nil || len(candidates) == 0 {
		return "", "", false
	}

	type urlScore struct {
		url   string
		title string
		score int
	}
	byURL := map[string]*urlScore{}
	for _, c := range candidates {
		if c.Document.URL == "" {
			continue
		}
		entry, ok := byURL[c.Document.URL]
		if !ok {
			entry = &urlScore{url: c.Document.URL, title: c.Document.Title}
			byURL[c.Document.URL] = entry
		}
		lowerURL := strings.ToLower(c.Document.URL)
		lowerText := strings.ToLower(c.Document.Text)
		for _, term := range locationPositiveTerms {
			if strings.Contains(lowerText, term) {
				entry.score += 2
			}
		}
		for _, path := range locationNegativePaths {
			if strings.Contains(lowerURL, path) {
				entry.score -= 5
			}
		}
	}
	if len(byURL) == 0 {
		return "", "", false
	}

	entries := make([]*urlScore, 0, len(byURL))
	for _, v := range byURL {
		entries = append(entries, v)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].url < entries[j].url
	})

	best := entries[0]
	return best.url, best.title, true
}
