// Package chunker splits extracted page text into retrieval-sized chunks,
// per §4.C, grounded on the crawl pipeline's ChunkingPipeline.
package chunker

import (
	"regexp"
	"strings"
)

const (
	maxChunkSize = 3250
	minChunkSize = 250
	overlapWords = 15
	minWords     = 3
)

var sentenceBoundary = regexp.MustCompile(`(?s)(.*?[.!?])(\s+|$)`)

// splitSentences breaks text into sentence-like segments using a simple
// terminal-punctuation boundary, good enough for the crawl corpus's
// largely well-punctuated prose without pulling in a full NLP tokenizer.
func splitSentences(text string) []string {
	var sentences []string
	rest := text
	for {
		loc := sentenceBoundary.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		sentence := rest[loc[2]:loc[3]]
		sentences = append(sentences, sentence)
		rest = rest[loc[1]:]
		if rest == "" {
			break
		}
	}
	if strings.TrimSpace(rest) != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// Chunk splits text into sentence-respecting chunks of minChunkSize to
// maxChunkSize characters, carrying a tail-word overlap across chunk
// boundaries, and drops any chunk with fewer than minWords words.
func Chunk(text string) []string {
	sentences := splitSentences(text)
	var chunks []string
	current := ""

	flush := func() {
		trimmed := strings.TrimSpace(current)
		if len(trimmed) >= minChunkSize {
			chunks = append(chunks, trimmed)
		}
	}

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		var potential string
		if current != "" {
			potential = current + " " + sentence
		} else {
			potential = sentence
		}

		if len(potential) > maxChunkSize && current != "" {
			flush()

			words := strings.Fields(current)
			n := overlapWords
			if n > len(words) {
				n = len(words)
			}
			if n > 0 {
				current = strings.Join(words[len(words)-n:], " ") + " " + sentence
			} else {
				current = sentence
			}
		} else {
			current = potential
		}
	}
	if current != "" {
		flush()
	}

	if len(chunks) == 0 && len(strings.TrimSpace(text)) >= minChunkSize {
		chunks = []string{strings.TrimSpace(text)}
	}
	if len(chunks) == 0 {
		return nil
	}

	quality := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if len(strings.Fields(c)) >= minWords {
			quality = append(quality, c)
		}
	}
	return quality
}
