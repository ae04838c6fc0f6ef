package engine

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/aditeya/ragtenant/internal/types"
)

const diversificationCap = 80

const (
	primaryQueryLimit    = 50
	perWordQueryLimit    = 25
	keywordBucketLimit   = 20
	variantQueryLimit    = 40
	literalQueryLimit    = 50
	entityQueryLimit     = 30
)

var (
	foundingTriggers   = []string{"founded", "establish", "start", "began", "create"}
	foundingTerms      = []string{"founded", "established", "started", "began", "created", "inception", "formation"}
	yearTriggers       = []string{"year", "when", "date", "time"}
	companyTriggers    = []string{"company", "business", "organization"}
	companyTerms       = []string{"company", "business", "organization", "corporation", "firm"}
	leadershipTriggers = []string{"head", "ceo", "leader", "manager", "director"}
	leadershipTerms    = []string{"CEO", "head", "director", "manager", "leader", "president", "founder"}
)

// multiPassRetrieve implements §4.D.2/§4.D.3's three-pass retrieval:
// Pass 1 embeds the raw question plus a diversified set of per-word,
// keyword-bucket, and question-variant sub-queries, capped at
// diversificationCap unique documents; Pass 2 is an independent literal
// search over the normalized question; Pass 3 joins the question's
// capitalized tokens into one entity query. All three merge and
// deduplicate by document id.
func (e *Engine) multiPassRetrieve(ctx context.Context, question string) ([]types.ScoredDocument, error) {
	merged := map[string]types.ScoredDocument{}
	addAll := func(docs []types.ScoredDocument) {
		for _, d := range docs {
			if existing, ok := merged[d.Document.ID]; !ok || d.Score > existing.Score {
				merged[d.Document.ID] = d
			}
		}
	}

	// Pass 1: embedding primary, diversified.
	primary, err := e.embedQuery(ctx, question, primaryQueryLimit)
	if err != nil {
		return nil, err
	}
	addAll(primary)

	for _, sub := range diversificationQueries(question) {
		if len(merged) >= diversificationCap {
			break
		}
		docs, err := e.embedQuery(ctx, sub.text, sub.limit)
		if err != nil {
			continue
		}
		addAll(docs)
	}

	// Pass 2: literal text over the normalized question, independent of
	// Pass 1's cap.
	if literal, err := e.embedQuery(ctx, normalizeQuestion(question), literalQueryLimit); err == nil {
		addAll(literal)
	}

	// Pass 3: entity search, one query joining every capitalized token.
	if entityQuery := joinEntities(question); entityQuery != "" {
		if docs, err := e.embedQuery(ctx, entityQuery, entityQueryLimit); err == nil {
			addAll(docs)
		}
	}

	result := make([]types.ScoredDocument, 0, len(merged))
	for _, d := range merged {
		result = append(result, d)
	}
	return result, nil
}

func (e *Engine) embedQuery(ctx context.Context, text string, limit uint64) ([]types.ScoredDocument, error) {
	embedding, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return e.vectors.Query(ctx, e.collection, embedding, limit)
}

// subQuery pairs a diversification query's text with the nearest-count
// it's queried at, since the buckets below don't all share one limit.
type subQuery struct {
	text  string
	limit uint64
}

// diversificationQueries builds Pass 1's diversification set: one
// sub-query per individual question word of length > 2, one per
// keyword-bucket term triggered by the question's content, and three
// literal question variants.
func diversificationQueries(question string) []subQuery {
	words := queryWords(question)

	var subs []subQuery
	for _, w := range words {
		subs = append(subs, subQuery{w, perWordQueryLimit})
	}
	for _, term := range keywordBucketTerms(question) {
		subs = append(subs, subQuery{term, keywordBucketLimit})
	}
	for _, variant := range questionVariants(question, words) {
		subs = append(subs, subQuery{variant, variantQueryLimit})
	}
	return subs
}

// queryWords lowercases the question's whitespace-separated tokens,
// keeping those longer than two characters.
func queryWords(question string) []string {
	var out []string
	for _, w := range strings.Fields(question) {
		if len(w) > 2 {
			out = append(out, strings.ToLower(w))
		}
	}
	return out
}

// keywordBucketTerms expands the question into related terms drawn from
// fixed vocabularies — founding, recent years, company synonyms,
// leadership titles — whenever the question's own wording suggests that
// bucket is relevant.
func keywordBucketTerms(question string) []string {
	lower := strings.ToLower(question)

	var terms []string
	if containsAny(lower, foundingTriggers) {
		terms = append(terms, foundingTerms...)
	}
	if containsAny(lower, yearTriggers) {
		terms = append(terms, recentYears()...)
	}
	if containsAny(lower, companyTriggers) {
		terms = append(terms, companyTerms...)
	}
	if containsAny(lower, leadershipTriggers) {
		terms = append(terms, leadershipTerms...)
	}
	return terms
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// recentYears returns a sliding window of the last 20 years plus the
// current one, as strings, for questions that ask about timing.
func recentYears() []string {
	currentYear := time.Now().Year()
	years := make([]string, 0, 21)
	for y := currentYear - 20; y <= currentYear; y++ {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// questionVariants builds the three literal phrasings Pass 1 queries at
// variantQueryLimit: the raw question, a stop-word-light rewrite with
// "was"/"is" stripped, and a words-only rendering from words.
func questionVariants(question string, words []string) []string {
	rewrite := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(question, "was", ""), "is", ""))
	variants := []string{question, rewrite, strings.Join(words, " ")}

	out := make([]string, 0, len(variants))
	for _, v := range variants {
		if len(v) > 3 {
			out = append(out, v)
		}
	}
	return out
}

// normalizeQuestion strips trailing punctuation so Pass 2's literal
// search isn't thrown off by a question mark or period.
func normalizeQuestion(question string) string {
	return strings.TrimRight(question, "?.!,;")
}

// significantWords filters the question's words down to those longer
// than three characters, lowercased, used for hybridRerank's keyword
// bonus.
func significantWords(question string) []string {
	var out []string
	for _, w := range strings.Fields(question) {
		w = strings.Trim(w, ".,!?;:\"'")
		if len(w) > 3 {
			out = append(out, strings.ToLower(w))
		}
	}
	return out
}

// joinEntities treats capitalized, non-sentence-leading tokens of
// length > 2 as named entities and joins up to five of them into a
// single query for Pass 3.
func joinEntities(question string) string {
	words := strings.Fields(question)
	var entities []string
	for i, w := range words {
		trimmed := strings.Trim(w, ".,!?;:\"'")
		if trimmed == "" || i == 0 || len(trimmed) <= 2 {
			continue
		}
		r := []rune(trimmed)
		if unicode.IsUpper(r[0]) {
			entities = append(entities, trimmed)
		}
		if len(entities) == 5 {
			break
		}
	}
	return strings.Join(entities, " ")
}

// hybridRerank implements §4.D.4's hybrid score: the reranker's
// cross-encoder score plus 0.3 per question keyword (len>3) that
// literally occurs in the document, sorted descending with ties broken
// by input order, then truncated to synthesisTopN.
func (e *Engine) hybridRerank(ctx context.Context, question string, docs []types.ScoredDocument) ([]types.ScoredDocument, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Document.Text
	}

	ranked, err := e.reranker.Rerank(ctx, question, texts)
	if err != nil {
		return nil, err
	}

	keywords := significantWords(question)
	scored := make([]types.ScoredDocument, 0, len(ranked))
	for order, r := range ranked {
		if r.Index < 0 || r.Index >= len(docs) {
			continue
		}
		doc := docs[r.Index]
		bonus := 0.3 * float64(countKeywordHits(keywords, doc.Document.Text))
		doc.Score = float32(r.RelevanceScore + bonus)
		scored = append(scored, doc)
		_ = order
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > synthesisTopN {
		scored = scored[:synthesisTopN]
	}
	return scored, nil
}

func countKeywordHits(keywords []string, text string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count
}
