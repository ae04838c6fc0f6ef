package types

// ModelType distinguishes the three pluggable model roles named in §1:
// chat synthesis, embedding, and reranking.
type ModelType string

const (
	ModelTypeChat      ModelType = "chat"
	ModelTypeEmbedding ModelType = "embedding"
	ModelTypeRerank    ModelType = "rerank"
)
