package embedding

import "errors"

// ErrEmbedding marks failures of the embedding gateway so callers can
// degrade retrieval instead of failing the whole turn.
var ErrEmbedding = errors.New("embedding: generation failed")

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}
