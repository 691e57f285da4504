package contract

import (
	"context"

	"ai-agrichat-be/internal/entity"
	"ai-agrichat-be/internal/repository/specification"
)

// ScoredPassage wraps a Passage with its cosine similarity score
type ScoredPassage struct {
	Passage    *entity.Passage
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type PassageRepository interface {
	Create(ctx context.Context, passage *entity.Passage, embedding []float32) error
	CreateBulk(ctx context.Context, passages []*entity.Passage, embeddings [][]float32) error
	DeleteByCollection(ctx context.Context, collection string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Passage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Advanced
	SearchSimilar(ctx context.Context, collection string, embedding []float32, limit int) ([]*entity.Passage, error)
	// SearchSimilarWithScore returns passages with their similarity scores
	SearchSimilarWithScore(ctx context.Context, collection string, embedding []float32, limit int) ([]*ScoredPassage, error)
	SearchKeywords(ctx context.Context, collection string, keywords []string, limit int) ([]*entity.Passage, error)
}
