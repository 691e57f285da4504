package implementation

import (
	"context"
	"fmt"
	"strings"

	"ai-agrichat-be/internal/entity"
	"ai-agrichat-be/internal/mapper"
	"ai-agrichat-be/internal/model"
	"ai-agrichat-be/internal/repository/contract"
	"ai-agrichat-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PassageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PassageMapper
}

func NewPassageRepository(db *gorm.DB) contract.PassageRepository {
	return &PassageRepositoryImpl{
		db:     db,
		mapper: mapper.NewPassageMapper(),
	}
}

func (r *PassageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PassageRepositoryImpl) Create(ctx context.Context, passage *entity.Passage, embedding []float32) error {
	m := r.mapper.ToModel(passage)
	m.Embedding = pgvector.NewVector(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*passage = *r.mapper.ToEntity(m)
	return nil
}

func (r *PassageRepositoryImpl) CreateBulk(ctx context.Context, passages []*entity.Passage, embeddings [][]float32) error {
	if len(passages) != len(embeddings) {
		return fmt.Errorf("passage/embedding count mismatch: %d != %d", len(passages), len(embeddings))
	}
	if len(passages) == 0 {
		return nil
	}

	models := make([]*model.Passage, len(passages))
	for i, p := range passages {
		models[i] = r.mapper.ToModel(p)
		models[i].Embedding = pgvector.NewVector(embeddings[i])
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*passages[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *PassageRepositoryImpl) DeleteByCollection(ctx context.Context, collection string) error {
	return r.db.WithContext(ctx).Where("collection = ?", collection).Delete(&model.Passage{}).Error
}

func (r *PassageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Passage, error) {
	var models []*model.Passage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Passage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *PassageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Passage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PassageRepositoryImpl) SearchSimilar(ctx context.Context, collection string, embedding []float32, limit int) ([]*entity.Passage, error) {
	if limit <= 0 {
		limit = 5
	}
	var models []*model.Passage

	// pgvector cosine distance: embedding <=> vector, smallest first
	err := r.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&models).Error

	if err != nil {
		return nil, err
	}

	entities := make([]*entity.Passage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

// SearchSimilarWithScore returns passages with their cosine similarity scores
func (r *PassageRepositoryImpl) SearchSimilarWithScore(ctx context.Context, collection string, embedding []float32, limit int) ([]*contract.ScoredPassage, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	type result struct {
		model.Passage
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("passages").
		Select("passages.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("collection = ?", collection).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPassage, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredPassage{
			Passage:    r.mapper.ToEntity(&res.Passage),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *PassageRepositoryImpl) SearchKeywords(ctx context.Context, collection string, keywords []string, limit int) ([]*entity.Passage, error) {
	if len(keywords) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	// Any keyword matching the passage text qualifies it.
	// Using ILIKE for Postgres (case insensitive)
	conditions := make([]string, len(keywords))
	args := make([]interface{}, len(keywords))
	for i, keyword := range keywords {
		conditions[i] = "text ILIKE ?"
		args[i] = "%" + keyword + "%"
	}

	var models []*model.Passage
	err := r.db.WithContext(ctx).
		Where("collection = ?", collection).
		Where(strings.Join(conditions, " OR "), args...).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.Passage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
