package service

import (
	"context"
	"sync"

	"ai-agrichat-be/internal/entity"
	"ai-agrichat-be/internal/repository/contract"
	"ai-agrichat-be/internal/repository/specification"
	"ai-agrichat-be/internal/repository/unitofwork"
	"ai-agrichat-be/pkg/embedding"
)

// fakePassageRepository records writes and serves canned search results.
type fakePassageRepository struct {
	mu       sync.Mutex
	passages []*entity.Passage
	vectors  [][]float32

	similar  []*entity.Passage
	keyword  []*entity.Passage
	countErr error
}

func (r *fakePassageRepository) Create(_ context.Context, p *entity.Passage, embedding []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passages = append(r.passages, p)
	r.vectors = append(r.vectors, embedding)
	return nil
}

func (r *fakePassageRepository) CreateBulk(_ context.Context, ps []*entity.Passage, embeddings [][]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passages = append(r.passages, ps...)
	r.vectors = append(r.vectors, embeddings...)
	return nil
}

func (r *fakePassageRepository) DeleteByCollection(context.Context, string) error { return nil }

func (r *fakePassageRepository) FindAll(context.Context, ...specification.Specification) ([]*entity.Passage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passages, nil
}

func (r *fakePassageRepository) Count(context.Context, ...specification.Specification) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.passages)), nil
}

func (r *fakePassageRepository) SearchSimilar(context.Context, string, []float32, int) ([]*entity.Passage, error) {
	return r.similar, nil
}

func (r *fakePassageRepository) SearchSimilarWithScore(context.Context, string, []float32, int) ([]*contract.ScoredPassage, error) {
	scored := make([]*contract.ScoredPassage, len(r.similar))
	for i, p := range r.similar {
		scored[i] = &contract.ScoredPassage{Passage: p, Similarity: 1}
	}
	return scored, nil
}

func (r *fakePassageRepository) SearchKeywords(context.Context, string, []string, int) ([]*entity.Passage, error) {
	return r.keyword, nil
}

func (r *fakePassageRepository) stored() []*entity.Passage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Passage, len(r.passages))
	copy(out, r.passages)
	return out
}

// fakeUnitOfWork satisfies the transactional surface without a DB.
type fakeUnitOfWork struct {
	passages *fakePassageRepository
}

func (u *fakeUnitOfWork) Begin(context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error               { return nil }
func (u *fakeUnitOfWork) Rollback() error             { return nil }

func (u *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository { return nil }
func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository { return nil }
func (u *fakeUnitOfWork) PassageRepository() contract.PassageRepository         { return u.passages }

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

func newFakeUowFactory() (*fakeUowFactory, *fakePassageRepository) {
	repo := &fakePassageRepository{}
	return &fakeUowFactory{uow: &fakeUnitOfWork{passages: repo}}, repo
}

func fakePassage(collection string) *entity.Passage {
	return &entity.Passage{Collection: collection, Text: "passage"}
}

// stubEmbedder returns a fixed vector for every input.
type stubEmbedder struct {
	vector []float32
	err    error
	mu     sync.Mutex
	calls  int
}

func (s *stubEmbedder) Generate(string, string) (*embedding.EmbeddingResponse, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: s.vector},
	}, nil
}
