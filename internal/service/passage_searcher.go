package service

import (
	"context"
	"fmt"

	"ai-agrichat-be/internal/entity"
	"ai-agrichat-be/internal/repository/specification"
	"ai-agrichat-be/internal/repository/unitofwork"
	"ai-agrichat-be/pkg/expert"
)

// passageSearcher bridges the expert pipelines to the pgvector-backed
// passage repository. Reads run outside any transaction.
type passageSearcher struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPassageSearcher(uowFactory unitofwork.RepositoryFactory) expert.PassageSearcher {
	return &passageSearcher{uowFactory: uowFactory}
}

func (ps *passageSearcher) SearchSimilar(ctx context.Context, collection string, queryVector []float32, topK int) ([]expert.Passage, error) {
	uow := ps.uowFactory.NewUnitOfWork(ctx)

	found, err := uow.PassageRepository().SearchSimilar(ctx, collection, queryVector, topK)
	if err != nil {
		return nil, err
	}
	return toExpertPassages(found), nil
}

func (ps *passageSearcher) SearchKeywords(ctx context.Context, collection string, keywords []string, limit int) ([]expert.Passage, error) {
	uow := ps.uowFactory.NewUnitOfWork(ctx)

	found, err := uow.PassageRepository().SearchKeywords(ctx, collection, keywords, limit)
	if err != nil {
		return nil, err
	}
	return toExpertPassages(found), nil
}

func (ps *passageSearcher) CollectionReady(ctx context.Context, collection string) error {
	uow := ps.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.PassageRepository().Count(ctx,
		specification.ByCollection{Collection: collection},
	)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("collection %q has no passages", collection)
	}
	return nil
}

func toExpertPassages(found []*entity.Passage) []expert.Passage {
	passages := make([]expert.Passage, 0, len(found))
	for _, p := range found {
		passages = append(passages, expert.Passage{
			Text:       p.Text,
			Source:     p.Source,
			Page:       p.Page,
			Collection: p.Collection,
		})
	}
	return passages
}
