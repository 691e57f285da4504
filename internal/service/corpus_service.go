package service

import (
	"context"
	"encoding/json"

	"ai-agrichat-be/internal/dto"
	"ai-agrichat-be/internal/repository/specification"
	"ai-agrichat-be/internal/repository/unitofwork"
	"ai-agrichat-be/pkg/expert"
	"ai-agrichat-be/pkg/utils"
)

const (
	// ChunkSize: 1500 chars, Overlap: 200 chars. Conservative for the
	// embedding model's input window.
	corpusChunkSize    = 1500
	corpusChunkOverlap = 200
)

type ICorpusService interface {
	Ingest(ctx context.Context, request *dto.IngestCorpusRequest) (*dto.IngestCorpusResponse, error)
	CollectionStatus(ctx context.Context) ([]*dto.CollectionStatusResponse, error)
}

// corpusService splits raw corpus text into chunks and puts them on the
// embed queue. The consumer embeds and persists them asynchronously.
type corpusService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	definitions      []expert.Definition
}

func NewCorpusService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	definitions []expert.Definition,
) ICorpusService {
	return &corpusService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		definitions:      definitions,
	}
}

func (cs *corpusService) Ingest(ctx context.Context, request *dto.IngestCorpusRequest) (*dto.IngestCorpusResponse, error) {
	chunks := utils.SplitText(request.Text, corpusChunkSize, corpusChunkOverlap)

	for i, chunk := range chunks {
		payload := dto.PublishEmbedPassageMessage{
			Collection: request.Collection,
			Source:     request.Source,
			Page:       request.Page,
			Text:       chunk,
			ChunkIndex: i,
		}
		payloadJson, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		if err := cs.publisherService.Publish(ctx, payloadJson); err != nil {
			return nil, err
		}
	}

	return &dto.IngestCorpusResponse{
		Collection: request.Collection,
		Chunks:     len(chunks),
	}, nil
}

func (cs *corpusService) CollectionStatus(ctx context.Context) ([]*dto.CollectionStatusResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	statuses := make([]*dto.CollectionStatusResponse, 0, len(cs.definitions))
	for _, def := range cs.definitions {
		count, err := uow.PassageRepository().Count(ctx,
			specification.ByCollection{Collection: def.Collection},
		)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, &dto.CollectionStatusResponse{
			Collection: def.Collection,
			Expert:     def.Identifier,
			Passages:   count,
			Ready:      count > 0,
		})
	}

	return statuses, nil
}
