package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-agrichat-be/internal/dto"
	"ai-agrichat-be/internal/entity"
	"ai-agrichat-be/internal/repository/unitofwork"
	"ai-agrichat-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the embed queue: each message is one corpus
// chunk to embed and insert as a passage.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedPassageMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Embedding chunk %d of %s (collection %s)", payload.ChunkIndex, payload.Source, payload.Collection)

	res, err := cs.embeddingProvider.Generate(payload.Text, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to embed chunk %d of %s: %v", payload.ChunkIndex, payload.Source, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	passage := &entity.Passage{
		Id:         uuid.New(),
		Collection: payload.Collection,
		Text:       payload.Text,
		Source:     payload.Source,
		Page:       payload.Page,
		Metadata: map[string]interface{}{
			"chunk_index": payload.ChunkIndex,
		},
		CreatedAt: time.Now(),
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.PassageRepository().Create(ctx, passage, res.Embedding.Values); err != nil {
		log.Printf("[ERROR] Failed to insert passage: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Passage stored: chunk %d of %s (collection %s)", payload.ChunkIndex, payload.Source, payload.Collection)
	msg.Ack()
}
