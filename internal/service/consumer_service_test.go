package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-agrichat-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "embed_passage_test"

func newTestBus() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
}

func TestConsumerStoresPublishedChunk(t *testing.T) {
	pubSub := newTestBus()
	defer pubSub.Close()

	factory, repo := newFakeUowFactory()
	embedder := &stubEmbedder{vector: []float32{0.1, 0.2, 0.3}}

	consumer := NewConsumerService(pubSub, testTopic, factory, embedder)
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(testTopic, pubSub)
	payload, err := json.Marshal(dto.PublishEmbedPassageMessage{
		Collection: "farmer",
		Source:     "potato.txt",
		Page:       3,
		Text:       "감자는 서늘한 기후에서 잘 자란다.",
		ChunkIndex: 0,
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), payload))

	require.Eventually(t, func() bool {
		return len(repo.stored()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	stored := repo.stored()[0]
	assert.Equal(t, "farmer", stored.Collection)
	assert.Equal(t, "potato.txt", stored.Source)
	assert.Equal(t, 3, stored.Page)
	assert.Equal(t, "감자는 서늘한 기후에서 잘 자란다.", stored.Text)
	assert.Equal(t, 0, stored.Metadata["chunk_index"])
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, repo.vectors[0])
}

func TestConsumerAcksMalformedMessage(t *testing.T) {
	pubSub := newTestBus()
	defer pubSub.Close()

	factory, repo := newFakeUowFactory()
	embedder := &stubEmbedder{vector: []float32{1}}

	consumer := NewConsumerService(pubSub, testTopic, factory, embedder)
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(testTopic, pubSub)
	require.NoError(t, publisher.Publish(context.Background(), []byte("not json")))

	// Malformed payloads are dropped, not retried.
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, repo.stored())
	assert.Zero(t, embedder.calls)
}
