package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"ai-agrichat-be/internal/constant"
	"ai-agrichat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short stays intact", "감자 심는 시기", "감자 심는 시기"},
		{"whitespace trimmed", "  감자  ", "감자"},
		{
			"long korean text truncated by runes",
			strings.Repeat("가", 60),
			strings.Repeat("가", 50) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateTitle(tt.in))
		})
	}
}

func TestBuildHistoryAppendsCurrentTurnLast(t *testing.T) {
	sessionId := uuid.New()
	existing := []*entity.ChatMessage{
		{Id: uuid.New(), Chat: "감자는 언제 심나요?", Role: constant.ChatMessageRoleUser, ChatSessionId: sessionId, CreatedAt: time.Now()},
		{Id: uuid.New(), Chat: "봄에 심는 것이 좋습니다.", Role: constant.ChatMessageRoleModel, ChatSessionId: sessionId, CreatedAt: time.Now()},
	}
	current := &entity.ChatMessage{Id: uuid.New(), Chat: "그럼 수확은요?", Role: constant.ChatMessageRoleUser, ChatSessionId: sessionId}

	history := buildHistory(existing, current)

	assert.Len(t, history, 3)
	assert.Equal(t, constant.ChatMessageRoleUser, history[0].Role)
	assert.Equal(t, "감자는 언제 심나요?", history[0].Content)
	assert.Equal(t, constant.ChatMessageRoleModel, history[1].Role)
	assert.Equal(t, "그럼 수확은요?", history[2].Content)
	assert.Equal(t, constant.ChatMessageRoleUser, history[2].Role)
}

func TestPassageSearcherCollectionReady(t *testing.T) {
	ctx := context.Background()
	factory, repo := newFakeUowFactory()
	searcher := NewPassageSearcher(factory)

	assert.Error(t, searcher.CollectionReady(ctx, "farmer"))

	assert.NoError(t, repo.Create(ctx, fakePassage("farmer"), []float32{1}))
	assert.NoError(t, searcher.CollectionReady(ctx, "farmer"))
}
