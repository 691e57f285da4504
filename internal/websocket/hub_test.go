package websocket

import (
	"encoding/json"
	"testing"

	"ai-agrichat-be/pkg/chat"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisEnvelopeCarriesRawFrame(t *testing.T) {
	sessionID := uuid.New()
	frame, err := json.Marshal(map[string]interface{}{
		"type": "turn_progress",
		"data": TurnProgress{ChatSessionId: sessionID, Phase: chat.PhaseRetrieving},
	})
	require.NoError(t, err)

	wire, err := json.Marshal(redisEnvelope{
		TargetSessionID: sessionID.String(),
		Message:         frame,
	})
	require.NoError(t, err)

	// the frame travels as an embedded JSON object, never a base64 string
	assert.Contains(t, string(wire), `"type":"turn_progress"`)
	assert.Contains(t, string(wire), `"phase":"retrieving"`)

	var decoded redisEnvelope
	require.NoError(t, json.Unmarshal(wire, &decoded))
	assert.Equal(t, sessionID.String(), decoded.TargetSessionID)
	assert.JSONEq(t, string(frame), string(decoded.Message))
}
