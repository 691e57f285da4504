package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-agrichat-be/internal/pkg/logger"
	"ai-agrichat-be/pkg/chat"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const progressChannel = "chat_progress_events"

// redisEnvelope carries a client-ready frame between instances. The
// frame travels as raw JSON so remote subscribers deliver byte-for-byte
// what local ones receive.
type redisEnvelope struct {
	TargetSessionID string          `json:"target_session_id"`
	Message         json.RawMessage `json:"message"`
}

// TurnProgress is the wire payload pushed to subscribers of a session
// while one of its turns moves through the pipeline phases.
type TurnProgress struct {
	ChatSessionId uuid.UUID  `json:"chat_session_id"`
	Phase         chat.Phase `json:"phase"`
}

type Hub struct {
	// Registered clients map: SessionID -> List of Clients (multi-tab)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Session has no more clients", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyProgress pushes a phase event to every client watching the
// session, locally and through Redis for other instances.
func (h *Hub) NotifyProgress(sessionID uuid.UUID, phase chat.Phase) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "turn_progress",
		"data": TurnProgress{ChatSessionId: sessionID, Phase: phase},
	})

	h.deliverLocal(sessionID, data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(redisEnvelope{
			TargetSessionID: sessionID.String(),
			Message:         data,
		})
		h.rdb.Publish(context.Background(), progressChannel, envelope)
	}
}

// Notifier returns a chat.Notifier bound to one session, suitable for
// handing to the turn engine.
func (h *Hub) Notifier(sessionID uuid.UUID) chat.Notifier {
	return chat.NotifierFunc(func(phase chat.Phase) {
		h.NotifyProgress(sessionID, phase)
	})
}

func (h *Hub) deliverLocal(sessionID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients, found := h.clients[sessionID]
	h.mu.RUnlock()
	if !found {
		return
	}

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"session_id": sessionID})
			close(client.Send)
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the shared progress channel and
	// delivers to whichever sessions it holds locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, progressChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload redisEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		sid, err := uuid.Parse(payload.TargetSessionID)
		if err != nil {
			continue
		}

		h.deliverLocal(sid, payload.Message)
	}
}
