package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-agrichat-be/internal/constant"
	"ai-agrichat-be/internal/dto"
	"ai-agrichat-be/internal/entity"
	"ai-agrichat-be/internal/repository/memory"
	"ai-agrichat-be/internal/repository/specification"
	"ai-agrichat-be/internal/repository/unitofwork"
	"ai-agrichat-be/pkg/chat"
	"ai-agrichat-be/pkg/events"
	"ai-agrichat-be/pkg/llm"
	natspub "ai-agrichat-be/pkg/nats"

	"github.com/google/uuid"
)

const sessionTitleRuneLimit = 50

// ErrSessionNotFound covers both a missing session and one owned by a
// different user. The two cases are deliberately indistinguishable to
// the caller.
var ErrSessionNotFound = fmt.Errorf("session not found or access denied")

// IChatService defines the chat service interface
type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error
}

// NotifierFactory yields a per-session progress notifier, usually bound
// to the websocket hub. A nil factory disables progress events.
type NotifierFactory func(sessionID uuid.UUID) chat.Notifier

// chatService owns the persistent variant of the turn loop: history
// lives in Postgres and a failed turn is undone by rolling the
// transaction back.
type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	engine     *chat.Engine
	turnLocks  *memory.TurnLockRepository
	notifiers  NotifierFactory
	publisher  *natspub.Publisher
	turnLogger *log.Logger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	engine *chat.Engine,
	turnLocks *memory.TurnLockRepository,
	notifiers NotifierFactory,
	publisher *natspub.Publisher,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		engine:     engine,
		turnLocks:  turnLocks,
		notifiers:  notifiers,
		publisher:  publisher,
		turnLogger: initTurnLogger(),
	}
}

func initTurnLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "chat_turns.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[TURN] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// CreateSession creates a new chat session
func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSession := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     constant.DefaultSessionTitle,
		CreatedAt: time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: chatSession.Id}, nil
}

// GetAllSessions retrieves all chat sessions
func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:         s.Id,
			Title:      s.Title,
			Terminated: s.Terminated,
			CreatedAt:  s.CreatedAt,
			UpdatedAt:  s.UpdatedAt,
		})
	}

	return response, nil
}

// GetChatHistory retrieves chat history for a session
func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetChatHistoryResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		resp = append(resp, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			CreatedAt: msg.CreatedAt,
		})
	}

	return resp, nil
}

// SendChat processes one user turn and returns the synthesized reply.
// The user message, the reply and any title update commit together, so
// a failed turn leaves no orphan history behind.
func (cs *chatService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	if !cs.turnLocks.Acquire(request.ChatSessionId) {
		return nil, chat.ErrSessionBusy
	}
	defer cs.turnLocks.Release(request.ChatSessionId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	chatSession, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: request.ChatSessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if chatSession == nil {
		return nil, ErrSessionNotFound
	}
	if chatSession.Terminated {
		return nil, chat.ErrSessionTerminated
	}

	existingMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: request.ChatSessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	updateSessionTitle := len(existingMessages) == 0
	now := time.Now()

	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          request.Chat,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: request.ChatSessionId,
		CreatedAt:     now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}

	// Termination short-circuits the pipeline: the farewell is recorded
	// and the session stops accepting turns.
	terminating := strings.TrimSpace(request.Chat) == chat.TerminationKeyword

	var reply string
	if terminating {
		reply = chat.FarewellAnswer
		chatSession.Terminated = true
		if err := uow.ChatSessionRepository().Update(ctx, chatSession); err != nil {
			return nil, err
		}
	} else {
		history := buildHistory(existingMessages, userMessage)

		var notifier chat.Notifier
		if cs.notifiers != nil {
			notifier = cs.notifiers(request.ChatSessionId)
		}

		cs.turnLogger.Printf("[세션 %s] 사용자 질문 처리 시작: %q", request.ChatSessionId, request.Chat)
		reply, err = cs.engine.ProcessTurn(ctx, history, notifier)
		if err != nil {
			// Rollback via the deferred uow.Rollback drops the user
			// message too.
			cs.turnLogger.Printf("[세션 %s] 턴 처리 실패: %v", request.ChatSessionId, err)
			return nil, fmt.Errorf("%w: %v", chat.ErrTurnFailed, err)
		}
	}

	modelMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          reply,
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: request.ChatSessionId,
		CreatedAt:     now.Add(1 * time.Millisecond),
	}
	if err := uow.ChatMessageRepository().Create(ctx, modelMessage); err != nil {
		return nil, err
	}

	if updateSessionTitle && !terminating {
		chatSession.Title = truncateTitle(request.Chat)
		chatSession.UpdatedAt = &now
		if err := uow.ChatSessionRepository().Update(ctx, chatSession); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	cs.publishTurnEvent(ctx, chatSession.Id, terminating)

	return &dto.SendChatResponse{
		ChatSessionId:    chatSession.Id,
		ChatSessionTitle: chatSession.Title,
		Terminated:       chatSession.Terminated,
		Sent: &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Chat:      userMessage.Chat,
			Role:      userMessage.Role,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        modelMessage.Id,
			Chat:      modelMessage.Chat,
			Role:      modelMessage.Role,
			CreatedAt: modelMessage.CreatedAt,
		},
	}, nil
}

// DeleteSession removes a chat session
func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: request.ChatSessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrSessionNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Delete(ctx, request.ChatSessionId); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, request.ChatSessionId); err != nil {
		return err
	}

	cs.turnLocks.Release(request.ChatSessionId)

	return uow.Commit()
}

func (cs *chatService) publishTurnEvent(ctx context.Context, sessionId uuid.UUID, terminated bool) {
	if cs.publisher == nil {
		return
	}
	eventType := "TURN_COMPLETED"
	if terminated {
		eventType = "SESSION_TERMINATED"
	}
	event := events.NewEvent(eventType, map[string]interface{}{
		"chat_session_id": sessionId.String(),
	})
	if err := cs.publisher.Publish(ctx, event); err != nil {
		cs.turnLogger.Printf("[세션 %s] 이벤트 발행 실패: %v", sessionId, err)
	}
}

// buildHistory converts stored messages plus the new user turn into the
// engine's history format.
func buildHistory(existing []*entity.ChatMessage, userMessage *entity.ChatMessage) []llm.Message {
	history := make([]llm.Message, 0, len(existing)+1)
	for _, msg := range existing {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Chat})
	}
	history = append(history, llm.Message{Role: userMessage.Role, Content: userMessage.Chat})
	return history
}

func truncateTitle(chatText string) string {
	runes := []rune(strings.TrimSpace(chatText))
	if len(runes) > sessionTitleRuneLimit {
		return string(runes[:sessionTitleRuneLimit]) + "..."
	}
	return string(runes)
}
