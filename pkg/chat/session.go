package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ai-agrichat-be/pkg/llm"
)

// TerminationKeyword ends a conversation when received as user input.
const TerminationKeyword = "종료"

// FarewellAnswer is returned when the session terminates.
const FarewellAnswer = "대화를 종료합니다. 이용해주셔서 감사합니다."

// ErrTurnFailed wraps any unrecoverable failure while processing one
// turn; the session's history is rolled back before it is returned.
var ErrTurnFailed = errors.New("chat: turn processing failed")

// ErrSessionTerminated is returned for input submitted after the
// termination keyword.
var ErrSessionTerminated = errors.New("chat: session terminated")

// ErrSessionBusy is returned when a turn is submitted while the
// previous one is still in flight.
var ErrSessionBusy = errors.New("chat: turn already in flight")

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateProcessing
	StateTerminated
)

// TurnProcessor runs one orchestration cycle over the history ending in
// the current user turn. *Engine satisfies this.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, history []llm.Message, notifier Notifier) (string, error)
}

// Session owns one conversation's ordered history and processes turns
// strictly one at a time. On a failed turn the just-appended user
// message is removed so history never contains an unanswered question.
type Session struct {
	mu        sync.Mutex
	state     State
	history   []llm.Message
	processor TurnProcessor
	notifier  Notifier
}

func NewSession(processor TurnProcessor, notifier Notifier) *Session {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Session{
		state:     StateIdle,
		processor: processor,
		notifier:  notifier,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns a copy of the conversation so far.
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Submit processes one user turn and returns the assistant's answer.
// The termination keyword moves the session to its terminal state
// instead of processing.
func (s *Session) Submit(ctx context.Context, userText string) (string, error) {
	s.mu.Lock()
	switch s.state {
	case StateTerminated:
		s.mu.Unlock()
		return "", ErrSessionTerminated
	case StateProcessing:
		s.mu.Unlock()
		return "", ErrSessionBusy
	}

	if strings.TrimSpace(userText) == TerminationKeyword {
		s.state = StateTerminated
		s.mu.Unlock()
		return FarewellAnswer, nil
	}

	s.state = StateProcessing
	s.history = append(s.history, llm.Message{Role: "user", Content: userText})
	turn := make([]llm.Message, len(s.history))
	copy(turn, s.history)
	s.mu.Unlock()

	answer, err := s.processor.ProcessTurn(ctx, turn, s.notifier)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// exact rollback: drop the user message appended above
		s.history = s.history[:len(s.history)-1]
		s.state = StateIdle
		return "", fmt.Errorf("%w: %v", ErrTurnFailed, err)
	}

	s.history = append(s.history, llm.Message{Role: "model", Content: answer})
	s.state = StateIdle
	return answer, nil
}
