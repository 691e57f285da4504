package chat

import (
	"context"
	"log"

	"ai-agrichat-be/pkg/llm"
)

// Engine wires router → orchestrator → synthesizer into one explicit
// pipeline. It is stateless; conversation history is owned by the
// caller (Session or the DB-backed service).
type Engine struct {
	router *Router
	orch   *Orchestrator
	synth  *Synthesizer
	logger *log.Logger
}

func NewEngine(router *Router, orch *Orchestrator, synth *Synthesizer, logger *log.Logger) *Engine {
	return &Engine{
		router: router,
		orch:   orch,
		synth:  synth,
		logger: logger,
	}
}

// ProcessTurn runs one full orchestration cycle over the conversation
// history, whose last message must be the current user turn, and
// returns the synthesized answer. Phases are reported through the
// notifier as the turn advances.
func (e *Engine) ProcessTurn(ctx context.Context, history []llm.Message, notifier Notifier) (string, error) {
	if notifier == nil {
		notifier = noopNotifier{}
	}

	notifier.Notify(PhaseUnderstanding)
	decision := e.router.Route(ctx, history)

	notifier.Notify(PhaseRetrieving)
	responses := e.orch.Run(ctx, decision, history)

	notifier.Notify(PhaseComposing)
	answer := e.synth.Synthesize(ctx, history, responses)

	return answer, nil
}
