package chat

import (
	"context"
	"log"
	"sync"

	"ai-agrichat-be/pkg/expert"
	"ai-agrichat-be/pkg/llm"
)

// ResponseMap holds each invoked expert's summary keyed by identifier.
// An empty string means the expert found the turn irrelevant, found no
// evidence, or failed.
type ResponseMap map[string]string

// HasFindings reports whether at least one expert produced a non-empty
// summary.
func (m ResponseMap) HasFindings() bool {
	for _, summary := range m {
		if summary != "" {
			return true
		}
	}
	return false
}

// Orchestrator fans the selected expert pipelines out on goroutines and
// joins all of them before returning. One expert's failure or panic
// never affects the others.
type Orchestrator struct {
	registry *expert.Registry
	logger   *log.Logger
}

func NewOrchestrator(registry *expert.Registry, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		logger:   logger,
	}
}

// Run invokes exactly the experts named by the decision, concurrently,
// and blocks until every one of them completes. An empty decision
// returns an empty map without scheduling any work.
func (o *Orchestrator) Run(ctx context.Context, decision Decision, history []llm.Message) ResponseMap {
	responses := make(ResponseMap, len(decision.Experts))
	if decision.None() {
		return responses
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, id := range decision.Experts {
		pipeline := o.registry.Get(id)
		if pipeline == nil {
			// the router discards unknown identifiers, so this only
			// happens on a programming error upstream
			o.logger.Printf("[ORCHESTRATOR] 등록되지 않은 전문가 무시: %s", id)
			continue
		}

		wg.Add(1)
		go func(id string, pipeline *expert.Pipeline) {
			defer wg.Done()
			summary := o.runIsolated(ctx, id, pipeline, history)
			mu.Lock()
			responses[id] = summary
			mu.Unlock()
		}(id, pipeline)
	}

	wg.Wait()
	return responses
}

// runIsolated executes one pipeline, converting errors and panics into
// an empty summary.
func (o *Orchestrator) runIsolated(ctx context.Context, id string, pipeline *expert.Pipeline, history []llm.Message) (summary string) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Printf("[ORCHESTRATOR] 전문가 %s 패닉 복구: %v", id, r)
			summary = ""
		}
	}()

	summary, err := pipeline.Run(ctx, history)
	if err != nil {
		o.logger.Printf("[ORCHESTRATOR] 전문가 %s 실행 실패: %v", id, err)
		return ""
	}
	return summary
}
