package expert

import (
	"context"
	"fmt"
	"log"
)

// ErrInitialization marks an expert that could not bind its backing
// collection at startup.
var ErrInitialization = fmt.Errorf("expert: initialization failed")

// Registry holds the registered expert pipelines in registration order.
// It is populated once at bootstrap and read-only afterwards.
type Registry struct {
	order     []string
	pipelines map[string]*Pipeline
}

func NewRegistry() *Registry {
	return &Registry{
		pipelines: make(map[string]*Pipeline),
	}
}

// Register verifies the pipeline's collection is queryable and adds the
// expert to the roster. Callers decide whether a failed readiness check
// aborts startup or merely drops the expert from the roster.
func (r *Registry) Register(ctx context.Context, p *Pipeline) error {
	def := p.Definition()
	if _, exists := r.pipelines[def.Identifier]; exists {
		return fmt.Errorf("%w: duplicate expert %q", ErrInitialization, def.Identifier)
	}
	if err := p.searcher.CollectionReady(ctx, def.Collection); err != nil {
		return fmt.Errorf("%w: expert %q collection %q not ready: %v", ErrInitialization, def.Identifier, def.Collection, err)
	}
	r.order = append(r.order, def.Identifier)
	r.pipelines[def.Identifier] = p
	return nil
}

// RegisterAll registers every pipeline in order. The first readiness
// failure aborts with the wrapped error so the process never serves
// with an incomplete roster. With allowPartial the failed expert is
// logged and skipped instead, which keeps a fresh deployment bootable
// before its corpus is ingested.
func (r *Registry) RegisterAll(ctx context.Context, pipelines []*Pipeline, allowPartial bool, logger *log.Logger) error {
	for _, p := range pipelines {
		err := r.Register(ctx, p)
		if err == nil {
			continue
		}
		if !allowPartial {
			return err
		}
		logger.Printf("[REGISTRY] 전문가 %q 등록 건너뜀: %v", p.Definition().Identifier, err)
	}
	return nil
}

// Get returns the pipeline for an identifier, or nil when unknown.
func (r *Registry) Get(identifier string) *Pipeline {
	return r.pipelines[identifier]
}

// Identifiers returns all registered identifiers in registration order.
func (r *Registry) Identifiers() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Definitions returns all registered definitions in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		defs = append(defs, r.pipelines[id].Definition())
	}
	return defs
}
