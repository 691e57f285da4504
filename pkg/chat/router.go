package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-agrichat-be/pkg/expert"
	"ai-agrichat-be/pkg/llm"
)

// FallbackPolicy decides what an ambiguous or failed classification
// routes to. Exactly one policy is active per deployment.
type FallbackPolicy string

const (
	// PolicyOpen selects every registered expert (favors completeness).
	PolicyOpen FallbackPolicy = "open"
	// PolicyClosed selects no expert, which sends the turn to the
	// synthesizer's fallback message.
	PolicyClosed FallbackPolicy = "closed"
)

// noneSentinel is the router prompt's explicit "no relevant expert"
// output.
const noneSentinel = "없음"

// Decision is the router's output: the identifiers of the experts to
// invoke this turn. Empty means no expert is relevant.
type Decision struct {
	Experts []string
}

// None reports whether the decision selects no expert.
func (d Decision) None() bool {
	return len(d.Experts) == 0
}

const routingPromptTemplate = `당신은 사용자의 질문을 분석하여, 어떤 전문가가 필요한지 결정하는 지능형 라우터입니다.

[사용 가능한 전문가 목록]
%s

[대화 기록]
%s

[사용자 질문]
%s

[지침]
1. [사용자 질문]과 [대화 기록]을 종합적으로 고려하여 질문의 핵심 의도를 파악하세요.
2. 파악한 의도에 가장 적합한 전문가를 [사용 가능한 전문가 목록]에서 모두 선택하고, 선택된 전문가들의 식별자를 쉼표(,)로 구분하여 한 줄로 출력하세요.
3. 질문이 어떤 전문가의 분야와도 전혀 관련이 없다면(예: 날씨, 스포츠), 오직 "없음" 이라고만 출력하세요.

[절대 규칙]
- 당신의 최종 출력은 오직 전문가 식별자 목록 또는 "없음" 이어야 합니다. (예: farmer,recipe)
- 절대 당신의 분석 과정, 설명, 다른 문장을 포함해서는 안 됩니다.

[실제 분류 결과]:`

// Router classifies a turn into the set of experts to invoke.
type Router struct {
	llm       llm.LLMProvider
	registry  *expert.Registry
	policy    FallbackPolicy
	fastModel string
	logger    *log.Logger
}

func NewRouter(provider llm.LLMProvider, registry *expert.Registry, policy FallbackPolicy, fastModel string, logger *log.Logger) *Router {
	if policy != PolicyClosed {
		policy = PolicyOpen
	}
	return &Router{
		llm:       provider,
		registry:  registry,
		policy:    policy,
		fastModel: fastModel,
		logger:    logger,
	}
}

// Route maps the conversation onto a Decision. Gateway failures and
// unparseable outputs never raise; they degrade to the configured
// fallback policy.
func (r *Router) Route(ctx context.Context, history []llm.Message) Decision {
	if len(history) == 0 {
		return r.fallback("empty history")
	}
	latest := history[len(history)-1].Content

	prompt := fmt.Sprintf(routingPromptTemplate,
		r.catalog(),
		expert.FormatHistory(history[:len(history)-1]),
		latest,
	)

	out, err := r.llm.Generate(ctx, prompt,
		llm.WithTemperature(0),
		llm.WithModel(r.fastModel),
	)
	if err != nil {
		return r.fallback(fmt.Sprintf("classification failed: %v", err))
	}

	answer := strings.TrimSpace(out)
	if strings.EqualFold(answer, noneSentinel) {
		r.logger.Printf("[ROUTER] 관련 전문가 없음")
		return Decision{}
	}

	selected := r.parseIdentifiers(answer)
	if len(selected) == 0 {
		return r.fallback(fmt.Sprintf("no valid expert in %q", answer))
	}

	r.logger.Printf("[ROUTER] 라우팅 결정: %v", selected)
	return Decision{Experts: selected}
}

// catalog renders the expert roster for the classification prompt.
func (r *Router) catalog() string {
	var b strings.Builder
	for i, def := range r.registry.Definitions() {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s (%s): %s", def.Identifier, def.DisplayName, def.Persona)
	}
	return b.String()
}

// parseIdentifiers extracts known expert identifiers from the model
// output; anything not in the registry is discarded.
func (r *Router) parseIdentifiers(answer string) []string {
	seen := make(map[string]struct{})
	var selected []string
	for _, part := range strings.Split(answer, ",") {
		id := strings.ToLower(strings.TrimSpace(part))
		if r.registry.Get(id) == nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		selected = append(selected, id)
	}
	return selected
}

// fallback applies the configured policy when classification is
// unusable.
func (r *Router) fallback(reason string) Decision {
	if r.policy == PolicyClosed {
		r.logger.Printf("[ROUTER] %s, 전문가를 호출하지 않습니다", reason)
		return Decision{}
	}
	r.logger.Printf("[ROUTER] %s, 모든 전문가를 호출합니다", reason)
	return Decision{Experts: r.registry.Identifiers()}
}
