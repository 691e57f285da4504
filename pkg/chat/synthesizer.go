package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-agrichat-be/pkg/expert"
	"ai-agrichat-be/pkg/llm"
)

// FallbackAnswer is returned without any language-model call when no
// expert produced evidence for the turn.
const FallbackAnswer = "죄송하지만, 문의하신 내용과 관련된 정보를 데이터베이스에서 찾지 못했습니다. 조금 더 구체적으로 질문해 주시겠어요?"

const synthesisPromptTemplate = `당신은 여러 전문가의 보고서를 모두 검토하여, 사용자의 질문에 대한 하나의 완벽하고 일관된 답변을 작성하는 '수석 AI 커뮤니케이터'입니다.

[이전 대화 기록]
%s

[사용자의 최신 질문]
%s

[각 전문가의 보고서]
%s

[지침]
1.  보고서들의 핵심 정보만 추출하여 자연스러운 하나의 이야기로 합치세요. "작물 전문가에 따르면"과 같이 전문가를 직접 언급하지 마세요.
2.  답변 마지막에, 현재 대화의 주제와 관련된 유용한 후속 질문을 제안하세요.
3.  '설향' 같은 품종 이름은 대표 작물 이름인 '딸기' 등으로 바꿔서 설명하세요.

[절대 규칙]
- 최종 답변은 오직 순수 한글로만 작성되어야 합니다.
- 마크다운 서식(##, *, 1. 등)은 절대 사용하지 마세요.
- [각 전문가의 보고서]에 없는 내용은 절대 지어내지 마세요.

[최종 답변]:`

// Synthesizer fuses the experts' grounded summaries into the final
// user-facing answer.
type Synthesizer struct {
	llm         llm.LLMProvider
	registry    *expert.Registry
	strongModel string
	temperature float64
	logger      *log.Logger
}

func NewSynthesizer(provider llm.LLMProvider, registry *expert.Registry, strongModel string, temperature float64, logger *log.Logger) *Synthesizer {
	if temperature <= 0 {
		temperature = 0.7
	}
	return &Synthesizer{
		llm:         provider,
		registry:    registry,
		strongModel: strongModel,
		temperature: temperature,
		logger:      logger,
	}
}

// Synthesize builds the final answer from the non-empty expert
// summaries. When every summary is empty it returns FallbackAnswer
// without calling the language model; a gateway failure degrades to the
// same fallback.
func (s *Synthesizer) Synthesize(ctx context.Context, history []llm.Message, responses ResponseMap) string {
	reports := s.buildReports(responses)
	if reports == "" {
		s.logger.Printf("[SYNTHESIZER] 전문가 보고서가 없어 기본 답변을 반환합니다")
		return FallbackAnswer
	}

	if len(history) == 0 {
		return FallbackAnswer
	}
	latest := history[len(history)-1].Content

	prompt := fmt.Sprintf(synthesisPromptTemplate,
		expert.FormatHistory(history[:len(history)-1]),
		latest,
		reports,
	)

	answer, err := s.llm.Generate(ctx, prompt,
		llm.WithTemperature(s.temperature),
		llm.WithModel(s.strongModel),
	)
	if err != nil {
		s.logger.Printf("[SYNTHESIZER] 답변 종합 실패: %v", err)
		return FallbackAnswer
	}
	return strings.TrimSpace(answer)
}

// buildReports renders the non-empty summaries in registration order.
// Experts without findings are omitted entirely.
func (s *Synthesizer) buildReports(responses ResponseMap) string {
	var b strings.Builder
	for _, def := range s.registry.Definitions() {
		summary, ok := responses[def.Identifier]
		if !ok || summary == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "### %s의 보고서\n%s", def.DisplayName, summary)
	}
	return b.String()
}
