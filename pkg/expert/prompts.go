package expert

import (
	"fmt"
	"strings"

	"ai-agrichat-be/pkg/llm"
)

// rewriteSentinel is what the rewrite prompt instructs the model to emit
// when the latest question is outside the expert's domain.
const rewriteSentinel = "pass"

const rewritePromptTemplate = `당신은 '%s' 전문가입니다. 당신의 임무는 사용자의 최신 질문이 당신의 전문 분야와 관련이 있는지 판단하고, 관련이 있다면 검색에 최적화된 질문으로 재작성하는 것입니다.

[당신의 전문 분야]
%s

[대화 기록]
%s

[사용자의 최신 질문]
%s

[판단 및 재작성 지침]
1.  **관련성 판단**: [사용자의 최신 질문]이 [당신의 전문 분야]와 명확하게 관련이 있습니까?
2.  **관련 없는 경우**: 관련이 없다면, 다른 어떤 텍스트도 없이 오직 "pass" 라고만 응답하세요.
3.  **관련 있는 경우**: [대화 기록]을 참고하여 사용자의 질문에 있는 모호한 표현의 의미를 파악하고, 당신의 전문 분야에 맞는 구체적인 '검색용 질문'을 한 줄로 만드세요. 여러 대상에 대한 질문이라면 각 질문을 '또는' 으로 연결하여 한 줄로 만드세요.

[절대 규칙]
- 당신의 출력은 오직 '재작성된 검색용 질문' 또는 "pass" 여야 합니다.
- 절대 당신의 판단 과정이나 '[판단]', '[재작성]'과 같은 단어를 포함해서는 안 됩니다.

[당신의 최종 출력]:`

const generatePromptTemplate = `당신은 '%s'입니다. 당신의 전문 분야는 다음과 같습니다: %s

[검색된 참고 정보]
%s

[대화 기록]
%s

[사용자의 최신 질문]
%s

[답변 생성 지침]
1.  오직 [검색된 참고 정보]에 있는 내용만 사용하여 답변하세요. 참고 정보에 없는 내용은 절대 지어내지 마세요.
2.  당신의 전문 분야에 해당하는 핵심 내용만 간결하게 요약하세요. 최종 답변 문장은 별도의 전문가가 작성합니다.
3.  특정 작물에 대한 정보가 부족하다면 그 사실을 솔직하게 적으세요.

[요약]:`

func buildRewritePrompt(def Definition, history []llm.Message, latest string) string {
	return fmt.Sprintf(rewritePromptTemplate, def.DisplayName, def.Persona, FormatHistory(history), latest)
}

func buildGeneratePrompt(def Definition, context string, history []llm.Message, latest string) string {
	return fmt.Sprintf(generatePromptTemplate, def.DisplayName, def.Persona, context, FormatHistory(history), latest)
}

// FormatHistory renders prior turns as "사용자:" / "챗봇:" lines, the
// form every prompt in the system uses.
func FormatHistory(history []llm.Message) string {
	var b strings.Builder
	for i, msg := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		speaker := "챗봇"
		if msg.Role == "user" {
			speaker = "사용자"
		}
		b.WriteString(speaker + ": " + msg.Content)
	}
	return b.String()
}
