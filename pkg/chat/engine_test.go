package chat

import (
	"context"
	"strings"
	"testing"

	"ai-agrichat-be/pkg/expert"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, registry *expert.Registry, routeAnswer, finalAnswer string) (*Engine, *scriptedLLM) {
	t.Helper()
	routerLLM := &scriptedLLM{respond: func(string) (string, error) {
		return routeAnswer, nil
	}}
	synthLLM := &scriptedLLM{respond: func(string) (string, error) {
		return finalAnswer, nil
	}}
	router := NewRouter(routerLLM, registry, PolicyOpen, "", discardLogger())
	orch := NewOrchestrator(registry, discardLogger())
	synth := NewSynthesizer(synthLLM, registry, "", 0.7, discardLogger())
	return NewEngine(router, orch, synth, discardLogger()), synthLLM
}

func TestEngineSingleExpertTurn(t *testing.T) {
	registry := buildRegistry(t, defaultFixtures())
	engine, synthLLM := newTestEngine(t, registry, "farmer", "감자는 물빠짐이 좋은 토양에서 잘 자랍니다. 재배 시기도 알려드릴까요?")

	var phases []Phase
	answer, err := engine.ProcessTurn(context.Background(),
		userTurn("어떤 토양에서 감자가 잘 자라?"),
		NotifierFunc(func(p Phase) { phases = append(phases, p) }))

	require.NoError(t, err)
	assert.Contains(t, answer, "토양")
	assert.Equal(t, []Phase{PhaseUnderstanding, PhaseRetrieving, PhaseComposing}, phases)

	// only the farmer summary reached synthesis
	require.Len(t, synthLLM.prompts, 1)
	assert.Contains(t, synthLLM.prompts[0], "감자는 사질토에서 잘 자랍니다")
	assert.False(t, strings.Contains(synthLLM.prompts[0], "감자전"))
}

func TestEngineNoRelevantExpertReturnsFallback(t *testing.T) {
	registry := buildRegistry(t, defaultFixtures())
	engine, synthLLM := newTestEngine(t, registry, "없음", "unused")

	answer, err := engine.ProcessTurn(context.Background(), userTurn("오늘 날씨 어때?"), nil)
	require.NoError(t, err)
	assert.Equal(t, FallbackAnswer, answer)
	assert.Empty(t, synthLLM.prompts)
}

func TestEngineBlendsMultipleExperts(t *testing.T) {
	registry := buildRegistry(t, defaultFixtures())
	engine, synthLLM := newTestEngine(t, registry, "farmer,nutrient", "감자는 기르기 쉽고 영양도 풍부합니다.")

	answer, err := engine.ProcessTurn(context.Background(), userTurn("감자 재배법과 영양 성분 알려줘"), nil)
	require.NoError(t, err)
	assert.NotEqual(t, FallbackAnswer, answer)

	require.Len(t, synthLLM.prompts, 1)
	assert.Contains(t, synthLLM.prompts[0], "감자는 사질토에서 잘 자랍니다")
	assert.Contains(t, synthLLM.prompts[0], "감자의 영양 성분입니다")
	assert.NotContains(t, synthLLM.prompts[0], "감자전 만드는 법입니다")
}
