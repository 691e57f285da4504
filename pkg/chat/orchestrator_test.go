package chat

import (
	"context"
	"testing"

	"ai-agrichat-be/pkg/expert"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestratorRunsOnlySelectedExperts(t *testing.T) {
	registry := buildRegistry(t, defaultFixtures())
	orch := NewOrchestrator(registry, discardLogger())

	responses := orch.Run(context.Background(), Decision{Experts: []string{"farmer"}}, userTurn("감자는 어떤 토양?"))

	require.Len(t, responses, 1)
	assert.Equal(t, "감자는 사질토에서 잘 자랍니다", responses["farmer"])
	_, recipeRan := responses["recipe"]
	assert.False(t, recipeRan)
}

func TestOrchestratorEmptyDecisionSchedulesNothing(t *testing.T) {
	registry := buildRegistry(t, defaultFixtures())
	orch := NewOrchestrator(registry, discardLogger())

	responses := orch.Run(context.Background(), Decision{}, userTurn("오늘 날씨 어때?"))
	assert.Empty(t, responses)
}

func TestOrchestratorCollectsAllSelected(t *testing.T) {
	registry := buildRegistry(t, defaultFixtures())
	orch := NewOrchestrator(registry, discardLogger())

	responses := orch.Run(context.Background(), Decision{Experts: []string{"farmer", "nutrient"}}, userTurn("감자 재배와 영양"))

	require.Len(t, responses, 2)
	assert.NotEmpty(t, responses["farmer"])
	assert.NotEmpty(t, responses["nutrient"])
}

func TestOrchestratorIsolatesPanickingExpert(t *testing.T) {
	defs := expert.DefaultDefinitions()
	fixtures := []expertFixture{
		{def: defs[0], summary: "감자는 사질토에서 잘 자랍니다", passages: []expert.Passage{{Text: "감자 토양 정보"}}},
		{def: defs[1], panics: true},
		{def: defs[2], summary: "감자의 영양 성분입니다", passages: []expert.Passage{{Text: "감자 영양 정보"}}},
	}
	registry := buildRegistry(t, fixtures)
	orch := NewOrchestrator(registry, discardLogger())

	responses := orch.Run(context.Background(),
		Decision{Experts: []string{"farmer", "recipe", "nutrient"}},
		userTurn("감자에 대해 알려줘"))

	require.Len(t, responses, 3)
	assert.Equal(t, "감자는 사질토에서 잘 자랍니다", responses["farmer"])
	assert.Empty(t, responses["recipe"])
	assert.Equal(t, "감자의 영양 성분입니다", responses["nutrient"])
}

func TestResponseMapHasFindings(t *testing.T) {
	assert.False(t, ResponseMap{}.HasFindings())
	assert.False(t, ResponseMap{"farmer": ""}.HasFindings())
	assert.True(t, ResponseMap{"farmer": "", "recipe": "감자전"}.HasFindings())
}
