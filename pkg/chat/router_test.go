package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterParsesIdentifierList(t *testing.T) {
	registry := buildRegistry(t, defaultFixtures())

	tests := []struct {
		name   string
		answer string
		want   []string
	}{
		{"single expert", "farmer", []string{"farmer"}},
		{"multiple experts", "farmer, nutrient", []string{"farmer", "nutrient"}},
		{"whitespace and case tolerated", " Farmer ,RECIPE ", []string{"farmer", "recipe"}},
		{"duplicates collapsed", "farmer,farmer,recipe", []string{"farmer", "recipe"}},
		{"unknown identifiers discarded", "farmer, weatherman", []string{"farmer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &scriptedLLM{respond: func(string) (string, error) {
				return tt.answer, nil
			}}
			router := NewRouter(provider, registry, PolicyOpen, "", discardLogger())
			decision := router.Route(context.Background(), userTurn("감자 알려줘"))
			assert.Equal(t, tt.want, decision.Experts)
		})
	}
}

func TestRouterDecisionNeverContainsUnknownIdentifiers(t *testing.T) {
	registry := buildRegistry(t, defaultFixtures())
	provider := &scriptedLLM{respond: func(string) (string, error) {
		return "farmer, weatherman, sports", nil
	}}
	router := NewRouter(provider, registry, PolicyOpen, "", discardLogger())

	decision := router.Route(context.Background(), userTurn("감자 알려줘"))
	known := map[string]bool{"farmer": true, "recipe": true, "nutrient": true}
	for _, id := range decision.Experts {
		assert.True(t, known[id], "unexpected identifier %q", id)
	}
}

func TestRouterNoneSentinel(t *testing.T) {
	registry := buildRegistry(t, defaultFixtures())
	provider := &scriptedLLM{respond: func(string) (string, error) {
		return " 없음 ", nil
	}}
	router := NewRouter(provider, registry, PolicyOpen, "", discardLogger())

	decision := router.Route(context.Background(), userTurn("오늘 날씨 어때?"))
	assert.True(t, decision.None())
}

func TestRouterFailOpenOnGarbageOutput(t *testing.T) {
	registry := buildRegistry(t, defaultFixtures())
	provider := &scriptedLLM{respond: func(string) (string, error) {
		return "잘 모르겠습니다", nil
	}}
	router := NewRouter(provider, registry, PolicyOpen, "", discardLogger())

	decision := router.Route(context.Background(), userTurn("감자 알려줘"))
	assert.Equal(t, []string{"farmer", "recipe", "nutrient"}, decision.Experts)
}

func TestRouterFailOpenOnGatewayError(t *testing.T) {
	registry := buildRegistry(t, defaultFixtures())
	provider := &scriptedLLM{respond: func(string) (string, error) {
		return "", errors.New("gateway down")
	}}
	router := NewRouter(provider, registry, PolicyOpen, "", discardLogger())

	decision := router.Route(context.Background(), userTurn("감자 알려줘"))
	assert.Equal(t, []string{"farmer", "recipe", "nutrient"}, decision.Experts)
}

func TestRouterFailClosedPolicy(t *testing.T) {
	registry := buildRegistry(t, defaultFixtures())
	provider := &scriptedLLM{respond: func(string) (string, error) {
		return "", errors.New("gateway down")
	}}
	router := NewRouter(provider, registry, PolicyClosed, "", discardLogger())

	decision := router.Route(context.Background(), userTurn("감자 알려줘"))
	assert.True(t, decision.None())
}

func TestRouterPromptContainsCatalog(t *testing.T) {
	registry := buildRegistry(t, defaultFixtures())
	provider := &scriptedLLM{respond: func(string) (string, error) {
		return "farmer", nil
	}}
	router := NewRouter(provider, registry, PolicyOpen, "", discardLogger())

	router.Route(context.Background(), userTurn("감자 알려줘"))
	if assert.Len(t, provider.prompts, 1) {
		assert.Contains(t, provider.prompts[0], "farmer")
		assert.Contains(t, provider.prompts[0], "작물 전문가")
		assert.Contains(t, provider.prompts[0], "영양 전문가")
	}
}
