package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "groq", cfg.Ai.LLMProvider)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Ai.FastModel)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Ai.StrongModel)
	assert.InDelta(t, 0.7, cfg.Ai.SynthesisTemp, 0.001)
	assert.Equal(t, "open", cfg.Experts.RouterPolicy)
	assert.Equal(t, "always", cfg.Experts.KeywordStrategy)
	assert.Equal(t, 5, cfg.Experts.TopK)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ROUTER_FALLBACK_POLICY", "closed")
	t.Setenv("RETRIEVAL_TOP_K", "3")
	t.Setenv("LLM_SYNTHESIS_TEMPERATURE", "0.3")

	cfg := Load()

	assert.Equal(t, "closed", cfg.Experts.RouterPolicy)
	assert.Equal(t, 3, cfg.Experts.TopK)
	assert.InDelta(t, 0.3, cfg.Ai.SynthesisTemp, 0.001)
}

func TestGetEnvAsIntIgnoresGarbage(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "not-a-number")

	cfg := Load()
	assert.Equal(t, 5, cfg.Experts.TopK)
}
