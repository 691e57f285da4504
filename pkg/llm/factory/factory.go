package factory

import (
	"fmt"

	"ai-agrichat-be/internal/config"
	"ai-agrichat-be/pkg/llm"
	"ai-agrichat-be/pkg/llm/groq"
	"ai-agrichat-be/pkg/llm/ollama"
)

// NewLLMProvider builds the chat gateway selected by LLM_PROVIDER.
// modelName overrides the configured default, so the same factory serves
// both the fast (routing/rewrite) and strong (generation) models.
func NewLLMProvider(cfg *config.AIConfig, modelName string) (llm.LLMProvider, error) {
	switch cfg.LLMProvider {
	case "groq":
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("groq provider selected but GROQ_API_KEY is empty")
		}
		return groq.NewGroqProvider(cfg.GroqAPIKey, cfg.GroqBaseURL, modelName), nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}
