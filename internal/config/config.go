package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Experts  ExpertConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	EmbedTopicName     string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider   string // "groq" or "ollama"
	GroqAPIKey    string
	GroqBaseURL   string
	FastModel     string // routing / query rewriting
	StrongModel   string // generation / synthesis
	SynthesisTemp float64

	EmbeddingProvider string // "huggingface" or "ollama"
	HuggingFaceAPIKey string
	HuggingFaceURL    string
	EmbeddingModel    string
	OllamaBaseURL     string
	OllamaModel       string
	EmbeddingCacheTTL int // minutes, 0 disables the cache
}

type ExpertConfig struct {
	RouterPolicy    string // "open" (all experts) or "closed" (none)
	KeywordStrategy string // "always" (hybrid) or "fallback"
	TopK            int
	AllowPartial    bool // serve with a reduced roster instead of refusing to start
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			EmbedTopicName:     getEnv("EMBED_PASSAGE_TOPIC_NAME", "EMBED_PASSAGE"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "groq"),
			GroqAPIKey:    getEnv("GROQ_API_KEY", ""),
			GroqBaseURL:   getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			FastModel:     getEnv("LLM_FAST_MODEL", "llama-3.1-8b-instant"),
			StrongModel:   getEnv("LLM_STRONG_MODEL", "llama-3.3-70b-versatile"),
			SynthesisTemp: getEnvAsFloat("LLM_SYNTHESIS_TEMPERATURE", 0.7),

			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "huggingface"),
			HuggingFaceAPIKey: getEnv("HUGGINGFACE_API_KEY", ""),
			HuggingFaceURL:    getEnv("HUGGINGFACE_EMBEDDING_URL", "https://api-inference.huggingface.co"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "jhgan/ko-sroberta-multitask"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingCacheTTL: getEnvAsInt("EMBEDDING_CACHE_TTL_MINUTES", 30),
		},
		Experts: ExpertConfig{
			RouterPolicy:    getEnv("ROUTER_FALLBACK_POLICY", "open"),
			KeywordStrategy: getEnv("KEYWORD_RETRIEVAL_STRATEGY", "always"),
			TopK:            getEnvAsInt("RETRIEVAL_TOP_K", 5),
			AllowPartial:    getEnvAsBool("EXPERTS_ALLOW_PARTIAL", false),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
