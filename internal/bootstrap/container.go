package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"ai-agrichat-be/internal/config"
	"ai-agrichat-be/internal/controller"
	"ai-agrichat-be/internal/pkg/logger"
	"ai-agrichat-be/internal/repository/memory"
	"ai-agrichat-be/internal/repository/unitofwork"
	"ai-agrichat-be/internal/service"
	"ai-agrichat-be/internal/websocket"
	"ai-agrichat-be/pkg/chat"
	"ai-agrichat-be/pkg/embedding"
	"ai-agrichat-be/pkg/expert"
	"ai-agrichat-be/pkg/llm/factory"

	pktNats "ai-agrichat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	CorpusController controller.ICorpusController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub

	// Engine is exposed for non-HTTP front ends (console runner).
	Engine *chat.Engine
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Gateways
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewHuggingFaceProvider(
			cfg.Ai.HuggingFaceAPIKey,
			cfg.Ai.HuggingFaceURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: HUGGINGFACE (%s)", cfg.Ai.EmbeddingModel)
	}
	embeddingProvider = embedding.NewCachedProvider(
		embeddingProvider,
		time.Duration(cfg.Ai.EmbeddingCacheTTL)*time.Minute,
	)

	llmProvider, err := factory.NewLLMProvider(&cfg.Ai, cfg.Ai.StrongModel)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (fast=%s strong=%s)", cfg.Ai.LLMProvider, cfg.Ai.FastModel, cfg.Ai.StrongModel)

	// 4. Expert Registry
	pipelineLogger := initPipelineLogger()
	searcher := service.NewPassageSearcher(uowFactory)

	registry := expert.NewRegistry()
	opts := expert.PipelineOptions{
		TopK:            cfg.Experts.TopK,
		KeywordStrategy: expert.KeywordStrategy(cfg.Experts.KeywordStrategy),
		FastModel:       cfg.Ai.FastModel,
		StrongModel:     cfg.Ai.StrongModel,
	}
	definitions := expert.DefaultDefinitions()
	pipelines := make([]*expert.Pipeline, 0, len(definitions))
	for _, def := range definitions {
		pipelines = append(pipelines, expert.NewPipeline(def, llmProvider, embeddingProvider, searcher, opts, pipelineLogger))
	}
	registerCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := registry.RegisterAll(registerCtx, pipelines, cfg.Experts.AllowPartial, pipelineLogger); err != nil {
		// Serving with an incomplete expert roster is refused unless
		// EXPERTS_ALLOW_PARTIAL is set.
		log.Fatalf("[FATAL] Expert registration failed: %v", err)
	}

	// 5. Chat Engine
	router := chat.NewRouter(llmProvider, registry, chat.FallbackPolicy(cfg.Experts.RouterPolicy), cfg.Ai.FastModel, pipelineLogger)
	orch := chat.NewOrchestrator(registry, pipelineLogger)
	synth := chat.NewSynthesizer(llmProvider, registry, cfg.Ai.StrongModel, cfg.Ai.SynthesisTemp, pipelineLogger)
	engine := chat.NewEngine(router, orch, synth, pipelineLogger)

	// 6. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsLogger := logger.NewIsolatedLogger("logs/progress.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	turnLocks := memory.NewTurnLockRepository()

	// 7. Services
	publisherService := service.NewPublisherService(cfg.App.EmbedTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EmbedTopicName,
		uowFactory,
		embeddingProvider,
	)
	corpusService := service.NewCorpusService(uowFactory, publisherService, definitions)
	chatService := service.NewChatService(
		uowFactory,
		engine,
		turnLocks,
		func(sessionID uuid.UUID) chat.Notifier { return wsHub.Notifier(sessionID) },
		natsPub,
	)

	sysLogger.Info("Bootstrap", "Container wired", map[string]interface{}{
		"experts_registered": len(registry.Identifiers()),
		"router_policy":      cfg.Experts.RouterPolicy,
		"keyword_strategy":   cfg.Experts.KeywordStrategy,
	})

	// 8. Controllers
	return &Container{
		ChatController:   controller.NewChatController(chatService),
		CorpusController: controller.NewCorpusController(corpusService),
		ConsumerService:  consumerService,
		WebSocketHub:     wsHub,
		Engine:           engine,
	}
}

func initPipelineLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[PIPELINE] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
