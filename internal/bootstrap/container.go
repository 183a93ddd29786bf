package bootstrap

import (
	"context"
	"log"

	"voice-ai-be/internal/config"
	"voice-ai-be/internal/controller"
	"voice-ai-be/internal/handler"
	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/internal/repository/contract"
	"voice-ai-be/internal/repository/implementation"
	"voice-ai-be/internal/repository/memory"
	"voice-ai-be/internal/service"
	"voice-ai-be/internal/websocket"
	"voice-ai-be/pkg/llm/openai"
	"voice-ai-be/pkg/stt/assemblyai"
	"voice-ai-be/pkg/tts/elevenlabs"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const knowledgeEventsTopic = "KNOWLEDGE_EVENTS"

type Container struct {
	// Controllers
	MetaController      controller.IMetaController
	SpeechController    controller.ISpeechController
	AssistantController controller.IAssistantController
	KnowledgeController controller.IKnowledgeController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	VoiceHandler *handler.VoiceHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	// Redis (session store + cross-instance websocket events)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)

	var sessionRepo contract.SessionRepository
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-memory session store", err)
		rdb = nil
		sessionRepo = memory.NewSessionRepository()
	} else {
		sessionRepo = implementation.NewSessionRepository(rdb)
	}

	// Vendor clients
	sttClient := assemblyai.NewClient(cfg.Keys.AssemblyAI, assemblyai.Config{
		Language:     cfg.Speech.Language,
		PollInterval: cfg.Speech.PollInterval,
		PollTimeout:  cfg.Speech.PollTimeout,
	})
	llmClient := openai.NewOpenAIProvider(cfg.Keys.LLM, "")
	ttsClient := elevenlabs.NewClient(cfg.Keys.ElevenLabs, elevenlabs.Config{
		VoiceID:      cfg.Speech.VoiceID,
		ModelID:      cfg.Speech.ModelID,
		OutputFormat: cfg.Speech.OutputFormat,
	})
	log.Printf("[INFO] Using LLM model: %s", cfg.Ai.Model)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/conversation.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(knowledgeEventsTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, knowledgeEventsTopic, wsHub, wsLogger)

	transcriptionService := service.NewTranscriptionService(sttClient, sysLogger)
	speechService := service.NewSpeechService(ttsClient, sysLogger)
	assistantService := service.NewAssistantService(llmClient, sessionRepo, cfg.Ai.Model, sysLogger)
	knowledgeService := service.NewKnowledgeService(sessionRepo, llmClient, publisherService, cfg.Ai.SessionTTL, sysLogger)
	conversationService := service.NewConversationService(transcriptionService, assistantService, speechService, wsLogger)

	// 5. Controllers & Handlers
	return &Container{
		MetaController:      controller.NewMetaController(cfg, transcriptionService, assistantService),
		SpeechController:    controller.NewSpeechController(transcriptionService, speechService),
		AssistantController: controller.NewAssistantController(assistantService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		ConsumerService:     consumerService,
		VoiceHandler:        handler.NewVoiceHandler(conversationService, wsHub, wsLogger),
		WebSocketHub:        wsHub,
	}
}
