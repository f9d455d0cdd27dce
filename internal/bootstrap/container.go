package bootstrap

import (
	"context"
	"log"
	"time"

	"edu-chat-be/internal/config"
	"edu-chat-be/internal/controller"
	"edu-chat-be/internal/pkg/logger"
	"edu-chat-be/internal/repository/unitofwork"
	"edu-chat-be/internal/service"
	"edu-chat-be/pkg/chroma"
	"edu-chat-be/pkg/embedding"
	"edu-chat-be/pkg/extract"
	"edu-chat-be/pkg/llm/openai"
	pkgNats "edu-chat-be/pkg/nats"
	"edu-chat-be/pkg/quota"
	"edu-chat-be/pkg/upstream"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	ConversationController controller.IConversationController
	CollectionController   controller.ICollectionController
	AgentController        controller.IAgentController
	AdminController        controller.IAdminController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	AuthService     service.IAuthService

	// Shared infrastructure
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. External clients
	embeddingProvider := embedding.NewOllamaProvider(
		cfg.LLM.EmbeddingURL,
		cfg.LLM.EmbeddingModel,
	)
	log.Printf("[INFO] Using embedding model: %s", cfg.LLM.EmbeddingModel)

	gateway := chroma.NewClient(chroma.ClientConfig{
		Host:     cfg.Chroma.Host,
		Port:     cfg.Chroma.Port,
		Tenant:   cfg.Chroma.Tenant,
		Database: cfg.Chroma.Database,
		Token:    cfg.Chroma.Token,
	}, embeddingProvider)

	llmProvider := openai.NewOpenAIProvider(
		cfg.LLM.BaseURL,
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second,
	)
	log.Printf("[INFO] Using LLM model: %s", cfg.LLM.Model)

	extractor := extract.NewTikaClient(cfg.App.TikaURL)

	var upstreamClient *upstream.Client
	if cfg.Upstream.BaseURL != "" {
		upstreamClient = upstream.NewClient(context.Background(), upstream.Config{
			BaseURL:      cfg.Upstream.BaseURL,
			TokenURL:     cfg.Upstream.TokenURL,
			ClientID:     cfg.Upstream.ClientID,
			ClientSecret: cfg.Upstream.ClientSecret,
			Scope:        cfg.Upstream.Scope,
		})
	}

	// NATS audit publisher: absence is logged, never fatal.
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis for the public shared-view cache.
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

	// 4. Services
	quotaEnforcer := quota.NewEnforcer(cfg.Quota.AlertThresholds)
	publisherService := service.NewPublisherService(cfg.App.EventTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.EventTopic, uowFactory, sysLogger)

	authService := service.NewAuthService(uowFactory, cfg.App.JWTSecret, sysLogger)
	userService := service.NewUserService(uowFactory)
	agentService := service.NewAgentService(uowFactory, upstreamClient, sysLogger)
	collectionService := service.NewCollectionService(uowFactory, gateway, natsPub, sysLogger)
	embeddingService := service.NewEmbeddingService(uowFactory, gateway, extractor, cfg.App.UploadDir, natsPub, sysLogger)
	syncService := service.NewSyncService(uowFactory, gateway, natsPub, sysLogger)

	conversationService := service.NewConversationService(
		uowFactory,
		gateway,
		llmProvider,
		cfg.LLM.TitleModel,
		quotaEnforcer,
		publisherService,
		rdb,
		cfg.Chat.MaxMessageLength,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		AuthController:         controller.NewAuthController(authService),
		ConversationController: controller.NewConversationController(conversationService),
		CollectionController:   controller.NewCollectionController(collectionService, embeddingService),
		AgentController:        controller.NewAgentController(agentService),
		AdminController:        controller.NewAdminController(userService, conversationService, syncService),

		ConsumerService: consumerService,
		AuthService:     authService,

		Logger: sysLogger,
	}
}

// NewSyncContainer wires only what the store synchronizer CLI needs.
func NewSyncContainer(db *gorm.DB, cfg *config.Config) service.ISyncService {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	embeddingProvider := embedding.NewOllamaProvider(
		cfg.LLM.EmbeddingURL,
		cfg.LLM.EmbeddingModel,
	)
	gateway := chroma.NewClient(chroma.ClientConfig{
		Host:     cfg.Chroma.Host,
		Port:     cfg.Chroma.Port,
		Tenant:   cfg.Chroma.Tenant,
		Database: cfg.Chroma.Database,
		Token:    cfg.Chroma.Token,
	}, embeddingProvider)

	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	return service.NewSyncService(uowFactory, gateway, natsPub, sysLogger)
}
