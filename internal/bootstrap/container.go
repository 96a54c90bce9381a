package bootstrap

import (
	"context"
	"log"
	"time"

	"auth-chat-be/internal/config"
	"auth-chat-be/internal/controller"
	"auth-chat-be/internal/handler"
	"auth-chat-be/internal/pkg/logger"
	"auth-chat-be/internal/pkg/mailer"
	"auth-chat-be/internal/pkg/routeguard"
	"auth-chat-be/internal/pkg/session"
	"auth-chat-be/internal/repository/memory"
	"auth-chat-be/internal/repository/unitofwork"
	"auth-chat-be/internal/service"
	"auth-chat-be/internal/websocket"
	"auth-chat-be/pkg/llm/factory"

	pktNats "auth-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// chatEventsTopic is the in-process bus topic bridging the chat relay to
// the consumer fan-out.
const chatEventsTopic = "chat_message_appended"

type Container struct {
	// Controllers
	AuthController  controller.IAuthController
	OAuthController controller.IOAuthController
	ChatController  controller.IChatController

	// Request middleware dependencies
	SessionResolver session.Resolver
	Gate            *routeguard.Gate

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	SocketHandler *handler.ChatSocketHandler
	WebSocketHub  *websocket.Hub
	Logger        logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.App.ClientURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Session strategy
	var resolver session.Resolver
	var issuer session.Issuer
	if cfg.Auth.Strategy == session.StrategyDatabase {
		dbStrategy := session.NewDatabaseStrategy(uowFactory, cfg.Auth.SessionTTL)
		resolver, issuer = dbStrategy, dbStrategy

		// Stored sessions accumulate; sweep the expired ones hourly.
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for range ticker.C {
				if err := dbStrategy.PurgeExpired(context.Background()); err != nil {
					sysLogger.Warn("session", "expired session sweep failed", map[string]interface{}{"error": err.Error()})
				}
			}
		}()
		log.Printf("[INFO] Using session strategy: DATABASE")
	} else {
		jwtStrategy := session.NewJWTStrategy(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
		resolver, issuer = jwtStrategy, jwtStrategy
		log.Printf("[INFO] Using session strategy: JWT")
	}

	// 4. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.GeminiAPIKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// OAuth state nonces live in memory only
	stateRepo := memory.NewStateRepository()

	// 5. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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

	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// 6. Services
	publisherService := service.NewPublisherService(chatEventsTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		chatEventsTopic,
		wsHub,
		natsPub,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, issuer, emailService, natsPub, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, issuer, stateRepo, natsPub, sysLogger, cfg.OAuth)
	historyService := service.NewChatHistoryService(uowFactory, sysLogger)
	chatService := service.NewChatService(
		historyService,
		publisherService,
		llmProvider,
		cfg.Ai.ContextLimit,
		sysLogger,
	)

	gate := routeguard.New(cfg.Routes.Public, cfg.Routes.Protected, cfg.Routes.Admin)

	// 7. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService, cfg.Auth.SecureCookie),
		OAuthController: controller.NewOAuthController(oauthService, cfg.Auth.SecureCookie),
		ChatController:  controller.NewChatController(chatService, historyService),

		SessionResolver: resolver,
		Gate:            gate,

		ConsumerService: consumerService,

		SocketHandler: handler.NewChatSocketHandler(resolver, wsHub, sysLogger),
		WebSocketHub:  wsHub,
		Logger:        sysLogger,
	}
}
