package bootstrap

import (
	"context"
	"log"
	"time"

	"studynotes-be/internal/config"
	"studynotes-be/internal/controller"
	"studynotes-be/internal/handler"
	"studynotes-be/internal/pkg/logger"
	"studynotes-be/internal/pkg/mailer"
	"studynotes-be/internal/repository/memory"
	"studynotes-be/internal/repository/unitofwork"
	"studynotes-be/internal/service"
	"studynotes-be/internal/websocket"
	"studynotes-be/pkg/genai"
	"studynotes-be/pkg/retry"

	pktNats "studynotes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// activityTopic is the in-process bus topic for study activity records.
const activityTopic = "study_activity"

const guestSessionTTL = 24 * time.Hour

type Container struct {
	// Controllers
	AuthController       controller.IAuthController
	OAuthController      controller.IOAuthController
	NavigationController controller.INavigationController
	NotesController      controller.INotesController
	TutorController      controller.ITutorController
	BookmarkController   controller.IBookmarkController
	SyllabusController   controller.ISyllabusController
	ActivityController   controller.IActivityController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	WsHandler    *handler.WsHandler
	WebSocketHub *websocket.Hub
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
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// Generative client
	aiClient := genai.NewClientWithConfig(genai.ClientConfig{
		APIKey:  cfg.Keys.GoogleGemini,
		Model:   cfg.Ai.Model,
		Timeout: time.Duration(cfg.Ai.RequestTimeout) * time.Second,
	})
	if !aiClient.Configured() {
		log.Printf("[WARN] GOOGLE_GEMINI_API_KEY not set, generative features will fail")
	}
	retryPolicy := retry.Policy{
		MaxRetries:   cfg.Ai.MaxRetries,
		InitialDelay: time.Duration(cfg.Ai.RetryDelayMs) * time.Millisecond,
	}

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
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

	// In-memory stores
	guestRepo := memory.NewGuestRepository(guestSessionTTL)
	viewStates := memory.NewViewStateRepository()
	tutorSessions := memory.NewTutorSessionRepository()

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(activityTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, activityTopic, uowFactory, sysLogger)

	authService := service.NewAuthService(cfg, uowFactory, guestRepo, emailService, natsPub)
	oauthService := service.NewOAuthService(cfg, uowFactory, sysLogger)

	notesService := service.NewNotesService(aiClient, retryPolicy, rdb, publisherService, natsPub, sysLogger)
	syllabusService := service.NewSyllabusService(aiClient, retryPolicy, publisherService, sysLogger)
	tutorService := service.NewTutorService(aiClient, uowFactory, tutorSessions, wsHub, publisherService, sysLogger)
	navigationService := service.NewNavigationService(viewStates, notesService, uowFactory, sysLogger)
	bookmarkService := service.NewBookmarkService(uowFactory)
	activityService := service.NewActivityService(uowFactory)

	// Event relay worker
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	// 4. Controllers
	return &Container{
		AuthController:       controller.NewAuthController(authService),
		OAuthController:      controller.NewOAuthController(oauthService),
		NavigationController: controller.NewNavigationController(navigationService),
		NotesController:      controller.NewNotesController(notesService),
		TutorController:      controller.NewTutorController(tutorService),
		BookmarkController:   controller.NewBookmarkController(bookmarkService),
		SyllabusController:   controller.NewSyllabusController(syllabusService),
		ActivityController:   controller.NewActivityController(activityService),

		ConsumerService: consumerService,

		WsHandler:    handler.NewWsHandler(wsHub, wsLogger),
		WebSocketHub: wsHub,
	}
}
