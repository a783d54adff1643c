// internal/app/server.go
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FabiSax12/uniflow-notification-service/internal/config"
	"github.com/FabiSax12/uniflow-notification-service/internal/db"
	"github.com/FabiSax12/uniflow-notification-service/internal/domain/notification"
	notifyH "github.com/FabiSax12/uniflow-notification-service/internal/handlers/notification"
	wsHandler "github.com/FabiSax12/uniflow-notification-service/internal/handlers/websocket"
	"github.com/FabiSax12/uniflow-notification-service/internal/middleware"
	"github.com/FabiSax12/uniflow-notification-service/internal/queue"
	"github.com/FabiSax12/uniflow-notification-service/internal/repository/postgres"
	"github.com/FabiSax12/uniflow-notification-service/internal/service/delivery"
	"github.com/FabiSax12/uniflow-notification-service/internal/service/email"
	notifyUsecase "github.com/FabiSax12/uniflow-notification-service/internal/service/notification"
	"github.com/FabiSax12/uniflow-notification-service/internal/service/push"
	userAdapter "github.com/FabiSax12/uniflow-notification-service/internal/service/user"
	"github.com/FabiSax12/uniflow-notification-service/internal/websocket"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.Default()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start(ctx context.Context) error {
	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := postgres.Connect(ctx, s.cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()

	// ----- Repositories -----
	notifyRepo := postgres.NewNotificationRepository(pool)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	// ----- Channel adapters -----
	var pushSender delivery.PushSender
	if s.cfg.PushEnabled && s.cfg.PushGatewayURL != "" {
		pushSender = push.NewPushSender(s.cfg.PushGatewayURL, s.cfg.PushAPIKey, logger)
	} else {
		logger.Warn("push channel disabled")
		pushSender = push.NewDisabledSender(logger)
	}

	var emailSender delivery.EmailSender
	if s.cfg.EmailEnabled && s.cfg.SMTPHost != "" {
		emailSender = email.NewEmailSender(
			s.cfg.SMTPHost,
			s.cfg.SMTPPort,
			s.cfg.SMTPUser,
			s.cfg.SMTPPass,
			s.cfg.SMTPFromName,
			s.cfg.SMTPSecure,
		)
	} else {
		logger.Warn("email channel disabled")
		emailSender = email.NewDisabledSender()
	}

	// ----- User lookup (cached) -----
	userCache := userAdapter.NewRedisCache(redisClient)
	userLookup := userAdapter.NewAdapter(s.cfg.IdentityServiceURL, userCache, s.cfg.UserCacheTTL, logger)

	// ----- Delivery coordinator -----
	coordinator := delivery.NewCoordinator(
		userLookup,
		pushSender,
		emailSender,
		hub,
		s.cfg.FrontendURL,
		s.cfg.ChannelTimeout,
		logger,
	)

	// ----- Services (Usecases) -----
	domainService := notification.NewDomainService()
	notifService := notifyUsecase.NewService(notifyRepo, domainService, coordinator, hub, logger)

	// ----- Queue consumer + sweeper -----
	notifQueue := queue.NewRedisQueue(redisClient, s.cfg.QueueVisibilityTimeout)
	consumer := queue.NewConsumer(notifQueue, notifService, s.cfg.QueuePollInterval, s.cfg.QueueBatchSize, logger)
	go consumer.Run(ctx)

	sweeper := queue.NewSweeper(notifyRepo, coordinator, s.cfg.SweepInterval, logger)
	go sweeper.Run(ctx)

	// ----- Handlers -----
	notifHandler := notifyH.NewNotificationHandler(notifService)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		NotifHandler: notifHandler,
		WSHandler:    wsHandlerInst,
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	return s.engine.Run(s.cfg.HTTPAddr)
}
