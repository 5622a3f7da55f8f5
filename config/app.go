package config

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"social-chat-api/cache"
	"social-chat-api/config/common"
	"social-chat-api/config/logger"
	"social-chat-api/handler"
	"social-chat-api/mailer"
	"social-chat-api/middleware"
	"social-chat-api/observability/metrics"
	"social-chat-api/repository"
	"social-chat-api/routes"
	"social-chat-api/security"
	"social-chat-api/usecase"
)

type AppConfig struct {
	*fiber.App
	*validator.Validate
	*logrus.Logger
	AppLogger *logger.AppLogger
	DB        *gorm.DB
	*security.JWT
	Codes  *security.VerificationCode
	Mailer mailer.Mailer

	// RequirePendingFriendRequest turns agree and reject without a pending request into NotFound.
	RequirePendingFriendRequest bool
}

func RunServer() {
	newConfig := common.NewViper()
	log := NewLogger(newConfig)
	_, logDir := newConfig.GetLogConfig()
	appLogger := logger.NewLogger(logDir)
	app := NewFiber(newConfig, log)
	newDB := NewDB(newConfig, appLogger)
	newValidator := NewValidator()
	if len(newConfig.GetJwtConfig()) == 0 {
		log.Fatal("JWT_SECRET must be set")
	}
	newJWT := security.NewJWT(newConfig)

	redisCache := cache.NewRedisCache(newConfig.GetRedisConfig())
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		log.WithError(err).Warn("redis is not reachable, verification codes will fail until it is")
	}
	cancel()
	codeTTL, singleUse := newConfig.GetCaptchaConfig()
	codes := security.NewVerificationCode(redisCache, codeTTL, singleUse)

	metrics.MustRegister()

	port, corsOrigins := newConfig.GetServerConfig()
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  corsOrigins,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Authorization",
	}))

	App(&AppConfig{
		App:       app,
		Validate:  newValidator,
		Logger:    log,
		AppLogger: appLogger,
		DB:        newDB.GetDB(),
		JWT:       newJWT,
		Codes:     codes,
		Mailer:    mailer.NewSMTPMailer(newConfig.GetMailConfig()),

		RequirePendingFriendRequest: newConfig.GetFriendshipConfig(),
	})

	if err := app.Listen(":" + port); err != nil {
		log.WithError(err).Errorf("Failed to start server: %v", err)
	}
	_ = redisCache.Close()
}

func App(aC *AppConfig) {
	newMiddleware := middleware.NewMiddleware(aC.JWT, aC.Logger, aC.AppLogger)
	aC.App.Use(newMiddleware.AccessLog, newMiddleware.Metrics)

	newUserRepository := repository.NewUserRepository()
	newFriendRequestRepository := repository.NewFriendRequestRepository()
	newFriendshipRepository := repository.NewFriendshipRepository()
	newChatRoomRepository := repository.NewChatRoomRepository()
	newUserChatRoomRepository := repository.NewUserChatRoomRepository()

	hub := handler.NewRoomHub(aC.AppLogger)

	newUserUsecase := usecase.NewUserUsecase(newUserRepository, aC.Validate, aC.DB, aC.Logger, aC.JWT, aC.Codes)
	newCaptchaUsecase := usecase.NewCaptchaUsecase(aC.Codes, aC.Mailer, aC.Validate, aC.Logger)
	newFriendshipUsecase := usecase.NewFriendshipUsecase(newFriendRequestRepository, newFriendshipRepository, newUserRepository, aC.Validate, aC.DB, aC.Logger, aC.RequirePendingFriendRequest)
	newChatroomUsecase := usecase.NewChatroomUsecase(newChatRoomRepository, newUserChatRoomRepository, newUserRepository, aC.DB, aC.Logger, hub)

	route := routes.ConfigRoute{
		App:               aC.App,
		Middleware:        newMiddleware,
		UserHandler:       handler.NewUserHandler(newUserUsecase, newCaptchaUsecase, aC.Logger),
		FriendshipHandler: handler.NewFriendshipHandler(newFriendshipUsecase, aC.Logger),
		ChatroomHandler:   handler.NewChatroomHandler(newChatroomUsecase, aC.Logger),
		WebSocketHandler:  handler.NewWebSocketHandler(hub, newChatroomUsecase, aC.Logger),
	}
	route.GetRoute()
}
