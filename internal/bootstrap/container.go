package bootstrap

import (
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"

	"shopquery-be/internal/config"
	"shopquery-be/internal/controller"
	"shopquery-be/internal/pkg/logger"
	"shopquery-be/internal/pkg/mailer"
	"shopquery-be/internal/pkg/token"
	"shopquery-be/internal/repository/unitofwork"
	"shopquery-be/internal/service"
	"shopquery-be/pkg/comparator"
	"shopquery-be/pkg/events"
	"shopquery-be/pkg/llm"
	"shopquery-be/pkg/llm/ollama"
	"shopquery-be/pkg/llm/openai"
	"shopquery-be/pkg/productdata"
	"shopquery-be/pkg/productdata/unwrangle"
)

type Container struct {
	// Controllers
	AuthController       controller.IAuthController
	ActivityController   controller.IActivityController
	FavoriteController   controller.IFavoriteController
	ComparisonController controller.IComparisonController

	// Services
	AuthService       service.IAuthService
	ActivityService   service.IActivityService
	ComparisonService service.IComparisonService
	ConsumerService   service.IConsumerService

	// Core facades
	TokenService *token.Service
	Logger       logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	tokenService := token.NewService(
		cfg.Auth.JwtSecret,
		time.Duration(cfg.Auth.AccessTokenTTL)*time.Minute,
	)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	eventPublisher := events.NewWatermillPublisher(pubSub, cfg.App.EventTopic)

	// 3. External Providers
	var productProvider productdata.Provider = unwrangle.NewClient(
		cfg.Products.BaseURL,
		cfg.Products.ApiKey,
		time.Duration(cfg.Products.CacheTTLMin)*time.Minute,
	)

	var llmProvider llm.LLMProvider
	if cfg.Ai.Provider == "ollama" {
		llmProvider = ollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using LLM Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		llmProvider = openai.NewOpenAIProvider(cfg.Ai.ApiKey, cfg.Ai.BaseURL, cfg.Ai.Model)
		log.Printf("[INFO] Using LLM Provider: OPENAI-compatible (%s)", cfg.Ai.Model)
	}
	analyzer := comparator.NewComparator(llmProvider)

	// 4. Services
	authService := service.NewAuthService(uowFactory, tokenService, emailService, eventPublisher, sysLogger)
	activityService := service.NewActivityService(uowFactory, productProvider, eventPublisher, sysLogger)
	comparisonService := service.NewComparisonService(uowFactory, productProvider, analyzer, eventPublisher, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.App.EventTopic, uowFactory, sysLogger)

	// 5. Controllers
	return &Container{
		AuthController:       controller.NewAuthController(authService),
		ActivityController:   controller.NewActivityController(activityService),
		FavoriteController:   controller.NewFavoriteController(activityService),
		ComparisonController: controller.NewComparisonController(comparisonService),

		AuthService:       authService,
		ActivityService:   activityService,
		ComparisonService: comparisonService,
		ConsumerService:   consumerService,

		TokenService: tokenService,
		Logger:       sysLogger,
	}
}
