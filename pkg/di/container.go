package di

import (
	"context"
	"time"

	"support-ops-dashboard/backend/internal/ai"
	"support-ops-dashboard/backend/internal/service"
	"support-ops-dashboard/backend/pkg/cache"
	"support-ops-dashboard/backend/pkg/config"
	"support-ops-dashboard/backend/pkg/jwt"
	"support-ops-dashboard/backend/pkg/logger"
	"support-ops-dashboard/backend/pkg/secrets"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB     *gorm.DB
	Config *config.Config
	Logger *logger.Logger

	Secrets    secrets.Manager
	JWTService *jwt.Service
	Cache      cache.Cache
	Classifier ai.Classifier

	UserService        *service.UserService
	CustomerService    *service.CustomerService
	TicketService      *service.TicketService
	ChatService        *service.ChatService
	LogService         *service.LogService
	MaintenanceService *service.MaintenanceService
	MetricService      *service.MetricService
	AnalyticsService   *service.AnalyticsService
}

// New creates a new dependency injection container
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger) (*Container, error) {
	secretManager := secrets.NewManager(log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jwtSecret := secretManager.GetSecretWithDefault(ctx, "JWT_SECRET", cfg.JWT.Secret)
	jwtService := jwt.NewService(jwtSecret, cfg.JWT.Expiry)

	var c cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.RedisAddr != "" {
			redisCache := cache.NewRedis(cfg.Cache.RedisAddr)
			if err := redisCache.Ping(ctx); err != nil {
				log.Warn("redis unreachable, using in-memory cache", "addr", cfg.Cache.RedisAddr, "error", err.Error())
				c = cache.NewMemory(cfg.Cache.MaxSize, time.Minute)
			} else {
				c = redisCache
			}
		} else {
			c = cache.NewMemory(cfg.Cache.MaxSize, time.Minute)
		}
	}

	apiKey := secretManager.GetSecretWithDefault(ctx, "OPENAI_API_KEY", cfg.AI.APIKey)
	var classifier ai.Classifier
	if apiKey != "" {
		classifier = ai.NewResilientClassifier(
			ai.NewOpenAIClassifier(apiKey, cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.Timeout),
			log,
		)
	} else {
		log.Warn("no AI api key configured, classifier disabled")
	}

	logService := service.NewLogService(db, log)

	container := &Container{
		DB:         db,
		Config:     cfg,
		Logger:     log,
		Secrets:    secretManager,
		JWTService: jwtService,
		Cache:      c,
		Classifier: classifier,

		UserService:        service.NewUserService(db, jwtService),
		CustomerService:    service.NewCustomerService(db),
		TicketService:      service.NewTicketService(db, classifier, logService, log),
		ChatService:        service.NewChatService(db),
		LogService:         logService,
		MaintenanceService: service.NewMaintenanceService(db, logService, log),
		MetricService:      service.NewMetricService(db, log),
		AnalyticsService:   service.NewAnalyticsService(db, c, cfg.Cache.TTL, log),
	}

	return container, nil
}
