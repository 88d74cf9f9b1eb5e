package router

import (
	"net/http"
	"time"

	"support-ops-dashboard/backend/internal/api"
	"support-ops-dashboard/backend/internal/ws"
	"support-ops-dashboard/backend/pkg/di"
	"support-ops-dashboard/backend/pkg/errors"
	"support-ops-dashboard/backend/pkg/health"
	"support-ops-dashboard/backend/pkg/logger"
	"support-ops-dashboard/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// Router wires the HTTP surface and the chat relay together.
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger

	Registry  *ws.SessionRegistry
	Relay     *ws.Relay
	Escalator *ws.Escalator
	Monitor   *ws.LivenessMonitor
	Health    *health.Checker
}

// New creates a router with all middleware and the chat relay wired.
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)
	cfg := container.Config

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())
	engine.Use(corsMiddleware())

	rateLimiter := middleware.NewRateLimiter(container.Logger)
	engine.Use(rateLimiter.Middleware())

	// Chat relay wiring. The escalator needs the relay for broadcasting and
	// the relay needs the escalator for customer messages, so the escalator
	// is attached after both exist.
	registry := ws.NewSessionRegistry(container.ChatService, container.Logger)
	relay := ws.NewRelay(registry, container.ChatService, container.Logger)

	var escalator *ws.Escalator
	if container.Classifier != nil {
		escalator = ws.NewEscalator(container.ChatService, container.Classifier, relay, ws.EscalatorConfig{
			AgentName:     cfg.Chat.DefaultAgent,
			GreetingDelay: cfg.Chat.AgentGreetingDelay,
		}, container.Logger)
		relay.SetEscalator(escalator)
	}

	monitor := ws.NewLivenessMonitor(relay, cfg.Chat.HeartbeatPeriod, container.Logger)

	checker := health.NewChecker(container.Logger, 30*time.Second)

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Registry:  registry,
		Relay:     relay,
		Escalator: escalator,
		Monitor:   monitor,
		Health:    checker,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes(metricsHandler http.Handler) {
	jwtAuth := middleware.JWTAuthMiddleware(r.Container.JWTService, r.Logger)

	authHandler := api.NewAuthHandler(r.Container.UserService, r.Logger)
	customerHandler := api.NewCustomerHandler(r.Container.CustomerService, r.Logger)
	ticketHandler := api.NewTicketHandler(r.Container.TicketService, r.Logger)
	chatHandler := api.NewChatHandler(r.Container.ChatService, r.Logger)
	logHandler := api.NewLogHandler(r.Container.LogService, r.Logger)
	maintenanceHandler := api.NewMaintenanceHandler(r.Container.MaintenanceService, r.Logger)
	analyticsHandler := api.NewAnalyticsHandler(r.Container.AnalyticsService, r.Container.MetricService, r.Logger)
	integrationHandler := api.NewIntegrationHandler(r.Container.MetricService, r.Container.LogService, r.Logger)

	v1 := r.Engine.Group("/api/v1")

	// Public routes (no auth required)
	public := v1.Group("/")
	{
		public.GET("/health", gin.WrapF(r.Health.HTTPHandler()))

		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/me", jwtAuth, authHandler.Me)
		}
	}

	// Protected routes (require authentication)
	protected := v1.Group("/")
	protected.Use(jwtAuth)
	{
		customers := protected.Group("/customers")
		{
			customers.POST("", customerHandler.Create)
			customers.GET("", customerHandler.List)
			customers.GET("/:id", customerHandler.Get)
			customers.PUT("/:id", customerHandler.Update)
			customers.DELETE("/:id", customerHandler.Delete)
		}

		tickets := protected.Group("/tickets")
		{
			tickets.POST("", ticketHandler.Create)
			tickets.GET("", ticketHandler.List)
			tickets.GET("/:id", ticketHandler.Get)
			tickets.PUT("/:id", ticketHandler.Update)
			tickets.DELETE("/:id", ticketHandler.Delete)
		}

		chat := protected.Group("/chat")
		{
			chat.POST("/sessions", chatHandler.CreateSession)
			chat.GET("/sessions", chatHandler.ListSessions)
			chat.GET("/sessions/:id", chatHandler.GetSession)
			chat.GET("/sessions/:id/messages", chatHandler.ListMessages)
			chat.POST("/sessions/:id/end", chatHandler.EndSession)
		}

		logs := protected.Group("/logs")
		{
			logs.POST("", logHandler.Create)
			logs.GET("", logHandler.List)
		}

		maintenance := protected.Group("/maintenance")
		{
			maintenance.POST("", maintenanceHandler.Create)
			maintenance.GET("", maintenanceHandler.List)
			maintenance.GET("/:id", maintenanceHandler.Get)
			maintenance.POST("/:id/cancel", maintenanceHandler.Cancel)
		}

		analytics := protected.Group("/analytics")
		{
			analytics.GET("/dashboard", analyticsHandler.Dashboard)
			analytics.GET("/metrics", analyticsHandler.Metrics)
			analytics.GET("/metrics/stats", analyticsHandler.MetricStats)
		}

		integrations := protected.Group("/integrations")
		{
			integrations.GET("/crm/customers", integrationHandler.CRMCustomers)
			integrations.GET("/crm/leads", integrationHandler.CRMLeads)
			integrations.GET("/erp/orders", integrationHandler.ERPOrders)
			integrations.GET("/erp/inventory", integrationHandler.ERPInventory)
			integrations.GET("/status", integrationHandler.SyncStatus)
		}
	}

	if metricsHandler != nil {
		r.Engine.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// WebSocket route. The customer widget connects unauthenticated; session
	// scoping happens on join.
	r.Engine.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(r.Relay, c)
	})
}

// corsMiddleware allows the dashboard frontend and the chat widget, which are
// served from different origins, to reach the API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, X-CSRF-Token, Authorization, Origin, Upgrade, Connection, Cache-Control")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Upgrade, Connection")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
