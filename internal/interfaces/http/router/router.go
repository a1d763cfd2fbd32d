package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoicedesk/backend/internal/infrastructure/auth"
	"github.com/invoicedesk/backend/internal/infrastructure/config"
	"github.com/invoicedesk/backend/internal/infrastructure/logger"
	"github.com/invoicedesk/backend/internal/interfaces/http/handler"
	"github.com/invoicedesk/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth      *handler.AuthHandler
	Invoice   *handler.InvoiceHandler
	Client    *handler.ClientHandler
	Project   *handler.ProjectHandler
	Company   *handler.CompanyHandler
	Dashboard *handler.DashboardHandler
}

// New builds the gin engine with the full middleware chain and all routes
// mounted under /api/v1. Auth register/login/refresh are public; everything
// else requires a bearer token.
func New(cfg *config.Config, jwtService *auth.JWTService, log *zap.Logger, handlers Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORS(corsConfig(cfg.HTTP)))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	protected := engine.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtService))

	handlers.Auth.RegisterRoutes(api, protected)
	handlers.Invoice.RegisterRoutes(protected)
	handlers.Client.RegisterRoutes(protected)
	handlers.Project.RegisterRoutes(protected)
	handlers.Company.RegisterRoutes(protected)
	handlers.Dashboard.RegisterRoutes(protected)

	return engine
}

func corsConfig(httpCfg config.HTTPConfig) middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	if len(httpCfg.CORSAllowOrigins) > 0 {
		cfg.AllowOrigins = httpCfg.CORSAllowOrigins
	}
	if len(httpCfg.CORSAllowMethods) > 0 {
		cfg.AllowMethods = httpCfg.CORSAllowMethods
	}
	if len(httpCfg.CORSAllowHeaders) > 0 {
		cfg.AllowHeaders = httpCfg.CORSAllowHeaders
	}
	return cfg
}
