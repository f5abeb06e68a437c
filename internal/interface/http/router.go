package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yanqian/slidegen/internal/infra/config"
)

const serviceName = "slidegen"

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	// inexact paths fall through to the static fallback instead of redirecting
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(
		gin.Recovery(),
		corsMiddleware(),
		requestID(),
		requestLogger(handler.logger),
	)
	if cfg.Observability.Tracing.Enabled {
		router.Use(otelgin.Middleware(serviceName))
	}
	if cfg.Observability.Metrics.Enabled {
		router.Use(metricsMiddleware())
		router.GET(cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
	router.Use(errorHandlingMiddleware(handler.logger))

	limited := rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger)

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/templates", handler.Templates)
		api.GET("/presentation-types", handler.PresentationTypes)
		api.GET("/audiences", handler.Audiences)
		api.GET("/openapi.json", handler.OpenAPI)
		api.GET("/docs", handler.Docs)

		api.POST("/generate", limited, optionalAuth(handler.authSvc), handler.Generate)
		api.POST("/export/pptx", limited, handler.ExportPPTX)
		api.POST("/templates/render", limited, handler.RenderTemplate)

		api.GET("/topics/trending", handler.TrendingTopics)
		api.GET("/presentations", requireAuth(handler.authSvc), handler.ListPresentations)
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.Refresh)
		authGroup.GET("/me", requireAuth(handler.authSvc), handler.Me)
	}

	router.GET("/output/*filepath", handler.ServeOutput)
	router.NoRoute(handler.ServeStatic)

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
