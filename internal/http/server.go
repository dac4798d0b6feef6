package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	authHTTP "github.com/skillboard/skillboard/internal/auth/http"
	"github.com/skillboard/skillboard/internal/config"
	"github.com/skillboard/skillboard/internal/metrics"
	notificationsHTTP "github.com/skillboard/skillboard/internal/notifications/http"
	seoHTTP "github.com/skillboard/skillboard/internal/seo/http"
	skillHTTP "github.com/skillboard/skillboard/internal/skill/http"
	userHTTP "github.com/skillboard/skillboard/internal/user/http"
)

// Handlers bundles every request handler the router mounts.
type Handlers struct {
	Auth        *authHTTP.AuthHandler
	User        *userHTTP.UserHandler
	Skill       *skillHTTP.SkillHandler
	Unsubscribe *notificationsHTTP.UnsubscribeHandler
	SEO         *seoHTTP.SEOHandler
}

// NewRouter builds the gin engine with all routes and middleware mounted.
// meterProvider may be nil when metrics are disabled.
func NewRouter(
	ctx context.Context,
	cfg *config.Config,
	handlers Handlers,
	sessionMiddleware gin.HandlerFunc,
	meterProvider metric.MeterProvider,
	logger *slog.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	// Process endpoints
	router.GET("/health", HealthHandler)
	router.GET("/ready", ReadinessHandler(ctx))

	// Crawler-facing artifacts
	router.GET("/sitemap.xml", handlers.SEO.SitemapHandler)
	router.GET("/robots.txt", handlers.SEO.RobotsHandler)
	router.GET("/structured-data", handlers.SEO.LeaderboardStructuredDataHandler)
	router.GET("/v1/skills/:slug/structured-data", handlers.SEO.SkillStructuredDataHandler)

	// Login flow
	router.GET("/auth/login", handlers.Auth.LoginHandler)
	router.GET("/auth/callback", handlers.Auth.CallbackHandler)

	// Public catalog
	router.GET("/v1/skills", handlers.Skill.ListHandler)
	router.GET("/v1/skills/:slug", handlers.Skill.GetHandler)
	router.POST("/v1/skills/:slug/install", handlers.Skill.InstallHandler)
	router.GET("/v1/leaderboard", handlers.Skill.LeaderboardHandler)

	// One-click unsubscribe, rate limited per IP when enabled
	unsubscribeHandlers := []gin.HandlerFunc{}
	if cfg.RateLimitUnsubscribeEnabled {
		unsubscribeHandlers = append(unsubscribeHandlers, notificationsHTTP.IPRateLimitMiddleware(
			cfg.RateLimitUnsubscribeRequestsPerSec,
			cfg.RateLimitUnsubscribeBurst,
			logger,
		))
	}
	unsubscribeHandlers = append(unsubscribeHandlers, handlers.Unsubscribe.UnsubscribeHandler)
	router.POST("/v1/unsubscribe", unsubscribeHandlers...)

	// Session-protected surface
	authed := router.Group("", sessionMiddleware)
	authed.POST("/v1/skills", handlers.Skill.CreateHandler)
	authed.PUT("/v1/skills/:slug", handlers.Skill.UpdateHandler)
	authed.DELETE("/v1/skills/:slug", handlers.Skill.DeleteHandler)
	authed.GET("/v1/me", handlers.User.MeHandler)
	authed.GET("/v1/me/preferences", handlers.User.GetPreferencesHandler)
	authed.PUT("/v1/me/preferences", handlers.User.UpdatePreferencesHandler)
	authed.POST("/auth/logout", handlers.Auth.LogoutHandler)

	return router
}

// Server represents the API HTTP server
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server serving the given handler.
func NewServer(
	host string,
	port int,
	handler http.Handler,
	logger *slog.Logger,
) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
