// Package http provides the HTTP server: routing, shared middleware, and
// graceful shutdown.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/medgate/internal/auth/http"
	authService "github.com/allisson/medgate/internal/auth/service"
	"github.com/allisson/medgate/internal/config"
	gatewayHTTP "github.com/allisson/medgate/internal/gateway/http"
	gatewayUseCase "github.com/allisson/medgate/internal/gateway/usecase"
	"github.com/allisson/medgate/internal/metrics"
)

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server. Call SetupRouter before Start to
// register the gateway routes.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterConfig carries the dependencies SetupRouter needs to register the
// gateway routes.
type RouterConfig struct {
	Config          *config.Config
	Gateway         gatewayUseCase.Gateway
	TokenService    authService.TokenService
	MetricsProvider *metrics.Provider
}

// SetupRouter builds the router and registers all routes. The gateway is
// the authenticator for the session middleware, so failed token checks
// land in the audit log like every other denial.
func (s *Server) SetupRouter(rc RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if rc.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			rc.MetricsProvider.MeterProvider(),
			rc.Config.MetricsNamespace,
		))
	}

	if corsMiddleware := createCORSMiddleware(
		rc.Config.CORSEnabled,
		rc.Config.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	handler := gatewayHTTP.NewGatewayHandler(rc.Gateway, s.logger)

	login := router.Group("/v1")
	if rc.Config.RateLimitLoginEnabled {
		login.Use(authHTTP.LoginRateLimitMiddleware(
			rc.Config.RateLimitLoginRequestsPerSec,
			rc.Config.RateLimitLoginBurst,
			s.logger,
		))
	}
	login.POST("/login", handler.LoginHandler)

	authenticated := router.Group("/v1")
	authenticated.Use(authHTTP.AuthenticationMiddleware(rc.Gateway, rc.TokenService, s.logger))
	if rc.Config.RateLimitEnabled {
		authenticated.Use(authHTTP.RateLimitMiddleware(
			rc.Config.RateLimitRequestsPerSec,
			rc.Config.RateLimitBurst,
			s.logger,
		))
	}
	authenticated.POST("/logout", handler.LogoutHandler)
	authenticated.GET("/records", handler.ListRecordsHandler)
	authenticated.POST("/records", handler.CreateRecordHandler)
	authenticated.PATCH("/records/:id", handler.EditRecordHandler)
	authenticated.DELETE("/records/:id", handler.DeleteRecordHandler)
	authenticated.POST("/records/anonymize", handler.AnonymizeHandler)
	authenticated.GET("/audit-logs", handler.ListAuditLogsHandler)
	authenticated.PUT("/records/:id/consent", handler.SetConsentHandler)

	s.router = router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can take traffic. The
// database is the only hard dependency worth checking.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	status := "ready"
	code := http.StatusOK

	if s.db == nil {
		components["database"] = "error"
		status = "not_ready"
		code = http.StatusServiceUnavailable
	} else if err := s.db.PingContext(c.Request.Context()); err != nil {
		components["database"] = "error"
		status = "not_ready"
		code = http.StatusServiceUnavailable
	} else {
		components["database"] = "ok"
	}

	c.JSON(code, gin.H{"status": status, "components": components})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(_ context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
