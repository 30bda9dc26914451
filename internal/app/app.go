package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linktree_backend/internal/config"
	"linktree_backend/internal/database"
	"linktree_backend/internal/email"
	"linktree_backend/internal/handlers"
	"linktree_backend/internal/logger"
	"linktree_backend/internal/middleware"
	"linktree_backend/internal/repositories"
	"linktree_backend/internal/routes"
	"linktree_backend/internal/services"
	"linktree_backend/internal/validator"
	"linktree_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close(gormDB)

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serviceContainer := NewServiceContainer(cfg, newEmailProvider(cfg))
	defer func() {
		if err := serviceContainer.EmailService.Close(); err != nil {
			logger.Error("Failed to close email provider", "error", err)
		}
	}()
	workers.NewSessionWorker(gormDB, serviceContainer.SessionService, workers.DefaultSessionCleanupInterval).Start(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           SetupRouter(cfg, gormDB, serviceContainer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

// newEmailProvider returns the SMTP provider, or the logging mock when no
// SMTP host is configured. Production configs always carry a host.
func newEmailProvider(cfg *config.Config) email.Provider {
	smtpConfig := email.ConfigFromApp(cfg.Email)
	if !smtpConfig.Enabled() {
		logger.Warn("SMTP is not configured, verification emails will only be logged")
		return NewMockEmailProvider()
	}

	provider := email.NewSMTPProvider(smtpConfig, email.NewTemplateManager())
	if err := provider.Validate(); err != nil {
		logger.Fatal("Invalid SMTP configuration", "error", err)
	}
	logger.Info("SMTP email provider configured", "host", smtpConfig.Host, "port", smtpConfig.Port)
	return provider
}

// NewServiceContainer builds repositories and services
func NewServiceContainer(cfg *config.Config, emailProvider email.Provider) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	profileRepo := repositories.NewProfileRepository()
	linkRepo := repositories.NewLinkRepository()
	sessionRepo := repositories.NewSessionRepository()

	return &services.ServiceContainer{
		AuthService:    services.NewAuthService(userRepo, profileRepo, emailProvider, cfg.Auth.BcryptCost),
		SessionService: services.NewSessionService(sessionRepo, cfg.Session.Secret, cfg.Session.TTL),
		ProfileService: services.NewProfileService(userRepo, profileRepo, linkRepo),
		PageService:    services.NewPageService(userRepo, profileRepo, linkRepo, cfg.Public.EmailDomain),
		EmailService:   emailProvider,
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, serviceContainer *services.ServiceContainer) *gin.Engine {
	appHandlers := initializeHandlers(cfg, serviceContainer, gormDB)

	ginRouter := initializeGinRouter(cfg, gormDB, serviceContainer)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeHandlers(cfg *config.Config, s *services.ServiceContainer, gormDB *gorm.DB) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:      handlers.NewAuthHandler(baseHandler, s.AuthService, s.SessionService, cfg.Session.CookieName, cfg.Server.BaseURL),
		DashboardHandler: handlers.NewDashboardHandler(baseHandler, s.ProfileService),
		PageHandler:      handlers.NewPageHandler(baseHandler, s.PageService, s.ProfileService, gormDB),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB, s *services.ServiceContainer) *gin.Engine {
	switch cfg.Server.Env {
	case config.EnvProduction:
		gin.SetMode(gin.ReleaseMode)
	case config.EnvTest:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}); err != nil {
		logger.Warn("Failed to set trusted proxies", "error", err)
	}

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.Recovery())
	router.Use(middleware.SecureHeadersMiddleware(cfg))
	router.Use(middleware.DBMiddleware(db))
	router.Use(middleware.SessionMiddleware(s.SessionService, cfg.Session.CookieName))

	return router
}
