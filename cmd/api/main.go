package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/hibiken/asynq"
	_ "github.com/mediarating/backend/docs"
	"github.com/mediarating/backend/internal/auth"
	"github.com/mediarating/backend/internal/config"
	"github.com/mediarating/backend/internal/database"
	"github.com/mediarating/backend/internal/handlers"
	"github.com/mediarating/backend/internal/logger"
	"github.com/mediarating/backend/internal/middleware"
	"github.com/mediarating/backend/internal/notifications"
	"github.com/mediarating/backend/internal/repositories"
	"github.com/mediarating/backend/internal/services"
	"github.com/mediarating/backend/internal/storage"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type invitationQueue interface {
	services.InvitationQueue
	io.Closer
}

// @title Media Survey API
// @version 1.0
// @description API for rating media files in invitation-only surveys

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Media Survey API")

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db, database.MigrationPath()); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize blob storage
	var blobs services.BlobStorage
	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		blobs, err = storage.NewS3Storage(context.Background(), cfg.Storage.S3Region, cfg.Storage.S3Bucket, cfg.Storage.S3Endpoint)
	default:
		blobs, err = storage.NewLocalStorage(cfg.Storage.UploadDir)
	}
	if err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err), zap.String("backend", cfg.Storage.Backend))
	}

	// Initialize invitation delivery
	var queue invitationQueue
	switch cfg.Notifications.Backend {
	case config.NotificationBackendAsynq:
		queue = notifications.NewAsynqQueue(asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	default:
		sender := notifications.NewSender(cfg.SMTP, logger.Logger)
		queue = notifications.NewLocalQueue(sender, cfg.Notifications.QueueSize, logger.Logger)
	}
	defer queue.Close()

	// Initialize JWT token generator
	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.TokenExpiry)

	// Initialize repositories
	adminRepo := repositories.NewAdminRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	mediaRepo := repositories.NewMediaRepository(db)
	testRepo := repositories.NewTestRepository(db)
	testUserRepo := repositories.NewTestUserRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)
	activityLogRepo := repositories.NewActivityLogRepository(db)

	// Initialize services
	activityLogService := services.NewActivityLogService(activityLogRepo, logger.Logger)
	adminService := services.NewAdminService(adminRepo, tokenGenerator, activityLogService, logger.Logger)
	categoryService := services.NewCategoryService(categoryRepo, activityLogService, logger.Logger)
	mediaService := services.NewMediaService(mediaRepo, categoryRepo, blobs, activityLogService, logger.Logger)
	testService := services.NewTestService(
		testRepo,
		testUserRepo,
		ratingRepo,
		mediaRepo,
		categoryRepo,
		queue,
		activityLogService,
		cfg.FrontendURL,
		logger.Logger,
	)
	sessionService := services.NewSessionService(testRepo, testUserRepo, ratingRepo, mediaRepo, activityLogService, logger.Logger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, logger.Logger)
	adminHandler := handlers.NewAdminHandler(adminService, logger.Logger)
	categoryHandler := handlers.NewCategoryHandler(categoryService, logger.Logger)
	mediaHandler := handlers.NewMediaHandler(mediaService, logger.Logger)
	testHandler := handlers.NewTestHandler(testService, logger.Logger)
	sessionHandler := handlers.NewSessionHandler(sessionService, logger.Logger)
	activityLogHandler := handlers.NewActivityLogHandler(activityLogService, logger.Logger)

	authMiddleware := middleware.AuthMiddleware(tokenGenerator)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(middleware.ClientInfoMiddleware)
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(cfg.Server.MaxBodySize, cfg.Server.MaxUploadSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		healthHandler.RegisterRoutes(r)
		sessionHandler.RegisterRoutes(r)
		mediaHandler.RegisterPublicRoutes(r)

		// Login gets a tighter limit against password guessing
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(10, time.Minute))
			adminHandler.RegisterPublicRoutes(r)
		})

		// Admin endpoints (JWT protected)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			adminHandler.RegisterRoutes(r)
			categoryHandler.RegisterRoutes(r)
			mediaHandler.RegisterRoutes(r)
			testHandler.RegisterRoutes(r)
			activityLogHandler.RegisterRoutes(r)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       10 * time.Minute, // Long uploads of large media files
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
