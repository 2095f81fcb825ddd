package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/mediarating/backend/internal/config"
	"github.com/mediarating/backend/internal/database"
	"github.com/mediarating/backend/internal/logger"
	"github.com/mediarating/backend/internal/notifications"
	"github.com/mediarating/backend/internal/repositories"
	"github.com/mediarating/backend/internal/services"
	"go.uber.org/zap"
)

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

	logger.Logger.Info("Starting Media Survey Worker")

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Test Redis connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Activity log retention
	activityLogService := services.NewActivityLogService(repositories.NewActivityLogRepository(db), logger.Logger)
	var retention *RetentionJob
	if cfg.ActivityLog.Retention > 0 {
		retention, err = NewRetentionJob(cfg.ActivityLog.CleanupSchedule, cfg.ActivityLog.Retention, activityLogService, logger.Logger)
		if err != nil {
			logger.Logger.Fatal("Failed to schedule activity log cleanup", zap.Error(err))
		}
		retention.Start()
		logger.Logger.Info("Activity log cleanup scheduled",
			zap.String("schedule", cfg.ActivityLog.CleanupSchedule),
			zap.Duration("retention", cfg.ActivityLog.Retention),
		)
	}

	// Create Asynq server
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	// Register task handlers
	sender := notifications.NewSender(cfg.SMTP, logger.Logger)
	mux := asynq.NewServeMux()
	mux.Handle(notifications.TypeInvitationEmail, notifications.NewInvitationHandler(sender, logger.Logger))

	// Start worker
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Logger.Fatal("Failed to start worker", zap.Error(err))
		}
	}()

	logger.Logger.Info("Worker started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down worker...")
	srv.Shutdown()
	if retention != nil {
		retention.Stop()
	}
	logger.Logger.Info("Worker exited")
}
