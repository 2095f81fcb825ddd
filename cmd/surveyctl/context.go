package main

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/mediarating/backend/internal/auth"
	"github.com/mediarating/backend/internal/config"
	"github.com/mediarating/backend/internal/database"
	"github.com/mediarating/backend/internal/logger"
	"github.com/mediarating/backend/internal/models"
	"github.com/mediarating/backend/internal/repositories"
	"github.com/mediarating/backend/internal/services"
)

// cliActor is recorded in the activity log for changes made from the command line
var cliActor = models.Actor{Admin: "surveyctl", IsSuperAdmin: true, UserAgent: "surveyctl"}

// AdminManager is the subset of the admin service the CLI drives
type AdminManager interface {
	Bootstrap(ctx context.Context, username, password string) (*models.BootstrapResult, error)
	Create(ctx context.Context, actor models.Actor, req *models.CreateAdminRequest) (*models.Admin, error)
	List(ctx context.Context, actor models.Actor) ([]models.Admin, error)
}

type commandContext struct {
	once    sync.Once
	db      *sql.DB
	admins  AdminManager
	initErr error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

// adminManager connects to the database on first use and migrates it to the latest schema
func (c *commandContext) adminManager() (AdminManager, error) {
	c.once.Do(func() {
		if c.admins != nil {
			return
		}

		cfg, err := config.Load()
		if err != nil {
			c.initErr = fmt.Errorf("failed to load config: %w", err)
			return
		}
		if err := logger.Init(cfg.Logging.Level); err != nil {
			c.initErr = fmt.Errorf("failed to initialize logger: %w", err)
			return
		}

		db, err := database.Connect(cfg)
		if err != nil {
			c.initErr = err
			return
		}
		if err := database.RunMigrations(db, database.MigrationPath()); err != nil {
			db.Close()
			c.initErr = err
			return
		}
		c.db = db

		tokens := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.TokenExpiry)
		activity := services.NewActivityLogService(repositories.NewActivityLogRepository(db), logger.Logger)
		c.admins = services.NewAdminService(repositories.NewAdminRepository(db), tokens, activity, logger.Logger)
	})
	return c.admins, c.initErr
}

func (c *commandContext) close() {
	if c.db != nil {
		c.db.Close()
	}
	logger.Sync()
}
