package cmd

import (
	"fmt"

	"load-manager/core/config"
	"load-manager/core/database"
	"load-manager/core/logger"
	"load-manager/feature/job"
	jobmodels "load-manager/feature/job/models"
	"load-manager/feature/manifest"
	manifestmodels "load-manager/feature/manifest/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles everything a tracker command needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

// setup loads configuration, builds the logger and opens the tracker
// database, migrating the schema. Every command starts here.
func setup() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := manifestmodels.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate manifest schema: %w", err)
	}
	if err := jobmodels.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate job schema: %w", err)
	}

	return &runtime{cfg: cfg, logger: l, db: db}, nil
}

func (r *runtime) manifestStore() *manifest.Store {
	return manifest.NewStore(r.db, manifest.Options{Overwrite: r.cfg.Policy.ManifestOverwrite})
}

func (r *runtime) jobService(transfer job.Transferrer) *job.Service {
	jobs := job.NewStore(r.db, job.Options{AllowRetry: r.cfg.Policy.JobRetry})
	return job.NewService(jobs, r.manifestStore(), transfer, r.logger)
}
