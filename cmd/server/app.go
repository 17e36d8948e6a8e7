package main

import (
	"context"
	"fmt"
	"log/slog"

	"PM-TMPL/internal"
	"PM-TMPL/internal/config"
	"PM-TMPL/internal/events"
	"PM-TMPL/internal/logger"
	"PM-TMPL/internal/repository"
	"PM-TMPL/internal/services"
	"PM-TMPL/internal/storage"

	"gorm.io/gorm"
)

// app holds the wired dependencies shared by every subcommand.
type app struct {
	cfg       *config.Config
	db        *gorm.DB
	store     *repository.Store
	publisher events.Publisher
	blobs     storage.BlobStore
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.Log.Format, cfg.Log.Level)

	db, err := internal.OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		db:        db,
		store:     repository.NewStore(db),
		publisher: events.NopPublisher{},
	}

	if cfg.Events.ValkeyAddr != "" {
		publisher, err := events.NewValkeyPublisher(cfg.Events.ValkeyAddr, cfg.Events.Channel)
		if err != nil {
			slog.Warn("generation events disabled", "error", err)
		} else {
			a.publisher = publisher
		}
	}

	if cfg.GCS.BucketName != "" {
		gcs, err := storage.NewGCSClient(ctx, cfg.GCS.BucketName, cfg.GCS.ProjectID, cfg.GCS.CredentialsPath)
		if err != nil {
			slog.Warn("template snapshots disabled", "error", err)
		} else {
			a.blobs = gcs
			slog.Info("template snapshots enabled", "bucket", cfg.GCS.BucketName)
		}
	}

	return a, nil
}

func (a *app) templates() *services.TemplateService {
	if a.blobs == nil {
		return services.NewTemplateService(a.store, nil)
	}
	return services.NewTemplateService(a.store, a.blobs)
}

func (a *app) generations() *services.GenerationService {
	return services.NewGenerationService(a.store, a.store, a.store, a.store, a.publisher)
}

func (a *app) Close() {
	if closer, ok := a.blobs.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			slog.Warn("failed to close storage client", "error", err)
		}
	}
	if err := a.publisher.Close(); err != nil {
		slog.Warn("failed to close event publisher", "error", err)
	}
	if err := internal.CloseDB(a.db); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}
