package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/xiaot623/gogo/panel/internal/adapter/backend"
	"github.com/xiaot623/gogo/panel/internal/config"
	"github.com/xiaot623/gogo/panel/internal/domain"
	"github.com/xiaot623/gogo/panel/internal/events"
	"github.com/xiaot623/gogo/panel/internal/repository"
	"github.com/xiaot623/gogo/panel/internal/service"
)

// app is the wired engine shared by every subcommand.
type app struct {
	storage repository.SlotStore
	bus     *events.Bus
	svc     *service.Service
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	storage, err := repository.Open(ctx, repository.Options{
		Driver:      cfg.StorageDriver,
		DatabaseURL: cfg.DatabaseURL,
		RedisAddr:   cfg.RedisAddr,
		RedisDB:     cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}

	be, err := backend.New(ctx, backend.Settings{
		Mode:     cfg.Mode,
		BaseURL:  cfg.BackendURL,
		Timeout:  cfg.BackendTimeout,
		Catalog:  domain.DefaultCatalog,
		SimDelay: cfg.SimDelay,
	})
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	bus := events.NewBus()
	svc := service.New(be, storage, bus, service.Options{
		Catalog:          domain.DefaultCatalog,
		SessionCapacity:  cfg.SessionCapacity,
		FeedbackCapacity: cfg.FeedbackCapacity,
		TimelineOffsets:  cfg.TimelineOffsets(),
		Stream:           cfg.BackendStream,
	})
	svc.Open(ctx)

	log.Debug().
		Str("storage", cfg.StorageDriver).
		Str("mode", cfg.Mode).
		Str("backend_url", cfg.BackendURL).
		Msg("engine ready")

	return &app{storage: storage, bus: bus, svc: svc}, nil
}

func (a *app) Close() {
	if err := a.bus.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close event bus")
	}
	if err := a.storage.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close storage")
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
