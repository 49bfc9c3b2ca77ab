package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	admissionservice "bazar/contexts/marketplace/admission-service"
	admissionpostgres "bazar/contexts/marketplace/admission-service/adapters/postgres"
	admissionapp "bazar/contexts/marketplace/admission-service/application"
	admissionworkers "bazar/contexts/marketplace/admission-service/application/workers"
	admissionports "bazar/contexts/marketplace/admission-service/ports"
	listingservice "bazar/contexts/marketplace/listing-service"
	listingpostgres "bazar/contexts/marketplace/listing-service/adapters/postgres"
	listingworkers "bazar/contexts/marketplace/listing-service/application/workers"
	listingports "bazar/contexts/marketplace/listing-service/ports"
	"bazar/internal/platform/config"
	"bazar/internal/platform/db"
	"bazar/internal/platform/httpserver"
	"bazar/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	expirer       listingworkers.ExpirationSweeper
	quotaPrune    admissionworkers.QuotaResetSweeper
	sweepInterval time.Duration
	pruneInterval time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	admissionRepo := admissionpostgres.NewRepository(pg.DB, logger)
	admissionModule := admissionservice.NewModule(admissionservice.Dependencies{
		Schedule: admissionRepo,
		Config:   admissionRepo,
		Counters: admissionRepo,
		Clock:    admissionpostgres.SystemClock{},
		Logger:   logger,
	})

	listingRepo := listingpostgres.NewRepository(pg.DB, logger)
	listingModule := listingservice.NewModule(listingservice.Dependencies{
		Repository:           listingRepo,
		Admission:            admissionBridge{service: admissionModule.Service},
		Notifier:             messaging.NewPushBus(logger),
		Clock:                listingpostgres.SystemClock{},
		IDGenerator:          listingpostgres.UUIDGenerator{},
		DefaultDurationDays:  cfg.DefaultDurationDays,
		ReapprovalWindowDays: cfg.ReapprovalWindowDays,
		Logger:               logger,
	})

	server := httpserver.New(listingModule, admissionModule, logger, normalizeAddr(cfg.HTTPPort), cfg.JWTSecret)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	listingRepo := listingpostgres.NewRepository(pg.DB, logger)
	admissionRepo := admissionpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		expirer: listingworkers.ExpirationSweeper{
			Repo:   listingRepo,
			Clock:  listingpostgres.SystemClock{},
			Logger: logger,
		},
		quotaPrune: admissionworkers.QuotaResetSweeper{
			Counters:      admissionRepo,
			Clock:         admissionpostgres.SystemClock{},
			RetentionDays: cfg.QuotaRetentionDays,
			Logger:        logger,
		},
		sweepInterval: cfg.SweepInterval,
		pruneInterval: cfg.QuotaPruneInterval,
		logger:        logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// Run drives both periodic sweeps. A failed tick is logged and retried on the
// next interval; the worker only stops when the context is cancelled.
func (w *WorkerApp) Run(ctx context.Context) error {
	sweep := time.NewTicker(w.sweepInterval)
	defer sweep.Stop()
	prune := time.NewTicker(w.pruneInterval)
	defer prune.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"sweep_interval", w.sweepInterval.String(),
		"prune_interval", w.pruneInterval.String(),
	)

	if err := w.expirer.RunOnce(ctx); err != nil {
		w.logTickFailure("expiration sweep", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sweep.C:
			if err := w.expirer.RunOnce(ctx); err != nil {
				w.logTickFailure("expiration sweep", err)
			}
		case <-prune.C:
			if err := w.quotaPrune.RunOnce(ctx); err != nil {
				w.logTickFailure("quota prune", err)
			}
		}
	}
}

func (w *WorkerApp) logTickFailure(name string, err error) {
	w.logger.Error("worker tick failed",
		"event", "bootstrap_worker_tick_failed",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"tick", name,
		"error", err.Error(),
	)
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// admissionBridge adapts the admission controller to the port the listing
// context consumes, keeping the two contexts import-free of each other.
type admissionBridge struct {
	service admissionapp.Service
}

func (b admissionBridge) Admit(ctx context.Context, userID string, role string, now time.Time) (listingports.AdmissionDecision, error) {
	result, err := b.service.Admit(ctx, admissionports.Actor{UserID: userID, Role: role}, now)
	if err != nil {
		return listingports.AdmissionDecision{}, err
	}
	return listingports.AdmissionDecision{
		Allowed:       result.Allowed,
		Reason:        result.Reason,
		NextAllowedAt: result.NextAllowedAt,
		Quota: listingports.QuotaState{
			Current:   result.Quota.Current,
			Limit:     result.Quota.Limit,
			Remaining: result.Quota.Remaining,
		},
	}, nil
}

func (b admissionBridge) RecordCreation(ctx context.Context, userID string, now time.Time) error {
	_, err := b.service.RecordCreation(ctx, userID, now)
	return err
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
