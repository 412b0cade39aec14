package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"advisory_portal/internal/airtable"
	"advisory_portal/internal/cache"
	"advisory_portal/internal/events"
	apphttp "advisory_portal/internal/http"
	"advisory_portal/internal/http/router"
	"advisory_portal/internal/intake"
	"advisory_portal/internal/leads"
	"advisory_portal/internal/leads/source"
	"advisory_portal/internal/observer"
	"advisory_portal/internal/workflow"
	"advisory_portal/platform/config"
	"advisory_portal/platform/logger"
	"advisory_portal/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "leadsSource", cfg.LeadsSource)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if !cfg.IsAdminAuthEnabled() {
		log.Warn("ADMIN_JWT_SECRET not configured; admin routes are open to the local operator")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	metrics := observer.New(prometheus.DefaultRegisterer)

	var store *cache.Store
	if cfg.GetRedisURL() != "" {
		if err := withRetry(ctx, log, "redis connection", 5, time.Second, func() error {
			s, err := cache.New(ctx, cfg)
			if err != nil {
				return err
			}
			store = s
			return nil
		}); err != nil {
			log.Warn("snapshot cache disabled", "error", err)
		} else {
			defer func() { _ = store.Close() }()
			log.Info("snapshot cache connected", "ttl", cfg.GetCacheTTL().String())
		}
	} else {
		log.Warn("REDIS_URL not configured; advisor and metrics snapshots are not cached")
	}

	records := airtable.New(cfg, log, metrics)
	if !records.Configured() {
		log.Warn("record store not configured; reads go to the workflow engine")
	}
	webhooks := workflow.New(cfg, log, metrics)

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	events.RegisterAuditLog(eventBus, log)
	defer eventBus.Wait()

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule, err := leads.NewModule(cfg, source.Deps{
		Airtable: records,
		Workflow: webhooks,
		Cache:    store,
		Log:      log,
		Metrics:  metrics,
		Now:      time.Now,
	}, webhooks, eventBus, val)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	intakeModule, err := intake.NewModule(cfg, webhooks, eventBus, val, log, metrics)
	if err != nil {
		log.Error("failed to initialize intake module", "error", err)
		panic("failed to initialize intake module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   store,
		Gatherer: prometheus.DefaultGatherer,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			intakeModule,
			leadsModule,
		},
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.RegisterOnShutdown(leadsModule.Close)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
