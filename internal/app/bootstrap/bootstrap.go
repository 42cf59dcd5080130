package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	launchengine "lumora/contexts/campaign-automation/launch-engine"
	"lumora/contexts/campaign-automation/launch-engine/adapters/memory"
	oauthadapter "lumora/contexts/campaign-automation/launch-engine/adapters/oauth"
	platformadapter "lumora/contexts/campaign-automation/launch-engine/adapters/platform"
	postgresadapter "lumora/contexts/campaign-automation/launch-engine/adapters/postgres"
	"lumora/contexts/campaign-automation/launch-engine/adapters/redislock"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	"lumora/contexts/campaign-automation/launch-engine/ports"
	"lumora/internal/platform/cache"
	"lumora/internal/platform/config"
	"lumora/internal/platform/db"
	"lumora/internal/platform/httpserver"
	"lumora/internal/platform/logging"
	"lumora/internal/platform/messaging"
	"lumora/internal/shared/events"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const shutdownTimeout = 10 * time.Second

type APIApp struct {
	server    *httpserver.Server
	resources *resources
	logger    *slog.Logger
}

type WorkerApp struct {
	module         launchengine.Module
	bus            *messaging.Bus
	resources      *resources
	outboxInterval time.Duration
	syncInterval   time.Duration
	logger         *slog.Logger
}

// resources are the connections a process must close on shutdown.
type resources struct {
	postgres *db.Postgres
	redis    *goredis.Client
}

func (r *resources) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.redis != nil {
		errs = append(errs, r.redis.Close())
	}
	if r.postgres != nil {
		errs = append(errs, r.postgres.Close())
	}
	return errors.Join(errs...)
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.ServiceName, cfg.LogLevel).With("process", "api")

	module, res, err := buildModule(ctx, cfg, nil, logger)
	if err != nil {
		return nil, err
	}
	return &APIApp{
		server:    httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort)),
		resources: res,
		logger:    logger,
	}, nil
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.ServiceName, cfg.LogLevel).With("process", "worker")

	bus := messaging.NewBus(logger)
	module, res, err := buildModule(ctx, cfg, bus, logger)
	if err != nil {
		return nil, err
	}
	return &WorkerApp{
		module:         module,
		bus:            bus,
		resources:      res,
		outboxInterval: cfg.OutboxPollInterval,
		syncInterval:   cfg.DailySyncPollInterval,
		logger:         logger,
	}, nil
}

// buildModule wires the launch engine on Postgres when a DSN is configured and
// on the in-memory store otherwise.
func buildModule(
	ctx context.Context,
	cfg config.Config,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) (launchengine.Module, *resources, error) {
	res := &resources{}
	factory := platformadapter.NewFactory(platformadapter.FactoryConfig{
		Simulation: cfg.SimulationMode,
		Graph: platformadapter.GraphConfig{
			BaseURL:   cfg.MetaGraphBaseURL,
			RateLimit: cfg.MetaRateLimit,
			RateBurst: cfg.MetaRateBurst,
			Timeout:   cfg.MetaHTTPTimeout,
		},
		DriveEndpoint: cfg.DriveEndpoint,
	})

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		logger.Warn("POSTGRES_DSN not set, using in-memory store",
			"event", "bootstrap_in_memory_store",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		store := memory.NewStore(memory.Seed{})
		deps := launchengine.Dependencies{
			Plans:           store,
			Entities:        store,
			Snapshots:       store,
			Recommendations: store,
			ActionLogs:      store,
			Businesses:      store,
			Connections:     store,
			SyncRuns:        store,
			Adapters:        factory,
			Outbox:          store,
			OutboxReader:    store,
			Publisher:       publisher,
			Lock:            store,
			Clock:           store,
			IDGenerator:     store,
			Logger:          logger,
		}
		if !cfg.SimulationMode {
			deps.Tokens = newTokenProvider(cfg, store, store, logger)
		}
		module, err := withModuleConfig(ctx, cfg, deps, res, logger)
		if err != nil {
			return launchengine.Module{}, nil, err
		}
		module.Store = store
		return module, res, nil
	}

	pg, err := db.Connect(ctx, cfg.PostgresDSN, db.DefaultPoolOptions())
	if err != nil {
		return launchengine.Module{}, nil, err
	}
	res.postgres = pg
	if cfg.PostgresAutoMigrate {
		if err := postgresadapter.AutoMigrate(pg.DB); err != nil {
			_ = res.Close()
			return launchengine.Module{}, nil, err
		}
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	clock := postgresadapter.SystemClock{}
	module, err := withModuleConfig(ctx, cfg, launchengine.Dependencies{
		Plans:           repo,
		Entities:        repo,
		Snapshots:       repo,
		Recommendations: repo,
		ActionLogs:      repo,
		Businesses:      repo,
		Connections:     repo,
		SyncRuns:        repo,
		Tokens:          newTokenProvider(cfg, repo, clock, logger),
		Adapters:        factory,
		Outbox:          repo,
		OutboxReader:    repo,
		Publisher:       publisher,
		Lock:            memory.NewStore(memory.Seed{}),
		Clock:           clock,
		IDGenerator:     postgresadapter.UUIDGenerator{},
		Logger:          logger,
	}, res, logger)
	if err != nil {
		_ = res.Close()
		return launchengine.Module{}, nil, err
	}
	return module, res, nil
}

// withModuleConfig applies the shared knobs and swaps in the Redis plan lock
// when REDIS_ADDR is set.
func withModuleConfig(
	ctx context.Context,
	cfg config.Config,
	deps launchengine.Dependencies,
	res *resources,
	logger *slog.Logger,
) (launchengine.Module, error) {
	deps.LockTTL = cfg.PlanLockTTL
	deps.DailySyncHour = cfg.DailySyncHourUTC
	deps.OutboxBatchSize = cfg.OutboxBatchSize
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return launchengine.Module{}, err
		}
		res.redis = client
		deps.Lock = redislock.New(client, "lumora")
		logger.Info("redis plan lock enabled",
			"event", "bootstrap_redis_lock_enabled",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"addr", cfg.RedisAddr,
		)
	}
	return launchengine.NewModule(deps), nil
}

func newTokenProvider(
	cfg config.Config,
	connections ports.ConnectionRepository,
	clock ports.Clock,
	logger *slog.Logger,
) *oauthadapter.TokenProvider {
	return oauthadapter.NewTokenProvider(oauthadapter.Config{
		MetaAppID:          cfg.MetaAppID,
		MetaAppSecret:      cfg.MetaAppSecret,
		MetaTokenURL:       strings.TrimRight(cfg.MetaGraphBaseURL, "/") + "/oauth/access_token",
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
	}, connections, clock, logger)
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}
}

func (a *APIApp) Close() error {
	return a.resources.Close()
}

// Run drives the outbox relay and the daily sync scheduler until ctx is done.
// A failing cycle is logged and retried on the next tick.
func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"outbox_interval", w.outboxInterval.String(),
		"sync_interval", w.syncInterval.String(),
	)
	if err := w.subscribeActivityLog(ctx); err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return pollLoop(groupCtx, w.outboxInterval, "outbox_relay", w.module.Relay.RunOnce, w.logger)
	})
	group.Go(func() error {
		return pollLoop(groupCtx, w.syncInterval, "daily_sync_scheduler", w.module.Scheduler.RunOnce, w.logger)
	})
	return group.Wait()
}

// subscribeActivityLog records every published launch-engine event.
func (w *WorkerApp) subscribeActivityLog(ctx context.Context) error {
	for _, topic := range entities.EventTypes() {
		if err := w.bus.Subscribe(ctx, topic, "launch-engine-activity", func(_ context.Context, event events.Envelope) error {
			w.logger.Info("launch engine event",
				"event", "launch_engine_event_observed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"event_type", event.EventType,
				"event_id", event.EventID,
				"partition_key", event.PartitionKey,
			)
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func pollLoop(
	ctx context.Context,
	interval time.Duration,
	name string,
	run func(context.Context) error,
	logger *slog.Logger,
) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("worker cycle failed",
				"event", "bootstrap_worker_cycle_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"job", name,
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	return w.resources.Close()
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
