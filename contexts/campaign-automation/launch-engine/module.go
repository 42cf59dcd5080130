package launchengine

import (
	"log/slog"
	"time"

	httpadapter "lumora/contexts/campaign-automation/launch-engine/adapters/http"
	"lumora/contexts/campaign-automation/launch-engine/adapters/memory"
	platformadapter "lumora/contexts/campaign-automation/launch-engine/adapters/platform"
	"lumora/contexts/campaign-automation/launch-engine/application/commands"
	"lumora/contexts/campaign-automation/launch-engine/application/queries"
	"lumora/contexts/campaign-automation/launch-engine/application/workers"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

// Module is the launch-engine composition root exposed to runtime wiring.
type Module struct {
	Handler   httpadapter.Handler
	Relay     workers.OutboxRelay
	Scheduler workers.DailySyncScheduler
	Store     *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Plans           ports.PlanRepository
	Entities        ports.EntityRepository
	Snapshots       ports.SnapshotRepository
	Recommendations ports.RecommendationRepository
	ActionLogs      ports.ActionLogRepository
	Businesses      ports.BusinessRepository
	Connections     ports.ConnectionRepository
	SyncRuns        ports.SyncRunRepository
	Tokens          ports.TokenProvider
	Adapters        ports.AdapterFactory
	Outbox          ports.OutboxWriter
	OutboxReader    ports.OutboxRepository
	Publisher       ports.EventPublisher
	Lock            ports.PlanLock
	LockTTL         time.Duration
	DailySyncHour   int
	OutboxBatchSize int
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	launch := commands.LaunchPlanUseCase{
		Plans:       deps.Plans,
		Entities:    deps.Entities,
		Businesses:  deps.Businesses,
		Connections: deps.Connections,
		Tokens:      deps.Tokens,
		Adapters:    deps.Adapters,
		ActionLogs:  deps.ActionLogs,
		Outbox:      deps.Outbox,
		Lock:        deps.Lock,
		LockTTL:     deps.LockTTL,
		Clock:       deps.Clock,
		IDGen:       deps.IDGenerator,
		Logger:      deps.Logger,
	}
	retry := commands.RetryFailedAdsUseCase{
		Plans:       deps.Plans,
		Entities:    deps.Entities,
		Businesses:  deps.Businesses,
		Connections: deps.Connections,
		Tokens:      deps.Tokens,
		Adapters:    deps.Adapters,
		ActionLogs:  deps.ActionLogs,
		Outbox:      deps.Outbox,
		Lock:        deps.Lock,
		LockTTL:     deps.LockTTL,
		Clock:       deps.Clock,
		IDGen:       deps.IDGenerator,
		Logger:      deps.Logger,
	}
	sync := commands.RunDailySyncUseCase{
		Businesses:      deps.Businesses,
		Entities:        deps.Entities,
		Snapshots:       deps.Snapshots,
		Recommendations: deps.Recommendations,
		ActionLogs:      deps.ActionLogs,
		Connections:     deps.Connections,
		Tokens:          deps.Tokens,
		Adapters:        deps.Adapters,
		Outbox:          deps.Outbox,
		Clock:           deps.Clock,
		IDGen:           deps.IDGenerator,
		Logger:          deps.Logger,
	}
	change := commands.ApplyEntityChangeUseCase{
		Entities:    deps.Entities,
		Businesses:  deps.Businesses,
		Connections: deps.Connections,
		Tokens:      deps.Tokens,
		Adapters:    deps.Adapters,
		ActionLogs:  deps.ActionLogs,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGen:       deps.IDGenerator,
		Logger:      deps.Logger,
	}

	handler := httpadapter.Handler{
		LaunchPlan:        launch,
		RetryFailedAds:    retry,
		RunDailySync:      sync,
		ApplyEntityChange: change,
		Preflight: queries.PreflightUseCase{
			Businesses:  deps.Businesses,
			Connections: deps.Connections,
			Tokens:      deps.Tokens,
			Adapters:    deps.Adapters,
			Logger:      deps.Logger,
		},
		ListEntities: queries.ListEntitiesUseCase{
			Entities: deps.Entities,
			Logger:   deps.Logger,
		},
		ListRecommendations: queries.ListRecommendationsUseCase{
			Recommendations: deps.Recommendations,
			Logger:          deps.Logger,
		},
		BrowseDrive: queries.BrowseDriveUseCase{
			Adapters:    deps.Adapters,
			Connections: deps.Connections,
			Tokens:      deps.Tokens,
			Logger:      deps.Logger,
		},
		ListAdAccounts: queries.ListAdAccountsUseCase{
			Connections: deps.Connections,
			Tokens:      deps.Tokens,
			Adapters:    deps.Adapters,
			Logger:      deps.Logger,
		},
		SelectAdAccount: commands.SelectAdAccountUseCase{
			Connections: deps.Connections,
			Clock:       deps.Clock,
			Logger:      deps.Logger,
		},
		SetPixel: commands.SetPixelUseCase{
			Connections: deps.Connections,
			Clock:       deps.Clock,
			Logger:      deps.Logger,
		},
		Logger: deps.Logger,
	}

	return Module{
		Handler: handler,
		Relay: workers.OutboxRelay{
			Outbox:    deps.OutboxReader,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			BatchSize: deps.OutboxBatchSize,
			Logger:    deps.Logger,
		},
		Scheduler: workers.DailySyncScheduler{
			Businesses: deps.Businesses,
			ActionLogs: deps.ActionLogs,
			SyncRuns:   deps.SyncRuns,
			Sync:       sync,
			Clock:      deps.Clock,
			HourUTC:    deps.DailySyncHour,
			Logger:     deps.Logger,
		},
	}
}

// NewInMemoryModule builds a simulated module on the in-memory store. The relay
// has no publisher until the caller sets one.
func NewInMemoryModule(logger *slog.Logger, seed memory.Seed) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Plans:           store,
		Entities:        store,
		Snapshots:       store,
		Recommendations: store,
		ActionLogs:      store,
		Businesses:      store,
		Connections:     store,
		SyncRuns:        store,
		Adapters:        platformadapter.NewFactory(platformadapter.FactoryConfig{Simulation: true}),
		Outbox:          store,
		OutboxReader:    store,
		Lock:            store,
		Clock:           store,
		IDGenerator:     store,
		Logger:          logger,
	})
	module.Store = store
	return module
}
