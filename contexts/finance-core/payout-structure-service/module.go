package payoutstructureservice

import (
	"log/slog"

	httpadapter "rewardsplit/contexts/finance-core/payout-structure-service/adapters/http"
	"rewardsplit/contexts/finance-core/payout-structure-service/adapters/memory"
	"rewardsplit/contexts/finance-core/payout-structure-service/application"
	"rewardsplit/contexts/finance-core/payout-structure-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Engines *application.EngineRegistry
	Store   *memory.Store
}

type Dependencies struct {
	Structures         ports.StructureRepository
	Outbox             ports.OutboxWriter
	Clock              ports.Clock
	IDGenerator        ports.IDGenerator
	Observer           application.EngineObserver
	MaxRows            int
	DisableEditJournal bool
	Logger             *slog.Logger
}

func NewModule(deps Dependencies) Module {
	opts := make([]application.EngineOption, 0, 1)
	if deps.Observer != nil {
		opts = append(opts, application.WithObserver(deps.Observer))
	}
	engines := application.NewEngineRegistry(opts...)
	service := application.Service{
		Structures:         deps.Structures,
		Engines:            engines,
		Outbox:             deps.Outbox,
		Clock:              deps.Clock,
		IDGen:              deps.IDGenerator,
		MaxRows:            deps.MaxRows,
		DisableEditJournal: deps.DisableEditJournal,
		Logger:             deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Engines: engines,
	}
}

// NewInMemoryModule serves sessions and the outbox from one memory store.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Structures:  store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
