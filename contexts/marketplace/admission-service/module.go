package admissionservice

import (
	"log/slog"

	httpadapter "bazar/contexts/marketplace/admission-service/adapters/http"
	"bazar/contexts/marketplace/admission-service/adapters/memory"
	"bazar/contexts/marketplace/admission-service/application"
	"bazar/contexts/marketplace/admission-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Schedule ports.ScheduleStore
	Config   ports.QuotaConfigStore
	Counters ports.QuotaCounterStore
	Clock    ports.Clock
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Schedule: deps.Schedule,
		Config:   deps.Config,
		Counters: deps.Counters,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Schedule: store,
		Config:   store,
		Counters: store,
		Clock:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
