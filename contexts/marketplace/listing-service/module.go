package listingservice

import (
	"log/slog"

	httpadapter "bazar/contexts/marketplace/listing-service/adapters/http"
	"bazar/contexts/marketplace/listing-service/adapters/memory"
	"bazar/contexts/marketplace/listing-service/application"
	"bazar/contexts/marketplace/listing-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository           ports.Repository
	Admission            ports.AdmissionPort
	Notifier             ports.Notifier
	Clock                ports.Clock
	IDGenerator          ports.IDGenerator
	DefaultDurationDays  int
	ReapprovalWindowDays int
	Logger               *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:                 deps.Repository,
		Admission:            deps.Admission,
		Notifier:             deps.Notifier,
		Clock:                deps.Clock,
		IDs:                  deps.IDGenerator,
		DefaultDurationDays:  deps.DefaultDurationDays,
		ReapprovalWindowDays: deps.ReapprovalWindowDays,
		Logger:               deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(admission ports.AdmissionPort, notifier ports.Notifier, logger *slog.Logger) Module {
	store := memory.NewStore(nil)
	module := NewModule(Dependencies{
		Repository:           store,
		Admission:            admission,
		Notifier:             notifier,
		Clock:                store,
		IDGenerator:          store,
		DefaultDurationDays:  7,
		ReapprovalWindowDays: 7,
		Logger:               logger,
	})
	module.Store = store
	return module
}
