package routecalc

import (
	"fmt"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/logging"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/mediator"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/tracker"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/routing"
)

// Dependencies groups everything the route handlers need
type Dependencies struct {
	Store         *tracker.Store
	Calculator    *Calculator
	SimplePlanner routing.SimplePlanner
	ExactPlanner  routing.ExactPlanner
	FSDCatalog    routing.FSDCatalog
	Searcher      routing.SystemSearcher
	LogReader     ActivityLogReader
	Linker        ShipLinker
	Logger        logging.ActivityLogger
}

// RegisterHandlers registers every route command and query with m
func RegisterHandlers(m mediator.Mediator, deps Dependencies) error {
	registrations := []struct {
		name     string
		register func() error
	}{
		{"CalculateSimpleRouteCommand", func() error {
			return mediator.RegisterHandler[*CalculateSimpleRouteCommand](m,
				NewCalculateSimpleRouteHandler(deps.Calculator, deps.Store, deps.SimplePlanner, deps.Logger))
		}},
		{"CalculateExactRouteCommand", func() error {
			return mediator.RegisterHandler[*CalculateExactRouteCommand](m,
				NewCalculateExactRouteHandler(deps.Calculator, deps.Store, deps.ExactPlanner, deps.FSDCatalog, deps.Logger))
		}},
		{"ClearRouteCommand", func() error {
			return mediator.RegisterHandler[*ClearRouteCommand](m, NewClearRouteHandler(deps.Store, deps.Logger))
		}},
		{"SetAutoCopyCommand", func() error {
			return mediator.RegisterHandler[*SetAutoCopyCommand](m, NewSetAutoCopyHandler(deps.Store, deps.Logger))
		}},
		{"GetStatusQuery", func() error {
			return mediator.RegisterHandler[*GetStatusQuery](m, NewGetStatusHandler(deps.Store))
		}},
		{"ListCalculationsQuery", func() error {
			return mediator.RegisterHandler[*ListCalculationsQuery](m, NewListCalculationsHandler(deps.Calculator))
		}},
		{"SearchSystemsQuery", func() error {
			return mediator.RegisterHandler[*SearchSystemsQuery](m, NewSearchSystemsHandler(deps.Searcher))
		}},
		{"GetActivityLogQuery", func() error {
			return mediator.RegisterHandler[*GetActivityLogQuery](m, NewGetActivityLogHandler(deps.LogReader))
		}},
		{"GetShipLinkQuery", func() error {
			return mediator.RegisterHandler[*GetShipLinkQuery](m, NewGetShipLinkHandler(deps.Store, deps.Linker))
		}},
	}

	for _, registration := range registrations {
		if err := registration.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", registration.name, err)
		}
	}
	return nil
}
