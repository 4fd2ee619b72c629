package routecalc

import (
	"context"
	"fmt"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/metrics"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/logging"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/mediator"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/tracker"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/assistant"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/routing"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/ship"
)

// CalculateSimpleRouteHandler - Handles neutron plotter route requests
type CalculateSimpleRouteHandler struct {
	calculator *Calculator
	store      *tracker.Store
	planner    routing.SimplePlanner
	logger     logging.ActivityLogger
}

func NewCalculateSimpleRouteHandler(
	calculator *Calculator,
	store *tracker.Store,
	planner routing.SimplePlanner,
	logger logging.ActivityLogger,
) *CalculateSimpleRouteHandler {
	return &CalculateSimpleRouteHandler{calculator: calculator, store: store, planner: planner, logger: logger}
}

func (h *CalculateSimpleRouteHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CalculateSimpleRouteCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	planRequest := routing.SimpleRouteRequest{
		From:       cmd.From,
		To:         cmd.To,
		Efficiency: cmd.Efficiency,
		Range:      cmd.Range,
	}
	if planRequest.Efficiency == 0 {
		planRequest.Efficiency = DefaultEfficiency
	}
	if planRequest.Range == 0 {
		planRequest.Range = h.store.Snapshot().ShipRange
	}
	if err := validateRequest(&planRequest); err != nil {
		h.logger.Log(logging.LevelWarning, "Invalid input", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	h.logger.Log(logging.LevelInfo, fmt.Sprintf("Calculating route from %s to %s with efficiency %d and jump range %g",
		planRequest.From, planRequest.To, planRequest.Efficiency, planRequest.Range), nil)

	return h.calculator.start(ctx, route.KindSimple, planRequest.From, planRequest.To, planRequest.CacheKey(), cmd.Wait,
		func(ctx context.Context) (*route.Route, error) {
			hops, err := h.planner.PlanSimple(ctx, &planRequest)
			if err != nil {
				return nil, err
			}
			return route.NewSimpleRoute(hops)
		})
}

// CalculateExactRouteHandler - Handles galaxy plotter route requests for the current ship build
type CalculateExactRouteHandler struct {
	calculator *Calculator
	store      *tracker.Store
	planner    routing.ExactPlanner
	catalog    routing.FSDCatalog
	logger     logging.ActivityLogger
}

func NewCalculateExactRouteHandler(
	calculator *Calculator,
	store *tracker.Store,
	planner routing.ExactPlanner,
	catalog routing.FSDCatalog,
	logger logging.ActivityLogger,
) *CalculateExactRouteHandler {
	return &CalculateExactRouteHandler{calculator: calculator, store: store, planner: planner, catalog: catalog, logger: logger}
}

func (h *CalculateExactRouteHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CalculateExactRouteCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if err := validateRequest(cmd); err != nil {
		h.logger.Log(logging.LevelWarning, "Invalid input", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	state := h.store.Snapshot()
	if len(state.ShipBuild) == 0 {
		return nil, shared.NewValidationError("ship_build", "no ship build known yet, start the game with the ship to use")
	}
	build, err := ship.ParseBuild(state.ShipBuild)
	if err != nil {
		return nil, err
	}

	planRequest := routing.ExactRouteRequest{
		From:                cmd.From,
		To:                  cmd.To,
		Cargo:               cmd.Cargo,
		AlreadySupercharged: cmd.AlreadySupercharged,
		UseSupercharge:      cmd.UseSupercharge,
		UseInjections:       cmd.UseInjections,
		ExcludeSecondary:    cmd.ExcludeSecondary,
		Build:               build,
	}

	h.logger.Log(logging.LevelInfo, fmt.Sprintf("Calculating exact route from %s to %s", cmd.From, cmd.To), nil)

	return h.calculator.start(ctx, route.KindExact, cmd.From, cmd.To, planRequest.CacheKey(), cmd.Wait,
		func(ctx context.Context) (*route.Route, error) {
			specs, err := h.catalog.FSDSpecs(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to load FSD catalog: %w", err)
			}
			params, err := build.FSDParameters(specs)
			if err != nil {
				return nil, err
			}
			planRequest.Params = params

			h.logger.Log(logging.LevelInfo, "This might take a while", nil)
			hops, err := h.planner.PlanExact(ctx, &planRequest)
			if err != nil {
				return nil, err
			}
			return route.NewExactRoute(hops)
		})
}

// ClearRouteHandler - Drops the loaded route
type ClearRouteHandler struct {
	store  *tracker.Store
	logger logging.ActivityLogger
}

func NewClearRouteHandler(store *tracker.Store, logger logging.ActivityLogger) *ClearRouteHandler {
	return &ClearRouteHandler{store: store, logger: logger}
}

func (h *ClearRouteHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ClearRouteCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	hadRoute := false
	_, err := h.store.Update(ctx, func(state *assistant.State) error {
		hadRoute = state.HasRoute()
		state.ClearRoute()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if hadRoute {
		metrics.RecordRouteEvent("cleared")
		h.logger.Log(logging.LevelInfo, "Route cleared", nil)
	}
	return statusFromState(h.store.Snapshot()), nil
}

// SetAutoCopyHandler - Starts or stops copying the next system to the clipboard
type SetAutoCopyHandler struct {
	store  *tracker.Store
	logger logging.ActivityLogger
}

func NewSetAutoCopyHandler(store *tracker.Store, logger logging.ActivityLogger) *SetAutoCopyHandler {
	return &SetAutoCopyHandler{store: store, logger: logger}
}

func (h *SetAutoCopyHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SetAutoCopyCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	changed := false
	state, err := h.store.Update(ctx, func(state *assistant.State) error {
		if cmd.Enabled && !state.HasRoute() {
			return shared.NewValidationError("route", "auto copy needs a loaded route")
		}
		changed = state.IsRunning() != cmd.Enabled
		state.SetRunning(cmd.Enabled)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		if cmd.Enabled {
			h.logger.Log(logging.LevelInfo, "Started auto copy", nil)
		} else {
			h.logger.Log(logging.LevelInfo, "Stopped auto copy", nil)
		}
	}
	return statusFromState(state), nil
}
