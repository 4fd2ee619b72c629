package routecalc

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/mediator"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/tracker"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/assistant"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/calculation"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/routing"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

// defaultLogLimit is used when GetActivityLogQuery leaves the limit unset
const defaultLogLimit = 50

// GetStatusHandler - Reports the assistant status
type GetStatusHandler struct {
	store *tracker.Store
}

func NewGetStatusHandler(store *tracker.Store) *GetStatusHandler {
	return &GetStatusHandler{store: store}
}

func (h *GetStatusHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetStatusQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	return statusFromState(h.store.Snapshot()), nil
}

func statusFromState(state assistant.State) *StatusResponse {
	status := &StatusResponse{
		CommanderName:   state.CommanderName,
		CurrentSystem:   state.CurrentSystem,
		ShipRange:       state.ShipRange,
		ShipMaxRange:    state.ShipMaxRange,
		HasShipBuild:    len(state.ShipBuild) > 0,
		Outcome:         state.Outcome,
		Progress:        state.Outcome.ProgressLabel(),
		ProgressPercent: state.Outcome.ProgressPercent(),
		Status:          string(state.Status),
		Revision:        state.Revision,
	}
	if state.HasRoute() {
		status.RouteKind = state.Route.Kind().String()
		status.RouteHops = state.Route.Len()
		status.Destination = state.Route.Destination()
	}
	return status
}

// ListCalculationsHandler - Lists recent route calculations
type ListCalculationsHandler struct {
	calculator *Calculator
}

func NewListCalculationsHandler(calculator *Calculator) *ListCalculationsHandler {
	return &ListCalculationsHandler{calculator: calculator}
}

func (h *ListCalculationsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListCalculationsQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	return lo.Map(h.calculator.History(), func(calc *calculation.Calculation, _ int) CalculationSummary {
		return toSummary(calc)
	}), nil
}

// SearchSystemsHandler - Autocompletes system names
type SearchSystemsHandler struct {
	searcher routing.SystemSearcher
}

func NewSearchSystemsHandler(searcher routing.SystemSearcher) *SearchSystemsHandler {
	return &SearchSystemsHandler{searcher: searcher}
}

func (h *SearchSystemsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*SearchSystemsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if err := validateRequest(query); err != nil {
		return nil, err
	}
	return h.searcher.SearchSystems(ctx, query.Query)
}

// GetActivityLogHandler - Returns recent activity log lines
type GetActivityLogHandler struct {
	reader ActivityLogReader
}

func NewGetActivityLogHandler(reader ActivityLogReader) *GetActivityLogHandler {
	return &GetActivityLogHandler{reader: reader}
}

func (h *GetActivityLogHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetActivityLogQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if err := validateRequest(query); err != nil {
		return nil, err
	}
	limit := query.Limit
	if limit == 0 {
		limit = defaultLogLimit
	}
	return h.reader.Recent(ctx, limit)
}

// GetShipLinkHandler - Builds a Coriolis link for the latest loadout
type GetShipLinkHandler struct {
	store  *tracker.Store
	linker ShipLinker
}

func NewGetShipLinkHandler(store *tracker.Store, linker ShipLinker) *GetShipLinkHandler {
	return &GetShipLinkHandler{store: store, linker: linker}
}

func (h *GetShipLinkHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetShipLinkQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	loadout := h.store.Snapshot().Loadout
	if len(loadout) == 0 {
		return nil, shared.NewValidationError("loadout", "no ship loadout seen in the journal yet")
	}
	url, err := h.linker.ImportURL(loadout)
	if err != nil {
		return nil, err
	}
	return &ShipLinkResponse{URL: url}, nil
}
