package routecalc_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/mediator"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/routecalc"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/tracker"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/assistant"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/ship"
	"github.com/andrescamacho/neutron-assistant-go/test/helpers"
)

const stockBuild = `{"name":"Explorer","ship":"Anaconda","components":{"standard":{"frameShiftDrive":{"class":5,"rating":"A"}},"internal":[]},"stats":{"fuelCapacity":32,"unladenMass":400,"reserveFuelCapacity":0.5}}`

type fixture struct {
	mediator   mediator.Mediator
	store      *tracker.Store
	calculator *routecalc.Calculator
	planner    *helpers.MockPlanner
	cache      *helpers.MockRouteCache
	logger     *helpers.MockActivityLogger
}

func newFixture(t *testing.T, state assistant.State) *fixture {
	t.Helper()

	f := &fixture{
		mediator: mediator.NewMediator(),
		store:    tracker.NewStore(state, nil),
		planner:  helpers.NewMockPlanner(),
		cache:    helpers.NewMockRouteCache(),
		logger:   helpers.NewMockActivityLogger(),
	}
	f.planner.SimpleHops = helpers.ColoniaHops()
	f.calculator = routecalc.NewCalculator(f.store, f.cache, f.logger, shared.NewMockClock(time.Date(3310, 1, 1, 0, 0, 0, 0, time.UTC)))

	err := routecalc.RegisterHandlers(f.mediator, routecalc.Dependencies{
		Store:         f.store,
		Calculator:    f.calculator,
		SimplePlanner: f.planner,
		ExactPlanner:  f.planner,
		FSDCatalog: &helpers.MockFSDCatalog{Specs: []ship.FSDSpec{
			{Class: 5, Rating: "A", OptMass: 1050, FuelPower: 2.45, FuelMul: 0.012, MaxFuel: 5},
		}},
		Logger: f.logger,
	})
	require.NoError(t, err)
	return f
}

func stateWithRange(jumpRange float64) assistant.State {
	state := assistant.NewState()
	state.ShipRange = jumpRange
	return state
}

func TestCalculateSimpleRoute_LoadsRouteWithDefaults(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Arrange
	f := newFixture(t, stateWithRange(47.5))

	// Act
	resp, err := f.mediator.Send(context.Background(), &routecalc.CalculateSimpleRouteCommand{
		From: "Sol", To: "Colonia", Wait: true,
	})
	f.calculator.Wait()

	// Assert
	require.NoError(t, err)
	calc := resp.(*routecalc.CalculationResponse)
	assert.Equal(t, "COMPLETED", calc.Status)
	assert.Equal(t, 3, calc.Hops)
	assert.False(t, calc.CacheHit)

	requests := f.planner.SimpleRequests()
	require.Len(t, requests, 1)
	assert.Equal(t, 60, requests[0].Efficiency)
	assert.Equal(t, 47.5, requests[0].Range)

	state := f.store.Snapshot()
	require.True(t, state.HasRoute())
	assert.Equal(t, "Colonia", state.Route.Destination())
	assert.Contains(t, f.logger.Messages(), "Route was not calculated before, requesting from API")
	assert.Contains(t, f.logger.Messages(), "Loaded route of 3 systems")
	assert.Len(t, f.cache.Keys(), 1)
}

func TestCalculateSimpleRoute_SecondRequestReadsCache(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Arrange
	f := newFixture(t, stateWithRange(47.5))
	cmd := &routecalc.CalculateSimpleRouteCommand{From: "Sol", To: "Colonia", Wait: true}
	_, err := f.mediator.Send(context.Background(), cmd)
	require.NoError(t, err)

	// Act
	resp, err := f.mediator.Send(context.Background(), cmd)
	f.calculator.Wait()

	// Assert
	require.NoError(t, err)
	assert.True(t, resp.(*routecalc.CalculationResponse).CacheHit)
	assert.Len(t, f.planner.SimpleRequests(), 1)
	assert.Contains(t, f.logger.Messages(), "Found existing route, reading")
}

func TestCalculateSimpleRoute_RejectsSecondCalculationOfSameKind(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Arrange
	f := newFixture(t, stateWithRange(47.5))
	f.planner.Block = make(chan struct{})
	first, err := f.mediator.Send(context.Background(), &routecalc.CalculateSimpleRouteCommand{From: "Sol", To: "Colonia"})
	require.NoError(t, err)

	// Act
	_, err = f.mediator.Send(context.Background(), &routecalc.CalculateSimpleRouteCommand{From: "Sol", To: "Sagittarius A*"})
	close(f.planner.Block)
	f.calculator.Wait()

	// Assert
	var inProgress *shared.CalculationInProgressError
	require.ErrorAs(t, err, &inProgress)
	assert.Equal(t, "simple", inProgress.Kind)
	assert.NotEmpty(t, first.(*routecalc.CalculationResponse).CalculationID)
	assert.Len(t, f.calculator.History(), 1)
}

func TestCalculator_ShutdownCancelsDetachedCalculation(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Arrange
	f := newFixture(t, stateWithRange(47.5))
	f.planner.Block = make(chan struct{})
	defer close(f.planner.Block)
	requestCtx, cancelRequest := context.WithCancel(context.Background())
	_, err := f.mediator.Send(requestCtx, &routecalc.CalculateSimpleRouteCommand{From: "Sol", To: "Colonia"})
	require.NoError(t, err)
	cancelRequest()

	// Act
	stillRunning := assert.Never(t, func() bool {
		return f.calculator.History()[0].Status() == shared.LifecycleStatusFailed
	}, 100*time.Millisecond, 10*time.Millisecond)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err = f.calculator.Shutdown(shutdownCtx)

	// Assert
	require.NoError(t, err)
	assert.True(t, stillRunning)
	assert.Equal(t, shared.LifecycleStatusFailed, f.calculator.History()[0].Status())
	assert.False(t, f.store.Snapshot().HasRoute())
}

func TestCalculateSimpleRoute_RequiresJumpRange(t *testing.T) {
	// Arrange
	f := newFixture(t, assistant.NewState())

	// Act
	_, err := f.mediator.Send(context.Background(), &routecalc.CalculateSimpleRouteCommand{From: "Sol", To: "Colonia"})

	// Assert
	var validationErr *shared.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "range", validationErr.Field)
	assert.Empty(t, f.calculator.History())
}

func TestCalculateSimpleRoute_ServiceErrorIsLoggedVerbatim(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Arrange
	f := newFixture(t, stateWithRange(47.5))
	f.planner.Err = shared.NewRouteServiceError("spansh", "Could not find starting system")

	// Act
	resp, err := f.mediator.Send(context.Background(), &routecalc.CalculateSimpleRouteCommand{From: "Nowhere", To: "Colonia", Wait: true})
	f.calculator.Wait()

	// Assert
	require.NoError(t, err)
	calc := resp.(*routecalc.CalculationResponse)
	assert.Equal(t, "FAILED", calc.Status)
	assert.Contains(t, f.logger.Messages(), "ERROR OCCURRED: Could not find starting system")
	assert.False(t, f.store.Snapshot().HasRoute())
}

func TestCalculateSimpleRoute_CacheFailureStillLoadsRoute(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Arrange
	f := newFixture(t, stateWithRange(47.5))
	f.cache.SetError(errors.New("database is locked"))

	// Act
	_, err := f.mediator.Send(context.Background(), &routecalc.CalculateSimpleRouteCommand{From: "Sol", To: "Colonia", Wait: true})
	f.calculator.Wait()

	// Assert
	require.NoError(t, err)
	assert.True(t, f.store.Snapshot().HasRoute())
	assert.NotContains(t, f.logger.Messages(), "Route has been saved")
}

func TestCalculateExactRoute_RequiresShipBuild(t *testing.T) {
	// Arrange
	f := newFixture(t, assistant.NewState())

	// Act
	_, err := f.mediator.Send(context.Background(), &routecalc.CalculateExactRouteCommand{From: "Sol", To: "Colonia"})

	// Assert
	var validationErr *shared.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "ship_build", validationErr.Field)
}

func TestCalculateExactRoute_SendsShipParameters(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Arrange
	state := assistant.NewState()
	state.ShipBuild = json.RawMessage(stockBuild)
	f := newFixture(t, state)
	f.planner.ExactHops = []route.ExactHop{
		{System: "Sol", Distance: 0, DistanceToDestination: 22000},
		{System: "Colonia", Distance: 22000, DistanceToDestination: 0},
	}

	// Act
	resp, err := f.mediator.Send(context.Background(), &routecalc.CalculateExactRouteCommand{
		From: "Sol", To: "Colonia", Cargo: 4, UseSupercharge: true, Wait: true,
	})
	f.calculator.Wait()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.(*routecalc.CalculationResponse).Status)

	requests := f.planner.ExactRequests()
	require.Len(t, requests, 1)
	assert.Equal(t, 4, requests[0].Cargo)
	assert.True(t, requests[0].UseSupercharge)
	assert.Equal(t, 1050, requests[0].Params.OptimalMass)
	assert.Equal(t, 400.5, requests[0].Params.BaseMass)
	assert.Equal(t, route.KindExact, f.store.Snapshot().Route.Kind())
}

func TestSetAutoCopy_NeedsRoute(t *testing.T) {
	// Arrange
	f := newFixture(t, assistant.NewState())

	// Act
	_, err := f.mediator.Send(context.Background(), &routecalc.SetAutoCopyCommand{Enabled: true})

	// Assert
	var validationErr *shared.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.False(t, f.store.Snapshot().IsRunning())
}

func TestSetAutoCopy_StartAndStop(t *testing.T) {
	// Arrange
	state := assistant.NewState()
	state.LoadRoute(helpers.ColoniaRoute())
	f := newFixture(t, state)

	// Act
	started, err := f.mediator.Send(context.Background(), &routecalc.SetAutoCopyCommand{Enabled: true})
	require.NoError(t, err)
	stopped, err := f.mediator.Send(context.Background(), &routecalc.SetAutoCopyCommand{Enabled: false})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "running", started.(*routecalc.StatusResponse).Status)
	assert.Equal(t, "stopped", stopped.(*routecalc.StatusResponse).Status)
	assert.Equal(t, []string{"Started auto copy", "Stopped auto copy"}, f.logger.Messages())
}

func TestClearRoute_StopsAutoCopy(t *testing.T) {
	// Arrange
	state := assistant.NewState()
	state.LoadRoute(helpers.ColoniaRoute())
	state.SetRunning(true)
	f := newFixture(t, state)

	// Act
	resp, err := f.mediator.Send(context.Background(), &routecalc.ClearRouteCommand{})

	// Assert
	require.NoError(t, err)
	status := resp.(*routecalc.StatusResponse)
	assert.Equal(t, "stopped", status.Status)
	assert.Zero(t, status.RouteHops)
	assert.Contains(t, f.logger.Messages(), "Route cleared")
}

func TestGetStatus_ReportsRouteProgress(t *testing.T) {
	// Arrange
	state := assistant.NewState()
	state.CommanderName = "Jameson"
	state.LoadRoute(helpers.ColoniaRoute())
	state.Outcome, state.Progression = route.Evaluate(state.Route, "Blu Thua", state.Progression)
	f := newFixture(t, state)

	// Act
	resp, err := f.mediator.Send(context.Background(), &routecalc.GetStatusQuery{})

	// Assert
	require.NoError(t, err)
	status := resp.(*routecalc.StatusResponse)
	assert.Equal(t, "Jameson", status.CommanderName)
	assert.Equal(t, "simple", status.RouteKind)
	assert.Equal(t, 3, status.RouteHops)
	assert.Equal(t, "Colonia", status.Destination)
	assert.Equal(t, "[2/3]", status.Progress)
	assert.Equal(t, "Colonia", status.Outcome.NextSystem)
}

func TestGetShipLink_NeedsLoadout(t *testing.T) {
	// Arrange
	f := newFixture(t, assistant.NewState())

	// Act
	_, err := f.mediator.Send(context.Background(), &routecalc.GetShipLinkQuery{})

	// Assert
	var validationErr *shared.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "loadout", validationErr.Field)
}
