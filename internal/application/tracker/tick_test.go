package tracker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/tracker"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/assistant"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/journal"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/ship"
	"github.com/andrescamacho/neutron-assistant-go/test/helpers"
)

func runningState(r *route.Route) assistant.State {
	state := assistant.NewState()
	state.LoadRoute(r)
	state.SetRunning(true)
	return state
}

func TestTick_OrdersStepsAndCopiesNextSystem(t *testing.T) {
	// Arrange
	build := &ship.Build{Raw: json.RawMessage(`{"ship":"Anaconda"}`)}
	ticker := tracker.NewTicker(helpers.NewMockDistanceOracle(), helpers.NewMockBuildConverter(build))
	snapshot := journal.Snapshot{
		CommanderName: "Jameson",
		CurrentSystem: "Sol",
		Loadout:       json.RawMessage(`{"event":"Loadout","MaxJumpRange":50}`),
		MaxJumpRange:  50,
	}

	// Act
	next, effects := ticker.Tick(context.Background(), runningState(helpers.ColoniaRoute()), snapshot)

	// Assert
	assert.Equal(t, []string{
		"Found commander Jameson",
		"Entered system Sol",
		"Found ship jump range 47.5 LY",
	}, effects.Messages())
	assert.True(t, effects.Has(tracker.EffectCopy))
	assert.True(t, effects.Has(tracker.EffectPersist))
	assert.Equal(t, "Blu Thua", next.Outcome.NextSystem)
	assert.Equal(t, "Blu Thua", next.Progression.LastCopiedSystem)
	assert.Equal(t, "Sol", next.Progression.LastKnownPosition)
	assert.Equal(t, 47.5, next.ShipRange)
	assert.Equal(t, 50.0, next.ShipMaxRange)
	assert.JSONEq(t, `{"ship":"Anaconda"}`, string(next.ShipBuild))
}

func TestTick_StoppedDoesNotCopy(t *testing.T) {
	ticker := tracker.NewTicker(helpers.NewMockDistanceOracle(), nil)
	state := assistant.NewState()
	state.LoadRoute(helpers.ColoniaRoute())

	next, effects := ticker.Tick(context.Background(), state, journal.Snapshot{CurrentSystem: "Sol"})

	assert.False(t, effects.Has(tracker.EffectCopy))
	assert.Equal(t, route.OutcomeInProgress, next.Outcome.Kind)
	assert.Empty(t, next.Progression.LastCopiedSystem)
}

func TestTick_NoChangeWithoutNewInformation(t *testing.T) {
	// Arrange
	ticker := tracker.NewTicker(helpers.NewMockDistanceOracle(), nil)
	state := assistant.NewState()
	state.CommanderName = "Jameson"
	state.CurrentSystem = "Sol"

	// Act
	next, effects := ticker.Tick(context.Background(), state, journal.Snapshot{})

	// Assert
	assert.Empty(t, effects)
	assert.Equal(t, state, next)
}

func TestTick_OffRouteRecoveryLooksUpLiveDistanceOnce(t *testing.T) {
	// Arrange
	oracle := helpers.NewMockDistanceOracle()
	oracle.SetDistance("Detour", "H3", 25)
	ticker := tracker.NewTicker(oracle, nil)

	state := runningState(helpers.LinearRoute("H", 5))
	state.ShipRange = 10
	state.Progression.LastKnownPosition = "H2"
	state.Progression.LastCopiedSystem = "H3"

	// Act
	next, effects := ticker.Tick(context.Background(), state, journal.Snapshot{CurrentSystem: "Detour"})

	// Assert
	require.Equal(t, route.OutcomeInProgress, next.Outcome.Kind)
	assert.True(t, next.Outcome.OffRoute)
	assert.Equal(t, "H3", next.Outcome.NextSystem)
	assert.Equal(t, 25.0, next.Outcome.Distance)
	assert.Equal(t, 3, next.Outcome.Jumps)
	assert.True(t, next.Outcome.IsNeutron)
	assert.Equal(t, "H2", next.Progression.LastKnownPosition)
	assert.False(t, effects.Has(tracker.EffectCopy))
	assert.Equal(t, []helpers.DistanceCall{{From: "Detour", To: "H3"}}, oracle.Calls())

	// Act - parked in the same system
	again, _ := ticker.Tick(context.Background(), next, journal.Snapshot{CurrentSystem: "Detour"})

	// Assert
	assert.Equal(t, 25.0, again.Outcome.Distance)
	assert.Len(t, oracle.Calls(), 1)
}

func TestTick_OffRouteUnresolvedSystemIsUnknown(t *testing.T) {
	oracle := helpers.NewMockDistanceOracle()
	ticker := tracker.NewTicker(oracle, nil)
	state := runningState(helpers.ColoniaRoute())
	state.Progression.LastKnownPosition = "Sol"

	next, effects := ticker.Tick(context.Background(), state, journal.Snapshot{CurrentSystem: "Nowhere"})

	assert.Equal(t, route.OutcomeUnknown, next.Outcome.Kind)
	assert.False(t, effects.Has(tracker.EffectCopy))
	assert.Len(t, oracle.Calls(), 1)
	assert.True(t, next.HasRoute())
}

func TestTick_FirstContactOffRouteIsUnknown(t *testing.T) {
	oracle := helpers.NewMockDistanceOracle()
	ticker := tracker.NewTicker(oracle, nil)

	next, _ := ticker.Tick(context.Background(), runningState(helpers.ColoniaRoute()), journal.Snapshot{CurrentSystem: "Achenar"})

	assert.Equal(t, route.OutcomeUnknown, next.Outcome.Kind)
	assert.Empty(t, oracle.Calls())
}

func TestTick_DestinationCompletesRoute(t *testing.T) {
	// Arrange
	ticker := tracker.NewTicker(helpers.NewMockDistanceOracle(), nil)
	state := runningState(helpers.ColoniaRoute())
	state.Progression.LastKnownPosition = "Blu Thua"

	// Act
	next, effects := ticker.Tick(context.Background(), state, journal.Snapshot{CurrentSystem: "Colonia"})

	// Assert
	assert.False(t, next.HasRoute())
	assert.Equal(t, assistant.StatusStopped, next.Status)
	assert.Equal(t, route.OutcomeCompleted, next.Outcome.Kind)
	assert.True(t, effects.Has(tracker.EffectRouteCompleted))
	assert.Contains(t, effects.Messages(), "Route completed")
}

func TestTick_ConverterFailureKeepsPriorBuild(t *testing.T) {
	// Arrange
	converter := helpers.NewMockBuildConverter(nil)
	converter.SetError(errors.New("coriolis: 502"))
	ticker := tracker.NewTicker(helpers.NewMockDistanceOracle(), converter)
	state := assistant.NewState()
	state.ShipBuild = json.RawMessage(`{"ship":"Python"}`)
	state.ShipMaxRange = 30

	// Act
	next, effects := ticker.Tick(context.Background(), state, journal.Snapshot{
		Loadout:      json.RawMessage(`{"event":"Loadout"}`),
		MaxJumpRange: 40,
	})

	// Assert
	assert.JSONEq(t, `{"ship":"Python"}`, string(next.ShipBuild))
	assert.Equal(t, 38.0, next.ShipRange)
	assert.Contains(t, effects.Messages(), "Could not convert ship build: coriolis: 502")
}

func TestTick_SameLoadoutDoesNotConvertAgain(t *testing.T) {
	converter := helpers.NewMockBuildConverter(&ship.Build{})
	ticker := tracker.NewTicker(helpers.NewMockDistanceOracle(), converter)
	snapshot := journal.Snapshot{Loadout: json.RawMessage(`{}`), MaxJumpRange: 40.004}

	next, _ := ticker.Tick(context.Background(), assistant.NewState(), snapshot)
	_, effects := ticker.Tick(context.Background(), next, snapshot)

	assert.Equal(t, 1, converter.Calls())
	assert.Empty(t, effects)
}
