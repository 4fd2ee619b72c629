package tracker

import (
	"context"
	"errors"
	"strconv"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/metrics"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/logging"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/assistant"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/journal"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/routing"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/pkg/utils"
)

// Ticker turns one journal snapshot into the next assistant state plus the
// side effects to carry out. It never touches the clipboard, the activity log
// or the database itself; its only I/O is the off-route distance lookup and
// the ship build conversion.
type Ticker struct {
	oracle    routing.DistanceOracle
	converter routing.BuildConverter
}

// NewTicker creates a ticker. converter may be nil to skip ship build updates.
func NewTicker(oracle routing.DistanceOracle, converter routing.BuildConverter) *Ticker {
	return &Ticker{oracle: oracle, converter: converter}
}

// Tick applies the snapshot in a fixed order: commander, current system, ship
// build, route progression. A failing step only skips the steps that need its
// output.
func (t *Ticker) Tick(ctx context.Context, state assistant.State, snapshot journal.Snapshot) (assistant.State, Effects) {
	var effects Effects

	t.updateCommander(&state, snapshot, &effects)
	t.updateCurrentSystem(&state, snapshot, &effects)
	t.updateShip(ctx, &state, snapshot, &effects)
	t.updateRoute(ctx, &state, &effects)

	return state, effects
}

func (t *Ticker) updateCommander(state *assistant.State, snapshot journal.Snapshot, effects *Effects) {
	if snapshot.CommanderName == "" || snapshot.CommanderName == state.CommanderName {
		return
	}
	state.CommanderName = snapshot.CommanderName
	effects.add(info("Found commander %s", snapshot.CommanderName))
	effects.persist()
}

func (t *Ticker) updateCurrentSystem(state *assistant.State, snapshot journal.Snapshot, effects *Effects) {
	if snapshot.CurrentSystem == "" || snapshot.CurrentSystem == state.CurrentSystem {
		return
	}
	state.CurrentSystem = snapshot.CurrentSystem
	effects.add(info("Entered system %s", snapshot.CurrentSystem))
	effects.persist()
}

func (t *Ticker) updateShip(ctx context.Context, state *assistant.State, snapshot journal.Snapshot, effects *Effects) {
	if !snapshot.HasLoadout() {
		return
	}
	maxRange := utils.Round2(snapshot.MaxJumpRange)
	if maxRange == 0 || maxRange == state.ShipMaxRange {
		return
	}

	state.ShipMaxRange = maxRange
	state.ShipRange = snapshot.JumpRange()
	state.Loadout = snapshot.Loadout
	effects.add(info("Found ship jump range %s LY", strconv.FormatFloat(state.ShipRange, 'f', -1, 64)))
	effects.persist()

	if t.converter == nil {
		return
	}
	build, err := t.converter.Convert(ctx, snapshot.Loadout)
	if err != nil {
		effects.add(logLine(logging.LevelWarning, "Could not convert ship build: %v", err))
		return
	}
	state.ShipBuild = build.Raw
}

func (t *Ticker) updateRoute(ctx context.Context, state *assistant.State, effects *Effects) {
	if !state.HasRoute() {
		state.Outcome = route.Unknown()
		return
	}

	outcome, progression := route.Evaluate(state.Route, state.CurrentSystem, state.Progression)

	if outcome.NeedsDistance() {
		distance, err := t.liveDistance(ctx, state, outcome.NextSystem, effects)
		if err != nil {
			metrics.RecordOffRouteRecovery("failed")
			var unresolved *shared.SystemNotResolvedError
			if errors.As(err, &unresolved) {
				effects.add(logLine(logging.LevelDebug, "System %s not found, retrying next poll", unresolved.System))
			} else {
				effects.add(logLine(logging.LevelWarning, "Could not calculate distance to %s: %v", outcome.NextSystem, err))
			}
			state.Outcome = route.Unknown()
			return
		}
		metrics.RecordOffRouteRecovery("ok")
		outcome = outcome.WithLiveDistance(distance, state.ShipRange)
	}

	if outcome.IsCompleted() {
		state.ClearRoute()
		state.Outcome = outcome
		effects.add(info("Route completed"))
		effects.add(Effect{Kind: EffectRouteCompleted, System: outcome.Destination})
		effects.persist()
		return
	}

	if route.ShouldCopy(outcome, progression, state.IsRunning()) {
		effects.add(copyToClipboard(outcome.NextSystem, progression.LastCopiedSystem))
		progression = progression.MarkCopied(outcome.NextSystem)
	}

	if progression != state.Progression {
		effects.persist()
	}
	state.Progression = progression
	state.Outcome = outcome
}

// liveDistance returns the distance from the current system to next, reusing
// the memo while the player stays put.
func (t *Ticker) liveDistance(ctx context.Context, state *assistant.State, next string, effects *Effects) (float64, error) {
	if state.LastDistance.Matches(state.CurrentSystem, next) {
		return state.LastDistance.Distance, nil
	}

	distance, err := t.oracle.Distance(ctx, state.CurrentSystem, next)
	if err != nil {
		return 0, err
	}
	state.LastDistance = &assistant.DistanceMemo{From: state.CurrentSystem, To: next, Distance: distance}
	effects.persist()
	return distance, nil
}
