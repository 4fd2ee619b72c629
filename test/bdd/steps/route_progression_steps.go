package steps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
)

// routeProgressionContext holds state for route progression scenarios
type routeProgressionContext struct {
	route   *route.Route
	state   route.ProgressionState
	outcome route.Outcome
	running bool
}

func (rpc *routeProgressionContext) reset() {
	rpc.route = nil
	rpc.state = route.ProgressionState{}
	rpc.outcome = route.Unknown()
	rpc.running = false
}

// ============================================================================
// Route Setup Steps
// ============================================================================

func (rpc *routeProgressionContext) aSimpleRoute(table *godog.Table) error {
	hops := make([]route.SimpleHop, 0, len(table.Rows))
	for _, row := range table.Rows[1:] {
		distance, err := strconv.ParseFloat(row.Cells[1].Value, 64)
		if err != nil {
			return err
		}
		jumps, err := strconv.Atoi(row.Cells[2].Value)
		if err != nil {
			return err
		}
		hops = append(hops, route.SimpleHop{
			System:         row.Cells[0].Value,
			DistanceJumped: distance,
			Jumps:          jumps,
			NeutronStar:    row.Cells[3].Value == "true",
		})
	}

	r, err := route.NewSimpleRoute(hops)
	if err != nil {
		return err
	}
	rpc.route = r
	return nil
}

func (rpc *routeProgressionContext) anExactRoute(table *godog.Table) error {
	hops := make([]route.ExactHop, 0, len(table.Rows))
	for _, row := range table.Rows[1:] {
		remaining, err := strconv.ParseFloat(row.Cells[1].Value, 64)
		if err != nil {
			return err
		}
		hops = append(hops, route.ExactHop{
			System:                row.Cells[0].Value,
			DistanceToDestination: remaining,
			HasNeutron:            row.Cells[2].Value == "true",
		})
	}

	r, err := route.NewExactRoute(hops)
	if err != nil {
		return err
	}
	rpc.route = r
	return nil
}

func (rpc *routeProgressionContext) autoCopyIsRunning() error {
	rpc.running = true
	return nil
}

// ============================================================================
// Evaluation Steps
// ============================================================================

func (rpc *routeProgressionContext) thePlayerIsIn(system string) error {
	rpc.outcome, rpc.state = route.Evaluate(rpc.route, system, rpc.state)
	return nil
}

func (rpc *routeProgressionContext) theLiveDistanceIsApplied(distance, jumpRange float64) error {
	rpc.outcome = rpc.outcome.WithLiveDistance(distance, jumpRange)
	return nil
}

func (rpc *routeProgressionContext) theNextSystemIsMarkedAsCopied() error {
	rpc.state = rpc.state.MarkCopied(rpc.outcome.NextSystem)
	return nil
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (rpc *routeProgressionContext) theNextSystemShouldBe(system string) error {
	if rpc.outcome.Kind != route.OutcomeInProgress {
		return fmt.Errorf("expected an in-progress outcome, got %s", rpc.outcome.Kind)
	}
	if rpc.outcome.NextSystem != system {
		return fmt.Errorf("expected next system %q, got %q", system, rpc.outcome.NextSystem)
	}
	return nil
}

func (rpc *routeProgressionContext) theLegShouldBe(distance float64, jumps int) error {
	if rpc.outcome.Distance != distance {
		return fmt.Errorf("expected distance %.2f, got %.2f", distance, rpc.outcome.Distance)
	}
	if rpc.outcome.Jumps != jumps {
		return fmt.Errorf("expected %d jumps, got %d", jumps, rpc.outcome.Jumps)
	}
	return nil
}

func (rpc *routeProgressionContext) theNextSystemShouldBeANeutronStar() error {
	if !rpc.outcome.IsNeutron {
		return fmt.Errorf("expected %s to be a neutron star", rpc.outcome.NextSystem)
	}
	return nil
}

func (rpc *routeProgressionContext) theProgressShouldRead(label string, percent float64) error {
	if got := rpc.outcome.ProgressLabel(); got != label {
		return fmt.Errorf("expected progress %q, got %q", label, got)
	}
	if got := rpc.outcome.ProgressPercent(); got != percent {
		return fmt.Errorf("expected %.2f percent, got %.2f", percent, got)
	}
	return nil
}

func (rpc *routeProgressionContext) theRouteShouldBeCompleted() error {
	if !rpc.outcome.IsCompleted() {
		return fmt.Errorf("expected a completed outcome, got %s", rpc.outcome.Kind)
	}
	return nil
}

func (rpc *routeProgressionContext) theOutcomeShouldBeUnknown() error {
	if rpc.outcome.Kind != route.OutcomeUnknown {
		return fmt.Errorf("expected an unknown outcome, got %s", rpc.outcome.Kind)
	}
	return nil
}

func (rpc *routeProgressionContext) theOutcomeShouldBeADetourTowards(system string) error {
	if !rpc.outcome.NeedsDistance() {
		return fmt.Errorf("expected a detour outcome, got %s", rpc.outcome.Kind)
	}
	if rpc.outcome.NextSystem != system {
		return fmt.Errorf("expected detour towards %q, got %q", system, rpc.outcome.NextSystem)
	}
	return nil
}

func (rpc *routeProgressionContext) theOutcomeShouldBeMarkedOffRoute() error {
	if !rpc.outcome.OffRoute {
		return fmt.Errorf("expected the outcome to be off route")
	}
	return nil
}

func (rpc *routeProgressionContext) theNextSystemShouldBeCopied() error {
	if !route.ShouldCopy(rpc.outcome, rpc.state, rpc.running) {
		return fmt.Errorf("expected %q to be copied", rpc.outcome.NextSystem)
	}
	return nil
}

func (rpc *routeProgressionContext) theNextSystemShouldNotBeCopied() error {
	if route.ShouldCopy(rpc.outcome, rpc.state, rpc.running) {
		return fmt.Errorf("expected %q not to be copied", rpc.outcome.NextSystem)
	}
	return nil
}

// InitializeRouteProgressionScenario registers route progression steps
func InitializeRouteProgressionScenario(ctx *godog.ScenarioContext) {
	rpc := &routeProgressionContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		rpc.reset()
		return c, nil
	})

	ctx.Step(`^a simple route:$`, rpc.aSimpleRoute)
	ctx.Step(`^an exact route:$`, rpc.anExactRoute)
	ctx.Step(`^auto copy is running$`, rpc.autoCopyIsRunning)
	ctx.Step(`^the player is in "([^"]*)"$`, rpc.thePlayerIsIn)
	ctx.Step(`^the live distance of (\d+(?:\.\d+)?) LY is applied with a jump range of (\d+(?:\.\d+)?) LY$`, rpc.theLiveDistanceIsApplied)
	ctx.Step(`^the next system is marked as copied$`, rpc.theNextSystemIsMarkedAsCopied)
	ctx.Step(`^the next system should be "([^"]*)"$`, rpc.theNextSystemShouldBe)
	ctx.Step(`^the leg should be (\d+(?:\.\d+)?) LY with (\d+) jumps$`, rpc.theLegShouldBe)
	ctx.Step(`^the next system should be a neutron star$`, rpc.theNextSystemShouldBeANeutronStar)
	ctx.Step(`^the progress should read "([^"]*)" at (\d+(?:\.\d+)?) percent$`, rpc.theProgressShouldRead)
	ctx.Step(`^the route should be completed$`, rpc.theRouteShouldBeCompleted)
	ctx.Step(`^the outcome should be unknown$`, rpc.theOutcomeShouldBeUnknown)
	ctx.Step(`^the outcome should be a detour towards "([^"]*)"$`, rpc.theOutcomeShouldBeADetourTowards)
	ctx.Step(`^the outcome should be marked off route$`, rpc.theOutcomeShouldBeMarkedOffRoute)
	ctx.Step(`^the next system should be copied$`, rpc.theNextSystemShouldBeCopied)
	ctx.Step(`^the next system should not be copied$`, rpc.theNextSystemShouldNotBeCopied)
}
