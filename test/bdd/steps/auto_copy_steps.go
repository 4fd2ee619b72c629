package steps

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/tracker"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/assistant"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/journal"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/test/helpers"
)

// gameLog answers every read with whatever the last step reported
type gameLog struct {
	mu       sync.Mutex
	snapshot journal.Snapshot
	err      error
}

func (g *gameLog) Snapshot(ctx context.Context) (journal.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot, g.err
}

func (g *gameLog) show(commander, system string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.snapshot = journal.Snapshot{Path: "Journal.2024-01-01T000000.01.log", CommanderName: commander, CurrentSystem: system}
	g.err = nil
}

func (g *gameLog) remove() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = shared.NewLogUnavailableError("/saved-games/Frontier Developments", "no journal files")
}

// autoCopyContext drives the poller one tick at a time
type autoCopyContext struct {
	log       *gameLog
	store     *tracker.Store
	clipboard *helpers.MockClipboard
	logger    *helpers.MockActivityLogger
	poller    *tracker.Poller
}

func (acc *autoCopyContext) reset() {
	acc.log = &gameLog{}
	acc.store = tracker.NewStore(assistant.NewState(), nil)
	acc.clipboard = helpers.NewMockClipboard()
	acc.logger = helpers.NewMockActivityLogger()
	clock := shared.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ticker := tracker.NewTicker(helpers.NewMockDistanceOracle(), nil)
	acc.poller = tracker.NewPoller(acc.log, ticker, acc.store, acc.clipboard, acc.logger, clock, time.Second)
}

func (acc *autoCopyContext) theColoniaRouteIsLoaded() error {
	_, err := acc.store.Update(context.Background(), func(state *assistant.State) error {
		state.LoadRoute(helpers.ColoniaRoute())
		return nil
	})
	return err
}

func (acc *autoCopyContext) autoCopyIsSwitchedOn() error {
	_, err := acc.store.Update(context.Background(), func(state *assistant.State) error {
		state.SetRunning(true)
		return nil
	})
	return err
}

func (acc *autoCopyContext) theGameLogShows(commander, system string) error {
	acc.log.show(commander, system)
	acc.poller.RunOnce(context.Background())
	return nil
}

func (acc *autoCopyContext) theGameLogIsMissing() error {
	acc.log.remove()
	if result := acc.poller.RunOnce(context.Background()); result != tracker.TickNoJournal {
		return fmt.Errorf("expected tick result %q, got %q", tracker.TickNoJournal, result)
	}
	return nil
}

func (acc *autoCopyContext) theClipboardShouldHold(list string) error {
	expected := strings.Split(list, ", ")
	got := acc.clipboard.Copies()
	if strings.Join(got, ", ") != strings.Join(expected, ", ") {
		return fmt.Errorf("expected clipboard copies %v, got %v", expected, got)
	}
	return nil
}

func (acc *autoCopyContext) countMessages(message string) int {
	count := 0
	for _, m := range acc.logger.Messages() {
		if m == message {
			count++
		}
	}
	return count
}

func (acc *autoCopyContext) theActivityLogShouldContain(message string) error {
	if acc.countMessages(message) == 0 {
		return fmt.Errorf("expected %q in activity log %v", message, acc.logger.Messages())
	}
	return nil
}

func (acc *autoCopyContext) theActivityLogShouldContainOnce(message string) error {
	if n := acc.countMessages(message); n != 1 {
		return fmt.Errorf("expected %q once in activity log, found %d times", message, n)
	}
	return nil
}

func (acc *autoCopyContext) noRouteShouldBeLoaded() error {
	snapshot := acc.store.Snapshot()
	if snapshot.HasRoute() {
		return fmt.Errorf("expected no route, got %s", snapshot.Route)
	}
	return nil
}

func (acc *autoCopyContext) theCurrentSystemShouldStillBe(system string) error {
	if got := acc.store.Snapshot().CurrentSystem; got != system {
		return fmt.Errorf("expected current system %q, got %q", system, got)
	}
	return nil
}

// InitializeAutoCopyScenario registers poller-driven auto copy steps
func InitializeAutoCopyScenario(ctx *godog.ScenarioContext) {
	acc := &autoCopyContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		acc.reset()
		return c, nil
	})

	ctx.Step(`^the Colonia route is loaded$`, acc.theColoniaRouteIsLoaded)
	ctx.Step(`^auto copy is switched on$`, acc.autoCopyIsSwitchedOn)
	ctx.Step(`^the game log shows "([^"]*)" in "([^"]*)"$`, acc.theGameLogShows)
	ctx.Step(`^the game log is missing$`, acc.theGameLogIsMissing)
	ctx.Step(`^the clipboard should hold "([^"]*)"$`, acc.theClipboardShouldHold)
	ctx.Step(`^the activity log should contain "([^"]*)" once$`, acc.theActivityLogShouldContainOnce)
	ctx.Step(`^the activity log should contain "([^"]*)"$`, acc.theActivityLogShouldContain)
	ctx.Step(`^no route should be loaded$`, acc.noRouteShouldBeLoaded)
	ctx.Step(`^the current system should still be "([^"]*)"$`, acc.theCurrentSystemShouldStillBe)
}
