package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/persistence"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/test/helpers"
)

// routeCacheContext exercises the gorm route cache on the shared test database
type routeCacheContext struct {
	repo *persistence.GormRouteCacheRepository
}

func (rcc *routeCacheContext) anEmptyRouteCache() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	rcc.repo = persistence.NewGormRouteCacheRepository(helpers.SharedTestDB,
		shared.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	return nil
}

// buildRoute makes a route of the given kind through a comma-separated system list
func buildRoute(kind, systems string) (*route.Route, error) {
	names := strings.Split(systems, ", ")
	switch route.Kind(kind) {
	case route.KindSimple:
		hops := make([]route.SimpleHop, len(names))
		for i, name := range names {
			hops[i] = route.SimpleHop{System: name, DistanceJumped: float64(i) * 50, Jumps: 1}
		}
		return route.NewSimpleRoute(hops)
	case route.KindExact:
		hops := make([]route.ExactHop, len(names))
		for i, name := range names {
			hops[i] = route.ExactHop{System: name, DistanceToDestination: float64(len(names)-1-i) * 50}
		}
		return route.NewExactRoute(hops)
	default:
		return nil, fmt.Errorf("unknown route kind %q", kind)
	}
}

func (rcc *routeCacheContext) aRouteIsCachedUnder(kind, systems, key string) error {
	r, err := buildRoute(kind, systems)
	if err != nil {
		return err
	}
	records, err := r.Records()
	if err != nil {
		return err
	}
	return rcc.repo.Put(context.Background(), key, kind, records)
}

func (rcc *routeCacheContext) loadingShouldReturn(key, kind, systems string) error {
	gotKind, records, found, err := rcc.repo.Get(context.Background(), key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("expected a cached route under %q", key)
	}
	if gotKind != kind {
		return fmt.Errorf("expected kind %q, got %q", kind, gotKind)
	}
	r, err := route.Decode(gotKind, records)
	if err != nil {
		return err
	}
	if got := strings.Join(r.Systems(), ", "); got != systems {
		return fmt.Errorf("expected route through %q, got %q", systems, got)
	}
	return nil
}

func (rcc *routeCacheContext) loadingShouldMiss(key string) error {
	_, _, found, err := rcc.repo.Get(context.Background(), key)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("expected no cached route under %q", key)
	}
	return nil
}

func (rcc *routeCacheContext) theCacheShouldHoldRoutes(expected int) error {
	count, err := rcc.repo.Count(context.Background())
	if err != nil {
		return err
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d cached routes, got %d", expected, count)
	}
	return nil
}

// InitializeRouteCacheScenario registers route cache steps
func InitializeRouteCacheScenario(ctx *godog.ScenarioContext) {
	rcc := &routeCacheContext{}

	ctx.Step(`^an empty route cache$`, rcc.anEmptyRouteCache)
	ctx.Step(`^a "([^"]*)" route through "([^"]*)" is cached under "([^"]*)"$`, rcc.aRouteIsCachedUnder)
	ctx.Step(`^loading "([^"]*)" should return a "([^"]*)" route through "([^"]*)"$`, rcc.loadingShouldReturn)
	ctx.Step(`^loading "([^"]*)" should miss$`, rcc.loadingShouldMiss)
	ctx.Step(`^the cache should hold (\d+) routes$`, rcc.theCacheShouldHoldRoutes)
}
