package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/routing"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/ship"
)

// DistanceCall records one DistanceOracle lookup
type DistanceCall struct {
	From string
	To   string
}

// MockDistanceOracle answers distances from a fixed table keyed "from|to"
type MockDistanceOracle struct {
	mu        sync.Mutex
	distances map[string]float64
	calls     []DistanceCall
	err       error
}

func NewMockDistanceOracle() *MockDistanceOracle {
	return &MockDistanceOracle{distances: make(map[string]float64)}
}

// SetDistance configures the distance between two systems in both directions
func (m *MockDistanceOracle) SetDistance(from, to string, distance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.distances[from+"|"+to] = distance
	m.distances[to+"|"+from] = distance
}

// SetError makes every lookup fail with err
func (m *MockDistanceOracle) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockDistanceOracle) Distance(ctx context.Context, from, to string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, DistanceCall{From: from, To: to})
	if m.err != nil {
		return 0, m.err
	}
	if from == "" || to == "" {
		return 0, nil
	}
	distance, ok := m.distances[from+"|"+to]
	if !ok {
		return 0, shared.NewSystemNotResolvedError(from)
	}
	return distance, nil
}

// Calls returns the lookups made so far
func (m *MockDistanceOracle) Calls() []DistanceCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DistanceCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockBuildConverter returns a canned ship build for any loadout
type MockBuildConverter struct {
	mu    sync.Mutex
	build *ship.Build
	err   error
	calls int
}

func NewMockBuildConverter(build *ship.Build) *MockBuildConverter {
	return &MockBuildConverter{build: build}
}

func (m *MockBuildConverter) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockBuildConverter) Convert(ctx context.Context, loadout json.RawMessage) (*ship.Build, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.build, nil
}

func (m *MockBuildConverter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockFSDCatalog serves a fixed FSD catalog
type MockFSDCatalog struct {
	Specs []ship.FSDSpec
	Err   error
}

func (m *MockFSDCatalog) FSDSpecs(ctx context.Context) ([]ship.FSDSpec, error) {
	return m.Specs, m.Err
}

// MockPlanner implements both route planners. A non-nil Block channel holds
// every call until it is closed, to test in-flight guards.
type MockPlanner struct {
	mu sync.Mutex

	SimpleHops []route.SimpleHop
	ExactHops  []route.ExactHop
	Err        error
	Block      chan struct{}

	simpleRequests []routing.SimpleRouteRequest
	exactRequests  []routing.ExactRouteRequest
}

func NewMockPlanner() *MockPlanner {
	return &MockPlanner{}
}

func (m *MockPlanner) PlanSimple(ctx context.Context, request *routing.SimpleRouteRequest) ([]route.SimpleHop, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.simpleRequests = append(m.simpleRequests, *request)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.SimpleHops, nil
}

func (m *MockPlanner) PlanExact(ctx context.Context, request *routing.ExactRouteRequest) ([]route.ExactHop, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exactRequests = append(m.exactRequests, *request)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ExactHops, nil
}

func (m *MockPlanner) wait(ctx context.Context) error {
	if m.Block == nil {
		return nil
	}
	select {
	case <-m.Block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockPlanner) SimpleRequests() []routing.SimpleRouteRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]routing.SimpleRouteRequest(nil), m.simpleRequests...)
}

func (m *MockPlanner) ExactRequests() []routing.ExactRouteRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]routing.ExactRouteRequest(nil), m.exactRequests...)
}

// ColoniaHops is the three-system neutron route used across tests
func ColoniaHops() []route.SimpleHop {
	return []route.SimpleHop{
		{System: "Sol", DistanceJumped: 0, DistanceLeft: 136.8, Jumps: 0, NeutronStar: false},
		{System: "Blu Thua", DistanceJumped: 45.2, DistanceLeft: 91.6, Jumps: 1, NeutronStar: true},
		{System: "Colonia", DistanceJumped: 136.8, DistanceLeft: 0, Jumps: 2, NeutronStar: false},
	}
}

// ColoniaRoute builds the route from ColoniaHops
func ColoniaRoute() *route.Route {
	r, err := route.NewSimpleRoute(ColoniaHops())
	if err != nil {
		panic(fmt.Sprintf("invalid fixture route: %v", err))
	}
	return r
}

// LinearRoute builds a simple route of n systems named prefix0..prefixN-1, 10 LY apart
func LinearRoute(prefix string, n int) *route.Route {
	hops := make([]route.SimpleHop, n)
	for i := range hops {
		hops[i] = route.SimpleHop{
			System:         fmt.Sprintf("%s%d", prefix, i),
			DistanceJumped: float64(i) * 10,
			Jumps:          1,
			NeutronStar:    i%2 == 1,
		}
	}
	r, err := route.NewSimpleRoute(hops)
	if err != nil {
		panic(fmt.Sprintf("invalid fixture route: %v", err))
	}
	return r
}
