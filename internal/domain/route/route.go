package route

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/pkg/utils"
)

// Route is an immutable, ordered sequence of hops produced by one planner.
//
// Invariants:
// - At least two hops (start and destination)
// - Exactly one of simple/exact is populated, matching kind
// - The first hop is the start system, the last hop is the destination
type Route struct {
	kind   Kind
	simple []SimpleHop
	exact  []ExactHop
	hops   []Hop
}

// NewSimpleRoute creates a route from neutron plotter records
func NewSimpleRoute(records []SimpleHop) (*Route, error) {
	if len(records) < 2 {
		return nil, shared.NewDegenerateRouteError(len(records))
	}
	simple := make([]SimpleHop, len(records))
	copy(simple, records)
	return &Route{
		kind:   KindSimple,
		simple: simple,
		hops:   lo.Map(simple, func(h SimpleHop, _ int) Hop { return h.View() }),
	}, nil
}

// NewExactRoute creates a route from galaxy plotter records
func NewExactRoute(records []ExactHop) (*Route, error) {
	if len(records) < 2 {
		return nil, shared.NewDegenerateRouteError(len(records))
	}
	exact := make([]ExactHop, len(records))
	copy(exact, records)
	return &Route{
		kind:  KindExact,
		exact: exact,
		hops:  lo.Map(exact, func(h ExactHop, _ int) Hop { return h.View() }),
	}, nil
}

// Decode builds a route from a kind tag and the raw planner records
func Decode(kindTag string, raw json.RawMessage) (*Route, error) {
	kind, err := ParseKind(kindTag)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindSimple:
		var records []SimpleHop
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("failed to decode simple route: %w", err)
		}
		return NewSimpleRoute(records)
	default:
		var records []ExactHop
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("failed to decode exact route: %w", err)
		}
		return NewExactRoute(records)
	}
}

// Records returns the planner records as JSON, the inverse of Decode
func (r *Route) Records() (json.RawMessage, error) {
	if r.kind == KindSimple {
		return json.Marshal(r.simple)
	}
	return json.Marshal(r.exact)
}

func (r *Route) Kind() Kind {
	return r.kind
}

// Hops returns the normalized hop sequence
func (r *Route) Hops() []Hop {
	hops := make([]Hop, len(r.hops))
	copy(hops, r.hops)
	return hops
}

// SimpleRecords returns a copy of the neutron plotter records (nil for exact routes)
func (r *Route) SimpleRecords() []SimpleHop {
	if r.simple == nil {
		return nil
	}
	out := make([]SimpleHop, len(r.simple))
	copy(out, r.simple)
	return out
}

// ExactRecords returns a copy of the galaxy plotter records (nil for simple routes)
func (r *Route) ExactRecords() []ExactHop {
	if r.exact == nil {
		return nil
	}
	out := make([]ExactHop, len(r.exact))
	copy(out, r.exact)
	return out
}

func (r *Route) Len() int {
	return len(r.hops)
}

// Systems returns the system names in route order
func (r *Route) Systems() []string {
	return lo.Map(r.hops, func(h Hop, _ int) string { return h.System })
}

// Start returns the first system of the route
func (r *Route) Start() string {
	return r.hops[0].System
}

// Destination returns the last system of the route
func (r *Route) Destination() string {
	return r.hops[len(r.hops)-1].System
}

// IndexOf returns the position of system on the route, or -1.
// Duplicate names resolve to the first occurrence.
func (r *Route) IndexOf(system string) int {
	if system == "" {
		return -1
	}
	_, index, found := lo.FindIndexOf(r.hops, func(h Hop) bool { return h.System == system })
	if !found {
		return -1
	}
	return index
}

// LegDistance returns the distance from hop i to hop i+1, rounded to two decimals.
// Simple routes report distance covered, exact routes report distance remaining.
func (r *Route) LegDistance(i int) float64 {
	if i < 0 || i+1 >= len(r.hops) {
		return 0
	}
	current, next := r.hops[i].Cumulative, r.hops[i+1].Cumulative
	if r.kind == KindExact {
		return utils.Round2(math.Abs(current - next))
	}
	return utils.Round2(next - current)
}

// TotalDistance returns the planned distance from start to destination
func (r *Route) TotalDistance() float64 {
	first, last := r.hops[0].Cumulative, r.hops[len(r.hops)-1].Cumulative
	return utils.Round2(math.Abs(last - first))
}

// TotalJumps returns the planned number of in-game jumps
func (r *Route) TotalJumps() int {
	return lo.SumBy(r.hops[1:], func(h Hop) int { return h.Jumps })
}

func (r *Route) String() string {
	return fmt.Sprintf("Route(kind=%s, %s → %s, hops=%d)",
		r.kind, r.Start(), r.Destination(), len(r.hops))
}
