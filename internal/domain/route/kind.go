package route

import (
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

// Kind identifies which external planner produced a route. It selects the hop
// record shape and the jump-count rule.
type Kind string

const (
	// KindSimple routes come from the efficiency-based neutron plotter.
	// Cumulative distance grows from 0 and every hop carries its own jump count.
	KindSimple Kind = "simple"

	// KindExact routes come from the physics-exact galaxy plotter.
	// Cumulative distance is the distance remaining and every hop is one jump.
	KindExact Kind = "exact"
)

// ParseKind converts a persisted kind tag into a Kind
func ParseKind(tag string) (Kind, error) {
	switch Kind(tag) {
	case KindSimple, KindExact:
		return Kind(tag), nil
	default:
		return "", shared.NewUnsupportedRouteKindError(tag)
	}
}

func (k Kind) String() string {
	return string(k)
}
