package route

import (
	"fmt"

	"github.com/andrescamacho/neutron-assistant-go/pkg/utils"
)

// ProgressionState is the engine state carried across polls and persisted by the caller.
// The zero value is the fresh state used right after a route is loaded.
type ProgressionState struct {
	LastKnownPosition string `json:"last_known_route_position"`
	LastCopiedSystem  string `json:"last_copied_system"`
}

// MarkCopied records that system was written to the clipboard
func (s ProgressionState) MarkCopied(system string) ProgressionState {
	s.LastCopiedSystem = system
	return s
}

// OutcomeKind discriminates the Outcome variants
type OutcomeKind int

const (
	// OutcomeUnknown means there is nothing to display this tick
	OutcomeUnknown OutcomeKind = iota
	// OutcomeInProgress carries the next hop details
	OutcomeInProgress
	// OutcomeCompleted means the player reached the destination
	OutcomeCompleted
	// OutcomeDetour is an off-route outcome still waiting for its live distance.
	// Resolve it with WithLiveDistance before display.
	OutcomeDetour
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeInProgress:
		return "in_progress"
	case OutcomeCompleted:
		return "completed"
	case OutcomeDetour:
		return "detour"
	default:
		return "unknown"
	}
}

// Outcome is the result of one progression evaluation.
//
// OffRoute is set when the player is not on the planned path. In that case
// IsNeutron is the planned next hop's flag and Jumps is an estimate derived
// from the ship's jump range, not a planner value.
type Outcome struct {
	Kind        OutcomeKind `json:"kind"`
	NextSystem  string      `json:"next_system,omitempty"`
	Distance    float64     `json:"distance"`
	Jumps       int         `json:"jumps"`
	IsNeutron   bool        `json:"is_neutron"`
	Position    int         `json:"position_index"`
	TotalHops   int         `json:"total_hops"`
	Destination string      `json:"destination,omitempty"`
	OffRoute    bool        `json:"off_route"`
}

// Unknown returns the blank outcome
func Unknown() Outcome {
	return Outcome{Kind: OutcomeUnknown}
}

// Completed returns the destination-reached outcome
func Completed(r *Route) Outcome {
	return Outcome{
		Kind:        OutcomeCompleted,
		Position:    r.Len(),
		TotalHops:   r.Len(),
		Destination: r.Destination(),
	}
}

func (o Outcome) IsInProgress() bool { return o.Kind == OutcomeInProgress }
func (o Outcome) IsCompleted() bool  { return o.Kind == OutcomeCompleted }
func (o Outcome) NeedsDistance() bool {
	return o.Kind == OutcomeDetour
}

// ProgressLabel renders the position as "[pos/total]"
func (o Outcome) ProgressLabel() string {
	if o.TotalHops == 0 {
		return ""
	}
	return fmt.Sprintf("[%d/%d]", o.Position, o.TotalHops)
}

// ProgressPercent returns the share of the route already covered
func (o Outcome) ProgressPercent() float64 {
	return ProgressPercent(o.Position, o.TotalHops)
}

// WithLiveDistance resolves a detour outcome with the distance between the
// player's current system and the planned next hop. Other outcomes are
// returned unchanged.
func (o Outcome) WithLiveDistance(distance, jumpRange float64) Outcome {
	if o.Kind != OutcomeDetour {
		return o
	}
	o.Kind = OutcomeInProgress
	o.Distance = utils.Round2(distance)
	o.Jumps = EstimateJumps(distance, jumpRange)
	return o
}

// Evaluate reconciles the route with the player's current system.
//
// On-route, the next hop comes straight from the route and the state's last
// known position moves to current. Off-route with a known last position, the
// result is an OutcomeDetour pointing at the hop after that position and the
// state is left as is. Evaluate performs no I/O.
func Evaluate(r *Route, current string, state ProgressionState) (Outcome, ProgressionState) {
	if r == nil || current == "" {
		return Unknown(), state
	}

	if i := r.IndexOf(current); i >= 0 {
		if i == r.Len()-1 {
			return Completed(r), state
		}
		state.LastKnownPosition = current
		return r.outcomeAt(i, r.LegDistance(i), r.hops[i+1].Jumps, false), state
	}

	if state.LastKnownPosition == "" {
		return Unknown(), state
	}

	i := r.IndexOf(state.LastKnownPosition)
	if i < 0 {
		return Unknown(), state
	}
	if i+1 >= r.Len() {
		return Completed(r), state
	}

	detour := r.outcomeAt(i, 0, 0, true)
	detour.Kind = OutcomeDetour
	return detour, state
}

func (r *Route) outcomeAt(i int, distance float64, jumps int, offRoute bool) Outcome {
	next := r.hops[i+1]
	return Outcome{
		Kind:        OutcomeInProgress,
		NextSystem:  next.System,
		Distance:    distance,
		Jumps:       jumps,
		IsNeutron:   next.Neutron,
		Position:    i + 1,
		TotalHops:   r.Len(),
		Destination: r.Destination(),
		OffRoute:    offRoute,
	}
}

// EstimateJumps is the coarse off-route jump estimate: distance over jump range
// rounded half to even, plus one if that falls short of the distance.
// A zero jump range yields 0 before the correction.
func EstimateJumps(distance, jumpRange float64) int {
	jumps := 0
	if jumpRange != 0 {
		jumps = utils.RoundHalfEven(distance / jumpRange)
	}
	if float64(jumps)*jumpRange < distance {
		jumps++
	}
	return jumps
}

// ProgressPercent returns (position-1)/(total-1) as a percentage rounded to two decimals
func ProgressPercent(position, total int) float64 {
	if total <= 1 || position < 1 {
		return 0
	}
	return utils.Round2(float64(position-1) / float64(total-1) * 100)
}

// ShouldCopy is the clipboard gate: copy only an in-progress next system that
// differs from the last copied one, and only while auto-copy is running.
func ShouldCopy(o Outcome, state ProgressionState, running bool) bool {
	return running && o.Kind == OutcomeInProgress && o.NextSystem != "" && o.NextSystem != state.LastCopiedSystem
}
