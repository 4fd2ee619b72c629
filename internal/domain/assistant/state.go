package assistant

import (
	"encoding/json"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
)

// Status is the auto-copy toggle
type Status string

const (
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

// DistanceMemo remembers the last live distance looked up for an off-route
// position, so a player parked off route does not trigger a lookup every tick.
type DistanceMemo struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Distance float64 `json:"distance"`
}

// Matches reports whether the memo holds the distance between from and to
func (m *DistanceMemo) Matches(from, to string) bool {
	return m != nil && m.From == from && m.To == to
}

// State is everything the assistant knows and persists between runs.
//
// Ownership:
//   - The poller writes the observed fields (commander, system, ship) and the
//     progression fields (Progression, Outcome, LastDistance)
//   - User commands write Route, Status and Exiting, and bump Revision
type State struct {
	CommanderName string          `json:"commander_name"`
	CurrentSystem string          `json:"current_system"`
	ShipRange     float64         `json:"ship_range"`
	ShipMaxRange  float64         `json:"ship_max_range"`
	ShipBuild     json.RawMessage `json:"ship_build,omitempty"`
	Loadout       json.RawMessage `json:"loadout,omitempty"`

	Route        *route.Route           `json:"-"`
	Progression  route.ProgressionState `json:"progression"`
	Outcome      route.Outcome          `json:"outcome"`
	LastDistance *DistanceMemo          `json:"last_distance,omitempty"`

	Status   Status `json:"status"`
	Exiting  bool   `json:"exiting"`
	Revision int64  `json:"revision"`
}

// NewState returns the state of a fresh install
func NewState() State {
	return State{Status: StatusStopped}
}

func (s State) HasRoute() bool {
	return s.Route != nil
}

func (s State) IsRunning() bool {
	return s.Status == StatusRunning
}

// LoadRoute replaces the route and resets progression. The current system is
// cleared so the next poll reports it again against the new route.
func (s *State) LoadRoute(r *route.Route) {
	s.Route = r
	s.Progression = route.ProgressionState{}
	s.Outcome = route.Unknown()
	s.LastDistance = nil
	s.CurrentSystem = ""
}

// ClearRoute drops the route and stops auto-copy
func (s *State) ClearRoute() {
	s.Route = nil
	s.Progression = route.ProgressionState{}
	s.Outcome = route.Unknown()
	s.LastDistance = nil
	s.Status = StatusStopped
}

// SetRunning toggles auto-copy. Stopping forgets the last copied system so the
// next start copies again.
func (s *State) SetRunning(running bool) {
	if running {
		s.Status = StatusRunning
		return
	}
	s.Status = StatusStopped
	s.Progression.LastCopiedSystem = ""
}

// Restore prepares a persisted state for a new process: auto-copy is off and
// the exiting flag from the previous run is dropped.
func (s *State) Restore() {
	s.SetRunning(false)
	s.Exiting = false
}
