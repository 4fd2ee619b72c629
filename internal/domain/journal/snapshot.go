package journal

import (
	"context"
	"encoding/json"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/ship"
)

// Snapshot holds the facts derived from the newest journal
type Snapshot struct {
	Path          string
	CurrentSystem string
	CommanderName string
	Loadout       json.RawMessage
	MaxJumpRange  float64
	Skipped       int
}

// HasLoadout reports whether a Loadout record was seen
func (s Snapshot) HasLoadout() bool {
	return len(s.Loadout) > 0
}

// JumpRange returns the approximate laden jump range of the latest loadout
func (s Snapshot) JumpRange() float64 {
	return ship.ApproximateJumpRange(s.MaxJumpRange)
}

// Source produces the freshest journal snapshot.
// Implementations return a *shared.LogUnavailableError when no journal can be read.
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Extract derives a snapshot from events in journal order
func Extract(events []Event) Snapshot {
	var snapshot Snapshot
	snapshot.Apply(events)
	return snapshot
}

// Apply folds events, in journal order, into the snapshot.
//
// The current system is the StarSystem of the last event carrying one. The
// commander is taken from the first Commander event, or the first event with
// a Commander field. The latest Loadout event wins.
func (s *Snapshot) Apply(events []Event) {
	for _, event := range events {
		if event.StarSystem != "" {
			s.CurrentSystem = event.StarSystem
		}

		if s.CommanderName == "" {
			switch {
			case event.Event == EventCommander && event.Name != "":
				s.CommanderName = event.Name
			case event.Commander != "":
				s.CommanderName = event.Commander
			}
		}

		if event.Event == EventLoadout {
			s.Loadout = event.Raw
			s.MaxJumpRange = event.MaxJumpRange
		}
	}
}
