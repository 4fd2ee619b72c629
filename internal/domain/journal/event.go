package journal

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event names the assistant reacts to
const (
	EventCommander = "Commander"
	EventLoadout   = "Loadout"
)

// Event is one line of the game journal. Only the fields the assistant reads
// are decoded; Raw keeps the full record.
type Event struct {
	Timestamp    time.Time       `json:"timestamp"`
	Event        string          `json:"event"`
	StarSystem   string          `json:"StarSystem,omitempty"`
	Name         string          `json:"Name,omitempty"`
	Commander    string          `json:"Commander,omitempty"`
	MaxJumpRange float64         `json:"MaxJumpRange,omitempty"`
	Raw          json.RawMessage `json:"-"`
}

// ParseEvent decodes a single journal line
func ParseEvent(line []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(line, &event); err != nil {
		return Event{}, fmt.Errorf("malformed journal line: %w", err)
	}
	if event.Event == "" {
		return Event{}, fmt.Errorf("journal line has no event name")
	}
	event.Raw = append(json.RawMessage(nil), line...)
	return event, nil
}
