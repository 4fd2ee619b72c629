package journal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/journal"
)

func parseAll(t *testing.T, lines ...string) []journal.Event {
	t.Helper()
	events := make([]journal.Event, 0, len(lines))
	for _, line := range lines {
		event, err := journal.ParseEvent([]byte(line))
		require.NoError(t, err)
		events = append(events, event)
	}
	return events
}

func TestExtract_DerivesSystemCommanderAndLoadout(t *testing.T) {
	// Arrange
	events := parseAll(t,
		`{"timestamp":"2024-01-01T10:00:00Z","event":"Fileheader","part":1}`,
		`{"timestamp":"2024-01-01T10:00:01Z","event":"Commander","FID":"F1","Name":"Jameson"}`,
		`{"timestamp":"2024-01-01T10:00:02Z","event":"LoadGame","Commander":"Someone Else"}`,
		`{"timestamp":"2024-01-01T10:00:03Z","event":"Location","StarSystem":"Sol"}`,
		`{"timestamp":"2024-01-01T10:00:04Z","event":"Loadout","Ship":"anaconda","MaxJumpRange":40.0}`,
		`{"timestamp":"2024-01-01T10:05:00Z","event":"FSDJump","StarSystem":"Blu Thua"}`,
		`{"timestamp":"2024-01-01T10:06:00Z","event":"Loadout","Ship":"anaconda","MaxJumpRange":61.234}`,
		`{"timestamp":"2024-01-01T10:07:00Z","event":"FSSDiscoveryScan","Progress":0.5}`,
	)

	// Act
	snapshot := journal.Extract(events)

	// Assert
	assert.Equal(t, "Blu Thua", snapshot.CurrentSystem)
	assert.Equal(t, "Jameson", snapshot.CommanderName)
	assert.True(t, snapshot.HasLoadout())
	assert.Equal(t, 61.234, snapshot.MaxJumpRange)
	assert.Equal(t, 58.17, snapshot.JumpRange())
	assert.Contains(t, string(snapshot.Loadout), `"MaxJumpRange":61.234`)
}

func TestExtract_CommanderFromFieldWhenNoCommanderEvent(t *testing.T) {
	events := parseAll(t,
		`{"timestamp":"2024-01-01T10:00:02Z","event":"LoadGame","Commander":"Jameson"}`,
		`{"timestamp":"2024-01-01T10:00:03Z","event":"Commander","Name":"Late"}`,
	)

	snapshot := journal.Extract(events)

	assert.Equal(t, "Jameson", snapshot.CommanderName)
	assert.Empty(t, snapshot.CurrentSystem)
	assert.False(t, snapshot.HasLoadout())
}

func TestExtract_EmptyJournal(t *testing.T) {
	snapshot := journal.Extract(nil)

	assert.Equal(t, journal.Snapshot{}, snapshot)
}

func TestParseEvent_RejectsMalformedLines(t *testing.T) {
	_, err := journal.ParseEvent([]byte(`{"event":`))
	assert.Error(t, err)

	_, err = journal.ParseEvent([]byte(`{"timestamp":"2024-01-01T10:00:00Z"}`))
	assert.Error(t, err)
}
