package journal_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/journal"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

func writeJournal(t *testing.T, dir, name, content string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func appendJournal(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestNewestJournal_PicksLatestModified(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	now := time.Now()
	writeJournal(t, dir, "Journal.2025-01-01T100000.01.log", "", now.Add(-time.Hour))
	newest := writeJournal(t, dir, "Journal.2025-01-02T100000.01.log", "", now)
	writeJournal(t, dir, "Status.json", "{}", now.Add(time.Hour))

	// Act
	path, err := journal.NewestJournal(dir)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, newest, path)
}

func TestNewestJournal_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		dir  func(t *testing.T) string
	}{
		{"missing directory", func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") }},
		{"no journal files", func(t *testing.T) string { return t.TempDir() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := journal.NewestJournal(tt.dir(t))

			var unavailable *shared.LogUnavailableError
			assert.ErrorAs(t, err, &unavailable)
		})
	}
}

func TestReader_ExtractsSnapshotAndSkipsMalformedLines(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	writeJournal(t, dir, "Journal.01.log",
		`{"timestamp":"3310-01-01T00:00:00Z","event":"Fileheader"}`+"\n"+
			`{"timestamp":"3310-01-01T00:00:01Z","event":"Commander","Name":"Jameson"}`+"\n"+
			`not json`+"\n"+
			`{"timestamp":"3310-01-01T00:00:02Z","event":"Loadout","Ship":"anaconda","MaxJumpRange":50}`+"\n"+
			`{"timestamp":"3310-01-01T00:00:03Z","event":"Location","StarSystem":"Sol"}`+"\n",
		time.Now())
	reader := journal.NewReader(dir)

	// Act
	snapshot, err := reader.Snapshot(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Jameson", snapshot.CommanderName)
	assert.Equal(t, "Sol", snapshot.CurrentSystem)
	assert.Equal(t, 50.0, snapshot.MaxJumpRange)
	assert.Equal(t, 47.5, snapshot.JumpRange())
	assert.True(t, snapshot.HasLoadout())
	assert.Equal(t, 1, snapshot.Skipped)
}

func TestReader_ReadsAppendedLines(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := writeJournal(t, dir, "Journal.01.log",
		`{"timestamp":"3310-01-01T00:00:00Z","event":"Location","StarSystem":"Sol"}`+"\n", time.Now())
	reader := journal.NewReader(dir)
	first, err := reader.Snapshot(context.Background())
	require.NoError(t, err)

	// Act
	appendJournal(t, path, `{"timestamp":"3310-01-01T00:01:00Z","event":"FSDJump","StarSystem":"Blu Thua"}`+"\n"+`{"timestamp":"3310-01-01T00:02:00Z","event":"FSDJump","Star`)
	second, err := reader.Snapshot(context.Background())
	require.NoError(t, err)
	appendJournal(t, path, `System":"Colonia"}`+"\n")
	third, err := reader.Snapshot(context.Background())
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "Sol", first.CurrentSystem)
	assert.Equal(t, "Blu Thua", second.CurrentSystem)
	assert.Equal(t, "Colonia", third.CurrentSystem)
	assert.Zero(t, third.Skipped)
}

func TestReader_SwitchesToNewerJournal(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	now := time.Now()
	writeJournal(t, dir, "Journal.01.log",
		`{"timestamp":"3310-01-01T00:00:00Z","event":"Commander","Name":"Jameson"}`+"\n"+
			`{"timestamp":"3310-01-01T00:00:00Z","event":"Location","StarSystem":"Sol"}`+"\n", now.Add(-time.Minute))
	reader := journal.NewReader(dir)
	_, err := reader.Snapshot(context.Background())
	require.NoError(t, err)

	// Act
	newer := writeJournal(t, dir, "Journal.02.log",
		`{"timestamp":"3310-01-02T00:00:00Z","event":"Location","StarSystem":"Colonia"}`+"\n", now)
	snapshot, err := reader.Snapshot(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, newer, snapshot.Path)
	assert.Equal(t, "Colonia", snapshot.CurrentSystem)
	assert.Empty(t, snapshot.CommanderName)
}
