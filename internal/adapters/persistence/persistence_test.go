package persistence_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/persistence"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/logging"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/assistant"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/test/helpers"
)

var epoch = time.Date(3310, 1, 1, 0, 0, 0, 0, time.UTC)

func TestAssistantStateRepository_LoadWithoutRowReturnsFreshState(t *testing.T) {
	// Arrange
	repo := persistence.NewGormAssistantStateRepository(helpers.NewTestDB(t), shared.NewMockClock(epoch), nil)

	// Act
	state, err := repo.Load(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, assistant.StatusStopped, state.Status)
	assert.False(t, state.HasRoute())
}

func TestAssistantStateRepository_RoundTripKeepsRoute(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := persistence.NewGormAssistantStateRepository(helpers.NewTestDB(t), shared.NewMockClock(epoch), nil)
	state := assistant.NewState()
	state.CommanderName = "Jameson"
	state.ShipRange = 61.75
	state.ShipMaxRange = 65
	state.ShipBuild = json.RawMessage(`{"name":"Anaconda"}`)
	state.LoadRoute(helpers.ColoniaRoute())
	state.Progression.LastKnownPosition = "Blu Thua"
	state.SetRunning(true)
	state.Revision = 7

	// Act
	require.NoError(t, repo.Save(ctx, state))
	state.Revision = 8
	require.NoError(t, repo.Save(ctx, state))
	loaded, err := repo.Load(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Jameson", loaded.CommanderName)
	assert.Equal(t, 61.75, loaded.ShipRange)
	assert.JSONEq(t, `{"name":"Anaconda"}`, string(loaded.ShipBuild))
	assert.Equal(t, "Blu Thua", loaded.Progression.LastKnownPosition)
	assert.Equal(t, assistant.StatusRunning, loaded.Status)
	assert.Equal(t, int64(8), loaded.Revision)
	require.True(t, loaded.HasRoute())
	assert.Equal(t, route.KindSimple, loaded.Route.Kind())
	assert.Equal(t, []string{"Sol", "Blu Thua", "Colonia"}, loaded.Route.Systems())
}

func TestAssistantStateRepository_UnreadableRouteIsDropped(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := helpers.NewTestDB(t)
	var logs bytes.Buffer
	repo := persistence.NewGormAssistantStateRepository(db, shared.NewMockClock(epoch), slog.New(slog.NewTextHandler(&logs, nil)))
	state := assistant.NewState()
	state.CommanderName = "Jameson"
	state.ShipRange = 61.75
	state.LoadRoute(helpers.ColoniaRoute())
	state.Progression.LastKnownPosition = "Blu Thua"
	state.SetRunning(true)
	require.NoError(t, repo.Save(ctx, state))
	require.NoError(t, db.Model(&persistence.AssistantStateModel{}).Where("1 = 1").Update("route_records", "{not json").Error)

	// Act
	loaded, err := repo.Load(ctx)

	// Assert
	require.NoError(t, err)
	assert.False(t, loaded.HasRoute())
	assert.Empty(t, loaded.Progression.LastKnownPosition)
	assert.Equal(t, assistant.StatusStopped, loaded.Status)
	assert.Equal(t, "Jameson", loaded.CommanderName)
	assert.Equal(t, 61.75, loaded.ShipRange)
	assert.Contains(t, logs.String(), "dropping unreadable stored route")
}

func TestRouteCacheRepository_MissThenHit(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := persistence.NewGormRouteCacheRepository(helpers.NewTestDB(t), shared.NewMockClock(epoch))
	records, err := helpers.ColoniaRoute().Records()
	require.NoError(t, err)

	// Act
	_, _, found, missErr := repo.Get(ctx, "60|65|Sol|Colonia")
	putErr := repo.Put(ctx, "60|65|Sol|Colonia", "simple", records)
	overwriteErr := repo.Put(ctx, "60|65|Sol|Colonia", "simple", records)
	kind, cached, hit, hitErr := repo.Get(ctx, "60|65|Sol|Colonia")
	count, countErr := repo.Count(ctx)

	// Assert
	require.NoError(t, missErr)
	require.NoError(t, putErr)
	require.NoError(t, overwriteErr)
	require.NoError(t, hitErr)
	require.NoError(t, countErr)
	assert.False(t, found)
	assert.True(t, hit)
	assert.Equal(t, "simple", kind)
	assert.JSONEq(t, string(records), string(cached))
	assert.Equal(t, int64(1), count)
}

func TestActivityLogRepository_DeduplicatesWithinWindow(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := shared.NewMockClock(epoch)
	repo := persistence.NewGormActivityLogRepository(helpers.NewTestDB(t), clock, nil)

	// Act
	repo.Log(logging.LevelInfo, "Entered system Sol", nil)
	clock.Advance(30 * time.Second)
	repo.Log(logging.LevelInfo, "Entered system Sol", nil)
	repo.Log(logging.LevelWarning, "Entered system Sol", nil)
	clock.Advance(31 * time.Second)
	repo.Log(logging.LevelInfo, "Entered system Sol", map[string]interface{}{"system": "Sol"})
	entries, err := repo.Recent(ctx, 10)

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, logging.LevelInfo, entries[0].Level)
	assert.Equal(t, logging.LevelWarning, entries[1].Level)
	assert.Equal(t, epoch.Add(61*time.Second), entries[2].Timestamp.UTC())
}

func TestActivityLogRepository_RecentReturnsNewestOldestFirst(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := shared.NewMockClock(epoch)
	repo := persistence.NewGormActivityLogRepository(helpers.NewTestDB(t), clock, nil)
	for _, msg := range []string{"Found commander Jameson", "Entered system Sol", "Copied system Blu Thua to clipboard"} {
		repo.Log(logging.LevelInfo, msg, nil)
		clock.Advance(time.Second)
	}

	// Act
	entries, err := repo.Recent(ctx, 2)

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Entered system Sol", entries[0].Message)
	assert.Equal(t, "Copied system Blu Thua to clipboard", entries[1].Message)
}
