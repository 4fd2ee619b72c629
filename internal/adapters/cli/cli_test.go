package cli_test

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/api"
	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/cli"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/logging"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/routecalc"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/test/helpers"
)

type cliFixture struct {
	mediator *helpers.MockMediator
	address  string
	dataDir  string
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	dataDir := t.TempDir()
	t.Setenv("NA_DATA_DIR", dataDir)

	med := helpers.NewMockMediator()
	ts := httptest.NewServer(api.NewServer(med, nil, api.ServerConfig{Version: "1.4.0"}, nil).Handler())
	t.Cleanup(ts.Close)
	return &cliFixture{mediator: med, address: ts.URL, dataDir: dataDir}
}

func (f *cliFixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCommand("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--address", f.address, "--socket", filepath.Join(f.dataDir, "h.sock")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestStatus_PrintsProgress(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)
	f.mediator.Respond(&routecalc.GetStatusQuery{}, &routecalc.StatusResponse{
		CommanderName:   "Jameson",
		CurrentSystem:   "Blu Thua",
		ShipRange:       61.75,
		ShipMaxRange:    65,
		RouteKind:       "simple",
		RouteHops:       3,
		Destination:     "Colonia",
		Progress:        "[2/3]",
		ProgressPercent: 66.67,
		Status:          "running",
		Outcome: route.Outcome{
			Kind:       route.OutcomeInProgress,
			NextSystem: "Colonia",
			Distance:   91.6,
			Jumps:      2,
		},
	}, nil)

	// Act
	out, err := f.run(t, "status")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Commander:      Jameson")
	assert.Contains(t, out, "Route:          simple, 3 systems to Colonia")
	assert.Contains(t, out, "Progress:       [2/3] 67%")
	assert.Contains(t, out, "Next system: Colonia (91.60 LY, 2 jumps)")
}

func TestRouteSimple_DefaultsFromCurrentSystemAndPreferences(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.dataDir, "user_settings.json"),
		[]byte(`{"default_efficiency":80}`), 0o644))
	f.mediator.Respond(&routecalc.GetStatusQuery{}, &routecalc.StatusResponse{CurrentSystem: "Sol"}, nil)
	f.mediator.Respond(&routecalc.CalculateSimpleRouteCommand{}, &routecalc.CalculationResponse{
		Kind: "simple", Status: "COMPLETED", Hops: 3,
	}, nil)

	// Act
	out, err := f.run(t, "route", "simple", "--to", "Colonia", "--wait")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded simple route of 3 systems (calculated)")
	cmd := f.mediator.LastRequest().(*routecalc.CalculateSimpleRouteCommand)
	assert.Equal(t, "Sol", cmd.From)
	assert.Equal(t, "Colonia", cmd.To)
	assert.Equal(t, 80, cmd.Efficiency)
	assert.True(t, cmd.Wait)
}

func TestRouteExact_FlagsOverridePreferences(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)
	f.mediator.Respond(&routecalc.CalculateExactRouteCommand{}, &routecalc.CalculationResponse{
		CalculationID: "c-1", Kind: "exact", Status: "RUNNING",
	}, nil)

	// Act
	out, err := f.run(t, "route", "exact", "--from", "Sol", "--to", "Colonia", "--cargo", "16", "--no-supercharge")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Calculating exact route (id c-1)")
	cmd := f.mediator.LastRequest().(*routecalc.CalculateExactRouteCommand)
	assert.Equal(t, 16, cmd.Cargo)
	assert.False(t, cmd.UseSupercharge)
	assert.True(t, cmd.ExcludeSecondary, "preference default kept")
	assert.False(t, cmd.UseInjections)
}

func TestRoute_ServiceErrorIsReturnedVerbatim(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)
	f.mediator.Respond(&routecalc.CalculateSimpleRouteCommand{}, nil,
		shared.NewRouteServiceError("spansh", "Could not find starting system"))

	// Act
	_, err := f.run(t, "route", "simple", "--from", "Nowhere", "--to", "Colonia")

	// Assert
	require.Error(t, err)
	assert.Equal(t, "spansh: Could not find starting system", err.Error())
}

func TestAutoCopy_RejectsUnknownArgument(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)

	// Act
	_, err := f.run(t, "autocopy", "maybe")

	// Assert
	require.Error(t, err)
	assert.Empty(t, f.mediator.Requests())
}

func TestAutoCopy_On(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)
	f.mediator.Respond(&routecalc.SetAutoCopyCommand{}, &routecalc.StatusResponse{Status: "running"}, nil)

	// Act
	out, err := f.run(t, "autocopy", "on")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Auto copy running\n", out)
	assert.True(t, f.mediator.LastRequest().(*routecalc.SetAutoCopyCommand).Enabled)
}

func TestLogs_PrintsLines(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)
	f.mediator.Respond(&routecalc.GetActivityLogQuery{}, []logging.Entry{
		{Level: logging.LevelInfo, Message: "Copied system Blu Thua to clipboard", Timestamp: time.Now()},
	}, nil)

	// Act
	out, err := f.run(t, "logs", "-n", "5")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "[INFO] Copied system Blu Thua to clipboard")
	assert.Equal(t, 5, f.mediator.LastRequest().(*routecalc.GetActivityLogQuery).Limit)
}

func TestSystemsSearch_JoinsArguments(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)
	f.mediator.Respond(&routecalc.SearchSystemsQuery{}, []string{"Col 285 Sector"}, nil)

	// Act
	out, err := f.run(t, "systems", "search", "Col", "285")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Col 285 Sector\n", out)
	assert.Equal(t, "Col 285", f.mediator.LastRequest().(*routecalc.SearchSystemsQuery).Query)
}

func TestConfigShow_RendersYAML(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)

	// Act
	out, err := f.run(t, "config", "show")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "poller:")
	assert.Contains(t, out, "default_efficiency: 60")
	assert.Contains(t, out, "user_settings.json")
}

func TestConfigSetEfficiency_SavesPreference(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)

	// Act
	_, err := f.run(t, "config", "set-efficiency", "75")
	_, badErr := f.run(t, "config", "set-efficiency", "150")

	// Assert
	require.NoError(t, err)
	require.Error(t, badErr)
	data, readErr := os.ReadFile(filepath.Join(f.dataDir, "user_settings.json"))
	require.NoError(t, readErr)
	assert.Contains(t, string(data), `"default_efficiency": 75`)
}
