package spansh_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/spansh"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/logging"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/routing"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/ship"
	"github.com/andrescamacho/neutron-assistant-go/test/helpers"
)

func newTestClient(baseURL string) *spansh.Client {
	return spansh.NewClient(spansh.Config{
		BaseURL:            baseURL,
		SimplePollInterval: time.Millisecond,
		ExactPollInterval:  time.Millisecond,
		MaxPolls:           5,
	})
}

func TestPlanSimple_PollsUntilJobFinishes(t *testing.T) {
	// Arrange
	var polls int32
	var form map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/route", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		form = map[string]string{
			"efficiency": r.PostForm.Get("efficiency"),
			"range":      r.PostForm.Get("range"),
			"from":       r.PostForm.Get("from"),
			"to":         r.PostForm.Get("to"),
		}
		_, _ = w.Write([]byte(`{"job":"job-1","status":"queued"}`))
	})
	mux.HandleFunc("/results/job-1", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) < 3 {
			_, _ = w.Write([]byte(`{"job":"job-1","status":"queued"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok","result":{"system_jumps":[
			{"system":"Sol","distance_jumped":0,"distance_left":136.8,"jumps":0,"neutron_star":false},
			{"system":"Colonia","distance_jumped":136.8,"distance_left":0,"jumps":3,"neutron_star":false}]}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	logger := helpers.NewMockActivityLogger()
	ctx := logging.WithLogger(context.Background(), logger)

	// Act
	hops, err := newTestClient(server.URL).PlanSimple(ctx, &routing.SimpleRouteRequest{
		From: "Sol", To: "Colonia", Efficiency: 60, Range: 47.5,
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, hops, 2)
	assert.Equal(t, "Colonia", hops[1].System)
	assert.Equal(t, 3, hops[1].Jumps)
	assert.Equal(t, int32(3), atomic.LoadInt32(&polls))
	assert.Equal(t, map[string]string{"efficiency": "60", "range": "47.5", "from": "Sol", "to": "Colonia"}, form)
	assert.Contains(t, logger.Messages(), "Request sent, waiting for completion")
}

func TestPlanSimple_ErrorPayloadBecomesServiceError(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Could not find starting system"}`))
	}))
	defer server.Close()

	// Act
	_, err := newTestClient(server.URL).PlanSimple(context.Background(), &routing.SimpleRouteRequest{
		From: "Nowhere", To: "Colonia", Efficiency: 60, Range: 47.5,
	})

	// Assert
	var serviceErr *shared.RouteServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "Could not find starting system", serviceErr.Reason)
}

func TestPlanSimple_GivesUpAfterMaxPolls(t *testing.T) {
	// Arrange
	mux := http.NewServeMux()
	mux.HandleFunc("/route", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"job":"slow"}`))
	})
	mux.HandleFunc("/results/slow", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"queued"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	// Act
	_, err := newTestClient(server.URL).PlanSimple(context.Background(), &routing.SimpleRouteRequest{
		From: "Sol", To: "Colonia", Efficiency: 60, Range: 47.5,
	})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not finish after 5 polls")
}

func TestPlanExact_SendsShipParameters(t *testing.T) {
	// Arrange
	var posted map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/generic/route", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		posted = r.PostForm
		_, _ = w.Write([]byte(`{"job":"exact-1"}`))
	})
	mux.HandleFunc("/results/exact-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","result":{"jumps":[
			{"system":"Sol","distance":0,"distance_to_destination":22000,"has_neutron":false},
			{"system":"Colonia","distance":22000,"distance_to_destination":0,"has_neutron":false,"must_refuel":true}]}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	build, err := ship.ParseBuild([]byte(`{"references":[{"code":"abc"}],"components":{"standard":{"frameShiftDrive":{"class":5,"rating":"A"}}},"stats":{}}`))
	require.NoError(t, err)

	// Act
	hops, err := newTestClient(server.URL).PlanExact(context.Background(), &routing.ExactRouteRequest{
		From: "Sol", To: "Colonia", Cargo: 8, UseSupercharge: true, ExcludeSecondary: true,
		Build: build,
		Params: ship.FSDParameters{
			TankSize: 32, BaseMass: 401.13, InternalTankSize: 0.63, OptimalMass: 1693,
			MaxFuelPerJump: 5, FuelPower: 2.45, FuelMultiplier: 0.012, RangeBoost: 7.8,
		},
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, hops, 2)
	assert.True(t, hops[1].MustRefuel)
	assert.Equal(t, []string{"Sol"}, posted["source"])
	assert.Equal(t, []string{"Colonia"}, posted["destination"])
	assert.Equal(t, []string{"0"}, posted["is_supercharged"])
	assert.Equal(t, []string{"1"}, posted["use_supercharge"])
	assert.Equal(t, []string{"1"}, posted["exclude_secondary"])
	assert.Equal(t, []string{"8"}, posted["cargo"])
	assert.Equal(t, []string{"1693"}, posted["optimal_mass"])
	assert.Equal(t, []string{"401.13"}, posted["base_mass"])
	assert.Equal(t, []string{"7.8"}, posted["range_boost"])
	assert.Contains(t, posted["ship_build"][0], `"code":"abc"`)
}

func TestSearchSystems_RanksAndCaches(t *testing.T) {
	// Arrange
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "col", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`["Eol Prou","Colonia","Col 285 Sector","Colonia"]`))
	}))
	defer server.Close()
	client := newTestClient(server.URL)

	// Act
	first, err := client.SearchSystems(context.Background(), "col")
	require.NoError(t, err)
	second, err := client.SearchSystems(context.Background(), "Col")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, []string{"Colonia", "Col 285 Sector", "Eol Prou"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
