package edsm_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/edsm"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

func newServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/system", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("showCoordinates"))
		switch r.URL.Query().Get("systemName") {
		case "Sol":
			_, _ = w.Write([]byte(`{"name":"Sol","coords":{"x":0,"y":0,"z":0}}`))
		case "Alpha Centauri":
			_, _ = w.Write([]byte(`{"name":"Alpha Centauri","coords":{"x":3.03125,"y":-0.09375,"z":3.15625}}`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
}

func TestDistance_RoundsToTwoDecimals(t *testing.T) {
	// Arrange
	var calls int32
	server := newServer(t, &calls)
	defer server.Close()
	client := edsm.NewClient(edsm.Config{BaseURL: server.URL})

	// Act
	distance, err := client.Distance(context.Background(), "Sol", "Alpha Centauri")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4.38, distance)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDistance_CachesCoordinates(t *testing.T) {
	// Arrange
	var calls int32
	server := newServer(t, &calls)
	defer server.Close()
	client := edsm.NewClient(edsm.Config{BaseURL: server.URL})
	_, err := client.Distance(context.Background(), "Sol", "Alpha Centauri")
	require.NoError(t, err)

	// Act
	distance, err := client.Distance(context.Background(), "alpha centauri", "SOL")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4.38, distance)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDistance_EmptyNameIsZero(t *testing.T) {
	// Arrange
	client := edsm.NewClient(edsm.Config{BaseURL: "http://127.0.0.1:1"})

	// Act
	distance, err := client.Distance(context.Background(), "", "Sol")

	// Assert
	require.NoError(t, err)
	assert.Zero(t, distance)
}

func TestDistance_UnknownSystem(t *testing.T) {
	// Arrange
	var calls int32
	server := newServer(t, &calls)
	defer server.Close()
	client := edsm.NewClient(edsm.Config{BaseURL: server.URL})

	// Act
	_, err := client.Distance(context.Background(), "Sol", "Nowhere")

	// Assert
	var notResolved *shared.SystemNotResolvedError
	require.ErrorAs(t, err, &notResolved)
	assert.Equal(t, "Nowhere", notResolved.System)
}
