package github_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/github"
)

func newReleaseServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/Gobidev/EDNeutronAssistant/releases/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"tag_name":"` + tag + `","name":"release"}`))
	}))
}

func TestCheckForUpdate(t *testing.T) {
	tests := []struct {
		name      string
		latest    string
		current   string
		available bool
	}{
		{"same version", "v1.4", "v1.4", false},
		{"prefix ignored", "v1.4", "1.4", false},
		{"newer release", "v1.5", "v1.4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			server := newReleaseServer(t, tt.latest)
			defer server.Close()
			client := github.NewClient(github.Config{BaseURL: server.URL})

			// Act
			info, err := client.CheckForUpdate(context.Background(), tt.current)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.latest, info.Latest)
			assert.Equal(t, tt.available, info.Available)
		})
	}
}
