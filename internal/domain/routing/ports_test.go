package routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/routing"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/ship"
)

func TestSimpleRouteRequest_CacheKey(t *testing.T) {
	request := &routing.SimpleRouteRequest{From: "Sol", To: "Sagittarius A*", Efficiency: 60, Range: 58.17}

	assert.Equal(t, "NeutronAssistantSimpleRoute-60-58.17-Sol-Sagittarius_A", request.CacheKey())
}

func TestExactRouteRequest_CacheKey(t *testing.T) {
	request := &routing.ExactRouteRequest{
		From:             "Sol",
		To:               "Colonia",
		Cargo:            4,
		UseSupercharge:   true,
		ExcludeSecondary: true,
		Build:            &ship.Build{},
	}

	assert.Equal(t, "NeutronAssistantExactRoute-Sol-Colonia-d41d8-4-N-Y-N-Y", request.CacheKey())
}
