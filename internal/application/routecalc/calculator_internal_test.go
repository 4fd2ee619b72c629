package routecalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/calculation"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/test/helpers"
)

func TestCalculator_RejectedTransitionIsLogged(t *testing.T) {
	// Arrange
	logger := helpers.NewMockActivityLogger()
	clock := shared.NewMockClock(time.Date(3310, 1, 1, 0, 0, 0, 0, time.UTC))
	c := NewCalculator(nil, nil, logger, clock)
	calc := calculation.NewCalculation(route.KindSimple, "Sol", "Colonia", clock)

	// Act
	err := calc.Complete(3, false)
	c.transitioned(calc, "complete", err)
	c.transitioned(calc, "start", calc.Start())

	// Assert
	require.Error(t, err)
	messages := logger.Messages()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "Calculation "+calc.ID()+" could not complete")
}
