package clipboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/clipboard"
)

func TestRecorder_KeepsCopiesInOrder(t *testing.T) {
	// Arrange
	recorder := clipboard.NewRecorder()
	_, ok := recorder.Last()
	require.False(t, ok)

	// Act
	require.NoError(t, recorder.Copy("Blu Thua"))
	require.NoError(t, recorder.Copy("Colonia"))

	// Assert
	last, ok := recorder.Last()
	assert.True(t, ok)
	assert.Equal(t, "Colonia", last)
	assert.Equal(t, []string{"Blu Thua", "Colonia"}, recorder.Copies())
}
