package mediator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/mediator"
)

type pingQuery struct{ name string }

type pingHandler struct{}

func (h *pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return "pong " + request.(*pingQuery).name, nil
}

func TestMediator_SendRunsMiddlewareInOrder(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, &pingHandler{}))

	var order []string
	trace := func(label string) mediator.Middleware {
		return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			order = append(order, label)
			return next(ctx, request)
		}
	}
	m.Use(trace("outer"))
	m.Use(trace("inner"))

	// Act
	response, err := m.Send(context.Background(), &pingQuery{name: "Sol"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pong Sol", response)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestMediator_Errors(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, &pingHandler{}))

	assert.Error(t, mediator.RegisterHandler[*pingQuery](m, &pingHandler{}))
	assert.Error(t, m.Register(nil, &pingHandler{}))

	_, err := m.Send(context.Background(), nil)
	assert.Error(t, err)

	_, err = m.Send(context.Background(), "unregistered")
	assert.Error(t, err)
}

func TestMediator_HandlerFuncAndRequestName(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	handler := mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return mediator.RequestName(request), nil
	})
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, handler))

	// Act
	response, err := m.Send(context.Background(), &pingQuery{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pingQuery", response)
	assert.Equal(t, "UnknownRequest", mediator.RequestName(nil))
}
