package assistant

import "context"

// Repository persists the assistant state between runs
type Repository interface {
	// Load returns the saved state, or NewState() when nothing was saved yet
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}
