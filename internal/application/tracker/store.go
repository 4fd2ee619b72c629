package tracker

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/assistant"
)

// Store owns the assistant state. The poller works on snapshots and commits
// them back; user commands mutate through Update. Every Update bumps the
// revision, and a commit based on an older revision is rejected so a slow
// tick can never overwrite a route that was loaded meanwhile.
type Store struct {
	mu    sync.Mutex
	state assistant.State
	repo  assistant.Repository
}

// NewStore creates a store holding initial. repo may be nil for an in-memory store.
func NewStore(initial assistant.State, repo assistant.Repository) *Store {
	return &Store{state: initial, repo: repo}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() assistant.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies fn under the store lock, bumps the revision and persists the
// result. The state is left untouched when fn fails.
func (s *Store) Update(ctx context.Context, fn func(state *assistant.State) error) (assistant.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	if err := fn(&next); err != nil {
		return s.state, err
	}
	next.Revision = s.state.Revision + 1
	s.state = next

	return s.state, s.saveLocked(ctx)
}

// Commit replaces the state with next if no Update happened since the
// snapshot at baseRevision was taken. It reports whether next was accepted.
func (s *Store) Commit(next assistant.State, baseRevision int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Revision != baseRevision {
		return false
	}
	next.Revision = baseRevision
	next.Exiting = s.state.Exiting
	s.state = next
	return true
}

// RevertCopy restores the last copied system to previous when a clipboard
// write of system failed, so the next tick tries again. It is a no-op if the
// progression moved on in the meantime.
func (s *Store) RevertCopy(system, previous string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Progression.LastCopiedSystem == system {
		s.state.Progression.LastCopiedSystem = previous
	}
}

// Persist saves the current state
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// SetExiting raises the cooperative shutdown flag checked by the poller
func (s *Store) SetExiting() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Exiting = true
}

func (s *Store) Exiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Exiting
}

func (s *Store) saveLocked(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, s.state); err != nil {
		return fmt.Errorf("failed to save assistant state: %w", err)
	}
	return nil
}
