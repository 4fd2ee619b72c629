package shared

import (
	"fmt"
	"slices"
	"time"
)

// LifecycleStatus is the state of a long-running job
type LifecycleStatus string

const (
	LifecycleStatusPending   LifecycleStatus = "PENDING"
	LifecycleStatusRunning   LifecycleStatus = "RUNNING"
	LifecycleStatusCompleted LifecycleStatus = "COMPLETED"
	LifecycleStatusFailed    LifecycleStatus = "FAILED"
)

// lifecycleTransitions lists the allowed targets of each status; COMPLETED and
// FAILED have none
var lifecycleTransitions = map[LifecycleStatus][]LifecycleStatus{
	LifecycleStatusPending: {LifecycleStatusRunning, LifecycleStatusFailed},
	LifecycleStatusRunning: {LifecycleStatusCompleted, LifecycleStatusFailed},
}

// LifecycleStateMachine tracks a job through PENDING → RUNNING → COMPLETED/FAILED.
// Timestamps come from the injected clock. Not safe for concurrent use.
type LifecycleStateMachine struct {
	status    LifecycleStatus
	createdAt time.Time
	startedAt *time.Time
	stoppedAt *time.Time
	lastError error
	clock     Clock
}

// NewLifecycleStateMachine starts in PENDING. If clock is nil, uses RealClock.
func NewLifecycleStateMachine(clock Clock) *LifecycleStateMachine {
	if clock == nil {
		clock = NewRealClock()
	}
	return &LifecycleStateMachine{
		status:    LifecycleStatusPending,
		createdAt: clock.Now(),
		clock:     clock,
	}
}

func (sm *LifecycleStateMachine) Status() LifecycleStatus { return sm.status }
func (sm *LifecycleStateMachine) CreatedAt() time.Time    { return sm.createdAt }
func (sm *LifecycleStateMachine) StartedAt() *time.Time   { return sm.startedAt }
func (sm *LifecycleStateMachine) StoppedAt() *time.Time   { return sm.stoppedAt }
func (sm *LifecycleStateMachine) LastError() error        { return sm.lastError }

func (sm *LifecycleStateMachine) Start() error {
	return sm.transition(LifecycleStatusRunning, nil)
}

func (sm *LifecycleStateMachine) Complete() error {
	return sm.transition(LifecycleStatusCompleted, nil)
}

// Fail records err; a pending job may fail without ever starting
func (sm *LifecycleStateMachine) Fail(err error) error {
	return sm.transition(LifecycleStatusFailed, err)
}

func (sm *LifecycleStateMachine) transition(to LifecycleStatus, err error) error {
	if !slices.Contains(lifecycleTransitions[sm.status], to) {
		return fmt.Errorf("invalid transition from %s to %s", sm.status, to)
	}

	now := sm.clock.Now()
	switch to {
	case LifecycleStatusRunning:
		sm.startedAt = &now
	case LifecycleStatusCompleted, LifecycleStatusFailed:
		sm.stoppedAt = &now
		sm.lastError = err
	}
	sm.status = to
	return nil
}

// IsFinished reports whether the job reached a terminal status
func (sm *LifecycleStateMachine) IsFinished() bool {
	return len(lifecycleTransitions[sm.status]) == 0
}

// RuntimeDuration is the time spent running so far, or in total once
// finished. Zero before Start.
func (sm *LifecycleStateMachine) RuntimeDuration() time.Duration {
	if sm.startedAt == nil {
		return 0
	}
	end := sm.clock.Now()
	if sm.stoppedAt != nil {
		end = *sm.stoppedAt
	}
	return end.Sub(*sm.startedAt)
}
