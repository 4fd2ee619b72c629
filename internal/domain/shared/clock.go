package shared

import (
	"sync"
	"time"
)

// Clock is injected wherever code reads the time or waits, so tests can drive
// time by hand
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock reports UTC wall-clock time
type RealClock struct{}

func (RealClock) Now() time.Time        { return time.Now().UTC() }
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

func NewRealClock() Clock {
	return RealClock{}
}

// MockClock only moves when told to. Sleep returns immediately after advancing
// the time, so a poll loop under test runs as fast as it can. Safe for
// concurrent use.
type MockClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
}

// NewMockClock starts at start, or at the current time when start is zero
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *MockClock) Sleep(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	m.sleeps++
}

// Advance moves time forward without counting as a sleep
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Sleeps is the number of Sleep calls so far
func (m *MockClock) Sleeps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sleeps
}
