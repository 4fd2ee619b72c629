package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/journal"
)

// JournalStep is one scripted answer of MockJournalSource
type JournalStep struct {
	Snapshot journal.Snapshot
	Err      error
	Panic    string
}

// MockJournalSource replays scripted snapshots, repeating the last one once
// the script is exhausted. OnRead is called after each read with the 1-based
// read count.
type MockJournalSource struct {
	mu     sync.Mutex
	steps  []JournalStep
	reads  int
	OnRead func(reads int)
}

func NewMockJournalSource(steps ...JournalStep) *MockJournalSource {
	return &MockJournalSource{steps: steps}
}

// InSystem is a shorthand step for a commander sitting in system
func InSystem(commander, system string) JournalStep {
	return JournalStep{Snapshot: journal.Snapshot{Path: "Journal.test.log", CommanderName: commander, CurrentSystem: system}}
}

func (m *MockJournalSource) Snapshot(ctx context.Context) (journal.Snapshot, error) {
	m.mu.Lock()
	m.reads++
	reads := m.reads
	var step JournalStep
	if len(m.steps) > 0 {
		index := reads - 1
		if index >= len(m.steps) {
			index = len(m.steps) - 1
		}
		step = m.steps[index]
	}
	onRead := m.OnRead
	m.mu.Unlock()

	if onRead != nil {
		onRead(reads)
	}
	if step.Panic != "" {
		panic(step.Panic)
	}
	return step.Snapshot, step.Err
}

func (m *MockJournalSource) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}
