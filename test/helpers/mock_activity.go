package helpers

import (
	"errors"
	"sync"
)

// LogLine is one recorded activity log call
type LogLine struct {
	Level    string
	Message  string
	Metadata map[string]interface{}
}

// MockActivityLogger records activity log lines in memory
type MockActivityLogger struct {
	mu    sync.Mutex
	lines []LogLine
}

func NewMockActivityLogger() *MockActivityLogger {
	return &MockActivityLogger{}
}

func (m *MockActivityLogger) Log(level, message string, metadata map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, LogLine{Level: level, Message: message, Metadata: metadata})
}

func (m *MockActivityLogger) Lines() []LogLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogLine(nil), m.lines...)
}

// Messages returns only the message texts in order
func (m *MockActivityLogger) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	messages := make([]string, 0, len(m.lines))
	for _, line := range m.lines {
		messages = append(messages, line.Message)
	}
	return messages
}

// MockClipboard records copied texts and can be told to fail
type MockClipboard struct {
	mu     sync.Mutex
	copies []string
	fail   bool
}

func NewMockClipboard() *MockClipboard {
	return &MockClipboard{}
}

func (m *MockClipboard) SetFailing(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *MockClipboard) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("clipboard unavailable")
	}
	m.copies = append(m.copies, text)
	return nil
}

func (m *MockClipboard) Copies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.copies...)
}
