package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// System writes to the desktop clipboard
type System struct{}

// Available reports whether a clipboard utility is usable on this machine
func (System) Available() bool {
	return !clipboard.Unsupported
}

func (System) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}
	return nil
}

// Recorder keeps copied text in memory. The daemon falls back to it on
// headless machines so the status API still shows what would be copied.
type Recorder struct {
	mu     sync.Mutex
	copies []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Copy(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.copies = append(r.copies, text)
	return nil
}

// Last returns the most recent copied text
func (r *Recorder) Last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.copies) == 0 {
		return "", false
	}
	return r.copies[len(r.copies)-1], true
}

// Copies returns everything copied so far
func (r *Recorder) Copies() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.copies...)
}
