package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrNotRunning is returned by Running when no live daemon owns the file
var ErrNotRunning = errors.New("daemon is not running")

// PIDFile keeps a single neutron-daemon per data directory
type PIDFile struct {
	path string
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current PID, failing if a live process already holds the file.
// Stale or unreadable files are replaced.
func (p *PIDFile) Acquire() error {
	if pid, err := p.Running(); err == nil {
		return fmt.Errorf("daemon is already running (PID %d)", pid)
	} else if !errors.Is(err, ErrNotRunning) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Running returns the PID recorded in the file if that process is alive.
// Stale files are removed.
func (p *PIDFile) Running() (int, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, ErrNotRunning
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read existing PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || !isProcessRunning(pid) {
		_ = os.Remove(p.path)
		return 0, ErrNotRunning
	}
	return pid, nil
}

// KillExisting sends SIGTERM to the daemon holding the file and removes it
func (p *PIDFile) KillExisting() error {
	pid, err := p.Running()
	if errors.Is(err, ErrNotRunning) {
		return nil
	}
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find daemon process %d: %w", pid, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to stop daemon process %d: %w", pid, err)
	}
	return p.Release()
}

// Release removes the PID file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning probes pid with signal 0
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		// exists, owned by someone else
		return true
	default:
		return false
	}
}
