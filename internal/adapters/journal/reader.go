package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	domain "github.com/andrescamacho/neutron-assistant-go/internal/domain/journal"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

// Reader implements journal.Source over the game's journal directory. It
// follows the newest journal and only parses the bytes appended since the last
// read; a new or truncated file is read from the start.
type Reader struct {
	dir string

	mu       sync.Mutex
	path     string
	offset   int64
	pending  []byte
	snapshot domain.Snapshot
}

var _ domain.Source = (*Reader)(nil)

// NewReader creates a reader for dir, or the platform default when dir is empty
func NewReader(dir string) *Reader {
	if dir == "" {
		dir = DefaultDirectory()
	}
	return &Reader{dir: dir}
}

// Directory returns the journal directory being watched
func (r *Reader) Directory() string {
	return r.dir
}

// Snapshot returns the facts of the newest journal
func (r *Reader) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	path, err := NewestJournal(r.dir)
	if err != nil {
		return domain.Snapshot{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if path != r.path {
		r.reset(path)
	}
	if err := r.readAppended(); err != nil {
		return domain.Snapshot{}, err
	}

	return r.snapshot, nil
}

func (r *Reader) reset(path string) {
	r.path = path
	r.offset = 0
	r.pending = nil
	r.snapshot = domain.Snapshot{Path: path}
}

func (r *Reader) readAppended() error {
	file, err := os.Open(r.path)
	if err != nil {
		return shared.NewLogUnavailableError(r.path, "cannot open journal")
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return shared.NewLogUnavailableError(r.path, "cannot stat journal")
	}
	if info.Size() < r.offset {
		r.reset(r.path)
	}
	if info.Size() == r.offset {
		return nil
	}

	if _, err := file.Seek(r.offset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek journal: %w", err)
	}
	appended, err := io.ReadAll(file)
	if err != nil {
		return shared.NewLogUnavailableError(r.path, "cannot read journal")
	}
	r.offset += int64(len(appended))

	data := append(r.pending, appended...)
	complete := data
	r.pending = nil
	if lastNewline := bytes.LastIndexByte(data, '\n'); lastNewline < len(data)-1 {
		// a trailing record without newline is kept until it is valid JSON
		tail := data[lastNewline+1:]
		if !json.Valid(bytes.TrimSpace(tail)) {
			r.pending = append([]byte(nil), tail...)
			complete = data[:lastNewline+1]
		}
	}

	events, skipped := parseLines(complete)
	r.snapshot.Apply(events)
	r.snapshot.Skipped += skipped
	return nil
}

// parseLines decodes newline separated journal records, skipping blank and
// malformed lines
func parseLines(data []byte) ([]domain.Event, int) {
	var events []domain.Event
	skipped := 0
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		event, err := domain.ParseEvent(line)
		if err != nil {
			skipped++
			continue
		}
		events = append(events, event)
	}
	return events, skipped
}
