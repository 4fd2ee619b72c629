package persistence

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/logging"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

// GormActivityLogRepository is the daemon's ActivityLogger. Lines go to the
// process log and to the activity_logs table, where the CLI reads them.
// Identical lines within the dedup window are written once.
type GormActivityLogRepository struct {
	db     *gorm.DB
	clock  shared.Clock
	logger *slog.Logger

	dedupCache   map[string]time.Time // key: level+message, value: last logged time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

var _ logging.ActivityLogger = (*GormActivityLogRepository)(nil)

// NewGormActivityLogRepository creates a new activity log repository.
// If clock is nil, uses RealClock; if logger is nil, lines are only stored.
func NewGormActivityLogRepository(db *gorm.DB, clock shared.Clock, logger *slog.Logger) *GormActivityLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormActivityLogRepository{
		db:           db,
		clock:        clock,
		logger:       logger,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  60 * time.Second,
		dedupMaxSize: 10000,
	}
}

// Log writes an activity line
func (r *GormActivityLogRepository) Log(level, message string, metadata map[string]interface{}) {
	now := r.clock.Now()
	if r.isDuplicate(level+"|"+message, now) {
		return
	}

	r.logToProcess(level, message, metadata)

	var metadataJSON string
	if len(metadata) > 0 {
		if jsonBytes, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	entry := &ActivityLogModel{
		Timestamp: now,
		Level:     level,
		Message:   message,
		Metadata:  metadataJSON,
	}
	if err := r.db.Create(entry).Error; err != nil && r.logger != nil {
		r.logger.Warn("failed to store activity log line", "error", err)
	}
}

func (r *GormActivityLogRepository) isDuplicate(key string, now time.Time) bool {
	r.dedupMu.Lock()
	defer r.dedupMu.Unlock()

	if lastLogged, exists := r.dedupCache[key]; exists && now.Sub(lastLogged) < r.dedupWindow {
		return true
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(now)
	}
	r.dedupCache[key] = now
	return false
}

// cleanupDedupCache must be called while holding dedupMu
func (r *GormActivityLogRepository) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, timestamp := range r.dedupCache {
		if timestamp.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

func (r *GormActivityLogRepository) logToProcess(level, message string, metadata map[string]interface{}) {
	if r.logger == nil {
		return
	}
	attrs := make([]any, 0, 2+2*len(metadata))
	attrs = append(attrs, "component", "activity")
	for key, value := range metadata {
		attrs = append(attrs, key, value)
	}

	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		r.logger.Debug(message, attrs...)
	case logging.LevelWarning:
		r.logger.Warn(message, attrs...)
	case logging.LevelError:
		r.logger.Error(message, attrs...)
	default:
		r.logger.Info(message, attrs...)
	}
}

// Recent returns up to limit lines, oldest first
func (r *GormActivityLogRepository) Recent(ctx context.Context, limit int) ([]logging.Entry, error) {
	var models []ActivityLogModel
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]logging.Entry, len(models))
	for i, model := range models {
		entries[len(models)-1-i] = logging.Entry{
			Level:     model.Level,
			Message:   model.Message,
			Timestamp: model.Timestamp,
		}
	}
	return entries, nil
}
