package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

// GormRouteCacheRepository stores planner results keyed by request parameters
type GormRouteCacheRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormRouteCacheRepository creates a new route cache repository.
// If clock is nil, uses RealClock.
func NewGormRouteCacheRepository(db *gorm.DB, clock shared.Clock) *GormRouteCacheRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormRouteCacheRepository{db: db, clock: clock}
}

// Get returns the cached route records for key
func (r *GormRouteCacheRepository) Get(ctx context.Context, key string) (string, json.RawMessage, bool, error) {
	var model RouteCacheModel
	result := r.db.WithContext(ctx).Where("cache_key = ?", key).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil, false, nil
		}
		return "", nil, false, fmt.Errorf("failed to read route cache: %w", result.Error)
	}
	return model.Kind, json.RawMessage(model.Records), true, nil
}

// Put stores records under key, replacing any previous entry
func (r *GormRouteCacheRepository) Put(ctx context.Context, key, kind string, records json.RawMessage) error {
	model := &RouteCacheModel{
		Key:       key,
		Kind:      kind,
		Records:   string(records),
		CreatedAt: r.clock.Now(),
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to write route cache: %w", err)
	}
	return nil
}

// Count returns the number of cached routes
func (r *GormRouteCacheRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RouteCacheModel{}).Count(&count).Error
	return count, err
}
