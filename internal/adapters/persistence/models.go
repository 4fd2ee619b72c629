package persistence

import (
	"time"
)

// assistantStateID is the primary key of the single assistant_state row
const assistantStateID = 1

// AssistantStateModel represents the assistant_state table. It holds one row.
type AssistantStateModel struct {
	ID                int       `gorm:"column:id;primaryKey"`
	CommanderName     string    `gorm:"column:commander_name"`
	CurrentSystem     string    `gorm:"column:current_system"`
	ShipRange         float64   `gorm:"column:ship_range;not null;default:0"`
	ShipMaxRange      float64   `gorm:"column:ship_max_range;not null;default:0"`
	ShipBuild         string    `gorm:"column:ship_build;type:text"` // JSON as text
	Loadout           string    `gorm:"column:loadout;type:text"`    // JSON as text
	RouteKind         string    `gorm:"column:route_kind"`
	RouteRecords      string    `gorm:"column:route_records;type:text"` // JSON array as text
	LastKnownPosition string    `gorm:"column:last_known_position"`
	LastCopiedSystem  string    `gorm:"column:last_copied_system"`
	Status            string    `gorm:"column:status;not null"`
	Revision          int64     `gorm:"column:revision;not null;default:0"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (AssistantStateModel) TableName() string {
	return "assistant_state"
}

// RouteCacheModel represents the route_cache table
type RouteCacheModel struct {
	Key       string    `gorm:"column:cache_key;primaryKey"`
	Kind      string    `gorm:"column:kind;not null"`
	Records   string    `gorm:"column:records;type:text;not null"` // JSON array as text
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (RouteCacheModel) TableName() string {
	return "route_cache"
}

// ActivityLogModel represents the activity_logs table
type ActivityLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index"`
	Level     string    `gorm:"column:level;not null"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"` // JSON as text
}

func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// AllModels lists every table for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&AssistantStateModel{},
		&RouteCacheModel{},
		&ActivityLogModel{},
	}
}
