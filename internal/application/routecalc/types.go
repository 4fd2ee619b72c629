package routecalc

import (
	"time"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
)

// DefaultEfficiency is used when a simple route request leaves efficiency unset
const DefaultEfficiency = 60

// CalculateSimpleRouteCommand requests a neutron plotter route.
// A zero Range falls back to the ship's approximate jump range.
type CalculateSimpleRouteCommand struct {
	From       string  `json:"from" validate:"required"`
	To         string  `json:"to" validate:"required"`
	Efficiency int     `json:"efficiency" validate:"min=1,max=100"`
	Range      float64 `json:"range" validate:"gt=0"`
	Wait       bool    `json:"wait"`
}

// CalculateExactRouteCommand requests a galaxy plotter route for the current ship build
type CalculateExactRouteCommand struct {
	From                string `json:"from" validate:"required"`
	To                  string `json:"to" validate:"required"`
	Cargo               int    `json:"cargo" validate:"gte=0"`
	AlreadySupercharged bool   `json:"already_supercharged"`
	UseSupercharge      bool   `json:"use_supercharge"`
	UseInjections       bool   `json:"use_injections"`
	ExcludeSecondary    bool   `json:"exclude_secondary"`
	Wait                bool   `json:"wait"`
}

// CalculationResponse describes a started or finished calculation
type CalculationResponse struct {
	CalculationID string  `json:"calculation_id"`
	Kind          string  `json:"kind"`
	Status        string  `json:"status"`
	Hops          int     `json:"hops,omitempty"`
	CacheHit      bool    `json:"cache_hit"`
	Error         string  `json:"error,omitempty"`
	DurationSecs  float64 `json:"duration_seconds"`
}

type ClearRouteCommand struct{}

type SetAutoCopyCommand struct {
	Enabled bool `json:"enabled"`
}

type GetStatusQuery struct{}

// StatusResponse is everything the status display shows
type StatusResponse struct {
	CommanderName   string        `json:"commander_name"`
	CurrentSystem   string        `json:"current_system"`
	ShipRange       float64       `json:"ship_range"`
	ShipMaxRange    float64       `json:"ship_max_range"`
	HasShipBuild    bool          `json:"has_ship_build"`
	RouteKind       string        `json:"route_kind,omitempty"`
	RouteHops       int           `json:"route_hops"`
	Destination     string        `json:"destination,omitempty"`
	Outcome         route.Outcome `json:"outcome"`
	Progress        string        `json:"progress"`
	ProgressPercent float64       `json:"progress_percent"`
	Status          string        `json:"status"`
	Revision        int64         `json:"revision"`
}

type ListCalculationsQuery struct{}

// CalculationSummary is one entry of ListCalculationsQuery
type CalculationSummary struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Status    string     `json:"status"`
	Hops      int        `json:"hops"`
	CacheHit  bool       `json:"cache_hit"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	StoppedAt *time.Time `json:"stopped_at,omitempty"`
}

type SearchSystemsQuery struct {
	Query string `json:"q" validate:"required"`
}

type GetActivityLogQuery struct {
	Limit int `json:"limit" validate:"gte=0,lte=1000"`
}

type GetShipLinkQuery struct{}

type ShipLinkResponse struct {
	URL string `json:"url"`
}
