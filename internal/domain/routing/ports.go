package routing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/ship"
	"github.com/andrescamacho/neutron-assistant-go/pkg/utils"
)

// SimplePlanner computes neutron-boosted routes from an efficiency and a jump range
type SimplePlanner interface {
	PlanSimple(ctx context.Context, request *SimpleRouteRequest) ([]route.SimpleHop, error)
}

// ExactPlanner computes physics-exact routes from a full ship build
type ExactPlanner interface {
	PlanExact(ctx context.Context, request *ExactRouteRequest) ([]route.ExactHop, error)
}

// DistanceOracle returns the straight-line distance in light years between two
// systems, rounded to two decimals. An empty name yields 0.
type DistanceOracle interface {
	Distance(ctx context.Context, from, to string) (float64, error)
}

// BuildConverter turns a journal Loadout record into a Coriolis ship build
type BuildConverter interface {
	Convert(ctx context.Context, loadout json.RawMessage) (*ship.Build, error)
}

// FSDCatalog lists the frame shift drive modules known to Coriolis
type FSDCatalog interface {
	FSDSpecs(ctx context.Context) ([]ship.FSDSpec, error)
}

// SystemSearcher returns system names matching a partial name
type SystemSearcher interface {
	SearchSystems(ctx context.Context, query string) ([]string, error)
}

// DTOs for routing operations

type SimpleRouteRequest struct {
	From       string  `json:"from" validate:"required"`
	To         string  `json:"to" validate:"required"`
	Efficiency int     `json:"efficiency" validate:"min=1,max=100"`
	Range      float64 `json:"range" validate:"gt=0"`
}

// CacheKey identifies the request in the route cache
func (r *SimpleRouteRequest) CacheKey() string {
	return fmt.Sprintf("NeutronAssistantSimpleRoute-%d-%s-%s-%s",
		r.Efficiency, formatRange(r.Range), utils.SystemSlug(r.From), utils.SystemSlug(r.To))
}

type ExactRouteRequest struct {
	From                string `json:"from" validate:"required"`
	To                  string `json:"to" validate:"required"`
	Cargo               int    `json:"cargo" validate:"gte=0"`
	AlreadySupercharged bool   `json:"already_supercharged"`
	UseSupercharge      bool   `json:"use_supercharge"`
	UseInjections       bool   `json:"use_injections"`
	ExcludeSecondary    bool   `json:"exclude_secondary"`

	// Filled by the calculation handler from the stored ship build
	Build  *ship.Build        `json:"-"`
	Params ship.FSDParameters `json:"-"`
}

// CacheKey identifies the request in the route cache
func (r *ExactRouteRequest) CacheKey() string {
	hash := ""
	if r.Build != nil {
		hash = r.Build.CodeHash()
	}
	return fmt.Sprintf("NeutronAssistantExactRoute-%s-%s-%s-%d-%s-%s-%s-%s",
		utils.SystemSlug(r.From), utils.SystemSlug(r.To), hash, r.Cargo,
		flag(r.AlreadySupercharged), flag(r.UseSupercharge), flag(r.UseInjections), flag(r.ExcludeSecondary))
}

func flag(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

func formatRange(v float64) string {
	return fmt.Sprintf("%g", v)
}
