package routecalc

import (
	"context"
	"encoding/json"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/logging"
)

// RouteCache stores planner results by request key
type RouteCache interface {
	Get(ctx context.Context, key string) (kind string, records json.RawMessage, found bool, err error)
	Put(ctx context.Context, key, kind string, records json.RawMessage) error
}

// ActivityLogReader lists recent activity log lines, newest last
type ActivityLogReader interface {
	Recent(ctx context.Context, limit int) ([]logging.Entry, error)
}

// ShipLinker builds a shareable ship link from a journal Loadout record
type ShipLinker interface {
	ImportURL(loadout json.RawMessage) (string, error)
}
