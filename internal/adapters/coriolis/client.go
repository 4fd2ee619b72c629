package coriolis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/httpapi"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/routing"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/ship"
)

const (
	serviceName = "coriolis"

	DefaultConvertURL = "https://coriolis-api.gobidev.de/convert"
	DefaultFSDDataURL = "https://raw.githubusercontent.com/EDCD/coriolis-data/master/modules/standard/frame_shift_drive.json"
	DefaultCatalogTTL = 24 * time.Hour

	catalogKey = "fsd"
)

type Config struct {
	ConvertURL string
	FSDDataURL string
	UserAgent  string
	CatalogTTL time.Duration
	Clock      shared.Clock
}

// Client converts journal loadouts into Coriolis builds and serves the FSD
// module catalog.
type Client struct {
	http       *httpapi.Client
	convertURL string
	fsdDataURL string
	catalog    *ttlcache.Cache[string, []ship.FSDSpec]
}

var (
	_ routing.BuildConverter = (*Client)(nil)
	_ routing.FSDCatalog     = (*Client)(nil)
)

func NewClient(cfg Config) *Client {
	if cfg.ConvertURL == "" {
		cfg.ConvertURL = DefaultConvertURL
	}
	if cfg.FSDDataURL == "" {
		cfg.FSDDataURL = DefaultFSDDataURL
	}
	if cfg.CatalogTTL == 0 {
		cfg.CatalogTTL = DefaultCatalogTTL
	}
	return &Client{
		http: httpapi.NewClient(httpapi.Config{
			Service:         serviceName,
			UserAgent:       cfg.UserAgent,
			BreakerFailures: 3,
			BreakerTimeout:  time.Minute,
			Clock:           cfg.Clock,
		}),
		convertURL: cfg.ConvertURL,
		fsdDataURL: cfg.FSDDataURL,
		catalog: ttlcache.New[string, []ship.FSDSpec](
			ttlcache.WithTTL[string, []ship.FSDSpec](cfg.CatalogTTL),
		),
	}
}

// Convert posts a journal Loadout record to the converter and parses the build
func (c *Client) Convert(ctx context.Context, loadout json.RawMessage) (*ship.Build, error) {
	if len(bytes.TrimSpace(loadout)) == 0 {
		return nil, fmt.Errorf("empty loadout")
	}

	var body []byte
	if err := c.http.PostJSON(ctx, c.convertURL, loadout, &body); err != nil {
		return nil, fmt.Errorf("failed to convert loadout: %w", err)
	}
	return ship.ParseBuild(body)
}

// FSDSpecs returns the frame shift drive catalog, fetched at most once per TTL
func (c *Client) FSDSpecs(ctx context.Context) ([]ship.FSDSpec, error) {
	if item := c.catalog.Get(catalogKey); item != nil {
		return item.Value(), nil
	}

	var data struct {
		FSD []ship.FSDSpec `json:"fsd"`
	}
	if err := c.http.Get(ctx, c.fsdDataURL, nil, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch FSD catalog: %w", err)
	}
	if len(data.FSD) == 0 {
		return nil, fmt.Errorf("FSD catalog is empty")
	}

	c.catalog.Set(catalogKey, data.FSD, ttlcache.DefaultTTL)
	return data.FSD, nil
}
