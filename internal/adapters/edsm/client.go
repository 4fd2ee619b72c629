package edsm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/httpapi"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/routing"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/pkg/utils"
)

const (
	serviceName = "edsm"

	DefaultBaseURL  = "https://www.edsm.net/api-v1"
	DefaultCacheTTL = time.Hour
)

// Coordinates are galactic coordinates in light years
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceTo returns the straight-line distance to other
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	dx, dy, dz := other.X-c.X, other.Y-c.Y, other.Z-c.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

type Config struct {
	BaseURL   string
	UserAgent string
	CacheTTL  time.Duration
	Clock     shared.Clock
}

// Client is the EDSM distance oracle. System coordinates never change, so they
// are cached by lower-cased name.
type Client struct {
	http   *httpapi.Client
	coords *ttlcache.Cache[string, Coordinates]
}

var _ routing.DistanceOracle = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return &Client{
		http: httpapi.NewClient(httpapi.Config{
			Service:         serviceName,
			BaseURL:         cfg.BaseURL,
			UserAgent:       cfg.UserAgent,
			RateLimit:       1,
			Burst:           4,
			BreakerFailures: 5,
			BreakerTimeout:  time.Minute,
			Clock:           cfg.Clock,
		}),
		coords: ttlcache.New[string, Coordinates](
			ttlcache.WithTTL[string, Coordinates](cfg.CacheTTL),
		),
	}
}

// Distance returns the distance between two systems rounded to two decimals.
// An empty name on either side yields 0 without a lookup.
func (c *Client) Distance(ctx context.Context, from, to string) (float64, error) {
	if from == "" || to == "" {
		return 0, nil
	}

	var a, b Coordinates
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = c.Coordinates(gctx, from)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = c.Coordinates(gctx, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return utils.Round2(a.DistanceTo(b)), nil
}

// Coordinates looks up a system's coordinates
func (c *Client) Coordinates(ctx context.Context, system string) (Coordinates, error) {
	key := strings.ToLower(system)
	if item := c.coords.Get(key); item != nil {
		return item.Value(), nil
	}

	var body []byte
	query := url.Values{"systemName": {system}, "showCoordinates": {"1"}}
	if err := c.http.Get(ctx, "/system", query, &body); err != nil {
		return Coordinates{}, fmt.Errorf("failed to look up %s: %w", system, err)
	}

	// unknown systems come back as an empty array
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] == '[' {
		return Coordinates{}, shared.NewSystemNotResolvedError(system)
	}

	var response struct {
		Name   string       `json:"name"`
		Coords *Coordinates `json:"coords"`
	}
	if err := json.Unmarshal(trimmed, &response); err != nil {
		return Coordinates{}, fmt.Errorf("failed to decode %s coordinates: %w", system, err)
	}
	if response.Coords == nil {
		return Coordinates{}, shared.NewSystemNotResolvedError(system)
	}

	c.coords.Set(key, *response.Coords, ttlcache.DefaultTTL)
	return *response.Coords, nil
}
