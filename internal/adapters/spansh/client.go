package spansh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jellydator/ttlcache/v3"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/httpapi"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/logging"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/routing"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

const (
	serviceName = "spansh"

	DefaultBaseURL            = "https://www.spansh.co.uk/api"
	DefaultSimplePollInterval = time.Second
	DefaultExactPollInterval  = 4 * time.Second
	DefaultMaxPolls           = 300
	DefaultSearchCacheTTL     = 10 * time.Minute
)

var errJobPending = errors.New("route job still running")

// Config configures the Spansh client
type Config struct {
	BaseURL            string
	UserAgent          string
	SimplePollInterval time.Duration
	ExactPollInterval  time.Duration
	MaxPolls           uint
	SearchCacheTTL     time.Duration
	Clock              shared.Clock
}

// Client talks to the Spansh route planners. It implements routing.SimplePlanner,
// routing.ExactPlanner and routing.SystemSearcher.
type Client struct {
	http               *httpapi.Client
	simplePollInterval time.Duration
	exactPollInterval  time.Duration
	maxPolls           uint
	searches           *ttlcache.Cache[string, []string]
}

var (
	_ routing.SimplePlanner  = (*Client)(nil)
	_ routing.ExactPlanner   = (*Client)(nil)
	_ routing.SystemSearcher = (*Client)(nil)
)

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.SimplePollInterval == 0 {
		cfg.SimplePollInterval = DefaultSimplePollInterval
	}
	if cfg.ExactPollInterval == 0 {
		cfg.ExactPollInterval = DefaultExactPollInterval
	}
	if cfg.MaxPolls == 0 {
		cfg.MaxPolls = DefaultMaxPolls
	}
	if cfg.SearchCacheTTL == 0 {
		cfg.SearchCacheTTL = DefaultSearchCacheTTL
	}

	return &Client{
		http: httpapi.NewClient(httpapi.Config{
			Service:         serviceName,
			BaseURL:         cfg.BaseURL,
			UserAgent:       cfg.UserAgent,
			RateLimit:       2,
			Burst:           2,
			BreakerFailures: 5,
			BreakerTimeout:  time.Minute,
			Clock:           cfg.Clock,
		}),
		simplePollInterval: cfg.SimplePollInterval,
		exactPollInterval:  cfg.ExactPollInterval,
		maxPolls:           cfg.MaxPolls,
		searches: ttlcache.New[string, []string](
			ttlcache.WithTTL[string, []string](cfg.SearchCacheTTL),
			ttlcache.WithDisableTouchOnHit[string, []string](),
		),
	}
}

type jobResponse struct {
	Job   string `json:"job"`
	Error string `json:"error"`
}

type resultsResponse struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Result json.RawMessage `json:"result"`
}

// PlanSimple asks the neutron plotter for a route
func (c *Client) PlanSimple(ctx context.Context, request *routing.SimpleRouteRequest) ([]route.SimpleHop, error) {
	form := url.Values{
		"efficiency": {strconv.Itoa(request.Efficiency)},
		"range":      {formatFloat(request.Range)},
		"from":       {request.From},
		"to":         {request.To},
	}

	var result struct {
		SystemJumps []route.SimpleHop `json:"system_jumps"`
	}
	if err := c.runJob(ctx, "/route", form, c.simplePollInterval, &result); err != nil {
		return nil, err
	}
	return result.SystemJumps, nil
}

// PlanExact asks the galaxy plotter for a route using the ship's FSD parameters
func (c *Client) PlanExact(ctx context.Context, request *routing.ExactRouteRequest) ([]route.ExactHop, error) {
	params := request.Params
	form := url.Values{
		"source":             {request.From},
		"destination":        {request.To},
		"is_supercharged":    {formatFlag(request.AlreadySupercharged)},
		"use_supercharge":    {formatFlag(request.UseSupercharge)},
		"use_injections":     {formatFlag(request.UseInjections)},
		"exclude_secondary":  {formatFlag(request.ExcludeSecondary)},
		"tank_size":          {formatFloat(params.TankSize)},
		"cargo":              {strconv.Itoa(request.Cargo)},
		"optimal_mass":       {strconv.Itoa(params.OptimalMass)},
		"base_mass":          {formatFloat(params.BaseMass)},
		"internal_tank_size": {formatFloat(params.InternalTankSize)},
		"max_fuel_per_jump":  {formatFloat(params.MaxFuelPerJump)},
		"range_boost":        {formatFloat(params.RangeBoost)},
		"fuel_power":         {formatFloat(params.FuelPower)},
		"fuel_multiplier":    {formatFloat(params.FuelMultiplier)},
	}
	if request.Build != nil && len(request.Build.Raw) > 0 {
		form.Set("ship_build", string(request.Build.Raw))
	}

	var result struct {
		Jumps []route.ExactHop `json:"jumps"`
	}
	if err := c.runJob(ctx, "/generic/route", form, c.exactPollInterval, &result); err != nil {
		return nil, err
	}
	return result.Jumps, nil
}

// runJob submits a planner job and polls its results until they are ready
func (c *Client) runJob(ctx context.Context, path string, form url.Values, interval time.Duration, result interface{}) error {
	var job jobResponse
	if err := c.http.Do(ctx, httpapi.Request{Method: http.MethodPost, Path: path, Form: form}, &job); err != nil {
		return c.serviceError(err)
	}
	if job.Error != "" {
		return shared.NewRouteServiceError(serviceName, job.Error)
	}
	if job.Job == "" {
		return fmt.Errorf("%s returned no job id", serviceName)
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Request sent, waiting for completion", nil)

	var results resultsResponse
	err := retry.Do(
		func() error {
			results = resultsResponse{}
			err := c.http.Do(ctx, httpapi.Request{
				Method:   http.MethodGet,
				Path:     "/results/" + job.Job,
				Endpoint: "/results",
			}, &results)
			if err != nil {
				return c.serviceError(err)
			}
			switch {
			case results.Status == "ok":
				return nil
			case results.Error != "":
				return shared.NewRouteServiceError(serviceName, results.Error)
			default:
				return errJobPending
			}
		},
		retry.Context(ctx),
		retry.Attempts(c.maxPolls),
		retry.Delay(interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errJobPending)
		}),
	)
	if errors.Is(err, errJobPending) {
		return fmt.Errorf("%s job %s did not finish after %d polls", serviceName, job.Job, c.maxPolls)
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(results.Result, result); err != nil {
		return fmt.Errorf("failed to decode %s route result: %w", serviceName, err)
	}
	return nil
}

// serviceError turns an error payload in a failed response into a RouteServiceError
func (c *Client) serviceError(err error) error {
	var statusErr *httpapi.StatusError
	if errors.As(err, &statusErr) {
		var payload jobResponse
		if json.Unmarshal(statusErr.Body, &payload) == nil && payload.Error != "" {
			return shared.NewRouteServiceError(serviceName, payload.Error)
		}
	}
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
