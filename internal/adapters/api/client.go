package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/github"
	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/httpapi"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/logging"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/routecalc"
)

// Error is a failed control API call, decoded from ErrorResponse
type Error struct {
	StatusCode int
	Type       string
	Field      string
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Client talks to a running daemon's control API
type Client struct {
	http *httpapi.Client
}

// NewClient creates a client for the daemon listening on address (host:port)
func NewClient(address string, timeout time.Duration) *Client {
	base := address
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{http: httpapi.NewClient(httpapi.Config{
		Service:    "daemon",
		BaseURL:    base,
		Timeout:    timeout,
		MaxRetries: -1,
	})}
}

func (c *Client) do(ctx context.Context, req httpapi.Request, result interface{}) error {
	err := c.http.Do(ctx, req, result)
	var statusErr *httpapi.StatusError
	if errors.As(err, &statusErr) {
		var body ErrorResponse
		if json.Unmarshal(statusErr.Body, &body) == nil && body.Error != "" {
			return &Error{StatusCode: statusErr.StatusCode, Type: body.Type, Field: body.Field, Message: body.Error}
		}
	}
	if err != nil {
		return fmt.Errorf("daemon request failed (is neutron-daemon running?): %w", err)
	}
	return nil
}

func (c *Client) Status(ctx context.Context) (*routecalc.StatusResponse, error) {
	var resp routecalc.StatusResponse
	if err := c.do(ctx, httpapi.Request{Method: http.MethodGet, Path: "/status"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Version(ctx context.Context) (string, error) {
	var resp map[string]string
	if err := c.do(ctx, httpapi.Request{Method: http.MethodGet, Path: "/version"}, &resp); err != nil {
		return "", err
	}
	return resp["version"], nil
}

// CalculateSimpleRoute starts a neutron plotter calculation
func (c *Client) CalculateSimpleRoute(ctx context.Context, cmd routecalc.CalculateSimpleRouteCommand) (*routecalc.CalculationResponse, error) {
	var resp routecalc.CalculationResponse
	if err := c.do(ctx, httpapi.Request{Method: http.MethodPost, Path: "/routes/simple", JSON: cmd}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CalculateExactRoute starts a galaxy plotter calculation
func (c *Client) CalculateExactRoute(ctx context.Context, cmd routecalc.CalculateExactRouteCommand) (*routecalc.CalculationResponse, error) {
	var resp routecalc.CalculationResponse
	if err := c.do(ctx, httpapi.Request{Method: http.MethodPost, Path: "/routes/exact", JSON: cmd}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ClearRoute(ctx context.Context) (*routecalc.StatusResponse, error) {
	var resp routecalc.StatusResponse
	if err := c.do(ctx, httpapi.Request{Method: http.MethodDelete, Path: "/route"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SetAutoCopy(ctx context.Context, enabled bool) (*routecalc.StatusResponse, error) {
	var resp routecalc.StatusResponse
	req := httpapi.Request{Method: http.MethodPost, Path: "/autocopy", JSON: routecalc.SetAutoCopyCommand{Enabled: enabled}}
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logs returns up to limit activity lines, oldest first; 0 means the daemon default
func (c *Client) Logs(ctx context.Context, limit int) ([]logging.Entry, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var resp []logging.Entry
	if err := c.do(ctx, httpapi.Request{Method: http.MethodGet, Path: "/logs", Query: query}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Calculations(ctx context.Context) ([]routecalc.CalculationSummary, error) {
	var resp []routecalc.CalculationSummary
	if err := c.do(ctx, httpapi.Request{Method: http.MethodGet, Path: "/calculations"}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) SearchSystems(ctx context.Context, q string) ([]string, error) {
	var resp []string
	req := httpapi.Request{Method: http.MethodGet, Path: "/systems", Query: url.Values{"q": {q}}}
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ShipLink(ctx context.Context) (string, error) {
	var resp routecalc.ShipLinkResponse
	if err := c.do(ctx, httpapi.Request{Method: http.MethodGet, Path: "/ship/coriolis-url"}, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *Client) CheckForUpdate(ctx context.Context) (*github.UpdateInfo, error) {
	var resp github.UpdateInfo
	if err := c.do(ctx, httpapi.Request{Method: http.MethodGet, Path: "/update"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
