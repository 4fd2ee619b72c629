package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/httpapi"
)

const (
	DefaultBaseURL = "https://api.github.com"
	DefaultRepo    = "Gobidev/EDNeutronAssistant"
)

type Config struct {
	BaseURL   string
	Repo      string
	UserAgent string
}

// UpdateInfo is the result of an update check
type UpdateInfo struct {
	Current   string `json:"current"`
	Latest    string `json:"latest"`
	Available bool   `json:"available"`
}

// Client checks GitHub releases for a newer version
type Client struct {
	http *httpapi.Client
	repo string
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Repo == "" {
		cfg.Repo = DefaultRepo
	}
	return &Client{
		http: httpapi.NewClient(httpapi.Config{
			Service:    "github",
			BaseURL:    cfg.BaseURL,
			UserAgent:  cfg.UserAgent,
			Timeout:    10 * time.Second,
			MaxRetries: 1,
		}),
		repo: cfg.Repo,
	}
}

// LatestRelease returns the tag name of the latest published release
func (c *Client) LatestRelease(ctx context.Context) (string, error) {
	var release struct {
		TagName string `json:"tag_name"`
	}
	path := fmt.Sprintf("/repos/%s/releases/latest", c.repo)
	if err := c.http.Do(ctx, httpapi.Request{Path: path, Endpoint: "/releases/latest"}, &release); err != nil {
		return "", fmt.Errorf("failed to fetch latest release: %w", err)
	}
	if release.TagName == "" {
		return "", fmt.Errorf("latest release has no tag")
	}
	return release.TagName, nil
}

// CheckForUpdate compares current with the latest release tag. Any difference
// counts as an update, a leading "v" aside.
func (c *Client) CheckForUpdate(ctx context.Context, current string) (UpdateInfo, error) {
	latest, err := c.LatestRelease(ctx)
	if err != nil {
		return UpdateInfo{Current: current}, err
	}
	return UpdateInfo{
		Current:   current,
		Latest:    latest,
		Available: normalizeVersion(latest) != normalizeVersion(current),
	}, nil
}

func normalizeVersion(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}
