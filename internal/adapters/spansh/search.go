package spansh

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/jellydator/ttlcache/v3"
	"github.com/samber/lo"
)

// SearchSystems returns system names matching query, closest match first
func (c *Client) SearchSystems(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}, nil
	}

	key := strings.ToLower(query)
	if item := c.searches.Get(key); item != nil {
		return item.Value(), nil
	}

	var names []string
	if err := c.http.Get(ctx, "/systems", url.Values{"q": {query}}, &names); err != nil {
		return nil, fmt.Errorf("failed to search systems: %w", err)
	}

	ranked := rankByDistance(key, lo.Uniq(names))
	c.searches.Set(key, ranked, ttlcache.DefaultTTL)
	return ranked, nil
}

// rankByDistance orders names by edit distance to query. Prefix matches come
// first; ties keep the service's order.
func rankByDistance(query string, names []string) []string {
	type scored struct {
		name     string
		prefix   bool
		distance int
	}

	candidates := lo.Map(names, func(name string, _ int) scored {
		lower := strings.ToLower(name)
		return scored{
			name:     name,
			prefix:   strings.HasPrefix(lower, query),
			distance: levenshtein.ComputeDistance(query, lower),
		}
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].prefix != candidates[j].prefix {
			return candidates[i].prefix
		}
		return candidates[i].distance < candidates[j].distance
	})

	return lo.Map(candidates, func(c scored, _ int) string { return c.name })
}
