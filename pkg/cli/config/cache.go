package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Cache holds issue cache settings
type Cache struct {
	TTL    time.Duration
	Warmup bool
}

// Flags returns CLI flags for Cache configuration
func (c *Cache) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "cache-ttl",
			Usage:       "How long a fetched issue snapshot is served before refetching",
			Category:    "Cache",
			Value:       usecase.DefaultCacheTTL,
			Sources:     cli.EnvVars("DASHBOARD_CACHE_TTL"),
			Destination: &c.TTL,
		},
		&cli.BoolFlag{
			Name:        "cache-warmup",
			Usage:       "Fetch issues in the background when the server starts",
			Category:    "Cache",
			Value:       true,
			Sources:     cli.EnvVars("DASHBOARD_CACHE_WARMUP"),
			Destination: &c.Warmup,
		},
	}
}

// Options returns the issue cache options for this configuration
func (c *Cache) Options() ([]usecase.IssueCacheOption, error) {
	if c.TTL < 0 {
		return nil, goerr.New("cache ttl must not be negative", goerr.V("ttl", c.TTL))
	}
	if c.TTL == 0 {
		return nil, nil
	}
	return []usecase.IssueCacheOption{usecase.WithCacheTTL(c.TTL)}, nil
}

// LogValue returns structured log value
func (c Cache) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("ttl", c.TTL),
		slog.Bool("warmup", c.Warmup),
	)
}
