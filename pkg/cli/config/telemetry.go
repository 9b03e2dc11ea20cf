package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/marcelogarciass/dashboard-projeto/pkg/utils/telemetry"
	"github.com/urfave/cli/v3"
)

// Telemetry holds OpenTelemetry exporter settings
type Telemetry struct {
	Stdout   bool
	Interval time.Duration
}

// Flags returns CLI flags for Telemetry configuration
func (t *Telemetry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "otel-stdout",
			Usage:       "Write traces and metrics to stderr",
			Category:    "Telemetry",
			Sources:     cli.EnvVars("DASHBOARD_OTEL_STDOUT"),
			Destination: &t.Stdout,
		},
		&cli.DurationFlag{
			Name:        "otel-interval",
			Usage:       "Metric export interval",
			Category:    "Telemetry",
			Value:       15 * time.Second,
			Sources:     cli.EnvVars("DASHBOARD_OTEL_INTERVAL"),
			Destination: &t.Interval,
		},
	}
}

// Configure installs the global OTel providers
func (t *Telemetry) Configure(ctx context.Context, serviceName, version string) (telemetry.ShutdownFunc, error) {
	return telemetry.Init(ctx, telemetry.Options{
		ServiceName: serviceName,
		Version:     version,
		Stdout:      t.Stdout,
		Interval:    t.Interval,
	})
}

// LogValue returns structured log value
func (t Telemetry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("stdout", t.Stdout),
		slog.Duration("interval", t.Interval),
	)
}
