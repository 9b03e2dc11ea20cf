package config

import (
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr        string
	CORSOrigins []string
	FrontendDir string
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("DASHBOARD_ADDR"),
			Destination: &s.Addr,
		},
		&cli.StringSliceFlag{
			Name:        "cors-origin",
			Usage:       "Origin allowed to call the API from a browser, repeatable (* allows any)",
			Value:       []string{"*"},
			Sources:     cli.EnvVars("DASHBOARD_CORS_ORIGINS"),
			Destination: &s.CORSOrigins,
		},
		&cli.StringFlag{
			Name:        "frontend-dir",
			Usage:       "Serve the front end from this directory instead of the embedded build",
			Sources:     cli.EnvVars("DASHBOARD_FRONTEND_DIR"),
			Destination: &s.FrontendDir,
		},
	}
}

// Origins returns the configured CORS origins with blanks removed
func (s *Server) Origins() []string {
	var origins []string
	for _, o := range s.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.Any("cors_origins", s.CORSOrigins),
		slog.String("frontend_dir", s.FrontendDir),
	)
}
