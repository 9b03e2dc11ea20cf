package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/frontend"
	"github.com/marcelogarciass/dashboard-projeto/pkg/usecase"
	"github.com/marcelogarciass/dashboard-projeto/pkg/utils/apperr"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

type serverConfig struct {
	corsOrigins []string
	frontendFS  http.FileSystem
}

// Option configures the server
type Option func(*serverConfig)

// WithCORSOrigins sets the origins allowed to call /api from a browser
func WithCORSOrigins(origins []string) Option {
	return func(c *serverConfig) {
		c.corsOrigins = origins
	}
}

// WithFrontendFS serves the front end from fsys instead of the embedded build
func WithFrontendFS(fsys http.FileSystem) Option {
	return func(c *serverConfig) {
		c.frontendFS = fsys
	}
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	addr string,
	dashboardUC usecase.Dashboard,
	selectionUC usecase.Selection,
	opts ...Option,
) (*Server, error) {
	cfg := &serverConfig{corsOrigins: []string{"*"}}
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	h := &handler{dashboard: dashboardUC, selection: selectionUC}

	router.Get("/health", handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Use(CORSMiddleware(cfg.corsOrigins))

		r.Get("/filters", h.handleFilters)
		r.Post("/dashboard", h.handleDashboard)
		r.Post("/status-matrix", h.handleStatusMatrix)

		r.Route("/selection", func(r chi.Router) {
			r.Use(SessionMiddleware)
			r.Get("/", h.handleGetSelection)
			r.Put("/", h.handleSetSelection)
			r.Delete("/", h.handleResetSelection)
			r.Post("/types", h.handleToggleType)
		})
	})

	fsys := cfg.frontendFS
	if fsys == nil {
		embedded, err := frontend.GetHTTPFS()
		if err != nil {
			ctxlog.From(ctx).Warn("Failed to get embedded frontend, using fallback",
				"error", err,
			)
		} else {
			fsys = embedded
		}
	}

	if fsys == nil {
		router.Get("/*", handleFallbackHome)
	} else {
		spa, err := NewSPAHandler(fsys)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create SPA handler")
		}
		ctxlog.From(ctx).Info("Serving frontend")
		router.Handle("/*", spa)
	}

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "dashboard",
	})
}

// handleFallbackHome handles the root path when frontend is not available
func handleFallbackHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Dashboard de Projetos</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #0f172a;
            color: #e2e8f0;
        }
        .container {
            text-align: center;
            padding: 2rem;
        }
        code {
            background: #1e293b;
            padding: 0.2rem 0.4rem;
            border-radius: 4px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Dashboard de Projetos</h1>
        <p>The front end is not built. The API is available under <code>/api</code>.</p>
    </div>
</body>
</html>`)); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write fallback home page", "error", err)
	}
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// writeError logs err and writes it as {"error": message} with the mapped status
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apperr.Handle(r.Context(), err)

	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	writeJSON(w, r, apperr.StatusCode(err), map[string]string{
		"error": message,
	})
}
