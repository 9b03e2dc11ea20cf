package http

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
)

// SessionCookieName is the cookie carrying the browser session ID
const SessionCookieName = "dashboard_session"

const sessionCookieMaxAge = 30 * 24 * time.Hour

type sessionIDKey struct{}

// sessionIDFrom returns the session ID stored by SessionMiddleware
func sessionIDFrom(ctx context.Context) types.SessionID {
	id, _ := ctx.Value(sessionIDKey{}).(types.SessionID)
	return id
}

// SessionMiddleware resolves the browser session from its cookie, issuing a
// new session ID when the cookie is missing or malformed
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id types.SessionID
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			if _, err := uuid.Parse(cookie.Value); err == nil {
				id = types.SessionID(cookie.Value)
			}
		}

		if id == "" {
			newID, err := types.NewSessionID()
			if err != nil {
				writeError(w, r, err)
				return
			}
			id = newID
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    id.String(),
				Path:     "/",
				MaxAge:   int(sessionCookieMaxAge.Seconds()),
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
			ctxlog.From(r.Context()).Debug("issued new session", "session_id", id)
		}

		ctx := context.WithValue(r.Context(), sessionIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CORSMiddleware adds CORS headers for the allowed origins. "*" allows any
// origin; the request origin is echoed so credentials keep working.
func CORSMiddleware(allowed []string) func(next http.Handler) http.Handler {
	allowAny := slices.Contains(allowed, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAny || slices.Contains(allowed, origin)) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware creates a chi-compatible logging middleware
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := ctxlog.From(ctx).With("request_id", middleware.GetReqID(r.Context()))
			r = r.WithContext(ctxlog.With(r.Context(), logger))

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		})
	}
}
