package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	httpCtrl "github.com/marcelogarciass/dashboard-projeto/pkg/controller/http"
)

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("allowed origin is echoed", func(t *testing.T) {
		h := httpCtrl.CORSMiddleware([]string{"http://localhost:5173"})(next)
		req := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		gt.Equal(t, w.Code, http.StatusTeapot)
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "http://localhost:5173")
		gt.Equal(t, w.Header().Get("Vary"), "Origin")
	})

	t.Run("other origin gets no headers", func(t *testing.T) {
		h := httpCtrl.CORSMiddleware([]string{"http://localhost:5173"})(next)
		req := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		gt.Equal(t, w.Code, http.StatusTeapot)
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "")
	})

	t.Run("wildcard and preflight", func(t *testing.T) {
		h := httpCtrl.CORSMiddleware([]string{"*"})(next)
		req := httptest.NewRequest(http.MethodOptions, "/api/dashboard", nil)
		req.Header.Set("Origin", "https://dash.example.com")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		gt.Equal(t, w.Code, http.StatusNoContent)
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "https://dash.example.com")
		gt.S(t, w.Header().Get("Access-Control-Allow-Methods")).Contains("PUT")
	})
}

func TestSessionMiddleware(t *testing.T) {
	h := httpCtrl.SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("issues a cookie when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/selection", nil))

		cookies := w.Result().Cookies()
		gt.A(t, cookies).Length(1)
		gt.Equal(t, cookies[0].Name, httpCtrl.SessionCookieName)
		gt.Equal(t, cookies[0].SameSite, http.SameSiteLaxMode)
		gt.True(t, cookies[0].MaxAge > 0)
	})

	t.Run("keeps a valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/selection", nil)
		req.AddCookie(&http.Cookie{Name: httpCtrl.SessionCookieName, Value: "0195d9d2-4a7b-7c3e-9f00-5b2d1c3e4f50"})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		gt.A(t, w.Result().Cookies()).Length(0)
	})

	t.Run("replaces a malformed cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/selection", nil)
		req.AddCookie(&http.Cookie{Name: httpCtrl.SessionCookieName, Value: "not-a-uuid"})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		cookies := w.Result().Cookies()
		gt.A(t, cookies).Length(1)
		gt.V(t, cookies[0].Value).NotEqual("not-a-uuid")
	})
}
