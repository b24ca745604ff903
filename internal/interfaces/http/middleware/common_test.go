package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// balanceRouter builds a minimal engine exposing a ledger read endpoint
// behind the middleware under test.
func balanceRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/api/v1/locations/:locationId/ledger/balance", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"location_id": c.Param("locationId"), "balance": "315.00"})
	})
	return r
}

func TestRequestID(t *testing.T) {
	t.Run("generates an id when absent", func(t *testing.T) {
		r := balanceRouter(RequestID())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/locations/loc-1/ledger/balance", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("echoes a caller-supplied id", func(t *testing.T) {
		r := balanceRouter(RequestID())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/loc-1/ledger/balance", nil)
		req.Header.Set("X-Request-ID", "shift-close-7f3a")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "shift-close-7f3a", w.Header().Get("X-Request-ID"))
	})

	t.Run("ids are unique across requests", func(t *testing.T) {
		r := balanceRouter(RequestID())
		seen := map[string]bool{}
		for i := 0; i < 20; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/locations/loc-1/ledger/balance", nil))
			id := w.Header().Get("X-Request-ID")
			assert.False(t, seen[id], "duplicate request id %s", id)
			seen[id] = true
		}
	})
}

func TestCORSWithConfig(t *testing.T) {
	dashboard := "https://backoffice.example.com"
	cfg := CORSConfig{
		AllowOrigins:     []string{dashboard},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Idempotency-Key"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}

	t.Run("allowed origin gets headers", func(t *testing.T) {
		r := balanceRouter(CORSWithConfig(cfg))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/loc-1/ledger/balance", nil)
		req.Header.Set("Origin", dashboard)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, dashboard, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Idempotency-Key")
	})

	t.Run("unknown origin gets no CORS headers but the response succeeds", func(t *testing.T) {
		r := balanceRouter(CORSWithConfig(cfg))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/loc-1/ledger/balance", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight is answered with 204", func(t *testing.T) {
		r := balanceRouter(CORSWithConfig(cfg))
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/locations/loc-1/ledger/balance", nil)
		req.Header.Set("Origin", dashboard)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, dashboard, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("preflight from unknown origin still gets 204 without headers", func(t *testing.T) {
		r := balanceRouter(CORSWithConfig(cfg))
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/locations/loc-1/ledger/balance", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard origin never pairs with credentials", func(t *testing.T) {
		wild := cfg
		wild.AllowOrigins = []string{"*"}
		r := balanceRouter(CORSWithConfig(wild))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/loc-1/ledger/balance", nil)
		req.Header.Set("Origin", "https://anywhere.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("default config rejects all cross-origin callers", func(t *testing.T) {
		r := balanceRouter(CORSWithConfig(DefaultCORSConfig()))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/loc-1/ledger/balance", nil)
		req.Header.Set("Origin", dashboard)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestSecure(t *testing.T) {
	t.Run("default headers", func(t *testing.T) {
		r := balanceRouter(Secure())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/locations/loc-1/ledger/balance", nil))

		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
		assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
		assert.NotEmpty(t, w.Header().Get("Permissions-Policy"))
		// HSTS stays off until TLS termination is configured.
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("HSTS header assembled from config", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.HSTSEnabled = true
		cfg.HSTSPreload = true
		r := balanceRouter(SecureWithConfig(cfg))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/locations/loc-1/ledger/balance", nil))

		hsts := w.Header().Get("Strict-Transport-Security")
		assert.Contains(t, hsts, "max-age=31536000")
		assert.Contains(t, hsts, "includeSubDomains")
		assert.Contains(t, hsts, "preload")
	})
}
