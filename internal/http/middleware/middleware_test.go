package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/woodfy/workshop-api/internal/auth"
	"github.com/woodfy/workshop-api/internal/config"
	"github.com/woodfy/workshop-api/internal/http/middleware"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.SecurityConfig{
		FrameOptions:          "DENY",
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}

	w := httptest.NewRecorder()
	middleware.SecurityHeaders(cfg)(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "HSTS should not be set when disabled")
}

func TestSecurityHeaders_HSTSEnabled(t *testing.T) {
	cfg := &config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: 31536000}

	w := httptest.NewRecorder()
	middleware.SecurityHeaders(cfg)(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		environment string
		origin      string
		allowed     bool
	}{
		{name: "explicit origin allowed", origins: []string{"https://app.example.com"}, environment: "production", origin: "https://app.example.com", allowed: true},
		{name: "explicit origin rejects others", origins: []string{"https://app.example.com"}, environment: "production", origin: "https://evil.example.com", allowed: false},
		{name: "wildcard", origins: []string{"*"}, environment: "production", origin: "https://any.example.com", allowed: true},
		{name: "development allows all", environment: "development", origin: "http://localhost:5173", allowed: true},
		{name: "production without origins denies", environment: "production", origin: "https://app.example.com", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.CORSConfig{
				AllowedOrigins: tt.origins,
				AllowedMethods: []string{http.MethodGet, http.MethodPost},
			}
			handler := middleware.CORS(cfg, tt.environment, zap.NewNop())(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if tt.allowed {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	cfg := &config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
		WhitelistPaths:    []string{"/health", "/swagger/*"},
	}
	handler := middleware.NewRateLimiter(cfg, zap.NewNop()).Limit(okHandler)

	call := func(path, ip string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("/api/v1/projects", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("/api/v1/projects", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("/api/v1/projects", "10.0.0.1"))

	assert.Equal(t, http.StatusOK, call("/api/v1/projects", "10.0.0.2"), "other clients keep their own budget")
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, call("/health", "10.0.0.1"))
		assert.Equal(t, http.StatusOK, call("/swagger/index.html", "10.0.0.1"))
	}
}

func TestRateLimiter_KeysAuthenticatedCallersBySubject(t *testing.T) {
	cfg := &config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1}
	handler := middleware.NewRateLimiter(cfg, zap.NewNop()).Limit(okHandler)

	call := func(subject string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
		req = req.WithContext(auth.WithUserContext(req.Context(), &auth.UserContext{Subject: subject}))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("ana"))
	assert.Equal(t, http.StatusOK, call("bruno"))
	assert.Equal(t, http.StatusTooManyRequests, call("ana"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	cfg := &config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1}
	handler := middleware.NewRateLimiter(cfg, zap.NewNop()).Limit(okHandler)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	handler := middleware.Recovery(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic serving request").Len())
}

func TestLogging_RequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := middleware.Logging(zap.New(core))(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
