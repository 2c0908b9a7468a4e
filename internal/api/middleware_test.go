package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/gosignal/internal/logger"
)

func newCORSRouter(allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(corsMiddleware(allowedOrigins))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		allowedOrigins []string
		origin         string
		method         string
		expectedStatus int
		expectedOrigin string
	}{
		{
			name:           "no configured origins allows any",
			allowedOrigins: nil,
			origin:         "http://example.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedOrigin: "*",
		},
		{
			name:           "matching origin is echoed back",
			allowedOrigins: []string{"http://app.example.com"},
			origin:         "http://app.example.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedOrigin: "http://app.example.com",
		},
		{
			name:           "wildcard entry allows any origin",
			allowedOrigins: []string{"*"},
			origin:         "http://anywhere.example.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedOrigin: "*",
		},
		{
			name:           "unlisted origin gets no CORS headers",
			allowedOrigins: []string{"http://app.example.com"},
			origin:         "http://evil.example.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedOrigin: "",
		},
		{
			name:           "same-origin request passes through",
			allowedOrigins: []string{"http://app.example.com"},
			origin:         "",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedOrigin: "*",
		},
		{
			name:           "preflight returns 204",
			allowedOrigins: []string{"http://app.example.com"},
			origin:         "http://app.example.com",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			expectedOrigin: "http://app.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newCORSRouter(tt.allowedOrigins)
			req := httptest.NewRequest(tt.method, "/test", http.NoBody)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSMiddleware_PreflightHeaders(t *testing.T) {
	t.Parallel()

	router := newCORSRouter(nil)
	req := httptest.NewRequest(http.MethodOptions, "/test", http.NoBody)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.NotEmpty(t, w.Header().Get("Access-Control-Max-Age"))
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(recoveryMiddleware(logger.NewNopLogger()))
	router.GET("/panic", func(*gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestParseLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		query        string
		defaultLimit int
		expected     int
	}{
		{name: "missing uses default", query: "", defaultLimit: 20, expected: 20},
		{name: "valid value", query: "limit=5", defaultLimit: 20, expected: 5},
		{name: "zero is accepted", query: "limit=0", defaultLimit: 20, expected: 0},
		{name: "negative falls back", query: "limit=-3", defaultLimit: 20, expected: 20},
		{name: "garbage falls back", query: "limit=abc", defaultLimit: 20, expected: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, http.NoBody)

			assert.Equal(t, tt.expected, parseLimit(c, tt.defaultLimit))
		})
	}
}

func TestParseListFilter(t *testing.T) {
	t.Parallel()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=10&offset=30&published=true", http.NoBody)

	filter := parseListFilter(c)
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, 30, filter.Offset)
	assert.True(t, filter.PublishedOnly)
}
