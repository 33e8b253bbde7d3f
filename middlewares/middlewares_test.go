package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/pizzagpt/utils"
)

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/tools", func(c *gin.Context) {
		agent, _ := c.Get("agent")
		c.JSON(http.StatusOK, gin.H{"agent": agent})
	})
	return r
}

func serve(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestToolAuthMiddleware(t *testing.T) {
	secret := []byte("s3cret")
	r := newTestRouter(ToolAuthMiddleware(secret))

	w := serve(r, http.MethodGet, "/tools", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), utils.CodeUnauthorized)

	w = serve(r, http.MethodGet, "/tools", map[string]string{"Authorization": "Token abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.GenerateToken("agent-1", []byte("wrong"), time.Hour)
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/tools", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err = utils.GenerateToken("agent-1", secret, time.Hour)
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/tools", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "agent-1")
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	r := newTestRouter(rl.RateLimit())

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/tools", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/tools", nil).Code)
	w := serve(r, http.MethodGet, "/tools", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), utils.CodeRateLimited)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/tools", nil).Code)
}

func TestRateLimiterIsPerClient(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"))
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	rl.now = func() time.Time { return now }

	for i := 0; i < limiterSweepSize; i++ {
		rl.allow(time.Duration(i).String())
	}
	require.Len(t, rl.ips, limiterSweepSize)

	now = start.Add(limiterIdleTTL + time.Second)
	rl.allow("fresh")
	assert.Len(t, rl.ips, 1)
}

func TestCORSMiddleware(t *testing.T) {
	r := newTestRouter(CORSMiddleware("https://agent.example.com"))

	w := serve(r, http.MethodOptions, "/tools", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://agent.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	r = newTestRouter(CORSMiddleware(""))
	w = serve(r, http.MethodGet, "/tools", nil)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestSecurityHeaders(t *testing.T) {
	r := newTestRouter(SecurityHeaders(), LoggerMiddleware())
	w := serve(r, http.MethodGet, "/tools?x=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
