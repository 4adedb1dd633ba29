package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/write", func(c *gin.Context) {
		if u := c.GetHeader("X-User"); u != "" {
			c.Set("userID", u)
		}
		c.Next()
	}, rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func hit(r http.Handler, user string) int {
	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	if user != "" {
		req.Header.Set("X-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_PerUserBudget(t *testing.T) {
	rl := NewRateLimiter(2)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	r := newRouter(rl)

	assert.Equal(t, http.StatusNoContent, hit(r, "alice"))
	assert.Equal(t, http.StatusNoContent, hit(r, "alice"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "alice"))
	assert.Equal(t, http.StatusNoContent, hit(r, "bob"), "budgets are per user")

	now = now.Add(30 * time.Second)
	assert.Equal(t, http.StatusNoContent, hit(r, "alice"), "one token refilled")
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "alice"))
}

func TestRateLimiter_AnonymousKeyedByIP(t *testing.T) {
	rl := NewRateLimiter(1)
	r := newRouter(rl)

	assert.Equal(t, http.StatusNoContent, hit(r, ""))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, ""))
}

func TestRateLimiter_EvictsIdleCallers(t *testing.T) {
	rl := NewRateLimiter(5)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.allow("a")
	now = now.Add(idleAfter + time.Second)
	rl.allow("b")

	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "b")
}
