package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"warbler/pkg/identity"
)

func testContext(t *testing.T) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/session", nil)
	return c
}

func TestKeyByIPUsesResolvedRealIP(t *testing.T) {
	c := testContext(t)
	c.Set("real_ip", "203.0.113.9")

	assert.Equal(t, "rl:ip:203.0.113.9", KeyByIP()(c))
}

func TestKeyByUserPrefersIdentity(t *testing.T) {
	c := testContext(t)
	c.Set("real_ip", "203.0.113.9")
	c.Set(CtxIdentityKey, &identity.Claims{UserID: "uid-1", Email: "a@b.c"})

	assert.Equal(t, "rl:user:uid-1", KeyByUser()(c))
}

func TestKeyByUserFallsBackToIPWhenAnonymous(t *testing.T) {
	c := testContext(t)
	c.Set("real_ip", "203.0.113.9")

	assert.Equal(t, "rl:user:anon:ip:203.0.113.9", KeyByUser()(c))
}

func TestRateLimitFailsOpenWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/session", RateLimit(nil, 10, time.Minute, KeyByIP()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/session", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
