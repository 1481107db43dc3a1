package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "warbler/internal/interface/http"
	"warbler/internal/interface/middleware"
)

// AuthModule registers the session cookie exchange and logout. The exchange
// runs anonymously, so its limit keys on the client IP.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP())

	rg.POST("/session", limiter, m.Handler.Session)
	rg.GET("/logout", m.Handler.Logout)
}
