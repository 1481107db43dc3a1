package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "warbler/internal/interface/http"
	"warbler/internal/interface/middleware"
)

// UserModule registers the JSON follow/unfollow pair. Unlike the form
// routes these answer with a JSON acknowledgement, so they require an
// identity up front instead of rendering the login view.
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUser())

	social := rg.Group("/")
	social.Use(middleware.RequireIdentity())
	{
		social.POST("/follow/:id", limiter, m.Handler.Follow)
		social.POST("/unfollow/:id", limiter, m.Handler.Unfollow)
	}
}
