package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "warbler/internal/interface/http"
	"warbler/internal/interface/middleware"
)

// PostModule registers the mutating form routes; all redirect to "/" on
// success. Rate limited per caller since each one writes to the document
// and blob stores.
type PostModule struct {
	Handler *handlers.PostHandler
	Redis   *redis.Client
}

func NewPostModule(h *handlers.PostHandler, rdb *redis.Client) *PostModule {
	return &PostModule{Handler: h, Redis: rdb}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUser())

	rg.POST("/tweets", limiter, m.Handler.CreateTweet)
	rg.POST("/editTweet", limiter, m.Handler.EditTweet)
	rg.POST("/deleteTweet", limiter, m.Handler.DeleteTweet)
	rg.POST("/edit_profile_image", limiter, m.Handler.EditProfileImage)
}
