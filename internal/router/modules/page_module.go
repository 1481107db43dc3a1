package modules

import (
	"github.com/gin-gonic/gin"

	handlers "warbler/internal/interface/http"
)

// PageModule registers the server-rendered pages.
// GET  / /login /profile /user_profile
// POST /search /tweetList (form posts rendering result pages)
type PageModule struct {
	Handler *handlers.PageHandler
}

func NewPageModule(h *handlers.PageHandler) *PageModule {
	return &PageModule{Handler: h}
}

func (m *PageModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Handler.Home)
	rg.GET("/login", m.Handler.Login)
	rg.GET("/profile", m.Handler.ProfilePage)
	rg.GET("/user_profile", m.Handler.UserProfilePage)

	rg.POST("/search", m.Handler.SearchUsers)
	rg.POST("/tweetList", m.Handler.TweetList)
}
