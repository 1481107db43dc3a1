package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"warbler/internal/application"
	"warbler/internal/interface/middleware"
	"warbler/pkg/helpers"
	"warbler/pkg/response"
)

// UserHandler answers the JSON follow/unfollow pair. These routes run
// behind RequireIdentity, so an identity is always present here.
type UserHandler struct {
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

func (h *UserHandler) follower(c *gin.Context) (string, bool) {
	claims, _ := middleware.IdentityFrom(c)
	user, err := h.Users.ResolveOrCreate(c.Request.Context(), claims)
	if err != nil {
		h.failJSON(c, err)
		return "", false
	}
	return user.ID, true
}

func (h *UserHandler) failJSON(c *gin.Context, err error) {
	helpers.LogError(h.Logger, "user request failed", err, logrus.Fields{"path": c.Request.URL.Path})
	resp := response.Error[any](c, statusFor(err), messageFor(err), nil)
	c.JSON(resp.Status, resp)
}

func (h *UserHandler) Follow(c *gin.Context) {
	followerID, ok := h.follower(c)
	if !ok {
		return
	}
	followeeID := c.Param("id")

	if err := h.Users.Follow(c.Request.Context(), followerID, followeeID); err != nil {
		h.failJSON(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, gin.H{"following": followeeID}, "user followed")
	c.JSON(resp.Status, resp)
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	followerID, ok := h.follower(c)
	if !ok {
		return
	}
	followeeID := c.Param("id")

	if err := h.Users.Unfollow(c.Request.Context(), followerID, followeeID); err != nil {
		h.failJSON(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, gin.H{"unfollowed": followeeID}, "user unfollowed")
	c.JSON(resp.Status, resp)
}
