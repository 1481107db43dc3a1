package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"warbler/internal/application"
	"warbler/internal/interface/middleware"
	"warbler/pkg/helpers"
	"warbler/pkg/validation"
)

// PostHandler handles the mutating form routes. Every route resolves the
// owner from the caller identity, never from client-supplied ids, and
// redirects to "/" on success.
type PostHandler struct {
	Users  *application.UserService
	Posts  *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(users *application.UserService, posts *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Users: users, Posts: posts, Logger: logger}
}

func (h *PostHandler) fail(c *gin.Context, err error) {
	helpers.LogError(h.Logger, "post request failed", err, logrus.Fields{"path": c.Request.URL.Path})
	c.String(statusFor(err), messageFor(err))
}

// caller resolves the authenticated owner profile, rendering the login view
// for anonymous callers.
func (h *PostHandler) caller(c *gin.Context) (string, bool) {
	claims, ok := middleware.IdentityFrom(c)
	if !ok {
		c.HTML(http.StatusOK, "login.html", gin.H{})
		return "", false
	}
	user, err := h.Users.ResolveOrCreate(c.Request.Context(), claims)
	if err != nil {
		h.fail(c, err)
		return "", false
	}
	return user.ID, true
}

type createTweetForm struct {
	TweetText string `form:"tweetText" binding:"required"`
}

func (h *PostHandler) CreateTweet(c *gin.Context) {
	ownerID, ok := h.caller(c)
	if !ok {
		return
	}
	var form createTweetForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	img, f, err := imageUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"image": "invalid upload"})
		return
	}
	if f != nil {
		defer f.Close()
	}

	if _, err := h.Posts.Create(c.Request.Context(), ownerID, form.TweetText, img); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

type editTweetForm struct {
	TweetID string `form:"tweetId" binding:"required"`
	Content string `form:"content" binding:"required"`
}

func (h *PostHandler) EditTweet(c *gin.Context) {
	ownerID, ok := h.caller(c)
	if !ok {
		return
	}
	var form editTweetForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	img, f, err := imageUpload(c, "update_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"update_image": "invalid upload"})
		return
	}
	if f != nil {
		defer f.Close()
	}

	if _, err := h.Posts.Edit(c.Request.Context(), ownerID, form.TweetID, form.Content, img); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

type deleteTweetForm struct {
	TweetID string `form:"tweetId" binding:"required"`
}

func (h *PostHandler) DeleteTweet(c *gin.Context) {
	ownerID, ok := h.caller(c)
	if !ok {
		return
	}
	var form deleteTweetForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	if err := h.Posts.Delete(c.Request.Context(), ownerID, form.TweetID); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *PostHandler) EditProfileImage(c *gin.Context) {
	ownerID, ok := h.caller(c)
	if !ok {
		return
	}
	img, f, err := imageUpload(c, "profile_image")
	if err != nil || img == nil {
		c.JSON(http.StatusBadRequest, gin.H{"profile_image": "is required"})
		return
	}
	defer f.Close()

	if _, err := h.Users.SetProfileImage(c.Request.Context(), ownerID, img); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
