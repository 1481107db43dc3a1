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

// PageHandler renders the server-side pages. Anonymous callers always get
// the login view; page routes never answer with an auth error.
type PageHandler struct {
	Users    *application.UserService
	Posts    *application.PostService
	Timeline *application.TimelineService
	Logger   *logrus.Logger
}

func NewPageHandler(users *application.UserService, posts *application.PostService, timeline *application.TimelineService, logger *logrus.Logger) *PageHandler {
	return &PageHandler{Users: users, Posts: posts, Timeline: timeline, Logger: logger}
}

func (h *PageHandler) renderLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *PageHandler) failPage(c *gin.Context, err error) {
	helpers.LogError(h.Logger, "page request failed", err, logrus.Fields{"path": c.Request.URL.Path})
	c.String(statusFor(err), messageFor(err))
}

// Home renders the merged timeline for the caller, or the login view for
// anonymous visitors.
func (h *PageHandler) Home(c *gin.Context) {
	claims, ok := middleware.IdentityFrom(c)
	if !ok {
		h.renderLogin(c)
		return
	}
	ctx := c.Request.Context()

	user, err := h.Users.ResolveOrCreate(ctx, claims)
	if err != nil {
		h.failPage(c, err)
		return
	}
	timeline, err := h.Timeline.Timeline(ctx, user.ID)
	if err != nil {
		h.failPage(c, err)
		return
	}
	directory, err := h.Users.Search(ctx, "")
	if err != nil {
		h.failPage(c, err)
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"User":         user,
		"UsernameList": directory,
		"Timeline":     timeline,
	})
}

func (h *PageHandler) Login(c *gin.Context) {
	h.renderLogin(c)
}

// ProfilePage renders the caller's own profile with follower/following
// usernames and the resolved profile image.
func (h *PageHandler) ProfilePage(c *gin.Context) {
	claims, ok := middleware.IdentityFrom(c)
	if !ok {
		h.renderLogin(c)
		return
	}
	ctx := c.Request.Context()

	user, err := h.Users.ResolveOrCreate(ctx, claims)
	if err != nil {
		h.failPage(c, err)
		return
	}
	view, err := h.Users.Profile(ctx, user.ID)
	if err != nil {
		h.failPage(c, err)
		return
	}
	c.HTML(http.StatusOK, "profile.html", gin.H{
		"User": user,
		"View": view,
	})
}

type userProfileQuery struct {
	UserID string `form:"user_id" binding:"required"`
}

// UserProfilePage renders another user's profile with their recent posts
// and whether the caller already follows them.
func (h *PageHandler) UserProfilePage(c *gin.Context) {
	claims, ok := middleware.IdentityFrom(c)
	if !ok {
		h.renderLogin(c)
		return
	}
	var q userProfileQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	ctx := c.Request.Context()

	viewer, err := h.Users.ResolveOrCreate(ctx, claims)
	if err != nil {
		h.failPage(c, err)
		return
	}
	target, err := h.Users.Get(ctx, q.UserID)
	if err != nil {
		h.failPage(c, err)
		return
	}
	posts, err := h.Posts.ListRecent(ctx, target.ID, application.DefaultListLimit)
	if err != nil {
		h.failPage(c, err)
		return
	}

	c.HTML(http.StatusOK, "user_profile.html", gin.H{
		"User":        viewer,
		"BasicInfo":   target,
		"Posts":       posts,
		"IsFollowing": viewer.IsFollowing(target.ID),
	})
}

type searchForm struct {
	Username string `form:"username" binding:"required"`
}

// SearchUsers renders the home page with username prefix matches.
func (h *PageHandler) SearchUsers(c *gin.Context) {
	claims, ok := middleware.IdentityFrom(c)
	if !ok {
		h.renderLogin(c)
		return
	}
	var form searchForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	ctx := c.Request.Context()

	user, err := h.Users.ResolveOrCreate(ctx, claims)
	if err != nil {
		h.failPage(c, err)
		return
	}
	directory, err := h.Users.Search(ctx, "")
	if err != nil {
		h.failPage(c, err)
		return
	}
	matches, err := h.Users.Search(ctx, form.Username)
	if err != nil {
		h.failPage(c, err)
		return
	}

	data := gin.H{
		"User":         user,
		"UsernameList": directory,
		"SearchQuery":  form.Username,
	}
	if len(matches) == 0 {
		data["UserMessage"] = "No User found"
	} else {
		data["SearchData"] = matches
	}
	c.HTML(http.StatusOK, "home.html", data)
}

type tweetListForm struct {
	User  string `form:"user" binding:"required"`
	Tweet string `form:"tweet" binding:"required"`
}

// TweetList renders the home page with one user's posts matching a text
// prefix.
func (h *PageHandler) TweetList(c *gin.Context) {
	claims, ok := middleware.IdentityFrom(c)
	if !ok {
		h.renderLogin(c)
		return
	}
	var form tweetListForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	ctx := c.Request.Context()

	user, err := h.Users.ResolveOrCreate(ctx, claims)
	if err != nil {
		h.failPage(c, err)
		return
	}
	directory, err := h.Users.Search(ctx, "")
	if err != nil {
		h.failPage(c, err)
		return
	}
	matches, err := h.Posts.SearchText(ctx, form.User, form.Tweet)
	if err != nil {
		h.failPage(c, err)
		return
	}

	data := gin.H{
		"User":         user,
		"UsernameList": directory,
		"TweetQuery":   form.Tweet,
		"SelectedUser": form.User,
	}
	if len(matches) == 0 {
		data["TweetMessage"] = "No tweet found for this user"
	} else {
		data["TweetData"] = matches
	}
	c.HTML(http.StatusOK, "home.html", data)
}
