package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"warbler/pkg/helpers"
	"warbler/pkg/identity"
	"warbler/pkg/response"
)

// sessionTTL bounds how long the token cookie outlives the exchange; the
// token's own expiry still applies on every request.
const sessionTTL = 7 * 24 * time.Hour

// AuthHandler exchanges an identity-provider token for the session cookie
// and clears it on logout. Token issuance itself stays with the external
// provider.
type AuthHandler struct {
	Verifier identity.Verifier
	Cookies  *helpers.CookieManager
	Logger   *logrus.Logger
}

func NewAuthHandler(verifier identity.Verifier, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Verifier: verifier, Cookies: cookies, Logger: logger}
}

type sessionForm struct {
	Token string `form:"token" binding:"required"`
}

// Session verifies a provider token and, when valid, stores it in the
// cookie so subsequent page loads resolve the caller.
func (h *AuthHandler) Session(c *gin.Context) {
	var form sessionForm
	if err := c.ShouldBind(&form); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "token is required", nil)
		c.JSON(resp.Status, resp)
		return
	}

	if _, err := h.Verifier.Verify(c.Request.Context(), form.Token); err != nil {
		h.Logger.WithError(err).Debug("session token rejected")
		resp := response.Error[any](c, http.StatusUnauthorized, "invalid token", nil)
		c.JSON(resp.Status, resp)
		return
	}

	h.Cookies.SetToken(c, form.Token, time.Now().Add(sessionTTL))
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session cookie. The token itself stays valid until its
// expiry; the provider owns revocation.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	c.Redirect(http.StatusFound, "/login")
}
