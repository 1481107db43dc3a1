package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"warbler/pkg/helpers"
	"warbler/pkg/identity"
	"warbler/pkg/response"
)

// CtxIdentityKey holds the typed caller identity resolved once per request.
const CtxIdentityKey = "caller_identity"

// ResolveIdentity reads the token cookie and verifies it. Verification
// failures are logged and treated as "no identity"; the request continues
// anonymously and handlers decide what anonymous means for their route.
func ResolveIdentity(verifier identity.Verifier, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.TokenCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		claims, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.WithError(err).Debug("identity token rejected")
			c.Next()
			return
		}
		c.Set(CtxIdentityKey, claims)
		c.Next()
	}
}

// IdentityFrom returns the caller identity set by ResolveIdentity.
func IdentityFrom(c *gin.Context) (*identity.Claims, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*identity.Claims)
	return claims, ok
}

// RequireIdentity aborts JSON routes with 401 when no identity resolved.
// Page routes never use this; they render the login view instead.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c); !ok {
			resp := response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Next()
	}
}
