package auth

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware attaches the Identity of a valid bearer token to the request
// context. Requests without a usable token continue anonymously.
func Middleware(v *Verifier, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.Next()
			return
		}

		id, err := v.Parse(strings.TrimSpace(token))
		if err != nil {
			log.Debug("ignoring bearer token", zap.Error(err))
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func RequireAuth(t *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetEmail(c.Request.Context()) == "" {
			response.Localized(c, t, http.StatusUnauthorized, "UNAUTHENTICATED", "login_again", nil)
			return
		}
		c.Next()
	}
}

func RequireRole(t *i18n.Translator, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := FromContext(c.Request.Context())
		if !ok {
			response.Localized(c, t, http.StatusUnauthorized, "UNAUTHENTICATED", "login_again", nil)
			return
		}
		if !id.HasRole(role) {
			response.Localized(c, t, http.StatusForbidden, "FORBIDDEN", "forbidden", nil)
			return
		}
		c.Next()
	}
}
