package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"invitio/internal/infrastructure/auth"
	"invitio/internal/shared/constants"
	"invitio/internal/shared/logger"
	"invitio/internal/shared/utils"
)

// AuthMiddleware authenticates requests against session tokens issued by the
// account service.
type AuthMiddleware struct {
	verifier *auth.SessionVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(verifier *auth.SessionVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.verifier.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify session token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyAccountID, claims.AccountID)
		c.Set(constants.ContextKeyAccountEmail, claims.Email)
		c.Set(constants.ContextKeyAccountName, claims.Name)

		c.Next()
	}
}

// AccountID returns the authenticated account ID from the request context.
func AccountID(c *gin.Context) (string, bool) {
	v, ok := c.Get(constants.ContextKeyAccountID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
