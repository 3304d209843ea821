package http

import (
	"net/http"
	"strings"

	"github.com/fintrack/user-auth-service/internal/core/domain"
	"github.com/fintrack/user-auth-service/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeaderKey = "authorization"
	authorizationType      = "bearer"
	authorizationUserKey   = "authorization_user"
)

// AuthMiddleware resolves the bearer token through the auth service. Every
// failure mode (missing header, malformed, expired, deleted user) gets the
// same 401 so the response shape never reveals why a token was rejected.
func AuthMiddleware(authService ports.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorizationHeader := c.GetHeader(authorizationHeaderKey)
		if authorizationHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Auth header required",
			})
			c.Abort()
			return
		}

		fields := strings.Fields(authorizationHeader)
		if len(fields) != 2 || strings.ToLower(fields[0]) != authorizationType {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "invalid authorization header",
			})
			c.Abort()
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), fields[1])
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "service unavailable",
			})
			c.Abort()
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(authorizationUserKey, user)
		c.Next()
	}
}

func getAuthUser(ctx *gin.Context) (*domain.User, bool) {
	value, exists := ctx.Get(authorizationUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	if !ok {
		return nil, false
	}
	return user, true
}
