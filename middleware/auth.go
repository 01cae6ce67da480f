package middleware

import (
	"context"
	"strings"

	"github.com/bob-rietveld/unheard-v3/common"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/gin-gonic/gin"
)

const userContextKey = "currentUser"

// TokenResolver maps a bearer token to a known user.
type TokenResolver interface {
	GetByToken(ctx context.Context, token string) (*models.User, error)
}

// Auth resolves the Authorization bearer token to a user and stores it on
// the request context. Unknown or missing tokens stop the request with 401.
func Auth(users TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			c.Error(common.Unauthorized("missing bearer token"))
			c.Abort()
			return
		}

		user, err := users.GetByToken(c.Request.Context(), token)
		if err != nil {
			c.Error(common.Unauthorized("invalid token"))
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// BearerToken extracts the opaque token from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// CurrentUser returns the user the Auth middleware resolved. Handlers on
// authenticated routes may assume it is present.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
