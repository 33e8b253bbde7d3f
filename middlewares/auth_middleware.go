package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/pizzagpt/utils"
)

// ToolAuthMiddleware requires a bearer token signed with secret. The token
// subject is stored in the context as "agent".
func ToolAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondFailure(c, http.StatusUnauthorized, utils.CodeUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondFailure(c, http.StatusUnauthorized, utils.CodeUnauthorized, errors.New("invalid token format"))
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			utils.RespondFailure(c, http.StatusUnauthorized, utils.CodeUnauthorized, err)
			c.Abort()
			return
		}

		c.Set("agent", claims.Subject)
		c.Next()
	}
}
