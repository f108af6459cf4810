package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quillhq/quillbackend/utils"
)

// AuthMiddleware is the gate in front of every protected route. It pulls a
// bearer token from the Authorization header, falling back to the
// accessToken cookie, verifies it as an access token and attaches the
// identity to the request context. It never touches the credential store:
// access tokens are self-contained and live only 15 minutes.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			tokenStr = strings.TrimPrefix(header, "Bearer ")
		}
		if tokenStr == "" {
			if cookie, err := c.Cookie("accessToken"); err == nil {
				tokenStr = cookie
			}
		}

		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized access",
				"error":   "No token provided",
			})
			return
		}

		claims, err := utils.VerifyToken(tokenStr, utils.TokenKindAccess)
		if err != nil {
			reason := "Invalid token"
			if errors.Is(err, utils.ErrTokenExpired) {
				reason = "Expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized access",
				"error":   reason,
			})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
