package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserAuth validates bearer tokens and injects the user_id claim into the
// context for handlers that act on behalf of the caller.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearerToken(c.GetHeader("Authorization"), secret)
		if !ok {
			logrus.Println("[AUTH] [ERROR] token validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		// Numeric claims decode as float64.
		userIDValue, ok := claims["user_id"].(float64)
		if !ok || userIDValue <= 0 {
			logrus.Println("[AUTH] [ERROR] user_id claim missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		c.Set("userID", int(userIDValue))
		c.Next()
	}
}
