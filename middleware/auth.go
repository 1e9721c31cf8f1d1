package middleware

import (
	"net/http"
	"strings"

	"github.com/warbler-app/warbler/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards the JSON API with an HS256 bearer token.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header is required"})
			c.Abort()
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || !strings.EqualFold(bearerToken[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid token format"})
			c.Abort()
			return
		}

		userClaims, err := utils.ParseToken(secret, bearerToken[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(string(utils.UserContextKey), userClaims)

		c.Next()
	}
}
