package middleware

import (
	"net/http"
	"strings"

	"kol_arena/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT authenticates the request and stores the wallet address in the gin
// context under "wallet".
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		wallet, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("wallet", wallet)
		c.Next()
	}
}
