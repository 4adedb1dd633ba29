package auth

import (
	"github.com/gin-gonic/gin"

	"fairway/backend/pkg/jwt"
)

// OptionalAuthMiddleware inspects for a token and sets the userID if present and valid,
// but does not fail if the token is missing or invalid.
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := jwt.ParseToken(tokenString, secret); err == nil {
				c.Set(ContextUserID, claims.Subject)
			}
		}
		c.Next()
	}
}
