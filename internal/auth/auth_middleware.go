package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fairway/backend/internal/models"
	"fairway/backend/pkg/jwt"
	"fairway/backend/pkg/logger"
)

// Context keys set by the middlewares.
const (
	ContextUserID  = "userID"
	ContextProfile = "profile"
)

// ProfileEnsurer creates the caller's profile on first sight.
type ProfileEnsurer interface {
	Ensure(ctx context.Context, id, usernameHint string) (*models.Profile, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware requires a valid access token. It loads (or lazily creates) the caller's
// profile and rejects banned accounts.
func AuthMiddleware(secret string, profiles ProfileEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		claims, err := jwt.ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": jwt.ErrInvalidToken.Error()})
			return
		}

		profile, err := profiles.Ensure(c.Request.Context(), claims.Subject, claims.Email)
		if err != nil {
			logger.Error("failed to load profile", zap.String("user_id", claims.Subject), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return
		}
		if profile.Banned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account suspended"})
			return
		}

		c.Set(ContextUserID, profile.ID)
		c.Set(ContextProfile, profile)
		c.Next()
	}
}

// UserID returns the authenticated caller's id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Profile returns the caller's profile loaded by AuthMiddleware.
func Profile(c *gin.Context) *models.Profile {
	if v, ok := c.Get(ContextProfile); ok {
		if p, ok := v.(*models.Profile); ok {
			return p
		}
	}
	return nil
}
