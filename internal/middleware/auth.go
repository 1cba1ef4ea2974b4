package middleware

import (
	"net/http"
	"strings"

	"party-game-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// HostIDKey is the context key the authenticated host's id is stored under.
const HostIDKey = "host_id"

// JWTAuth guards the host-only routes: session management, content setup and
// game control. Player and display endpoints stay open.
func JWTAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		hostID, err := auth.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(HostIDKey, hostID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
