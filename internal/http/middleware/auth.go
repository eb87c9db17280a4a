// README: Bearer-token auth middleware resolving the staff session.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"courierd/internal/backend"
)

const staffKey = "staff"

// StaffResolver authenticates a bearer token and returns the profile.
type StaffResolver interface {
	Resolve(ctx context.Context, token string) (backend.StaffProfile, error)
}

func Auth(resolver StaffResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		profile, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		c.Set(staffKey, profile)
		c.Next()
	}
}

// CallerStaff returns the authenticated staff profile set by Auth.
func CallerStaff(c *gin.Context) (backend.StaffProfile, bool) {
	v, ok := c.Get(staffKey)
	if !ok {
		return backend.StaffProfile{}, false
	}
	profile, ok := v.(backend.StaffProfile)
	return profile, ok
}
