package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/school/backend/internal/domain/identity"
	"github.com/school/backend/internal/interfaces/http/dto"
)

// RequireRoles admits only users whose role is in allowed. It must run
// after Authenticate.
func RequireRoles(allowed ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !identity.HasRole(user.Role, allowed) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access denied. Insufficient permissions.")
			return
		}
		c.Next()
	}
}
