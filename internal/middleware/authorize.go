package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
)

// RequireRoles allows only the listed roles through. Membership is exact;
// there is no role hierarchy, a SYSTEM_ADMIN route must name SYSTEM_ADMIN.
func RequireRoles(roles ...domain.AccountRole) gin.HandlerFunc {
	roleSet := make(map[domain.AccountRole]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		account, ok := CurrentAccount(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if _, ok := roleSet[account.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "forbidden",
				"role":  account.Role,
			})
			return
		}

		c.Next()
	}
}
