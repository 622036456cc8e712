package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
	"github.com/Nicholas91X/auto2g-backend/internal/security"
)

const currentAccountKey = "current_account"

// AccountFinder is the single repository call the guard needs.
type AccountFinder interface {
	FindByID(ctx context.Context, id string) (domain.Account, error)
}

// Auth authenticates a bearer session token. The claims alone are not
// trusted for liveness: the account is re-read so a token issued before a
// deactivation stops working immediately.
func Auth(tokens *security.TokenIssuer, accounts AccountFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := tokens.ParseSession(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		if !claims.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account_disabled"})
			return
		}

		account, err := accounts.FindByID(c.Request.Context(), claims.AccountID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account_not_found"})
			return
		}

		if !account.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account_disabled"})
			return
		}

		c.Set(currentAccountKey, account)

		c.Next()
	}
}

// CurrentAccount returns the authenticated account stored by Auth.
func CurrentAccount(c *gin.Context) (domain.Account, bool) {
	value, exists := c.Get(currentAccountKey)
	if !exists {
		return domain.Account{}, false
	}
	account, ok := value.(domain.Account)
	return account, ok
}
