package api

import (
	"net/http"
	"strings"

	"github.com/Domenick1991/carrental/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID   = "userId"
	ContextIsDealer = "isDealer"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticator reads the accounts service token from the Authorization
// header or, failing that, from the auth cookie.
type Authenticator struct {
	verifier   TokenVerifier
	cookieName string
}

func NewAuthenticator(verifier TokenVerifier, cookieName string) *Authenticator {
	return &Authenticator{verifier: verifier, cookieName: cookieName}
}

func (a *Authenticator) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := a.verifier.Verify(a.token(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
			return
		}
		userID, err := claims.ID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextIsDealer, claims.IsDealer)
		c.Next()
	}
}

// RequireDealer must run after RequireUser. The dealer profile itself is
// checked by the dealer service.
func (a *Authenticator) RequireDealer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsDealer) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Dealers only"})
			return
		}
		c.Next()
	}
}

func (a *Authenticator) token(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if a.cookieName == "" {
		return ""
	}
	cookie, err := c.Cookie(a.cookieName)
	if err != nil {
		return ""
	}
	return cookie
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}
