package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/logger"
)

const (
	EmailKey = "email"
	TokenKey = "token"
)

// SessionResolver maps a bearer token to the session it was issued for.
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (*entity.Session, error)
}

// ErrNoSession is what a resolver returns for an unknown token.
var ErrNoSession = errors.New("session not found")

// BearerAuth resolves "Authorization: Bearer <token>" through the session
// store. With required=false a missing or unknown token is let through
// anonymously.
func BearerAuth(resolver SessionResolver, required bool, unknown error) gin.HandlerFunc {
	if unknown == nil {
		unknown = ErrNoSession
	}
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
				return
			}
			c.Next()
			return
		}

		s, err := resolver.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, unknown) {
				logger.Errorf("session lookup failed: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
				return
			}
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			c.Next()
			return
		}

		c.Set(EmailKey, s.Email)
		c.Set(TokenKey, token)
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
