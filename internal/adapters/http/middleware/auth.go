package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
	"github.com/jsamuelsen/wisdom-pocket/internal/platform/logging"
)

// ContextKeyIdentity is the gin context key of the authenticated identity.
const ContextKeyIdentity = "identity"

// TokenVerifier resolves a bearer token to an identity.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// OptionalAuth resolves an "Authorization: Bearer <token>" header to an identity.
// Requests without a bearer credential continue anonymously; a bearer token
// that fails verification is rejected with domain.ErrUnauthorized.
func OptionalAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		identity, err := tokens.Verify(token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()

			return
		}

		c.Set(ContextKeyIdentity, identity)
		c.Request = c.Request.WithContext(logging.WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}

// RequireAuth rejects anonymous requests. Mount it after OptionalAuth.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c) == "" {
			_ = c.Error(domain.ErrUnauthorized)
			c.Abort()

			return
		}

		c.Next()
	}
}

// GetIdentity returns the caller identity, or "" when anonymous.
func GetIdentity(c *gin.Context) string {
	return c.GetString(ContextKeyIdentity)
}

// BearerToken extracts the credential of a Bearer authorization header.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, credential, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	credential = strings.TrimSpace(credential)

	return credential, credential != ""
}
