package middleware

import (
	"context"
	"strings"

	"questrack/internal/auth/service"
	pkgerrors "questrack/pkg/errors"
	"questrack/pkg/utils/contextkey"
	"questrack/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// Authenticator validates a raw access token.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (service.Identity, error)
}

// BearerAuth rejects requests without a valid bearer token and stores the
// caller's id on both the gin and the request context.
func BearerAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth == nil {
			response.AbortWithErrorCode(c, pkgerrors.ServiceUnavailable, "auth service unavailable")
			return
		}

		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.AbortWithErrorCode(c, pkgerrors.Unauthorized, "missing bearer token")
			return
		}
		identity, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		c.Set(userIDKey, identity.UserID)
		ctx := context.WithValue(c.Request.Context(), contextkey.UserID, identity.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// UserID returns the authenticated caller id, 0 if none.
func UserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
