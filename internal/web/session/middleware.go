package session

import (
	"context"
	"net/http"
	"net/url"

	"questrack/pkg/utils/contextkey"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// GateConfig configures RequireSession.
type GateConfig struct {
	SignInPath string
	// SpinnerTemplate is rendered while the session is loading. The page
	// refreshes itself after RefreshSeconds.
	SpinnerTemplate string
	RefreshSeconds  string
}

// RequireSession gates a page on a signed-in viewer.
func RequireSession(provider *Provider, cfg GateConfig) gin.HandlerFunc {
	if cfg.RefreshSeconds == "" {
		cfg.RefreshSeconds = "1"
	}
	return func(c *gin.Context) {
		sess := provider.Resolve(c.Request.Context(), c.Request)
		store(c, sess)

		switch NewGate().Observe(sess) {
		case DecisionAllow:
			c.Next()
		case DecisionSpinner:
			c.Header("Refresh", cfg.RefreshSeconds)
			c.Header("Cache-Control", "no-store")
			c.HTML(http.StatusOK, cfg.SpinnerTemplate, gin.H{"Title": "Loading", "Refresh": cfg.RefreshSeconds})
			c.Abort()
		case DecisionRedirect:
			target := cfg.SignInPath + "?callbackUrl=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
		default:
			c.AbortWithStatus(http.StatusUnauthorized)
		}
	}
}

// FromContext returns the session stored by RequireSession.
func FromContext(c *gin.Context) Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return Session{Status: StatusUnauthenticated}
}

func store(c *gin.Context, sess Session) {
	c.Set(sessionKey, sess)
	ctx := context.WithValue(c.Request.Context(), contextkey.Session, sess)
	if sess.UserID != 0 {
		ctx = context.WithValue(ctx, contextkey.UserID, sess.UserID)
	}
	c.Request = c.Request.WithContext(ctx)
}
