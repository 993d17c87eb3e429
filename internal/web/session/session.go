// Package session resolves the viewer of a page and gates identity-scoped
// pages behind sign-in.
package session

import (
	"context"
	"net/http"
	"sync"

	authsvc "questrack/internal/auth/service"
	pkgerrors "questrack/pkg/errors"
	"questrack/pkg/utils/logger"

	"go.uber.org/zap"
)

// Status is the resolution state of a session.
type Status string

const (
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Session is the viewer as far as the page knows. Token is the raw access
// token forwarded to question-service.
type Session struct {
	UserID int64
	Status Status
	Token  string
}

// Resolved reports whether the session is no longer loading.
func (s Session) Resolved() bool {
	return s.Status != StatusLoading
}

// Decision is what a gated page does with a session.
type Decision int

const (
	// DecisionSpinner shows a spinner and does not navigate.
	DecisionSpinner Decision = iota
	// DecisionAllow renders the page.
	DecisionAllow
	// DecisionRedirect sends the viewer to sign-in.
	DecisionRedirect
	// DecisionHold is a resolved, anonymous session whose redirect was already issued.
	DecisionHold
)

type observation struct {
	status Status
	userID int64
}

// Gate turns session observations into decisions. It redirects once per
// transition into (resolved, no user) and never while loading.
type Gate struct {
	mu   sync.Mutex
	last *observation
}

func NewGate() *Gate {
	return &Gate{}
}

// Observe records s and decides what to do with it.
func (g *Gate) Observe(s Session) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	obs := observation{status: s.Status, userID: s.UserID}
	changed := g.last == nil || *g.last != obs
	g.last = &obs

	switch {
	case !s.Resolved():
		return DecisionSpinner
	case s.UserID != 0:
		return DecisionAllow
	case changed:
		return DecisionRedirect
	default:
		return DecisionHold
	}
}

// Authenticator validates a raw access token.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (authsvc.Identity, error)
}

// Provider resolves sessions from the session cookie.
type Provider struct {
	auth       Authenticator
	cookieName string
}

func NewProvider(auth Authenticator, cookieName string) *Provider {
	return &Provider{auth: auth, cookieName: cookieName}
}

// Resolve reads the session of r. A missing or invalid token yields an
// unauthenticated session. A revocation store outage yields a loading
// session so the viewer is not bounced to sign-in while it lasts.
func (p *Provider) Resolve(ctx context.Context, r *http.Request) Session {
	cookie, err := r.Cookie(p.cookieName)
	if err != nil || cookie.Value == "" {
		return Session{Status: StatusUnauthenticated}
	}
	identity, err := p.auth.Authenticate(ctx, cookie.Value)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.ServiceUnavailable) {
			logger.Warn(ctx, "session not ready", zap.Error(err))
			return Session{Status: StatusLoading}
		}
		return Session{Status: StatusUnauthenticated}
	}
	return Session{UserID: identity.UserID, Status: StatusAuthenticated, Token: cookie.Value}
}
