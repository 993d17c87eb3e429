package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"questrack/internal/auth/service"
	pkgerrors "questrack/pkg/errors"
	"questrack/pkg/utils/contextkey"

	"github.com/gin-gonic/gin"
)

type stubAuthenticator struct {
	tokens map[string]int64
	err    error
}

func (s stubAuthenticator) Authenticate(_ context.Context, raw string) (service.Identity, error) {
	if s.err != nil {
		return service.Identity{}, s.err
	}
	id, ok := s.tokens[raw]
	if !ok {
		return service.Identity{}, pkgerrors.New(pkgerrors.TokenInvalid)
	}
	return service.Identity{UserID: id}, nil
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{header: "", want: ""},
		{header: "Bearer abc", want: "abc"},
		{header: "bearer  abc ", want: "abc"},
		{header: "Basic abc", want: ""},
		{header: "Bearer", want: ""},
	}
	for _, tc := range cases {
		if got := BearerToken(tc.header); got != tc.want {
			t.Fatalf("BearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestBearerAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		auth       Authenticator
		header     string
		wantStatus int
		wantUser   string
	}{
		{
			name:       "valid token",
			auth:       stubAuthenticator{tokens: map[string]int64{"good": 42}},
			header:     "Bearer good",
			wantStatus: http.StatusOK,
			wantUser:   "42",
		},
		{
			name:       "missing token",
			auth:       stubAuthenticator{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			auth:       stubAuthenticator{tokens: map[string]int64{}},
			header:     "Bearer bad",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "store unavailable",
			auth:       stubAuthenticator{err: pkgerrors.New(pkgerrors.ServiceUnavailable)},
			header:     "Bearer good",
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(BearerAuth(tc.auth))
			router.GET("/me", func(c *gin.Context) {
				c.Header("X-User", fmt.Sprint(UserID(c)))
				c.Header("X-Ctx-User", fmt.Sprint(c.Request.Context().Value(contextkey.UserID)))
				c.Status(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("unexpected status: %d", rec.Code)
			}
			if tc.wantUser != "" {
				if rec.Header().Get("X-User") != tc.wantUser || rec.Header().Get("X-Ctx-User") != tc.wantUser {
					t.Fatalf("user id not propagated: %q %q", rec.Header().Get("X-User"), rec.Header().Get("X-Ctx-User"))
				}
			}
		})
	}
}
