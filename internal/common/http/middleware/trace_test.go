package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"questrack/pkg/utils/contextkey"

	"github.com/gin-gonic/gin"
)

func TestTraceContextMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TraceContextMiddleware(), RequestLogger())
	router.GET("/trace", func(c *gin.Context) {
		ctx := c.Request.Context()
		c.Header("X-Ctx-Trace", fmt.Sprint(ctx.Value(contextkey.TraceID)))
		c.Header("X-Ctx-Request", fmt.Sprint(ctx.Value(contextkey.RequestID)))
		c.Header("X-Helper-Trace", TraceID(ctx))
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name          string
		headers       map[string]string
		wantTraceID   string
		wantRequestID string
	}{
		{
			name: "generate trace and request id",
		},
		{
			name: "preserve incoming ids",
			headers: map[string]string{
				TraceIDHeader:   "trace-123",
				RequestIDHeader: "req-123",
			},
			wantTraceID:   "trace-123",
			wantRequestID: "req-123",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/trace", nil)
			for key, value := range tc.headers {
				req.Header.Set(key, value)
			}
			router.ServeHTTP(rec, req)

			traceID := rec.Header().Get(TraceIDHeader)
			requestID := rec.Header().Get(RequestIDHeader)
			if traceID == "" || requestID == "" {
				t.Fatalf("expected ids in response headers, got %q %q", traceID, requestID)
			}
			if tc.wantTraceID != "" && traceID != tc.wantTraceID {
				t.Fatalf("unexpected trace id: %s", traceID)
			}
			if tc.wantRequestID != "" && requestID != tc.wantRequestID {
				t.Fatalf("unexpected request id: %s", requestID)
			}
			if rec.Header().Get("X-Ctx-Trace") != traceID || rec.Header().Get("X-Helper-Trace") != traceID {
				t.Fatalf("context trace id does not match header")
			}
			if rec.Header().Get("X-Ctx-Request") != requestID {
				t.Fatalf("context request id does not match header")
			}
		})
	}
}
