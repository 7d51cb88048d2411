package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTraceRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AttachTraceContext())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestAttachTraceContextGeneratesIDs(t *testing.T) {
	router := newTraceRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Trace-Id") == "" {
		t.Fatal("expected X-Trace-Id on the response")
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected X-Request-Id on the response")
	}
}

func TestAttachTraceContextEchoesIncomingIDs(t *testing.T) {
	router := newTraceRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Trace-Id", "trace-123")
	req.Header.Set("X-Request-Id", "req-456")
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Trace-Id"); got != "trace-123" {
		t.Fatalf("X-Trace-Id: got %q, want trace-123", got)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "req-456" {
		t.Fatalf("X-Request-Id: got %q, want req-456", got)
	}
}
