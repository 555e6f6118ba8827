package handlers

import (
	"errors"
	"net/http"
	"testing"

	"bloglist/internal/service"

	"github.com/gin-gonic/gin"
)

func TestErrorHandler_UnknownErrorDoesNotLeak(t *testing.T) {
	r := newTestRouter(&service.Service{Blogs: &mockBlogs{err: errors.New("sql: database is locked")}})

	w := doRequest(r, http.MethodGet, "/api/blogs", "", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if got := w.Body.String(); got != `{"error":"internal server error"}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	r := newTestRouter(&service.Service{})
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := doRequest(r, http.MethodGet, "/boom", "", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if got := w.Body.String(); got != `{"error":"internal server error"}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := doRequest(r, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
}
