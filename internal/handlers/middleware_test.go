package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bloglist/internal/models"
	"bloglist/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the auth middleware + a protected endpoint
func newMiddlewareOnlyRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.Use(h.errorHandler, h.tokenExtractor)
	r.GET("/token", func(c *gin.Context) {
		tok, ok := c.Get(ctxTokenKey)
		c.JSON(http.StatusOK, gin.H{"present": ok, "token": tok})
	})
	r.GET("/secure", h.userExtractor, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "userId": currentUser(c).ID})
	})
	return r
}

func TestTokenExtractor(t *testing.T) {
	cases := []struct {
		name        string
		header      string
		wantPresent bool
		wantToken   string
	}{
		{"no header", "", false, ""},
		{"bearer token", "Bearer abc.def", true, "abc.def"},
		{"lowercase scheme is ignored", "bearer abc", false, ""},
		{"other scheme", "Token abc", false, ""},
		{"no space", "Bearerabc", false, ""},
		{"bearer without token", "Bearer ", true, ""},
	}
	r := newMiddlewareOnlyRouter(&service.Service{})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/token", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("extractor must never fail the request, got %d", w.Code)
			}
			var out struct {
				Present bool   `json:"present"`
				Token   string `json:"token"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Present != tc.wantPresent || out.Token != tc.wantToken {
				t.Fatalf("got %+v, want present=%v token=%q", out, tc.wantPresent, tc.wantToken)
			}
		})
	}
}

func TestUserExtractor_Errors(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{"missing header", "", "token missing"},
		{"invalid scheme", "Token abc", "token missing"},
		{"bearer without token", "Bearer ", "token missing"},
		{"unknown token", "Bearer forged", "token invalid"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{}
			r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth})

			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want 401 (body=%s)", w.Code, w.Body.String())
			}
			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.wantMsg {
				t.Fatalf("error message: got %q, want %q", out.Error, tc.wantMsg)
			}
		})
	}
}

func TestUserExtractor_SuccessSetsUserAndProceeds(t *testing.T) {
	auth := &mockAuth{users: map[string]*models.User{"good-token": {ID: "u123"}}}
	r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth})

	w := doRequest(r, http.MethodGet, "/secure", "", "good-token")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		OK     bool   `json:"ok"`
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.OK || resp.UserID != "u123" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if auth.lastParseToken != "good-token" {
		t.Fatalf("ResolveUser got %q, want %q", auth.lastParseToken, "good-token")
	}
}
