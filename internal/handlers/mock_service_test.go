package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"bloglist/internal/apperror"
	"bloglist/internal/models"
	"bloglist/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser *models.User
	registerErr  error
	loginResult  models.LoginResult
	loginErr     error

	// users maps token -> user for ResolveUser; unknown tokens are TokenInvalid.
	users map[string]*models.User

	lastRegister   service.RegisterInput
	lastLoginUser  string
	lastLoginPass  string
	lastParseToken string
}

func (m *mockAuth) Register(_ context.Context, in service.RegisterInput) (*models.User, error) {
	m.lastRegister = in
	return m.registerUser, m.registerErr
}

func (m *mockAuth) Login(_ context.Context, username, password string) (models.LoginResult, error) {
	m.lastLoginUser = username
	m.lastLoginPass = password
	return m.loginResult, m.loginErr
}

func (m *mockAuth) ResolveUser(_ context.Context, token string) (*models.User, error) {
	m.lastParseToken = token
	if u, ok := m.users[token]; ok {
		return u, nil
	}
	return nil, apperror.ErrTokenInvalid
}

type mockBlogs struct {
	blogs     []models.Blog
	blog      *models.Blog
	err       error
	deleteErr error

	lastActor  *models.User
	lastID     string
	lastInput  service.BlogInput
	lastUpdate service.BlogUpdate
	lastComm   string
	deletes    int
	likes      int
}

func (m *mockBlogs) List(context.Context) ([]models.Blog, error) { return m.blogs, m.err }

func (m *mockBlogs) Get(_ context.Context, id string) (*models.Blog, error) {
	m.lastID = id
	return m.blog, m.err
}

func (m *mockBlogs) Create(_ context.Context, actor *models.User, in service.BlogInput) (*models.Blog, error) {
	m.lastActor = actor
	m.lastInput = in
	return m.blog, m.err
}

func (m *mockBlogs) Update(_ context.Context, id string, in service.BlogUpdate) (*models.Blog, error) {
	m.lastID = id
	m.lastUpdate = in
	return m.blog, m.err
}

func (m *mockBlogs) Like(_ context.Context, id string) (*models.Blog, error) {
	m.lastID = id
	m.likes++
	return m.blog, m.err
}

func (m *mockBlogs) Comment(_ context.Context, id, comment string) (*models.Blog, error) {
	m.lastID = id
	m.lastComm = comment
	return m.blog, m.err
}

func (m *mockBlogs) Delete(_ context.Context, actor *models.User, id string) error {
	m.lastActor = actor
	m.lastID = id
	m.deletes++
	return m.deleteErr
}

type mockUsers struct {
	users []models.User
	user  *models.User
	err   error
}

func (m *mockUsers) List(context.Context) ([]models.User, error)       { return m.users, m.err }
func (m *mockUsers) Get(context.Context, string) (*models.User, error) { return m.user, m.err }

type mockMaintenance struct {
	calls int
	err   error
}

func (m *mockMaintenance) Reset(context.Context) error {
	m.calls++
	return m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, opts...)
	return h.InitRoutes()
}

func doRequest(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
