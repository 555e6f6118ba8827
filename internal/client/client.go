package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bloglist/internal/models"
)

const defaultTimeout = 10 * time.Second

// Credential authorizes a single call. The zero value sends no Authorization header.
type Credential struct {
	Token string
}

// Session is what a successful login returns and what SessionStore persists.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Credential returns the credential carried by the session. A nil session yields the zero value.
func (s *Session) Credential() Credential {
	if s == nil {
		return Credential{}
	}
	return Credential{Token: s.Token}
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bloglist api: status %d", e.Status)
	}
	return fmt.Sprintf("bloglist api: status %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

// NewBlog is the create payload. A nil Likes lets the server default it.
type NewBlog struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes,omitempty"`
}

// BlogPatch carries only the fields to replace.
type BlogPatch struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
	URL    *string `json:"url,omitempty"`
	Likes  *int    `json:"likes,omitempty"`
}

// Client talks to the bloglist HTTP API. It holds no credentials of its own.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New parses baseURL ("http://localhost:8080") and returns a Client.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{baseURL: u, httpClient: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var s Session
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", Credential{}, body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Register(ctx context.Context, username, name, password string) (*models.User, error) {
	var u models.User
	body := map[string]string{"username": username, "name": name, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/users", Credential{}, body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/api/users", Credential{}, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Blogs(ctx context.Context) ([]models.Blog, error) {
	var blogs []models.Blog
	if err := c.do(ctx, http.MethodGet, "/api/blogs", Credential{}, nil, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (c *Client) Blog(ctx context.Context, id string) (*models.Blog, error) {
	var b models.Blog
	if err := c.do(ctx, http.MethodGet, blogPath(id), Credential{}, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CreateBlog(ctx context.Context, cred Credential, in NewBlog) (*models.Blog, error) {
	var b models.Blog
	if err := c.do(ctx, http.MethodPost, "/api/blogs", cred, in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) UpdateBlog(ctx context.Context, cred Credential, id string, patch BlogPatch) (*models.Blog, error) {
	var b models.Blog
	if err := c.do(ctx, http.MethodPut, blogPath(id), cred, patch, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Like adds one like. The server does not require a credential for it.
func (c *Client) Like(ctx context.Context, cred Credential, id string) (*models.Blog, error) {
	var b models.Blog
	if err := c.do(ctx, http.MethodPost, blogPath(id)+"/likes", cred, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) Remove(ctx context.Context, cred Credential, id string) error {
	return c.do(ctx, http.MethodDelete, blogPath(id), cred, nil, nil)
}

func (c *Client) AddComment(ctx context.Context, cred Credential, id, comment string) (*models.Blog, error) {
	var b models.Blog
	body := map[string]string{"comment": comment}
	if err := c.do(ctx, http.MethodPost, blogPath(id)+"/comments", cred, body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func blogPath(id string) string {
	return "/api/blogs/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, cred Credential, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cred.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if json.Unmarshal(raw, &payload) != nil || payload.Error == "" {
		payload.Error = strings.TrimSpace(string(raw))
	}
	return &APIError{Status: resp.StatusCode, Message: payload.Error}
}
