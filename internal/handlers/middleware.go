package handlers

import (
	"strings"
	"time"

	"bloglist/internal/apperror"
	"bloglist/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	bearerPrefix = "Bearer "

	ctxTokenKey = "token"
	ctxUserKey  = "user"
)

// tokenExtractor stores the bearer token, if any, for later resolution.
// A missing or differently-shaped header is not an error here.
func (h *Handler) tokenExtractor(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, bearerPrefix) {
		c.Set(ctxTokenKey, strings.TrimPrefix(header, bearerPrefix))
	}
	c.Next()
}

// userExtractor resolves the stored token to a persisted user and aborts
// with the auth error otherwise. Only routes that need an actor use it.
func (h *Handler) userExtractor(c *gin.Context) {
	token := c.GetString(ctxTokenKey)
	if token == "" {
		h.fail(c, apperror.ErrTokenMissing)
		return
	}

	user, err := h.services.Authorization.ResolveUser(c.Request.Context(), token)
	if err != nil {
		h.log.Infow("auth_resolve_failed", "path", c.FullPath(), "err", err)
		h.fail(c, err)
		return
	}

	c.Set(ctxUserKey, user)
	c.Next()
}

// currentUser returns the user set by userExtractor.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"client_ip", c.ClientIP(),
	)
}
