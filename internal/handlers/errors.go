package handlers

import (
	"net/http"

	"bloglist/internal/apperror"

	"github.com/gin-gonic/gin"
)

const msgInternal = "internal server error"

// fail records err for errorHandler and stops the chain. Every handler path
// that fails ends with exactly one call to fail followed by return.
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// errorHandler is the single place where errors become responses. Known
// kinds map to their status; anything else is a 500 with no details.
func (h *Handler) errorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last().Err

	if ae, ok := apperror.From(err); ok && ae.Kind != apperror.Internal {
		c.JSON(ae.StatusCode(), gin.H{"error": ae.Message})
		return
	}

	h.log.Errorw("unhandled_error", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}

func (h *Handler) recoverPanic(c *gin.Context, recovered any) {
	h.log.Errorw("panic_recovered", "path", c.Request.URL.Path, "panic", recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}

// bindJSON binds the body into dst and records a ValidationError on failure.
// Returns false if the request was already handled.
func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		h.fail(c, apperror.NewValidation("invalid body: "+err.Error(), err))
		return false
	}
	return true
}
