package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   models.User
// @Router       /api/users [get]
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *Handler) getUser(c *gin.Context) {
	u, err := h.services.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary      Reset the database
// @Description  Only registered in the test environment.
// @Tags         testing
// @Success      204
// @Router       /api/testing/reset [post]
func (h *Handler) reset(c *gin.Context) {
	if err := h.services.Maintenance.Reset(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.log.Warnw("database_reset")
	c.Status(http.StatusNoContent)
}
