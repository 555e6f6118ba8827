package handlers

import (
	"net/http"

	"bloglist/internal/apperror"
	"bloglist/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the login payload. Missing fields fall through to the
// credential check and fail like any wrong password.
type LoginRequest struct {
	Username string `json:"username" example:"root"`
	Password string `json:"password" example:"secret"`
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Username string `json:"username" example:"root"`
	Name     string `json:"name" example:"Superuser"`
	Password string `json:"password" example:"secret"`
}

// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  models.LoginResult
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	// a malformed body fails the same way as wrong credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Infow("login_failed", "err", err)
		h.fail(c, apperror.ErrInvalidCredentials)
		return
	}

	res, err := h.services.Authorization.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.log.Infow("login_failed", "username", input.Username, "err", err)
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "New user"
// @Success      201   {object}  models.User
// @Failure      400   {object}  map[string]string
// @Router       /api/users [post]
func (h *Handler) register(c *gin.Context) {
	var input RegisterRequest
	if ok := h.bindJSON(c, &input); !ok {
		return
	}

	u, err := h.services.Authorization.Register(c.Request.Context(), service.RegisterInput{
		Username: input.Username,
		Name:     input.Name,
		Password: input.Password,
	})
	if err != nil {
		h.log.Infow("register_failed", "username", input.Username, "err", err)
		h.fail(c, err)
		return
	}

	h.log.Infow("user_registered", "username", u.Username, "id", u.ID)
	c.JSON(http.StatusCreated, u)
}
