package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/authbase/identity-api/internal/api/metrics"
	"github.com/authbase/identity-api/internal/core/domain"
	"github.com/authbase/identity-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	userService ports.UserService
}

func NewAuthHandler(authService ports.AuthService, userService ports.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"max=40"`
	LastName  string `json:"lastName" validate:"max=40"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type addRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Register creates a new account and returns a session token for it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, _, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, tokenResponse{AccessToken: token})
}

// Login verifies credentials and returns a fresh session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token})
}

// AddRole grants a role to the target user. Admin only.
//
// @Summary      Add a role to a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        userId  path      int             true  "Target user id"
// @Param        body    body      addRoleRequest  true  "Role to grant"
// @Success      201     {object}  domain.User
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/auth/roles/{userId} [post]
func (h *AuthHandler) AddRole(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}

	var req addRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	user, err := h.userService.AddRole(c.Request().Context(), userID, role)
	if err != nil {
		metrics.RoleMutationsTotal.WithLabelValues("add", "error").Inc()
		return err
	}

	metrics.RoleMutationsTotal.WithLabelValues("add", "ok").Inc()
	return c.JSON(http.StatusCreated, user)
}

// RemoveRole revokes a role from the target user. Admin only.
//
// @Summary      Remove a role from a user
// @Tags         auth
// @Produce      json
// @Param        userId  path      int     true  "Target user id"
// @Param        role    path      string  true  "Role to revoke"
// @Success      201     {object}  domain.User
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/auth/roles/{userId}/remove/{role} [delete]
func (h *AuthHandler) RemoveRole(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}

	role, err := domain.ParseRole(c.Param("role"))
	if err != nil {
		return err
	}

	user, err := h.userService.RemoveRole(c.Request().Context(), userID, role)
	if err != nil {
		metrics.RoleMutationsTotal.WithLabelValues("remove", "error").Inc()
		return err
	}

	metrics.RoleMutationsTotal.WithLabelValues("remove", "ok").Inc()
	return c.JSON(http.StatusCreated, user)
}

func pathUserID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}
