package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

// Registrar creates accounts on the identity backend.
type Registrar interface {
	Register(ctx context.Context, email, password, tenantID string) (*domain.User, error)
}

// SessionController is the session lifecycle surface exposed over HTTP.
type SessionController interface {
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context) error
	Current() *domain.Session
}

type AuthHandler struct {
	registrar Registrar
	sessions  SessionController
}

func NewAuthHandler(registrar Registrar, sessions SessionController) *AuthHandler {
	return &AuthHandler{registrar: registrar, sessions: sessions}
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token  string `json:"token,omitempty"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Register creates a new account scoped to the request's tenant.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.registrar.Register(c.Request().Context(), req.Email, req.Password, ctxTenant(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and establishes the session.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.sessions.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Token: sess.Token, UserID: sess.UserID, Email: sess.Email})
}

// Logout ends the current session. A second call reports the absence.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.SignOut(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Session returns the currently established session, if any.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	sess := h.sessions.Current()
	if sess == nil {
		return domain.ErrNoSession
	}
	return c.JSON(http.StatusOK, sessionResponse{UserID: sess.UserID, Email: sess.Email})
}
