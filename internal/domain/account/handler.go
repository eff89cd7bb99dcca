// Package account is the gateway's auth surface: sign-in, sign-out,
// registration, and the current-user view over the session store.
package account

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/internal/auth"
	"github.com/rxgate/rxgate/internal/guard"
	"github.com/rxgate/rxgate/internal/platform/backend"
	"github.com/rxgate/rxgate/internal/platform/httperr"
	"github.com/rxgate/rxgate/internal/session"
)

type Handler struct {
	sessions *session.Manager
	gw       *auth.Gateway
	logger   zerolog.Logger
}

func NewHandler(sessions *session.Manager, gw *auth.Gateway, logger zerolog.Logger) *Handler {
	return &Handler{sessions: sessions, gw: gw, logger: logger}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/login", h.Login)
	e.GET("/login", h.LoginForm)
	e.POST("/logout", h.Logout)
	e.POST("/register", h.Register)
	e.GET("/me", h.Me)
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

// LoginForm answers the redirect target for unauthenticated navigations.
// The from parameter is recorded for diagnostics; post-login navigation
// lands on the role's home regardless.
func (h *Handler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "login required",
		"from":   c.QueryParam("from"),
	})
}

// Login authenticates and answers with a redirect to the role's home. A new
// session cookie replaces whatever identity the browser held before.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Respond(c, backend.Validation("malformed login payload"))
	}
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		return httperr.Respond(c, backend.Validation("a valid role is required to sign in"))
	}

	var priorID string
	if cookie, err := c.Cookie(guard.CookieName); err == nil {
		priorID = cookie.Value
	}

	snap, err := h.sessions.Login(c.Request().Context(), priorID, auth.Credentials{
		Username: req.Username,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return httperr.Respond(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     guard.CookieName,
		Value:    snap.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	return c.JSON(http.StatusOK, map[string]string{
		"redirect": role.Home(),
	})
}

// Logout clears the session and expires the cookie. Local cleanup only.
func (h *Handler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(guard.CookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Logout(c.Request().Context(), cookie.Value); err != nil {
			return httperr.Respond(c, err)
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     guard.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return c.JSON(http.StatusOK, map[string]string{"redirect": guard.LoginPath})
}

type registerRequest struct {
	Role string `json:"role"`
	auth.Registration
}

// Register creates an account in the role's collection. The role selects the
// endpoint and never travels in the payload.
func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Respond(c, backend.Validation("malformed registration payload"))
	}
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		return httperr.Respond(c, backend.Validation("a valid role is required to register"))
	}
	reg := req.Registration
	reg.Role = role

	profile, err := h.gw.Register(c.Request().Context(), reg)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, profile)
}

// Me exposes the session's profile to the navigation shell.
func (h *Handler) Me(c echo.Context) error {
	s, ok := guard.FromContext(c)
	if !ok {
		return c.Redirect(http.StatusFound, guard.LoginPath)
	}
	return c.JSON(http.StatusOK, s.Profile)
}
