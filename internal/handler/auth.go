package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/danmakarov/beauty-salon-api/internal/model"
	"github.com/danmakarov/beauty-salon-api/internal/utils"
)

// UserStore looks up identities for the login flow.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// SessionStore manages the 1:1 opaque session tokens.
type SessionStore interface {
	GetOrCreate(ctx context.Context, userID uint64) (string, error)
	DeleteForUser(ctx context.Context, userID uint64) (bool, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Users  UserStore
	Tokens SessionStore
}

func NewAuthHandler(u UserStore, t SessionStore) *AuthHandler {
	return &AuthHandler{Users: u, Tokens: t}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// invalidCredentials is the single failure response for every login
// error: unknown username, wrong password and inactive account are
// indistinguishable to the caller by design.
func invalidCredentials(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid credentials"})
}

// Login exchanges username+password for the user's session token.
// Logging in again while a token exists returns the same token value
// rather than rotating it.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return invalidCredentials(c)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		return invalidCredentials(c)
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return invalidCredentials(c)
	}

	token, err := h.Tokens.GetOrCreate(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":    token,
		"user_id":  u.ID,
		"username": u.Username,
	})
}

// Logout deletes the caller's session token. Absence of a token is
// not an error; the acknowledgement just reads differently.
func (h *AuthHandler) Logout(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	deleted, err := h.Tokens.DeleteForUser(ctx, cl.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if !deleted {
		return c.JSON(http.StatusOK, echo.Map{"message": "No token found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully logged out"})
}

// CSRF issues the csrftoken cookie consumed by browser clients.
func (h *AuthHandler) CSRF(c echo.Context) error {
	token, err := utils.NewCSRFToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue csrf failed"})
	}
	c.SetCookie(&http.Cookie{
		Name:     "csrftoken",
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"detail": "CSRF cookie set"})
}
