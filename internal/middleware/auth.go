package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/danmakarov/beauty-salon-api/internal/model"
	"github.com/danmakarov/beauty-salon-api/internal/scope"
)

// TokenResolver resolves an opaque bearer token to its owning user.
// Implemented by repository.TokenRepo.
type TokenResolver interface {
	UserByToken(ctx context.Context, token string) (model.User, error)
}

// TokenAuth returns an Echo middleware that validates a session token
// from the Authorization header and injects the resolved identity into
// the request context. Both "Bearer <token>" and "Token <token>"
// schemes are accepted; the latter is what older API clients still
// send. Requests without a valid token are rejected with 401 before
// any resource logic runs.
func TokenAuth(tokens TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request().Header.Get("Authorization"))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := tokens.UserByToken(ctx, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set("user_id", u.ID)
			c.Set("username", u.Username)
			c.Set("is_superuser", u.IsSuperuser)
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	for _, prefix := range []string{"Bearer ", "Token "} {
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, prefix))
		}
	}
	return ""
}

// CallerFrom rebuilds the scoping identity stored by TokenAuth.
func CallerFrom(c echo.Context) (scope.Caller, bool) {
	id, ok := c.Get("user_id").(uint64)
	if !ok || id == 0 {
		return scope.Caller{}, false
	}
	super, _ := c.Get("is_superuser").(bool)
	return scope.Caller{UserID: id, Superuser: super}, true
}
