package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/danmakarov/beauty-salon-api/internal/model"
)

// ProfileReader loads the full identity record behind a request.
type ProfileReader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// ProfileHandler serves GET /api/users/profile/.
type ProfileHandler struct{ Users ProfileReader }

func NewProfileHandler(users ProfileReader) *ProfileHandler {
	return &ProfileHandler{Users: users}
}

func (h *ProfileHandler) Profile(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, cl.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"date_joined": u.DateJoined,
	})
}
