package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/danmakarov/beauty-salon-api/internal/model"
	"github.com/danmakarov/beauty-salon-api/internal/repository"
)

// ClientStore is the data access surface the client endpoints need.
// Every method is owner-scoped: client visibility is direct ownership
// for all callers, superusers included.
type ClientStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Client, error)
	GetByIDForUser(ctx context.Context, id, userID uint64) (model.Client, error)
	Create(ctx context.Context, cl *model.Client) error
	Update(ctx context.Context, cl *model.Client, userID uint64) error
	Delete(ctx context.Context, id, userID uint64) error
	Stats(ctx context.Context, userID uint64) (model.ClientStats, error)
}

// ClientHandler serves /api/clients/.
type ClientHandler struct{ Clients ClientStore }

func NewClientHandler(clients ClientStore) *ClientHandler {
	return &ClientHandler{Clients: clients}
}

type clientReq struct {
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	ServiceID *uint64 `json:"service"`
	Picture   *string `json:"picture"`
}

// List returns the caller's own client profiles.
func (h *ClientHandler) List(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	items, err := h.Clients.ListByUser(ctx, cl.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Detail returns one of the caller's clients.
func (h *ClientHandler) Detail(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	item, err := h.Clients.GetByIDForUser(ctx, id, cl.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, item)
}

// Create inserts a client bound to the calling identity. A
// caller-supplied owner is ignored.
func (h *ClientHandler) Create(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	var req clientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	item := model.Client{
		UserID:    &cl.UserID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		ServiceID: req.ServiceID,
		Picture:   req.Picture,
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Clients.Create(ctx, &item); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusCreated, item)
}

// Update rewrites one of the caller's clients. The route is mounted
// behind the elevation gate.
func (h *ClientHandler) Update(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req clientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	item := model.Client{
		ID:        id,
		UserID:    &cl.UserID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		ServiceID: req.ServiceID,
		Picture:   req.Picture,
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Clients.Update(ctx, &item, cl.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, item)
}

// Delete removes one of the caller's clients. No elevation required.
func (h *ClientHandler) Delete(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Clients.Delete(ctx, id, cl.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return deleteError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats aggregates the caller's clients.
func (h *ClientHandler) Stats(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	st, err := h.Clients.Stats(ctx, cl.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, st)
}
