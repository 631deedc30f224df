package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/danmakarov/beauty-salon-api/internal/model"
	"github.com/danmakarov/beauty-salon-api/internal/repository"
	"github.com/danmakarov/beauty-salon-api/internal/scope"
)

// ReviewStore is the data access surface for reviews.
type ReviewStore interface {
	List(ctx context.Context, vis scope.Visibility, userID uint64) ([]model.Review, error)
	GetByID(ctx context.Context, id uint64, vis scope.Visibility, userID uint64) (model.Review, error)
	Create(ctx context.Context, v *model.Review) error
	Update(ctx context.Context, v *model.Review, vis scope.Visibility, userID uint64) error
	Delete(ctx context.Context, id uint64, vis scope.Visibility, userID uint64) error
	Stats(ctx context.Context, vis scope.Visibility, userID uint64) (model.ReviewStats, error)
}

// ReviewHandler serves /api/reviews/.
type ReviewHandler struct {
	Reviews ReviewStore
	Clients ClientFinder
}

func NewReviewHandler(r ReviewStore, cf ClientFinder) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Clients: cf}
}

type reviewReq struct {
	ServiceID uint64 `json:"service"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *ReviewHandler) List(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	items, err := h.Reviews.List(ctx, scope.For(scope.Reviews, cl), cl.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ReviewHandler) Detail(c echo.Context) error {
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

	item, err := h.Reviews.GetByID(ctx, id, scope.For(scope.Reviews, cl), cl.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, item)
}

// Create posts a review bound to the caller's client profile; the
// creation timestamp is server-assigned and immutable afterwards.
func (h *ReviewHandler) Create(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ServiceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service is required"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	owner, err := h.Clients.FirstByUser(ctx, cl.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNoClientProfile) {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": repository.ErrNoClientProfile.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	item := model.Review{
		ClientID:  owner.ID,
		ServiceID: req.ServiceID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	}
	if err := h.Reviews.Create(ctx, &item); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusCreated, item)
}

// Update rewrites rating and comment of a visible review; mounted
// behind the elevation gate.
func (h *ReviewHandler) Update(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ServiceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service is required"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	item := model.Review{ID: id, ServiceID: req.ServiceID, Rating: req.Rating, Comment: strings.TrimSpace(req.Comment)}
	if err := h.Reviews.Update(ctx, &item, scope.For(scope.Reviews, cl), cl.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
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
	if err := h.Reviews.Delete(ctx, id, scope.For(scope.Reviews, cl), cl.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return deleteError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReviewHandler) Stats(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	st, err := h.Reviews.Stats(ctx, scope.For(scope.Reviews, cl), cl.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, st)
}
