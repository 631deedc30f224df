package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/danmakarov/beauty-salon-api/internal/export"
	"github.com/danmakarov/beauty-salon-api/internal/model"
	"github.com/danmakarov/beauty-salon-api/internal/repository"
)

// CatalogServiceStore is the data access surface for the shared
// service catalog. No scoping: every authenticated caller sees all.
type CatalogServiceStore interface {
	List(ctx context.Context) ([]model.Service, error)
	GetByID(ctx context.Context, id uint64) (model.Service, error)
	Create(ctx context.Context, s *model.Service) error
	Update(ctx context.Context, s *model.Service) error
	Delete(ctx context.Context, id uint64) error
	Stats(ctx context.Context) (model.ServiceStats, error)
}

// ServiceHandler serves /api/services/.
type ServiceHandler struct{ Services CatalogServiceStore }

func NewServiceHandler(services CatalogServiceStore) *ServiceHandler {
	return &ServiceHandler{Services: services}
}

type serviceReq struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration"`
	Picture     *string `json:"picture"`
}

func (h *ServiceHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()
	items, err := h.Services.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ServiceHandler) Detail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	item, err := h.Services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ServiceHandler) Create(c echo.Context) error {
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Price < 0 || req.DurationMin <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price and duration must be positive"})
	}

	item := model.Service{Name: req.Name, Price: req.Price, DurationMin: req.DurationMin, Picture: req.Picture}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Services.Create(ctx, &item); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *ServiceHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	item := model.Service{ID: id, Name: req.Name, Price: req.Price, DurationMin: req.DurationMin, Picture: req.Picture}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Services.Update(ctx, &item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ServiceHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Services.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		// FK violations from dependent clients/appointments land here.
		return deleteError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ServiceHandler) Stats(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()
	st, err := h.Services.Stats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, st)
}

// ExportExcel streams the catalog as services.xlsx.
func (h *ServiceHandler) ExportExcel(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()
	items, err := h.Services.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	f, err := export.Services(items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build workbook failed"})
	}
	return writeWorkbook(c, f, "services.xlsx")
}
