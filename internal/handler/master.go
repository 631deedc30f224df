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

// MasterStore is the data access surface for the shared staff roster.
type MasterStore interface {
	List(ctx context.Context) ([]model.Master, error)
	GetByID(ctx context.Context, id uint64) (model.Master, error)
	Create(ctx context.Context, m *model.Master) error
	Update(ctx context.Context, m *model.Master) error
	Delete(ctx context.Context, id uint64) error
	Stats(ctx context.Context) (model.MasterStats, error)
	ListWithServiceNames(ctx context.Context) ([]model.Master, map[uint64]string, error)
}

// MasterHandler serves /api/masters/.
type MasterHandler struct{ Masters MasterStore }

func NewMasterHandler(masters MasterStore) *MasterHandler {
	return &MasterHandler{Masters: masters}
}

type masterReq struct {
	Name           string   `json:"name"`
	Specialization string   `json:"specialization"`
	ServiceIDs     []uint64 `json:"services"`
}

func (h *MasterHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()
	items, err := h.Masters.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MasterHandler) Detail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	item, err := h.Masters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MasterHandler) Create(c echo.Context) error {
	var req masterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.ServiceIDs == nil {
		req.ServiceIDs = []uint64{}
	}

	item := model.Master{Name: req.Name, Specialization: req.Specialization, ServiceIDs: req.ServiceIDs}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Masters.Create(ctx, &item); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *MasterHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req masterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.ServiceIDs == nil {
		req.ServiceIDs = []uint64{}
	}

	item := model.Master{ID: id, Name: req.Name, Specialization: req.Specialization, ServiceIDs: req.ServiceIDs}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Masters.Update(ctx, &item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MasterHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Masters.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return deleteError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MasterHandler) Stats(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()
	st, err := h.Masters.Stats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, st)
}

// ExportExcel streams the roster as masters.xlsx.
func (h *MasterHandler) ExportExcel(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()
	items, names, err := h.Masters.ListWithServiceNames(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	f, err := export.Masters(items, names)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build workbook failed"})
	}
	return writeWorkbook(c, f, "masters.xlsx")
}
