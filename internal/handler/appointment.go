package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/danmakarov/beauty-salon-api/internal/export"
	"github.com/danmakarov/beauty-salon-api/internal/model"
	"github.com/danmakarov/beauty-salon-api/internal/repository"
	"github.com/danmakarov/beauty-salon-api/internal/scope"
)

// AppointmentStore is the data access surface for bookings; all reads
// take the caller's visibility so scoping stays in one place.
type AppointmentStore interface {
	List(ctx context.Context, vis scope.Visibility, userID uint64) ([]model.Appointment, error)
	GetByID(ctx context.Context, id uint64, vis scope.Visibility, userID uint64) (model.Appointment, error)
	Create(ctx context.Context, a *model.Appointment) error
	Update(ctx context.Context, a *model.Appointment, vis scope.Visibility, userID uint64) error
	Delete(ctx context.Context, id uint64, vis scope.Visibility, userID uint64) error
	Stats(ctx context.Context, vis scope.Visibility, userID uint64, now time.Time) (model.AppointmentStats, error)
	ListDetailed(ctx context.Context, vis scope.Visibility, userID uint64) ([]model.AppointmentDetail, error)
}

// ClientFinder resolves the caller's owning client profile for
// create-time binding.
type ClientFinder interface {
	FirstByUser(ctx context.Context, userID uint64) (model.Client, error)
}

// BookingPublisher emits a domain event after a booking is created.
// Publishing is best effort; a nil publisher disables it.
type BookingPublisher interface {
	AppointmentBooked(ctx context.Context, a model.Appointment)
}

// AppointmentHandler serves /api/appointments/.
type AppointmentHandler struct {
	Appointments AppointmentStore
	Clients      ClientFinder
	Events       BookingPublisher
}

func NewAppointmentHandler(a AppointmentStore, cf ClientFinder, ev BookingPublisher) *AppointmentHandler {
	return &AppointmentHandler{Appointments: a, Clients: cf, Events: ev}
}

type appointmentReq struct {
	ServiceID uint64 `json:"service"`
	MasterID  uint64 `json:"master"`
	Date      string `json:"date"`
}

func (h *AppointmentHandler) List(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	items, err := h.Appointments.List(ctx, scope.For(scope.Appointments, cl), cl.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AppointmentHandler) Detail(c echo.Context) error {
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

	item, err := h.Appointments.GetByID(ctx, id, scope.For(scope.Appointments, cl), cl.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, item)
}

// Create books an appointment. The owning client is always derived
// from the calling identity, never taken from the request, so a
// caller cannot attribute bookings to someone else's profile.
func (h *AppointmentHandler) Create(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	var req appointmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ServiceID == 0 || req.MasterID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service and master are required"})
	}
	startsAt, ok := parseDateTime(req.Date)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
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

	item := model.Appointment{
		ClientID:  owner.ID,
		ServiceID: req.ServiceID,
		MasterID:  req.MasterID,
		StartsAt:  startsAt,
	}
	if err := h.Appointments.Create(ctx, &item); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	if h.Events != nil {
		h.Events.AppointmentBooked(c.Request().Context(), item)
	}
	return c.JSON(http.StatusCreated, item)
}

// Update reschedules a visible appointment; mounted behind the
// elevation gate.
func (h *AppointmentHandler) Update(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req appointmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ServiceID == 0 || req.MasterID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service and master are required"})
	}
	startsAt, ok := parseDateTime(req.Date)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	item := model.Appointment{ID: id, ServiceID: req.ServiceID, MasterID: req.MasterID, StartsAt: startsAt}
	vis := scope.For(scope.Appointments, cl)
	if err := h.Appointments.Update(ctx, &item, vis, cl.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	updated, err := h.Appointments.GetByID(ctx, id, vis, cl.UserID)
	if err != nil {
		return c.JSON(http.StatusOK, item)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *AppointmentHandler) Delete(c echo.Context) error {
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
	if err := h.Appointments.Delete(ctx, id, scope.For(scope.Appointments, cl), cl.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return deleteError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AppointmentHandler) Stats(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	st, err := h.Appointments.Stats(ctx, scope.For(scope.Appointments, cl), cl.UserID, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, st)
}

// ExportExcel streams the caller's visible bookings as
// appointments.xlsx.
func (h *AppointmentHandler) ExportExcel(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	items, err := h.Appointments.ListDetailed(ctx, scope.For(scope.Appointments, cl), cl.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	f, err := export.Appointments(items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build workbook failed"})
	}
	return writeWorkbook(c, f, "appointments.xlsx")
}
