package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmakarov/beauty-salon-api/internal/model"
	"github.com/danmakarov/beauty-salon-api/internal/repository"
	"github.com/danmakarov/beauty-salon-api/internal/scope"
)

type fakeAppointmentStore struct {
	created []model.Appointment

	// captured scoping arguments from the last read call
	lastVis    scope.Visibility
	lastUserID uint64
}

func (f *fakeAppointmentStore) List(_ context.Context, vis scope.Visibility, userID uint64) ([]model.Appointment, error) {
	f.lastVis, f.lastUserID = vis, userID
	return []model.Appointment{}, nil
}

func (f *fakeAppointmentStore) GetByID(_ context.Context, id uint64, vis scope.Visibility, userID uint64) (model.Appointment, error) {
	f.lastVis, f.lastUserID = vis, userID
	for _, a := range f.created {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Appointment{}, repository.ErrNotFound
}

func (f *fakeAppointmentStore) Create(_ context.Context, a *model.Appointment) error {
	a.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, *a)
	return nil
}

func (f *fakeAppointmentStore) Update(_ context.Context, a *model.Appointment, vis scope.Visibility, userID uint64) error {
	f.lastVis, f.lastUserID = vis, userID
	return repository.ErrNotFound
}

func (f *fakeAppointmentStore) Delete(_ context.Context, id uint64, vis scope.Visibility, userID uint64) error {
	f.lastVis, f.lastUserID = vis, userID
	return repository.ErrNotFound
}

func (f *fakeAppointmentStore) Stats(_ context.Context, vis scope.Visibility, userID uint64, _ time.Time) (model.AppointmentStats, error) {
	f.lastVis, f.lastUserID = vis, userID
	return model.AppointmentStats{}, nil
}

func (f *fakeAppointmentStore) ListDetailed(_ context.Context, vis scope.Visibility, userID uint64) ([]model.AppointmentDetail, error) {
	f.lastVis, f.lastUserID = vis, userID
	return nil, nil
}

type fakeClientFinder struct {
	byUser map[uint64]model.Client
}

func (f *fakeClientFinder) FirstByUser(_ context.Context, userID uint64) (model.Client, error) {
	cl, ok := f.byUser[userID]
	if !ok {
		return model.Client{}, repository.ErrNoClientProfile
	}
	return cl, nil
}

type recordingPublisher struct {
	events []model.Appointment
}

func (p *recordingPublisher) AppointmentBooked(_ context.Context, a model.Appointment) {
	p.events = append(p.events, a)
}

func appointmentCtx(method, path, body string, userID uint64, superuser bool) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("is_superuser", superuser)
	return rec, c
}

func TestAppointmentCreateBindsCallerClient(t *testing.T) {
	store := &fakeAppointmentStore{}
	finder := &fakeClientFinder{byUser: map[uint64]model.Client{
		2: {ID: 11, Name: "Alice"},
	}}
	pub := &recordingPublisher{}
	h := NewAppointmentHandler(store, finder, pub)

	// client_id in the body must be ignored in favor of the caller's
	// own profile
	body := `{"service":1,"master":3,"date":"2026-09-10T14:00:00Z","client":999}`
	rec, c := appointmentCtx(http.MethodPost, "/api/appointments/", body, 2, false)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, store.created, 1)
	assert.Equal(t, uint64(11), store.created[0].ClientID)
	assert.Equal(t, uint64(1), store.created[0].ServiceID)
	assert.Equal(t, uint64(3), store.created[0].MasterID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, store.created[0].ID, pub.events[0].ID)
}

func TestAppointmentCreateWithoutClientProfile(t *testing.T) {
	store := &fakeAppointmentStore{}
	h := NewAppointmentHandler(store, &fakeClientFinder{byUser: map[uint64]model.Client{}}, nil)

	body := `{"service":1,"master":3,"date":"2026-09-10T14:00:00Z"}`
	rec, c := appointmentCtx(http.MethodPost, "/api/appointments/", body, 2, false)
	require.NoError(t, h.Create(c))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Client profile not found for current user", resp["detail"])
	assert.Empty(t, store.created, "nothing may be persisted when binding fails")
}

func TestAppointmentCreateRejectsBadDate(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentStore{}, &fakeClientFinder{}, nil)
	rec, c := appointmentCtx(http.MethodPost, "/api/appointments/", `{"service":1,"master":3,"date":"next tuesday"}`, 2, false)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppointmentListScoping(t *testing.T) {
	store := &fakeAppointmentStore{}
	h := NewAppointmentHandler(store, &fakeClientFinder{}, nil)

	_, c := appointmentCtx(http.MethodGet, "/api/appointments/", "", 2, false)
	require.NoError(t, h.List(c))
	assert.Equal(t, scope.OwnViaClient, store.lastVis, "regular callers see only their own bookings")
	assert.Equal(t, uint64(2), store.lastUserID)

	_, c = appointmentCtx(http.MethodGet, "/api/appointments/", "", 1, true)
	require.NoError(t, h.List(c))
	assert.Equal(t, scope.All, store.lastVis, "superusers see everything")
}

func TestAppointmentDetailNotFound(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentStore{}, &fakeClientFinder{}, nil)
	rec, c := appointmentCtx(http.MethodGet, "/api/appointments/42/", "", 2, false)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.Detail(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not found."}`, rec.Body.String())
}
