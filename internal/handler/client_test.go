package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmakarov/beauty-salon-api/internal/model"
)

type fakeClientStore struct {
	created    []model.Client
	lastUserID uint64
}

func (f *fakeClientStore) ListByUser(_ context.Context, userID uint64) ([]model.Client, error) {
	f.lastUserID = userID
	return []model.Client{}, nil
}

func (f *fakeClientStore) GetByIDForUser(_ context.Context, id, userID uint64) (model.Client, error) {
	f.lastUserID = userID
	return model.Client{ID: id}, nil
}

func (f *fakeClientStore) Create(_ context.Context, cl *model.Client) error {
	cl.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, *cl)
	return nil
}

func (f *fakeClientStore) Update(_ context.Context, cl *model.Client, userID uint64) error {
	f.lastUserID = userID
	return nil
}

func (f *fakeClientStore) Delete(_ context.Context, id, userID uint64) error {
	f.lastUserID = userID
	return nil
}

func (f *fakeClientStore) Stats(_ context.Context, userID uint64) (model.ClientStats, error) {
	f.lastUserID = userID
	return model.ClientStats{}, nil
}

func clientCtx(method, path, body string, userID uint64, superuser bool) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("is_superuser", superuser)
	return rec, c
}

func TestClientCreateForcesOwner(t *testing.T) {
	store := &fakeClientStore{}
	h := NewClientHandler(store)

	// the "user" field in the body must not override the caller
	body := `{"name":"Walk-in","phone":"+111","user":999}`
	rec, c := clientCtx(http.MethodPost, "/api/clients/", body, 2, false)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, store.created, 1)
	require.NotNil(t, store.created[0].UserID)
	assert.Equal(t, uint64(2), *store.created[0].UserID)
}

func TestClientCreateRequiresName(t *testing.T) {
	h := NewClientHandler(&fakeClientStore{})
	rec, c := clientCtx(http.MethodPost, "/api/clients/", `{"name":"   "}`, 2, false)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientListIgnoresSuperuser(t *testing.T) {
	store := &fakeClientStore{}
	h := NewClientHandler(store)

	// Unlike appointments and reviews, client visibility is direct
	// ownership even for superusers: the admin sees the admin's
	// clients, not everyone's.
	_, c := clientCtx(http.MethodGet, "/api/clients/", "", 1, true)
	require.NoError(t, h.List(c))
	assert.Equal(t, uint64(1), store.lastUserID)
}
