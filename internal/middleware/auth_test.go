package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmakarov/beauty-salon-api/internal/model"
)

type fakeResolver struct {
	byToken map[string]model.User
}

func (f *fakeResolver) UserByToken(_ context.Context, token string) (model.User, error) {
	u, ok := f.byToken[token]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func authed(t *testing.T, header string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	resolver := &fakeResolver{byToken: map[string]model.User{
		"good-token": {ID: 2, Username: "alice", IsActive: true},
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/clients/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get("user_id")})
	}
	_ = TokenAuth(resolver)(next)(c)
	return rec, c
}

func TestTokenAuthMissingHeader(t *testing.T) {
	rec, _ := authed(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestTokenAuthUnknownToken(t *testing.T) {
	rec, _ := authed(t, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestTokenAuthAcceptsBothSchemes(t *testing.T) {
	for _, header := range []string{"Bearer good-token", "Token good-token"} {
		rec, c := authed(t, header)
		require.Equal(t, http.StatusOK, rec.Code, header)

		cl, ok := CallerFrom(c)
		require.True(t, ok, header)
		assert.Equal(t, uint64(2), cl.UserID)
		assert.False(t, cl.Superuser)
	}
}

func TestCallerFromWithoutIdentity(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := CallerFrom(c)
	assert.False(t, ok)
}
