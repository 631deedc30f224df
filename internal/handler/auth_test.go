package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/danmakarov/beauty-salon-api/internal/model"
)

type fakeUserStore struct {
	users map[string]model.User
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	u, ok := f.users[username]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

type fakeSessionStore struct {
	tokens  map[uint64]string
	deletes int
}

func (f *fakeSessionStore) GetOrCreate(_ context.Context, userID uint64) (string, error) {
	if tok, ok := f.tokens[userID]; ok {
		return tok, nil
	}
	tok := "tok-" + strings.Repeat("a", 8)
	f.tokens[userID] = tok
	return tok, nil
}

func (f *fakeSessionStore) DeleteForUser(_ context.Context, userID uint64) (bool, error) {
	f.deletes++
	if _, ok := f.tokens[userID]; !ok {
		return false, nil
	}
	delete(f.tokens, userID)
	return true, nil
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newAuthFixture(t *testing.T) (*AuthHandler, *fakeSessionStore) {
	t.Helper()
	users := &fakeUserStore{users: map[string]model.User{
		"alice":  {ID: 2, Username: "alice", PasswordHash: hashFor(t, "alice12345"), IsActive: true},
		"frozen": {ID: 3, Username: "frozen", PasswordHash: hashFor(t, "frozen123"), IsActive: false},
	}}
	sessions := &fakeSessionStore{tokens: map[uint64]string{}}
	return NewAuthHandler(users, sessions), sessions
}

func doLogin(h *AuthHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h.Login(e.NewContext(req, rec))
	return rec
}

func TestLoginSuccess(t *testing.T) {
	h, _ := newAuthFixture(t)
	rec := doLogin(h, `{"username":"alice","password":"alice12345"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp["username"])
	assert.Equal(t, float64(2), resp["user_id"])
	assert.NotEmpty(t, resp["token"])
}

func TestLoginIsIdempotent(t *testing.T) {
	h, _ := newAuthFixture(t)
	first := doLogin(h, `{"username":"alice","password":"alice12345"}`)
	second := doLogin(h, `{"username":"alice","password":"alice12345"}`)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	var r1, r2 map[string]any
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &r1))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &r2))
	assert.Equal(t, r1["token"], r2["token"], "second login must reuse the stored token")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h, _ := newAuthFixture(t)

	cases := map[string]string{
		"unknown username": `{"username":"nobody","password":"whatever1"}`,
		"wrong password":   `{"username":"alice","password":"wrong"}`,
		"inactive account": `{"username":"frozen","password":"frozen123"}`,
		"empty fields":     `{"username":"","password":""}`,
	}
	var bodies []string
	for name, body := range cases {
		rec := doLogin(h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
		bodies = append(bodies, rec.Body.String())
	}
	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i], "all failure responses must be byte-identical")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	h, sessions := newAuthFixture(t)
	sessions.tokens[2] = "existing"

	e := echo.New()
	do := func() (*httptest.ResponseRecorder, echo.Context) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user_id", uint64(2))
		c.Set("is_superuser", false)
		return rec, c
	}

	rec, c := do()
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Successfully logged out")

	rec, c = do()
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code, "logout without a token is still a success")
	assert.Contains(t, rec.Body.String(), "No token found")
}

func TestCSRFSetsCookie(t *testing.T) {
	h, _ := newAuthFixture(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/csrf/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.CSRF(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CSRF cookie set")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "csrftoken", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}
