package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmakarov/beauty-salon-api/internal/elevation"
)

func otpRequest(t *testing.T, h *OTPHandler, method, path, body string, userID uint64) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("username", "alice")
	c.Set("is_superuser", false)
	return rec, c
}

func TestVerifyCorrectCodeSetsFlag(t *testing.T) {
	store := elevation.NewMemoryStore()
	h := NewOTPHandler("123456", 30*time.Minute, store)

	rec, c := otpRequest(t, h, http.MethodPost, "/api/clients/verify-otp/", `{"code":"123456"}`, 2)
	require.NoError(t, h.Verify(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "OTP verified successfully", resp["message"])

	elevated, err := store.Get(c.Request().Context(), elevation.Key(2))
	require.NoError(t, err)
	assert.True(t, elevated)
}

func TestVerifyWrongCodeLeavesStateUntouched(t *testing.T) {
	store := elevation.NewMemoryStore()
	h := NewOTPHandler("123456", 30*time.Minute, store)

	// Elevate first, then fail with a wrong code: the existing flag
	// must survive.
	_, c := otpRequest(t, h, http.MethodPost, "/api/clients/verify-otp/", `{"code":"123456"}`, 2)
	require.NoError(t, h.Verify(c))

	rec, c := otpRequest(t, h, http.MethodPost, "/api/clients/verify-otp/", `{"code":"000000"}`, 2)
	require.NoError(t, h.Verify(c))
	require.Equal(t, http.StatusOK, rec.Code, "a wrong code is a 200 with success=false, not a 4xx")

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Invalid OTP", resp["message"])

	elevated, err := store.Get(c.Request().Context(), elevation.Key(2))
	require.NoError(t, err)
	assert.True(t, elevated, "failed attempt must not revoke elevation")
}

func TestVerifyEmptyCode(t *testing.T) {
	h := NewOTPHandler("123456", 30*time.Minute, elevation.NewMemoryStore())
	rec, c := otpRequest(t, h, http.MethodPost, "/api/clients/verify-otp/", `{"code":""}`, 2)
	require.NoError(t, h.Verify(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusReflectsElevation(t *testing.T) {
	store := elevation.NewMemoryStore()
	h := NewOTPHandler("123456", 30*time.Minute, store)

	rec, c := otpRequest(t, h, http.MethodGet, "/api/clients/otp-status/", "", 2)
	require.NoError(t, h.Status(c))
	assert.JSONEq(t, `{"otp_verified":false}`, rec.Body.String())

	require.NoError(t, store.Set(c.Request().Context(), elevation.Key(2), time.Minute))

	rec, c = otpRequest(t, h, http.MethodGet, "/api/clients/otp-status/", "", 2)
	require.NoError(t, h.Status(c))
	assert.JSONEq(t, `{"otp_verified":true}`, rec.Body.String())
}

func TestDebugStatusPayload(t *testing.T) {
	store := elevation.NewMemoryStore()
	h := NewOTPHandler("123456", 30*time.Minute, store)

	rec, c := otpRequest(t, h, http.MethodGet, "/api/clients/check-otp-status/", "", 7)
	require.NoError(t, h.DebugStatus(c))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(7), resp["user_id"])
	assert.Equal(t, "alice", resp["username"])
	assert.Equal(t, false, resp["current_user_otp"])
	assert.Equal(t, "otp_good_7", resp["otp_key"])
}
