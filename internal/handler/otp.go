package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/danmakarov/beauty-salon-api/internal/elevation"
)

// OTPHandler implements the step-up verification endpoints mounted
// under every resource prefix. The reference code is a single fixed
// system-wide value from config; this is a demo gate, not a TOTP
// validator, and stays clearly separated behind the elevation.Store
// interface so a real RFC 6238 verifier can replace the comparison.
type OTPHandler struct {
	Code  string
	TTL   time.Duration
	Store elevation.Store
}

func NewOTPHandler(code string, ttl time.Duration, store elevation.Store) *OTPHandler {
	return &OTPHandler{Code: code, TTL: ttl, Store: store}
}

type otpReq struct {
	Code string `json:"code"`
}

// Verify handles POST <resource>/verify-otp/. A matching code sets
// the caller's elevation flag for the configured TTL; a mismatch
// leaves any existing flag untouched and reports failure with 200.
func (h *OTPHandler) Verify(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	var req otpReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	}

	success := req.Code == h.Code
	if success {
		if err := h.Store.Set(c.Request().Context(), elevation.Key(cl.UserID), h.TTL); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store otp flag failed"})
		}
	}
	msg := "Invalid OTP"
	if success {
		msg = "OTP verified successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{"success": success, "message": msg})
}

// Status handles GET <resource>/otp-status/ and reads the current
// elevation state; unset or expired reads as false.
func (h *OTPHandler) Status(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	elevated, err := h.Store.Get(c.Request().Context(), elevation.Key(cl.UserID))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read otp flag failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"otp_verified": elevated})
}

// DebugStatus handles GET <resource>/check-otp-status/, a diagnostic
// endpoint exposing the raw flag and its key.
func (h *OTPHandler) DebugStatus(c echo.Context) error {
	cl, err := caller(c)
	if err != nil {
		return err
	}
	key := elevation.Key(cl.UserID)
	elevated, err := h.Store.Get(c.Request().Context(), key)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read otp flag failed"})
	}
	username, _ := c.Get("username").(string)
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":          cl.UserID,
		"username":         username,
		"current_user_otp": elevated,
		"otp_key":          key,
	})
}
