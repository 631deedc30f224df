package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/danmakarov/beauty-salon-api/internal/elevation"
)

// RequireElevation returns a middleware gating a route on the
// caller's OTP elevation flag. Only update routes are wrapped with
// it: deletes deliberately pass at plain authenticated level, which
// is the documented permission contract. The flag decays by TTL;
// there is no explicit downgrade event, so a missing or expired key
// simply reads as false here.
func RequireElevation(store elevation.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := CallerFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			elevated, err := store.Get(c.Request().Context(), elevation.Key(caller.UserID))
			if err != nil {
				// A store failure must not silently grant elevation.
				return c.JSON(http.StatusForbidden, echo.Map{"error": "otp verification required"})
			}
			if !elevated {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "otp verification required"})
			}
			return next(c)
		}
	}
}
