// Package router wires handlers onto the /api surface. Each resource
// is described by one row in a routes table (CRUD handlers, optional
// stats/export), so the permission shape of the API is visible in a
// single place instead of being scattered across handler files.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/danmakarov/beauty-salon-api/internal/elevation"
	"github.com/danmakarov/beauty-salon-api/internal/handler"
	"github.com/danmakarov/beauty-salon-api/internal/middleware"
)

// resourceRoutes is one row of the routing table.
type resourceRoutes struct {
	name        string
	list        echo.HandlerFunc
	detail      echo.HandlerFunc
	create      echo.HandlerFunc
	update      echo.HandlerFunc
	remove      echo.HandlerFunc
	stats       echo.HandlerFunc
	exportExcel echo.HandlerFunc // nil when the resource has no export
}

// Deps bundles everything the router mounts.
type Deps struct {
	Auth         *handler.AuthHandler
	OTP          *handler.OTPHandler
	Profile      *handler.ProfileHandler
	Clients      *handler.ClientHandler
	Services     *handler.ServiceHandler
	Masters      *handler.MasterHandler
	Appointments *handler.AppointmentHandler
	Reviews      *handler.ReviewHandler
	Tokens       middleware.TokenResolver
	Elevation    elevation.Store
}

// Register mounts all routes on the Echo instance. Paths keep their
// trailing slashes: that is the exact surface the API's existing
// clients call.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated auth endpoints.
	e.POST("/api/auth/login/", d.Auth.Login)
	e.GET("/api/auth/csrf/", d.Auth.CSRF)

	// Everything under /api requires a valid session token.
	api := e.Group("/api", middleware.TokenAuth(d.Tokens))
	api.POST("/auth/logout/", d.Auth.Logout)
	api.GET("/users/profile/", d.Profile.Profile)

	elevGate := middleware.RequireElevation(d.Elevation)

	table := []resourceRoutes{
		{
			name: "clients",
			list: d.Clients.List, detail: d.Clients.Detail,
			create: d.Clients.Create, update: d.Clients.Update, remove: d.Clients.Delete,
			stats: d.Clients.Stats,
		},
		{
			name: "services",
			list: d.Services.List, detail: d.Services.Detail,
			create: d.Services.Create, update: d.Services.Update, remove: d.Services.Delete,
			stats: d.Services.Stats, exportExcel: d.Services.ExportExcel,
		},
		{
			name: "masters",
			list: d.Masters.List, detail: d.Masters.Detail,
			create: d.Masters.Create, update: d.Masters.Update, remove: d.Masters.Delete,
			stats: d.Masters.Stats, exportExcel: d.Masters.ExportExcel,
		},
		{
			name: "appointments",
			list: d.Appointments.List, detail: d.Appointments.Detail,
			create: d.Appointments.Create, update: d.Appointments.Update, remove: d.Appointments.Delete,
			stats: d.Appointments.Stats, exportExcel: d.Appointments.ExportExcel,
		},
		{
			name: "reviews",
			list: d.Reviews.List, detail: d.Reviews.Detail,
			create: d.Reviews.Create, update: d.Reviews.Update, remove: d.Reviews.Delete,
			stats: d.Reviews.Stats,
		},
	}

	for _, r := range table {
		g := api.Group("/" + r.name)

		// Step-up endpoints exist under every resource prefix.
		g.POST("/verify-otp/", d.OTP.Verify)
		g.GET("/otp-status/", d.OTP.Status)
		g.GET("/check-otp-status/", d.OTP.DebugStatus)

		g.GET("/", r.list)
		g.POST("/", r.create)
		g.GET("/stats/", r.stats)
		if r.exportExcel != nil {
			g.GET("/export-excel/", r.exportExcel)
		}
		g.GET("/:id/", r.detail)
		// Updates require elevation; deletes deliberately do not.
		g.PUT("/:id/", r.update, elevGate)
		g.DELETE("/:id/", r.remove)
	}
}
