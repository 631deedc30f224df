package handler // handler implements the HTTP endpoints of the API

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/danmakarov/beauty-salon-api/internal/middleware"
	"github.com/danmakarov/beauty-salon-api/internal/scope"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// reqContext derives a bounded context from the request.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// caller extracts the scoping identity placed in context by the
// TokenAuth middleware. A missing identity means the route was
// mounted without auth, which is a wiring bug surfaced as 401.
func caller(c echo.Context) (scope.Caller, error) {
	cl, ok := middleware.CallerFrom(c)
	if !ok {
		return scope.Caller{}, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return cl, nil
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// deleteError reports a persistence failure during delete as HTTP 400
// with the raw error text in "detail". Surfacing internal text to the
// caller is part of the documented contract this service preserves;
// sanitizing would happen here if that contract is ever revised.
func deleteError(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
}

// dateLayouts are the accepted appointment timestamp formats, RFC3339
// first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

func parseDateTime(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// writeWorkbook streams an xlsx workbook as a download attachment.
func writeWorkbook(c echo.Context, f *excelize.File, filename string) error {
	defer func() { _ = f.Close() }()
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", filename))
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}
