package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/service"
)

type ReportHTTP struct {
	Svc *service.ReportService
}

// GetReport aggregates sales either for a single day (?day=2006-01-02) or
// an explicit [from, to) window; ?status may repeat to narrow statuses.
func (h *ReportHTTP) GetReport(c echo.Context) error {
	var from, to time.Time
	if day := c.QueryParam("day"); day != "" {
		d, err := time.Parse("2006-01-02", day)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid day")
		}
		from, to = service.Day(d)
	} else {
		var err error
		from, err = time.Parse(time.RFC3339, c.QueryParam("from"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		to, err = time.Parse(time.RFC3339, c.QueryParam("to"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
	}

	var statuses []string
	for _, st := range c.QueryParams()["status"] {
		if st = strings.TrimSpace(st); st != "" {
			statuses = append(statuses, st)
		}
	}

	report, err := h.Svc.Aggregate(c.Request().Context(), from, to, statuses)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, report)
}
