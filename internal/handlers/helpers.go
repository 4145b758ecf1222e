package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Tri-omph/backend/internal/apperrors"
	"github.com/Tri-omph/backend/internal/events"
	"github.com/Tri-omph/backend/internal/logging"
)

// httpError maps service-layer errors onto HTTP responses. Anything outside
// the taxonomy is a 500 with a generic message; the detail goes to the log
// only.
func httpError(c echo.Context, err error) error {
	switch {
	case apperrors.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, apperrors.Reason(err))
	case apperrors.IsConflict(err):
		return echo.NewHTTPError(http.StatusConflict, apperrors.Reason(err))
	case apperrors.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.Reason(err))
	default:
		logging.FromContext(c.Request().Context()).Error("internal error",
			"path", c.Path(), "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func parseIDParam(c echo.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid or missing ID parameter")
	}
	return uint(id), nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// publish sends a domain event with a short timeout. Failures are logged and
// swallowed, a lost event never fails the request.
func publish(c echo.Context, p events.Publisher, topic, key string, event map[string]interface{}) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("event publish failed",
			"topic", topic, "error", err)
	}
}
