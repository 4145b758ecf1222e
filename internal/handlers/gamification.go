package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Tri-omph/backend/internal/service/gamification"
	"github.com/Tri-omph/backend/internal/service/token"
)

type GamificationHandler struct {
	Points *gamification.Service
}

func (h *GamificationHandler) GetPoints(c echo.Context) error {
	id, ok := token.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	points, err := h.Points.Points(c.Request().Context(), id)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"points": points,
		"level":  gamification.Level(points),
	})
}
