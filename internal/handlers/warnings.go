package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/models"
	"github.com/Tri-omph/backend/internal/service/warning"
)

type WarningHandler struct {
	DB       *gorm.DB
	Warnings *warning.Service
}

// GetForUser lists a customer's warnings, newest first. Admin only.
func (h *WarningHandler) GetForUser(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var customer models.Customer
	if err := h.DB.Where("id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return httpError(c, err)
	}

	warnings, err := h.Warnings.ForCustomer(c.Request().Context(), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, warnings)
}
