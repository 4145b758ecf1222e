package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/events"
	"github.com/Tri-omph/backend/internal/models"
	"github.com/Tri-omph/backend/internal/service/gamification"
	"github.com/Tri-omph/backend/internal/service/token"
)

type SortingHandler struct {
	DB       *gorm.DB
	Points   *gamification.Service
	Producer events.Publisher
}

// SortAndReward records a completed sorting action and awards one point.
func (h *SortingHandler) SortAndReward(c echo.Context) error {
	id, ok := token.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req struct {
		Method  string `json:"method"`
		Bin     string `json:"bin"`
		Type    string `json:"type"`
		IsValid *bool  `json:"is_valid"`
		Image   []byte `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if !models.ValidScanMethod(req.Method) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown scan method: "+req.Method)
	}
	if !models.ValidBin(req.Bin) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown bin: "+req.Bin)
	}
	if !models.ValidDisposableType(req.Type) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown disposable type: "+req.Type)
	}

	// The client may assert validity itself (advanced mode); otherwise the
	// municipal sorting chart decides.
	isValid := false
	if req.IsValid != nil {
		isValid = *req.IsValid
	} else if expected, ok := models.DefaultBinFor(models.DisposableType(req.Type)); ok {
		isValid = expected == models.BinType(req.Bin)
	}

	var customer models.Customer
	if err := h.DB.Where("id = ?", id).First(&customer).Error; err != nil {
		return httpError(c, err)
	}

	entry := models.ScanHistory{
		CustomerID: customer.ID,
		Method:     models.ScanMethod(req.Method),
		IsValid:    isValid,
		Bin:        models.BinType(req.Bin),
		Type:       req.Type,
	}
	if customer.SaveImage {
		entry.Image = req.Image
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		return httpError(c, err)
	}

	updated, err := h.Points.IncrementPoints(c.Request().Context(), customer.ID)
	if err != nil {
		return httpError(c, err)
	}

	publish(c, h.Producer, events.TopicSortingEvents, fmt.Sprint(customer.ID), map[string]interface{}{
		"type":   "waste_sorted",
		"userID": customer.ID,
		"bin":    req.Bin,
		"valid":  isValid,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "waste sorted successfully",
		"valid":   isValid,
		"points":  updated.Points,
		"level":   gamification.Level(updated.Points),
	})
}
