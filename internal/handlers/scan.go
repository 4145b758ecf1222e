package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/events"
	"github.com/Tri-omph/backend/internal/models"
	"github.com/Tri-omph/backend/internal/service/token"
	"github.com/Tri-omph/backend/internal/service/warning"
)

type ScanHandler struct {
	DB            *gorm.DB
	Warnings      *warning.Service
	Producer      events.Publisher
	ScanThreshold int
}

// ScanBarcode resolves a barcode against the waste catalog. Every scan runs
// through the warning ledger first so abusive repeat scanning is flagged and
// persisted even when the barcode is unknown.
func (h *ScanHandler) ScanBarcode(c echo.Context) error {
	var req struct {
		Barcode string `json:"barcode"`
	}
	if err := c.Bind(&req); err != nil || req.Barcode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid scan data")
	}

	id, ok := token.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	var customer models.Customer
	if err := h.DB.Where("id = ?", id).First(&customer).Error; err != nil {
		return httpError(c, err)
	}

	res, err := h.Warnings.HandleWarning(c.Request().Context(), &customer, req.Barcode, h.ScanThreshold)
	if err != nil {
		return httpError(c, err)
	}
	if res.Confirmed {
		publish(c, h.Producer, events.TopicScanEvents, fmt.Sprint(customer.ID), map[string]interface{}{
			"type":          "scan_warning",
			"userID":        customer.ID,
			"barcode":       req.Barcode,
			"totalRequests": res.TotalRequests,
		})
	}

	var item models.WasteItem
	err = h.DB.Where("barcode = ?", req.Barcode).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{
			"message":        "unknown barcode",
			"barcode":        req.Barcode,
			"flagged":        res.Confirmed,
			"total_requests": res.TotalRequests,
		})
	}
	if err != nil {
		return httpError(c, err)
	}

	publish(c, h.Producer, events.TopicScanEvents, fmt.Sprint(customer.ID), map[string]interface{}{
		"type":    "barcode_scanned",
		"userID":  customer.ID,
		"barcode": req.Barcode,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"item":           item,
		"flagged":        res.Confirmed,
		"total_requests": res.TotalRequests,
	})
}

// SubmitWasteInfo accepts a free-form waste report for items without a
// barcode.
func (h *ScanHandler) SubmitWasteInfo(c echo.Context) error {
	var req struct {
		WasteType     string `json:"wasteType"`
		Description   string `json:"description"`
		RecyclingInfo string `json:"recyclingInfo"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.WasteType == "" || req.Description == "" || req.RecyclingInfo == "" {
		return echo.NewHTTPError(http.StatusBadRequest,
			"wasteType, description and recyclingInfo are required")
	}
	if !models.ValidDisposableType(req.WasteType) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown disposable type: "+req.WasteType)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "waste information submitted successfully",
		"data": echo.Map{
			"wasteType":     req.WasteType,
			"description":   req.Description,
			"recyclingInfo": req.RecyclingInfo,
			"submittedAt":   time.Now().UTC().Format(time.RFC3339),
		},
	})
}
