package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/models"
	"github.com/Tri-omph/backend/internal/service/token"
)

type HistoryHandler struct {
	DB *gorm.DB
}

func (h *HistoryHandler) listFor(c echo.Context, customerID uint) error {
	var customer models.Customer
	if err := h.DB.Where("id = ?", customerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return httpError(c, err)
	}

	var history []models.ScanHistory
	if err := h.DB.Where("customer_id = ?", customerID).
		Order("date DESC").
		Find(&history).Error; err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

// GetCurrent lists the caller's own history, newest first.
func (h *HistoryHandler) GetCurrent(c echo.Context) error {
	id, ok := token.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return h.listFor(c, id)
}

// GetForUser lists another customer's history. Admin only.
func (h *HistoryHandler) GetForUser(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	return h.listFor(c, id)
}

// Add appends an entry to the caller's history.
func (h *HistoryHandler) Add(c echo.Context) error {
	id, ok := token.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req struct {
		Method  string `json:"method"`
		IsValid *bool  `json:"is_valid"`
		Bin     string `json:"bin"`
		Type    string `json:"type"`
		Image   []byte `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Method == "" || req.IsValid == nil || req.Bin == "" || req.Type == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "all fields are required (except image)")
	}
	if !models.ValidScanMethod(req.Method) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown scan method: "+req.Method)
	}
	if !models.ValidBin(req.Bin) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown bin: "+req.Bin)
	}

	var customer models.Customer
	if err := h.DB.Where("id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return httpError(c, err)
	}

	entry := models.ScanHistory{
		CustomerID: customer.ID,
		Method:     models.ScanMethod(req.Method),
		IsValid:    *req.IsValid,
		Bin:        models.BinType(req.Bin),
		Type:       req.Type,
	}
	if customer.SaveImage {
		entry.Image = req.Image
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "history entry created successfully"})
}
