package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/models"
	"github.com/Tri-omph/backend/internal/service/token"
)

type MetricsHandler struct {
	DB *gorm.DB
}

type methodStats struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

func methodStatsFor(history []models.ScanHistory) echo.Map {
	stats := map[models.ScanMethod]*methodStats{
		models.ScanBarcode:  {},
		models.ScanAI:       {},
		models.ScanAdvanced: {},
	}
	for _, entry := range history {
		s, ok := stats[entry.Method]
		if !ok {
			continue
		}
		s.Total++
		if entry.IsValid {
			s.Correct++
		}
	}
	return echo.Map{
		"barcode":  stats[models.ScanBarcode],
		"ai":       stats[models.ScanAI],
		"advanced": stats[models.ScanAdvanced],
	}
}

// binCountsFor tallies how often each bin was used. Every bin appears in the
// result, used or not.
func binCountsFor(history []models.ScanHistory) map[models.BinType]int {
	counts := map[models.BinType]int{
		models.BinRed:     0,
		models.BinYellow:  0,
		models.BinBlue:    0,
		models.BinOrange:  0,
		models.BinCompost: 0,
	}
	for _, entry := range history {
		if _, ok := counts[entry.Bin]; ok {
			counts[entry.Bin]++
		}
	}
	return counts
}

func (h *MetricsHandler) historyFor(c echo.Context, customerID uint) ([]models.ScanHistory, error) {
	var history []models.ScanHistory
	if err := h.DB.Where("customer_id = ?", customerID).Find(&history).Error; err != nil {
		return nil, httpError(c, err)
	}
	return history, nil
}

// lookupTarget resolves the :id param to an existing customer id.
func (h *MetricsHandler) lookupTarget(c echo.Context) (uint, error) {
	id, err := parseIDParam(c)
	if err != nil {
		return 0, err
	}
	var customer models.Customer
	if err := h.DB.Where("id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return 0, httpError(c, err)
	}
	return id, nil
}

// Get aggregates the caller's sorting accuracy per scan method.
func (h *MetricsHandler) Get(c echo.Context) error {
	id, ok := token.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	history, err := h.historyFor(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, methodStatsFor(history))
}

// GetBins reports how the caller's sorted waste distributes over the bins.
func (h *MetricsHandler) GetBins(c echo.Context) error {
	id, ok := token.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	history, err := h.historyFor(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, binCountsFor(history))
}

// GetForUser is the admin view of another customer's per-method accuracy.
func (h *MetricsHandler) GetForUser(c echo.Context) error {
	id, err := h.lookupTarget(c)
	if err != nil {
		return err
	}
	history, err := h.historyFor(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, methodStatsFor(history))
}

// GetBinsForUser is the admin view of another customer's bin distribution.
func (h *MetricsHandler) GetBinsForUser(c echo.Context) error {
	id, err := h.lookupTarget(c)
	if err != nil {
		return err
	}
	history, err := h.historyFor(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, binCountsFor(history))
}
