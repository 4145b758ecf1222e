package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/events"
	"github.com/Tri-omph/backend/internal/logging"
	"github.com/Tri-omph/backend/internal/models"
	"github.com/Tri-omph/backend/internal/service/search"
)

// ItemHandler maintains the waste catalog. Admin only; the search index is
// kept in step with the table.
type ItemHandler struct {
	DB       *gorm.DB
	ES       *elasticsearch.Client
	Index    string
	Producer events.Publisher
}

func (h *ItemHandler) indexItem(c echo.Context, item *models.WasteItem) {
	if h.ES == nil {
		return
	}
	if err := search.IndexItem(c.Request().Context(), h.ES, h.Index, item); err != nil {
		logging.FromContext(c.Request().Context()).Error("catalog index failed",
			"item_id", item.ID, "error", err)
	}
}

func (h *ItemHandler) Create(c echo.Context) error {
	var req struct {
		Barcode  string `json:"barcode"`
		Name     string `json:"name"`
		Material string `json:"material"`
		Bin      string `json:"bin"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Barcode == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "barcode and name are required")
	}
	if !models.ValidDisposableType(req.Material) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown disposable type: "+req.Material)
	}
	if !models.ValidBin(req.Bin) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown bin: "+req.Bin)
	}

	var existing models.WasteItem
	err := h.DB.Where("barcode = ?", req.Barcode).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "an item with this barcode already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return httpError(c, err)
	}

	item := models.WasteItem{
		Barcode:  req.Barcode,
		Name:     req.Name,
		Material: req.Material,
		Bin:      models.BinType(req.Bin),
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return httpError(c, err)
	}

	h.indexItem(c, &item)
	publish(c, h.Producer, events.TopicScanEvents, fmt.Sprint(item.ID), map[string]interface{}{
		"type":    "item_created",
		"itemID":  item.ID,
		"barcode": item.Barcode,
	})

	return c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) Patch(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var item models.WasteItem
	if err := h.DB.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return httpError(c, err)
	}

	var req struct {
		Name     *string `json:"name"`
		Material *string `json:"material"`
		Bin      *string `json:"bin"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name != nil {
		if *req.Name == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "name must not be empty")
		}
		item.Name = *req.Name
	}
	if req.Material != nil {
		if !models.ValidDisposableType(*req.Material) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown disposable type: "+*req.Material)
		}
		item.Material = *req.Material
	}
	if req.Bin != nil {
		if !models.ValidBin(*req.Bin) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown bin: "+*req.Bin)
		}
		item.Bin = models.BinType(*req.Bin)
	}

	if err := h.DB.Save(&item).Error; err != nil {
		return httpError(c, err)
	}

	h.indexItem(c, &item)
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	result := h.DB.Delete(&models.WasteItem{}, id)
	if result.Error != nil {
		return httpError(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}

	if h.ES != nil {
		if err := search.DeleteItem(c.Request().Context(), h.ES, h.Index, id); err != nil {
			logging.FromContext(c.Request().Context()).Error("catalog deindex failed",
				"item_id", id, "error", err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}
