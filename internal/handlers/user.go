package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/hash"
	"github.com/Tri-omph/backend/internal/models"
	"github.com/Tri-omph/backend/internal/service/token"
)

type UserHandler struct {
	DB *gorm.DB
}

func (h *UserHandler) current(c echo.Context) (*models.Customer, error) {
	id, ok := token.UserID(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	var customer models.Customer
	if err := h.DB.Where("id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return nil, httpError(c, err)
	}
	return &customer, nil
}

func (h *UserHandler) Me(c echo.Context) error {
	customer, err := h.current(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// UpdateMe patches the caller's own profile. Role and points are not
// touchable here.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	customer, err := h.current(c)
	if err != nil {
		return err
	}

	var req struct {
		Username  *string             `json:"username"`
		Login     *string             `json:"login"`
		Password  *string             `json:"password"`
		SaveImage *bool               `json:"save_image"`
		Bins      map[string][]string `json:"bins"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "username must not be empty")
		}
		updates["username"] = username
	}
	if req.Login != nil {
		login := strings.ToLower(strings.TrimSpace(*req.Login))
		if _, err := mail.ParseAddress(login); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "login must be a valid email address")
		}
		updates["login"] = login
	}
	if req.Password != nil {
		if *req.Password == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "password must not be empty")
		}
		pwHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return httpError(c, err)
		}
		updates["password_hash"] = pwHash
	}
	if req.SaveImage != nil {
		updates["save_image"] = *req.SaveImage
	}
	if req.Bins != nil {
		for bin, types := range req.Bins {
			if !models.ValidBin(bin) {
				return echo.NewHTTPError(http.StatusBadRequest, "unknown bin: "+bin)
			}
			for _, typ := range types {
				if !models.ValidDisposableType(typ) {
					return echo.NewHTTPError(http.StatusBadRequest, "unknown disposable type: "+typ)
				}
			}
		}
		raw, err := json.Marshal(req.Bins)
		if err != nil {
			return httpError(c, err)
		}
		updates["bins"] = datatypes.JSON(raw)
	}

	if len(updates) == 0 {
		return c.JSON(http.StatusOK, customer)
	}

	if err := h.DB.Model(&models.Customer{}).Where("id = ?", customer.ID).Updates(updates).Error; err != nil {
		return httpError(c, err)
	}
	if err := h.DB.Where("id = ?", customer.ID).First(customer).Error; err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// Find lists customers matching the given filters. Admin only.
func (h *UserHandler) Find(c echo.Context) error {
	query := h.DB.Model(&models.Customer{})

	if raw := c.QueryParam("id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid id filter")
		}
		query = query.Where("id = ?", uint(id))
	}
	if username := c.QueryParam("username"); username != "" {
		query = query.Where("username LIKE ?", "%"+username+"%")
	}
	if login := c.QueryParam("login"); login != "" {
		query = query.Where("login LIKE ?", "%"+strings.ToLower(login)+"%")
	}
	if role := c.QueryParam("role"); role != "" {
		switch models.Role(role) {
		case models.RoleUser, models.RoleAdmin, models.RoleRestricted:
			query = query.Where("role = ?", role)
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "unknown role filter")
		}
	}
	if raw := c.QueryParam("pointsMin"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid pointsMin filter")
		}
		query = query.Where("points >= ?", n)
	}
	if raw := c.QueryParam("pointsMax"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid pointsMax filter")
		}
		query = query.Where("points <= ?", n)
	}

	var customers []models.Customer
	if err := query.Order("id ASC").Find(&customers).Error; err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, customers)
}

// GetByID returns one customer. Admin only.
func (h *UserHandler) GetByID(c echo.Context) error {
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
	return c.JSON(http.StatusOK, customer)
}
