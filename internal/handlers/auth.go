package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/events"
	"github.com/Tri-omph/backend/internal/hash"
	"github.com/Tri-omph/backend/internal/models"
	"github.com/Tri-omph/backend/internal/service/token"
)

type AuthHandler struct {
	DB       *gorm.DB
	Tokens   *token.Service
	Producer events.Publisher
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Login = strings.ToLower(strings.TrimSpace(req.Login))
	if req.Username == "" || req.Login == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username, login and password are required")
	}
	if _, err := mail.ParseAddress(req.Login); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "login must be a valid email address")
	}

	var existing models.Customer
	err := h.DB.Where("username = ? OR login = ?", req.Username, req.Login).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return httpError(c, err)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return httpError(c, err)
	}

	customer := models.Customer{
		Username:     req.Username,
		Login:        req.Login,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := h.DB.Create(&customer).Error; err != nil {
		return httpError(c, err)
	}

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(customer.ID), map[string]interface{}{
		"type":     "user_registered",
		"userID":   customer.ID,
		"username": customer.Username,
	})

	return c.JSON(http.StatusCreated, customer)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Login = strings.ToLower(strings.TrimSpace(req.Login))

	var customer models.Customer
	err := h.DB.Where("login = ? OR username = ?", req.Login, req.Login).First(&customer).Error
	if err != nil || !hash.CheckPassword(customer.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	accessToken, err := h.Tokens.SignAccessToken(customer.ID, customer.Role)
	if err != nil {
		return httpError(c, err)
	}
	refreshToken, err := h.Tokens.SignRefreshToken(customer.ID, customer.Role)
	if err != nil {
		return httpError(c, err)
	}
	if err := h.Tokens.SaveRefreshToken(refreshToken, customer.ID, customer.Role); err != nil {
		return httpError(c, err)
	}

	c.SetCookie(token.CreateCookie("accessToken", accessToken, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(token.CreateCookie("refreshToken", refreshToken, "/", time.Now().Add(token.RefreshTTL)))

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(customer.ID), map[string]interface{}{
		"type":     "user_logged_in",
		"userID":   customer.ID,
		"username": customer.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"is_admin":      customer.IsAdmin(),
	})
}

func (h *AuthHandler) LogOut(c echo.Context) error {
	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing refresh token")
	}

	if err := h.Tokens.Revoke(refreshCookie.Value); err != nil {
		return httpError(c, err)
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(token.CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(token.CreateCookie("refreshToken", "", "/", expired))

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
