package token

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Tri-omph/backend/internal/models"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func setUserContext(c echo.Context, claims jwt.MapClaims) error {
	sub, ok := claims["sub"].(float64)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	c.Set(CtxUserID, uint(sub))
	c.Set(CtxRole, models.Role(role))
	return nil
}

// UserID reads the authenticated customer id from the echo context.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(CtxUserID).(uint)
	return id, ok
}

// RoleOf reads the authenticated role from the echo context.
func RoleOf(c echo.Context) (models.Role, bool) {
	role, ok := c.Get(CtxRole).(models.Role)
	return role, ok
}

// checkCookie validates the access cookie and, when it is expired, rotates
// using the refresh cookie. Returns the claims plus new cookie values when a
// rotation happened.
func (s *Service) checkCookie(c echo.Context) (claims jwt.MapClaims, newAccess, newRefresh string, err error) {
	if asCookie, cerr := c.Cookie("accessToken"); cerr == nil {
		claims, perr := s.ParseAccessToken(asCookie.Value)
		if perr == nil {
			return claims, "", "", nil
		}
		if !errors.Is(perr, jwt.ErrTokenExpired) {
			return nil, "", "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
	}

	rfCookie, cerr := c.Cookie("refreshToken")
	if cerr != nil {
		return nil, "", "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	newAccess, newRefresh, claims, err = s.RotateToken(rfCookie.Value)
	if err != nil {
		return nil, "", "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims, newAccess, newRefresh, nil
}

func (s *Service) authenticate(c echo.Context) error {
	claims, newAccess, newRefresh, err := s.checkCookie(c)
	if err != nil {
		return err
	}
	if newRefresh != "" {
		c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTTL)))
		c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTTL)))
	}
	return setUserContext(c, claims)
}

// AutoRefresh authenticates any registered customer, transparently rotating
// an expired access token.
func (s *Service) AutoRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.authenticate(c); err != nil {
			return err
		}
		return next(c)
	}
}

// AdminOnly additionally requires the admin role. The role comes from the
// access-token claim, not the database: a demotion takes effect on the next
// rotation, so at most AccessTTL later.
func (s *Service) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.authenticate(c); err != nil {
			return err
		}
		if role, _ := RoleOf(c); role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
		}
		return next(c)
	}
}

// MainAdminOnly requires the distinguished main admin identity.
func (s *Service) MainAdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.authenticate(c); err != nil {
			return err
		}
		role, _ := RoleOf(c)
		id, _ := UserID(c)
		if role != models.RoleAdmin || id != models.MainAdminID {
			return echo.NewHTTPError(http.StatusForbidden, "main admin privileges required")
		}
		return next(c)
	}
}

// ForbidRestricted rejects restricted customers. Must run after one of the
// authenticating middlewares. Like AdminOnly it trusts the token claim, so a
// fresh restriction bites within AccessTTL at the latest.
func ForbidRestricted(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := RoleOf(c); role == models.RoleRestricted {
			return echo.NewHTTPError(http.StatusForbidden, "account is restricted")
		}
		return next(c)
	}
}
