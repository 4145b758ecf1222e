package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Tri-omph/backend/internal/events"
	"github.com/Tri-omph/backend/internal/service/roles"
)

type AdminHandler struct {
	Roles    *roles.Service
	Producer events.Publisher
}

func (h *AdminHandler) roleAction(c echo.Context, action string, op func(uint) error) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := op(id); err != nil {
		return httpError(c, err)
	}

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(id), map[string]interface{}{
		"type":   "user_" + action,
		"userID": id,
	})
	return nil
}

func (h *AdminHandler) Promote(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.roleAction(c, "promoted", func(id uint) error { return h.Roles.Promote(ctx, id) }); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user promoted to admin successfully"})
}

func (h *AdminHandler) Demote(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.roleAction(c, "demoted", func(id uint) error { return h.Roles.Demote(ctx, id) }); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user demoted successfully"})
}

func (h *AdminHandler) Restrict(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.roleAction(c, "restricted", func(id uint) error { return h.Roles.Restrict(ctx, id) }); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user restricted successfully"})
}

func (h *AdminHandler) Free(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.roleAction(c, "freed", func(id uint) error { return h.Roles.Free(ctx, id) }); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user freed from restriction successfully"})
}
