package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Tri-omph/backend/internal/models"
)

func (env *testEnv) adminAction(handler echo.HandlerFunc, id string) (int, error) {
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/users/:id/action", nil)
	asUser(c, models.MainAdminID, models.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues(id)
	err := handler(c)
	if err == nil {
		return http.StatusOK, nil
	}
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code, err
	}
	return 0, err
}

func (env *testEnv) seedMainAdmin() {
	env.T.Helper()
	require.NoError(env.T, env.DB.Exec(
		`INSERT INTO customers (id, username, login, password_hash, role, points, save_image)
		 VALUES (0, 'mainadmin', 'admin@example.com', 'x', 'admin', 0, false)`,
	).Error)
}

func TestPromoteDemoteFlow(t *testing.T) {
	env := newTestEnv(t)
	c := env.createCustomer("target", models.RoleUser)
	id := fmt.Sprint(c.ID)

	code, err := env.adminAction(env.Admin.Promote, id)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)

	code, _ = env.adminAction(env.Admin.Promote, id)
	require.Equal(t, http.StatusConflict, code, "double promote conflicts")

	code, err = env.adminAction(env.Admin.Demote, id)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)

	var reread models.Customer
	require.NoError(t, env.DB.Where("id = ?", c.ID).First(&reread).Error)
	require.Equal(t, models.RoleUser, reread.Role)
}

func TestRestrictAdminConflicts(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createCustomer("boss", models.RoleAdmin)

	code, err := env.adminAction(env.Admin.Restrict, fmt.Sprint(admin.ID))
	require.Error(t, err)
	require.Equal(t, http.StatusConflict, code)

	var reread models.Customer
	require.NoError(t, env.DB.Where("id = ?", admin.ID).First(&reread).Error)
	require.Equal(t, models.RoleAdmin, reread.Role, "role unchanged after rejected restrict")
}

func TestRestrictAndFreeFlow(t *testing.T) {
	env := newTestEnv(t)
	c := env.createCustomer("noisy", models.RoleUser)
	id := fmt.Sprint(c.ID)

	code, err := env.adminAction(env.Admin.Restrict, id)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)

	code, _ = env.adminAction(env.Admin.Free, id)
	require.Equal(t, http.StatusOK, code)

	code, _ = env.adminAction(env.Admin.Free, id)
	require.Equal(t, http.StatusConflict, code, "freeing an unrestricted user conflicts")
}

func TestDemoteMainAdminConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.seedMainAdmin()

	code, err := env.adminAction(env.Admin.Demote, "0")
	require.Error(t, err)
	require.Equal(t, http.StatusConflict, code)

	var reread models.Customer
	require.NoError(t, env.DB.Where("id = ?", models.MainAdminID).First(&reread).Error)
	require.Equal(t, models.RoleAdmin, reread.Role)
}

func TestRoleActionUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.adminAction(env.Admin.Promote, "424242")
	require.Equal(t, http.StatusNotFound, code)
}

func TestRoleActionBadID(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.adminAction(env.Admin.Promote, "abc")
	require.Equal(t, http.StatusUnprocessableEntity, code)
}
