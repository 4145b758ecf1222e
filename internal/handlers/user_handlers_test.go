package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tri-omph/backend/internal/hash"
	"github.com/Tri-omph/backend/internal/models"
)

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer("alice", models.RoleUser)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/users/me", nil)
	asUser(c, customer.ID, customer.Role)
	require.NoError(t, env.Users.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody(t, rec)
	require.Equal(t, "alice", resp["username"])
	require.Equal(t, "alice@example.com", resp["login"])
	require.NotContains(t, rec.Body.String(), "password", "hashes never leave the API")
}

func TestMeUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/users/me", nil)
	asUser(c, 404, models.RoleUser)
	requireHTTPError(t, env.Users.Me(c), http.StatusNotFound)
}

func TestUpdateMe(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer("alice", models.RoleUser)

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/users/me", map[string]interface{}{
		"username":   "alice2",
		"login":      "  Alice2@Example.COM ",
		"password":   "new-password",
		"save_image": true,
		"bins":       map[string][]string{"yellow": {string(models.PlasticPackaging)}},
	})
	asUser(c, customer.ID, customer.Role)
	require.NoError(t, env.Users.UpdateMe(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Customer
	require.NoError(t, env.DB.Where("id = ?", customer.ID).First(&updated).Error)
	require.Equal(t, "alice2", updated.Username)
	require.Equal(t, "alice2@example.com", updated.Login, "login is normalized before storage")
	require.True(t, updated.SaveImage)
	require.True(t, hash.CheckPassword(updated.PasswordHash, "new-password"))

	var bins map[string][]string
	require.NoError(t, json.Unmarshal(updated.Bins, &bins))
	require.Equal(t, []string{string(models.PlasticPackaging)}, bins["yellow"])
}

func TestUpdateMeValidation(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer("alice", models.RoleUser)

	for _, payload := range []map[string]interface{}{
		{"username": "  "},
		{"login": "not-an-email"},
		{"password": ""},
		{"bins": map[string][]string{"purple": {}}},
		{"bins": map[string][]string{"yellow": {"STUFF"}}},
	} {
		_, c := env.doJSONRequest(http.MethodPatch, "/api/v1/users/me", payload)
		asUser(c, customer.ID, customer.Role)
		requireHTTPError(t, env.Users.UpdateMe(c), http.StatusBadRequest)
	}
}

func TestFindFilters(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createCustomer("alice", models.RoleUser)
	bob := env.createCustomer("bob", models.RoleAdmin)
	env.createCustomer("carol", models.RoleRestricted)
	require.NoError(t, env.DB.Model(&models.Customer{}).
		Where("id = ?", alice.ID).Update("points", 12).Error)

	find := func(query url.Values) []map[string]interface{} {
		t.Helper()
		rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/admin/users?"+query.Encode(), nil)
		asUser(c, bob.ID, models.RoleAdmin)
		require.NoError(t, env.Users.Find(c))
		var out []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	all := find(url.Values{})
	require.Len(t, all, 3)

	byName := find(url.Values{"username": {"ali"}})
	require.Len(t, byName, 1)
	require.Equal(t, "alice", byName[0]["username"])

	byRole := find(url.Values{"role": {string(models.RoleRestricted)}})
	require.Len(t, byRole, 1)
	require.Equal(t, "carol", byRole[0]["username"])

	byPoints := find(url.Values{"pointsMin": {"10"}, "pointsMax": {"20"}})
	require.Len(t, byPoints, 1)
	require.Equal(t, "alice", byPoints[0]["username"])

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/admin/users?role=superuser", nil)
	asUser(c, bob.ID, models.RoleAdmin)
	requireHTTPError(t, env.Users.Find(c), http.StatusBadRequest)
}

func TestGetByID(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createCustomer("admin", models.RoleAdmin)
	alice := env.createCustomer("alice", models.RoleUser)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/admin/users/1", nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(alice.ID))
	asUser(c, admin.ID, admin.Role)
	require.NoError(t, env.Users.GetByID(c))

	resp := decodeBody(t, rec)
	require.Equal(t, "alice", resp["username"])

	_, c = env.doJSONRequest(http.MethodGet, "/api/v1/admin/users/999", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")
	asUser(c, admin.ID, admin.Role)
	requireHTTPError(t, env.Users.GetByID(c), http.StatusNotFound)
}
