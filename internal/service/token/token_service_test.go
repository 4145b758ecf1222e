package token

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Customer{}, &models.RefreshToken{}))
	return &Service{DB: db, JWTSecret: []byte("access-secret"), RefreshSecret: []byte("refresh-secret")}
}

func createCustomer(t *testing.T, db *gorm.DB, role models.Role) *models.Customer {
	t.Helper()
	c := models.Customer{Username: "u-" + string(role), Login: string(role) + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&c).Error)
	return &c
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	raw, err := svc.SignAccessToken(7, models.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.ParseAccessToken(raw)
	require.NoError(t, err)
	require.EqualValues(t, 7, claims["sub"])
	require.Equal(t, "admin", claims["role"])
}

func TestAccessTokenRejectsRefreshSecret(t *testing.T) {
	svc := newTestService(t)

	raw, err := svc.SignRefreshToken(7, models.RoleUser)
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(raw)
	require.Error(t, err, "tokens signed with the refresh secret never pass as access tokens")
}

func TestValidateRefreshRequiresStoredRow(t *testing.T) {
	svc := newTestService(t)

	raw, err := svc.SignRefreshToken(3, models.RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateRefresh(raw)
	require.Error(t, err, "a signed but unsaved token is not accepted")

	require.NoError(t, svc.SaveRefreshToken(raw, 3, models.RoleUser))
	claims, err := svc.ValidateRefresh(raw)
	require.NoError(t, err)
	require.EqualValues(t, 3, claims["sub"])

	require.NoError(t, svc.Revoke(raw))
	_, err = svc.ValidateRefresh(raw)
	require.Error(t, err, "revoked tokens stop validating")
}

func TestRotateRereadsRole(t *testing.T) {
	svc := newTestService(t)
	customer := createCustomer(t, svc.DB, models.RoleUser)

	refresh, err := svc.SignRefreshToken(customer.ID, models.RoleUser)
	require.NoError(t, err)
	require.NoError(t, svc.SaveRefreshToken(refresh, customer.ID, models.RoleUser))

	// Promotion between issuance and rotation must surface in the new pair.
	require.NoError(t, svc.DB.Model(&models.Customer{}).
		Where("id = ?", customer.ID).Update("role", models.RoleAdmin).Error)

	newAccess, newRefresh, claims, err := svc.RotateToken(refresh)
	require.NoError(t, err)
	require.Equal(t, "admin", claims["role"])

	accessClaims, err := svc.ParseAccessToken(newAccess)
	require.NoError(t, err)
	require.Equal(t, "admin", accessClaims["role"])

	var stored models.RefreshToken
	require.NoError(t, svc.DB.Where("token = ?", newRefresh).First(&stored).Error)
	require.Equal(t, models.RoleAdmin, stored.Role)
}
