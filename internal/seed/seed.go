// Package seed provisions the rows the service cannot run without: the main
// admin account and a starter waste catalog.
package seed

import (
	"context"

	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/hash"
	"github.com/Tri-omph/backend/internal/logging"
	"github.com/Tri-omph/backend/internal/models"
)

// EnsureMainAdmin creates the pinned id-0 admin account when it does not
// exist yet. The raw insert bypasses the autoincrement column so the id
// really is 0; postgres sequences start at 1 and never hand it out.
func EnsureMainAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	if email == "" {
		email = "admin@example.com"
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", models.MainAdminID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, username, login, password_hash, role, points, save_image)
		 VALUES (?, ?, ?, ?, ?, 0, true)`,
		models.MainAdminID, "mainadmin", email, pwHash, models.RoleAdmin,
	).Error
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Info("main admin created", "login", email)
	return nil
}

// EnsureCatalog loads a minimal waste-item catalog when the table is empty,
// so barcode lookups have something to answer with on a fresh install.
func EnsureCatalog(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.WasteItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []models.WasteItem{
		{Barcode: "3017620422003", Name: "Glass jar", Material: string(models.GlassPackaging), Bin: models.BinRed},
		{Barcode: "5449000000996", Name: "Plastic bottle", Material: string(models.PlasticPackaging), Bin: models.BinYellow},
		{Barcode: "7622210449283", Name: "Cereal box", Material: string(models.CardboardPackaging), Bin: models.BinBlue},
		{Barcode: "4006381333931", Name: "Tin can", Material: string(models.MetalPackaging), Bin: models.BinYellow},
		{Barcode: "8076809513753", Name: "Newspaper", Material: string(models.Paper), Bin: models.BinBlue},
	}
	if err := db.WithContext(ctx).Create(&items).Error; err != nil {
		return err
	}

	logging.FromContext(ctx).Info("waste catalog seeded", "items", len(items))
	return nil
}
