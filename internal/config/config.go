package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/models"
)

// DefaultScanThreshold is the scan count per (customer, barcode) per hour
// from which a scan is considered abusive.
const DefaultScanThreshold = 10

type Config struct {
	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	JWT_SECRET     string
	REFRESH_SECRET string
	KAFKA_ADDRESS  string

	MAIN_ADMIN_EMAIL    string
	MAIN_ADMIN_PASSWORD string

	ScanThreshold int
	LogLevel      string
	Port          string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:             os.Getenv("DB_HOST"),
		DB_PORT:             os.Getenv("DB_PORT"),
		DB_USER:             os.Getenv("DB_USER"),
		DB_PASSWORD:         os.Getenv("DB_PASSWORD"),
		DB_NAME:             os.Getenv("DB_NAME"),
		ES_URL:              os.Getenv("ES_URL"),
		ES_USER:             os.Getenv("ES_USER"),
		ES_PASSWORD:         os.Getenv("ES_PASSWORD"),
		JWT_SECRET:          os.Getenv("JWT_SECRET"),
		REFRESH_SECRET:      os.Getenv("REFRESH_SECRET"),
		KAFKA_ADDRESS:       os.Getenv("KAFKA_ADDRESS"),
		MAIN_ADMIN_EMAIL:    os.Getenv("MAIN_ADMIN_EMAIL"),
		MAIN_ADMIN_PASSWORD: os.Getenv("MAIN_ADMIN_PASSWORD"),
		ScanThreshold:       DefaultScanThreshold,
		LogLevel:            os.Getenv("LOG_LEVEL"),
		Port:                os.Getenv("PORT"),
	}

	if raw := os.Getenv("SCAN_SUSPICIOUS_THRESHOLD"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid SCAN_SUSPICIOUS_THRESHOLD %q", raw)
		}
		config.ScanThreshold = n
	}
	if config.Port == "" {
		config.Port = "8080"
	}

	return config, nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Customer{},
		&models.Warning{},
		&models.ScanHistory{},
		&models.WasteItem{},
		&models.RefreshToken{},
	)
}
