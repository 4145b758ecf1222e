package models

import (
	"time"

	"gorm.io/datatypes"
)

// MainAdminID is the id of the seeded main administrator. Postgres sequences
// start at 1, so no registered customer can ever collide with it.
const MainAdminID uint = 0

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleRestricted Role = "restricted"
)

type Customer struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string         `gorm:"unique;not null"          json:"username"`
	Login        string         `gorm:"unique;not null"          json:"login"`
	PasswordHash string         `gorm:"not null"                 json:"-"`
	Role         Role           `gorm:"not null;default:user"    json:"role"`
	Points       int            `gorm:"not null;default:0"       json:"points"`
	SaveImage    bool           `gorm:"not null;default:false"   json:"save_image"`
	Bins         datatypes.JSON `json:"bins,omitempty"`
}

func (c *Customer) IsAdmin() bool      { return c.Role == RoleAdmin }
func (c *Customer) IsRestricted() bool { return c.Role == RoleRestricted }

// Warning is a persisted abuse record for a (customer, barcode) pair. Rows
// are kept as history: within one hour of CreatedAt the same row is
// refreshed, afterwards a new row is created and the old one left untouched.
type Warning struct {
	ID         uint      `gorm:"primaryKey"         json:"id"`
	CustomerID uint      `gorm:"index;not null"     json:"customer_id"`
	Barcode    string    `gorm:"index;not null"     json:"barcode"`
	ScanCount  int       `gorm:"not null;default:0" json:"scan_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type ScanMethod string

const (
	ScanBarcode  ScanMethod = "barcode"
	ScanAI       ScanMethod = "ai"
	ScanAdvanced ScanMethod = "advanced"
)

type ScanHistory struct {
	ID         uint       `gorm:"primaryKey"             json:"id"`
	CustomerID uint       `gorm:"index;not null"         json:"customer_id"`
	Method     ScanMethod `gorm:"not null"               json:"method"`
	IsValid    bool       `gorm:"not null;default:false" json:"is_valid"`
	Bin        BinType    `gorm:"not null"               json:"bin"`
	Type       string     `gorm:"not null"               json:"type"`
	Image      []byte     `json:"-"`
	Date       time.Time  `gorm:"autoCreateTime"         json:"date"`
}

// WasteItem is a catalog entry resolved from a scanned barcode.
type WasteItem struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Barcode  string  `gorm:"uniqueIndex;not null"     json:"barcode"`
	Name     string  `gorm:"not null"                 json:"name"`
	Material string  `gorm:"not null"                 json:"material"`
	Bin      BinType `gorm:"not null"                 json:"bin"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	Role      Role   `gorm:"not null"        json:"role"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}
