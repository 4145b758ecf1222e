// Package warning turns repeated scans of the same barcode into persisted
// abuse records.
package warning

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/logging"
	"github.com/Tri-omph/backend/internal/models"
	"github.com/Tri-omph/backend/internal/scancache"
)

// TTL is how long a warning row stays refreshable after its own CreatedAt.
// Computed independently of scancache.Window.
const TTL = time.Hour

type Service struct {
	DB      *gorm.DB
	Tracker *scancache.Tracker

	now func() time.Time
}

func NewService(db *gorm.DB, tracker *scancache.Tracker) *Service {
	return &Service{DB: db, Tracker: tracker, now: time.Now}
}

type Result struct {
	Confirmed     bool `json:"confirmed"`
	TotalRequests int  `json:"total_requests"`
}

// HandleWarning records one scan and, once the tracker flags the pair as
// suspicious, persists the abuse: the most recent warning row for
// (customer, barcode) is refreshed while it is younger than TTL, otherwise a
// new row is created and the old one kept as history.
//
// The tracker increment and the row write are not transactional: two
// near-simultaneous suspicious scans can both insert a row. The counter is
// best effort and is never rolled back on a persistence failure.
func (s *Service) HandleWarning(ctx context.Context, customer *models.Customer, barcode string, threshold int) (Result, error) {
	suspicious, total := s.Tracker.Record(threshold, customer.ID, barcode)
	if !suspicious {
		return Result{Confirmed: false, TotalRequests: total}, nil
	}

	l := logging.FromContext(ctx).With("svc", "warning", "customer_id", customer.ID, "barcode", barcode)
	now := s.now()

	var existing models.Warning
	err := s.DB.WithContext(ctx).
		Where("customer_id = ? AND barcode = ?", customer.ID, barcode).
		Order("created_at DESC").
		First(&existing).Error

	switch {
	case err == nil && now.Sub(existing.CreatedAt) <= TTL:
		existing.ScanCount = total
		if err := s.DB.WithContext(ctx).Save(&existing).Error; err != nil {
			l.Error("warning refresh failed", "error", err)
			return Result{}, err
		}
		l.Warn("warning refreshed", "warning_id", existing.ID, "scan_count", total)
		return Result{Confirmed: true, TotalRequests: total}, nil

	case err == nil || errors.Is(err, gorm.ErrRecordNotFound):
		w := models.Warning{
			CustomerID: customer.ID,
			Barcode:    barcode,
			ScanCount:  total,
			CreatedAt:  now,
		}
		if err := s.DB.WithContext(ctx).Create(&w).Error; err != nil {
			l.Error("warning create failed", "error", err)
			return Result{}, err
		}
		l.Warn("warning created", "warning_id", w.ID, "scan_count", total)
		return Result{Confirmed: true, TotalRequests: total}, nil

	default:
		l.Error("warning lookup failed", "error", err)
		return Result{}, err
	}
}

// ForCustomer lists a customer's warnings, newest first.
func (s *Service) ForCustomer(ctx context.Context, customerID uint) ([]models.Warning, error) {
	var warnings []models.Warning
	err := s.DB.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&warnings).Error
	return warnings, err
}
