// Package roles enforces the legal transitions between the user, admin and
// restricted account states. Privilege checks on the caller happen in the
// auth middlewares; the invariants are re-validated here regardless.
package roles

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/apperrors"
	"github.com/Tri-omph/backend/internal/logging"
	"github.com/Tri-omph/backend/internal/models"
)

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// load always re-reads the current row; callers never hand in a possibly
// stale customer.
func (s *Service) load(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return &customer, nil
}

func (s *Service) setRole(ctx context.Context, customer *models.Customer, role models.Role) error {
	err := s.DB.WithContext(ctx).Model(customer).Update("role", role).Error
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("role changed",
		"customer_id", customer.ID, "role", role)
	return nil
}

// Promote makes the customer an admin.
func (s *Service) Promote(ctx context.Context, id uint) error {
	customer, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if customer.IsAdmin() {
		return apperrors.Conflict("this user is already an admin")
	}
	return s.setRole(ctx, customer, models.RoleAdmin)
}

// Demote turns an admin back into a normal user. The main admin is pinned to
// the admin role and is never demotable.
func (s *Service) Demote(ctx context.Context, id uint) error {
	customer, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !customer.IsAdmin() {
		return apperrors.Conflict("this user is not an admin")
	}
	if customer.ID == models.MainAdminID {
		return apperrors.Conflict("this user is the main admin")
	}
	return s.setRole(ctx, customer, models.RoleUser)
}

// Restrict blocks a normal user. Admins are rejected outright, never
// auto-demoted.
func (s *Service) Restrict(ctx context.Context, id uint) error {
	customer, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if customer.IsAdmin() {
		return apperrors.Conflict("cannot restrict an admin, demote first")
	}
	if customer.IsRestricted() {
		return apperrors.Conflict("this user is already restricted")
	}
	return s.setRole(ctx, customer, models.RoleRestricted)
}

// Free lifts a restriction.
func (s *Service) Free(ctx context.Context, id uint) error {
	customer, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !customer.IsRestricted() {
		return apperrors.Conflict("this user is not restricted")
	}
	return s.setRole(ctx, customer, models.RoleUser)
}
