// Package gamification maintains the per-customer points counter.
package gamification

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/apperrors"
	"github.com/Tri-omph/backend/internal/models"
)

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// IncrementPoints adds exactly one point to the customer and returns the
// updated snapshot. There is no decrement and no upper bound.
func (s *Service) IncrementPoints(ctx context.Context, customerID uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.DB.WithContext(ctx).Where("id = ?", customerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("customer not found")
		}
		return nil, err
	}

	customer.Points++
	if err := s.DB.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", customer.ID).
		Update("points", customer.Points).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// Points reports the current counter.
func (s *Service) Points(ctx context.Context, customerID uint) (int, error) {
	var customer models.Customer
	if err := s.DB.WithContext(ctx).Where("id = ?", customerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NotFound("customer not found")
		}
		return 0, err
	}
	return customer.Points, nil
}

// Level derives the customer level from the points counter. Levels are the
// raw counter for now, the progression curve is a product decision that has
// not landed.
func Level(points int) int {
	return points
}
