package wishlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles wishlist business logic
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// ToggleResult is returned by Toggle
type ToggleResult struct {
	IID   uint  `json:"iid"`
	Value int   `json:"value"`
	Count int64 `json:"count"`
}

// Toggle flips the wish flag of email on iid and returns the new value with
// the item's wish count.
func (s *Service) Toggle(ctx context.Context, iid uint, email string) (*ToggleResult, error) {
	var value int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wish WishItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("iid = ? AND email = ?", iid, email).
			First(&wish).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			value = 1
			return tx.Create(&WishItem{IID: iid, Email: email, Value: value}).Error
		case err != nil:
			return err
		}

		value = 1 - wish.Value
		return tx.Model(&wish).Update("value", value).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle wish: %w", err)
	}

	count, err := s.Count(ctx, iid)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"iid": iid, "email": email, "value": value}).Debug("Wish toggled")
	return &ToggleResult{IID: iid, Value: value, Count: count}, nil
}

// Value returns 1 when email wishes for iid, else 0
func (s *Service) Value(ctx context.Context, iid uint, email string) (int, error) {
	var wish WishItem
	err := s.db.WithContext(ctx).Where("iid = ? AND email = ?", iid, email).First(&wish).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get wish: %w", err)
	}
	return wish.Value, nil
}

// Count returns the number of users wishing for iid
func (s *Service) Count(ctx context.Context, iid uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&WishItem{}).Where("iid = ? AND value = 1", iid).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count wishes: %w", err)
	}
	return count, nil
}

// List returns the ids of the items email currently wishes for, newest first
func (s *Service) List(ctx context.Context, email string) ([]uint, error) {
	var iids []uint
	err := s.db.WithContext(ctx).Model(&WishItem{}).
		Where("email = ? AND value = 1", email).
		Order("updated_at DESC").
		Pluck("iid", &iids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishes: %w", err)
	}
	return iids, nil
}
