package store

import (
	"context"
	"errors"

	"lessons-app/internal/domain/billing"
	"lessons-app/internal/domain/users"

	"gorm.io/gorm"
)

// GormEntitlements is the user-store slice payment reconciliation writes
// through. GrantPremium only ever flips the flag to true.
type GormEntitlements struct {
	db *gorm.DB
}

func NewGormEntitlements(db *gorm.DB) *GormEntitlements {
	return &GormEntitlements{db: db}
}

var _ billing.Entitlements = (*GormEntitlements)(nil)

func (e *GormEntitlements) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	if err := e.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (e *GormEntitlements) FindByID(ctx context.Context, id uint) (*users.User, error) {
	var user users.User
	if err := e.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (e *GormEntitlements) GrantPremium(ctx context.Context, id uint) error {
	return e.db.WithContext(ctx).
		Model(&users.User{}).
		Where("id = ? AND is_premium = ?", id, false).
		Update("is_premium", true).Error
}
