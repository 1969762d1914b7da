package store

import (
	"context"
	"errors"

	"lessons-app/internal/domain/billing"

	"gorm.io/gorm"
)

// GormLedger persists payments through GORM. It satisfies billing.Ledger:
// inserts hit the unique indexes on stripe_session_id /
// stripe_payment_intent_id and surface violations untranslated so the
// reconciler can classify them.
type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

var _ billing.Ledger = (*GormLedger)(nil)

func (l *GormLedger) FindBySessionOrIntent(ctx context.Context, sessionID, paymentIntentID string) (*billing.Payment, error) {
	query := l.db.WithContext(ctx).Where("stripe_session_id = ?", sessionID)
	if paymentIntentID != "" {
		query = l.db.WithContext(ctx).
			Where("stripe_session_id = ? OR stripe_payment_intent_id = ?", sessionID, paymentIntentID)
	}

	var payment billing.Payment
	if err := query.First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (l *GormLedger) Insert(ctx context.Context, p *billing.Payment) error {
	return l.db.WithContext(ctx).Create(p).Error
}
