package billing

import (
	"time"

	"lessons-app/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment is one row per reconciled checkout. The unique indexes on the
// Stripe session and payment-intent ids are what keeps concurrent webhook
// and verify-session calls from recording the same checkout twice.
type Payment struct {
	ID     string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uint       `gorm:"not null;index:idx_payments_user_status" json:"userId"`
	User   users.User `json:"-"`
	Email  string     `gorm:"not null" json:"email"`

	StripeSessionID       string  `gorm:"not null;uniqueIndex:idx_payments_stripe_session_id" json:"stripeSessionId"`
	StripePaymentIntentID *string `gorm:"uniqueIndex:idx_payments_stripe_payment_intent_id" json:"stripePaymentIntentId"`

	// Amount in the currency's smallest unit, as reported by Stripe.
	Amount   int64  `gorm:"not null" json:"amount"`
	Currency string `gorm:"type:varchar(10);not null;default:'bdt'" json:"currency"`
	Status   string `gorm:"type:varchar(20);not null;default:'pending';index:idx_payments_user_status" json:"status"`

	PaymentMethod string         `json:"paymentMethod"`
	CustomerName  string         `json:"customerName"`
	PaymentDate   time.Time      `json:"paymentDate"`
	Metadata      datatypes.JSON `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
