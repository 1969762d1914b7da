package users

import "time"

// Verification token kinds. Email tokens confirm account ownership after
// registration; reset tokens authorize a password change.
const (
	TokenTypeEmailVerification = "email_verification"
	TokenTypePasswordReset     = "password_reset"
)

type VerificationToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex:idx_verification_tokens_user_type"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Token     string `gorm:"uniqueIndex"`
	Type      string `gorm:"uniqueIndex:idx_verification_tokens_user_type"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token's lifetime has passed.
func (t VerificationToken) Expired() bool {
	return t.ExpiresAt.Before(time.Now())
}
