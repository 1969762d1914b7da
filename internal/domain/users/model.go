package users

import (
	"time"
)

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `json:"name"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Password     *string `json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"authProvider"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`
	PhotoURL     string  `json:"photoURL"`
	Role         string  `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsVerified   bool    `json:"isVerified"`

	// Lifetime premium access. Set once by payment reconciliation and
	// never cleared afterwards.
	IsPremium bool `json:"isPremium"`

	TotalLessons   int `gorm:"not null;default:0" json:"totalLessons"`
	TotalFavorites int `gorm:"not null;default:0" json:"totalFavorites"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
