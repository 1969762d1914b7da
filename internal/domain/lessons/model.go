package lessons

import (
	"time"

	"lessons-app/internal/domain/users"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"

	AccessFree    = "free"
	AccessPremium = "premium"
)

type Lesson struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Title         string `gorm:"not null" json:"title"`
	Description   string `gorm:"not null;type:text" json:"description"`
	Category      string `gorm:"not null;index" json:"category"`
	EmotionalTone string `gorm:"not null;index" json:"emotionalTone"`
	Image         string `json:"image"`
	Visibility    string `gorm:"type:varchar(20);not null;default:'public';index" json:"visibility"`
	AccessLevel   string `gorm:"type:varchar(20);not null;default:'free'" json:"accessLevel"`

	CreatedByID uint       `gorm:"not null;index" json:"createdBy"`
	CreatedBy   users.User `gorm:"foreignKey:CreatedByID" json:"-"`

	// Denormalized so listings don't need a join.
	CreatorName  string `json:"creatorName"`
	CreatorPhoto string `json:"creatorPhoto"`
	CreatorEmail string `json:"creatorEmail"`

	LikesCount     int  `gorm:"not null;default:0" json:"likesCount"`
	FavoritesCount int  `gorm:"not null;default:0" json:"favoritesCount"`
	IsFeatured     bool `gorm:"not null;default:false" json:"isFeatured"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Like is one user's like on one lesson.
type Like struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_lesson_likes_user_lesson"`
	LessonID uint `gorm:"not null;uniqueIndex:idx_lesson_likes_user_lesson"`

	CreatedAt time.Time
}

func (Like) TableName() string { return "lesson_likes" }

type Comment struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	UserID   uint       `gorm:"not null" json:"userId"`
	User     users.User `json:"user"`
	LessonID uint       `gorm:"not null;index" json:"lessonId"`
	Text     string     `gorm:"not null;type:text" json:"text"`

	CreatedAt time.Time `json:"createdAt"`
}

const (
	ReportReasonInappropriate = "Inappropriate Content"
	ReportReasonHateSpeech    = "Hate Speech or Harassment"
	ReportReasonMisleading    = "Misleading or False Information"
	ReportReasonSpam          = "Spam or Promotional Content"
	ReportReasonSensitive     = "Sensitive or Disturbing Content"
	ReportReasonOther         = "Other"
)

func IsValidReportReason(reason string) bool {
	switch reason {
	case ReportReasonInappropriate, ReportReasonHateSpeech, ReportReasonMisleading,
		ReportReasonSpam, ReportReasonSensitive, ReportReasonOther:
		return true
	}
	return false
}

type Report struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	LessonID   uint       `gorm:"not null;index" json:"lessonId"`
	ReporterID uint       `gorm:"not null" json:"reporterId"`
	Reporter   users.User `gorm:"foreignKey:ReporterID" json:"reporter"`
	Reason     string     `gorm:"not null" json:"reason"`
	Message    string     `json:"message"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Report) TableName() string { return "lesson_reports" }
