package favorites

import (
	"time"

	"lessons-app/internal/domain/lessons"
	"lessons-app/internal/domain/users"
)

type Favorite struct {
	ID       uint           `gorm:"primaryKey" json:"id"`
	UserID   uint           `gorm:"not null;uniqueIndex:idx_favorites_user_lesson" json:"userId"`
	User     users.User     `json:"-"`
	LessonID uint           `gorm:"not null;uniqueIndex:idx_favorites_user_lesson" json:"lessonId"`
	Lesson   lessons.Lesson `json:"lesson"`

	CreatedAt time.Time `json:"createdAt"`
}
