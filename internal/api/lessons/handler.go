package lessons

import (
	"net/http"

	"lessons-app/database"
	"lessons-app/internal/domain/access"
	"lessons-app/internal/domain/favorites"
	"lessons-app/internal/domain/lessons"
	"lessons-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// currentUser loads the authenticated user, or nil when the request carries
// no (valid) token.
func currentUser(c *gin.Context) *users.User {
	userID := c.GetUint("user_id")
	if userID == 0 {
		return nil
	}
	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return nil
	}
	return &user
}

func CreateLesson(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		Title         string `json:"title" binding:"required"`
		Description   string `json:"description" binding:"required"`
		Category      string `json:"category" binding:"required"`
		EmotionalTone string `json:"emotionalTone" binding:"required"`
		Image         string `json:"image"`
		Visibility    string `json:"visibility"`
		AccessLevel   string `json:"accessLevel"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Visibility == "" {
		input.Visibility = lessons.VisibilityPublic
	}
	if input.AccessLevel == "" {
		input.AccessLevel = lessons.AccessFree
	}

	if !access.CanAssignTier(*user, input.AccessLevel) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Upgrade to Premium to create premium lessons"})
		return
	}

	lesson := lessons.Lesson{
		Title:         input.Title,
		Description:   input.Description,
		Category:      input.Category,
		EmotionalTone: input.EmotionalTone,
		Image:         input.Image,
		Visibility:    input.Visibility,
		AccessLevel:   input.AccessLevel,
		CreatedByID:   user.ID,
		CreatorName:   user.Name,
		CreatorPhoto:  user.PhotoURL,
		CreatorEmail:  user.Email,
	}

	if err := database.DB.Create(&lesson).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lesson"})
		return
	}

	database.DB.Model(&users.User{}).Where("id = ?", user.ID).
		UpdateColumn("total_lessons", gorm.Expr("total_lessons + 1"))

	c.JSON(http.StatusCreated, lesson)
}

func GetLessonByID(c *gin.Context) {
	var lesson lessons.Lesson
	if err := database.DB.First(&lesson, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	viewer := currentUser(c)
	decision := access.CanView(viewer, lesson)
	if !decision.Allowed {
		if decision.RequiresUpgrade {
			c.JSON(http.StatusForbidden, gin.H{
				"error":           "Premium lesson - Upgrade to view",
				"requiresUpgrade": true,
			})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied to this lesson"})
		return
	}

	var authorLessons int64
	database.DB.Model(&lessons.Lesson{}).Where("created_by_id = ?", lesson.CreatedByID).Count(&authorLessons)

	c.JSON(http.StatusOK, gin.H{
		"lesson": lesson,
		"creator": gin.H{
			"name":         lesson.CreatorName,
			"email":        lesson.CreatorEmail,
			"photoURL":     lesson.CreatorPhoto,
			"totalLessons": authorLessons,
		},
		"readingTimeMinutes": lessons.ReadingTimeMinutes(lesson.Description),
	})
}

func UpdateLesson(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var lesson lessons.Lesson
	if err := database.DB.First(&lesson, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	if !access.CanModerate(*user, lesson) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to edit"})
		return
	}

	var input struct {
		Title         *string `json:"title"`
		Description   *string `json:"description"`
		Category      *string `json:"category"`
		EmotionalTone *string `json:"emotionalTone"`
		Image         *string `json:"image"`
		Visibility    *string `json:"visibility"`
		AccessLevel   *string `json:"accessLevel"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != nil {
		lesson.Title = *input.Title
	}
	if input.Description != nil {
		lesson.Description = *input.Description
	}
	if input.Category != nil {
		lesson.Category = *input.Category
	}
	if input.EmotionalTone != nil {
		lesson.EmotionalTone = *input.EmotionalTone
	}
	if input.Image != nil {
		lesson.Image = *input.Image
	}
	if input.Visibility != nil {
		lesson.Visibility = *input.Visibility
	}
	// A non-premium author can't raise the tier; the field is silently
	// left as-is, matching the create-side rule.
	if input.AccessLevel != nil && access.CanAssignTier(*user, *input.AccessLevel) {
		lesson.AccessLevel = *input.AccessLevel
	}

	if err := database.DB.Save(&lesson).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lesson"})
		return
	}

	c.JSON(http.StatusOK, lesson)
}

func DeleteLesson(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var lesson lessons.Lesson
	if err := database.DB.First(&lesson, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	if !access.CanModerate(*user, lesson) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to delete"})
		return
	}

	if err := deleteLessonCascade(lesson); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete lesson"})
		return
	}

	database.DB.Model(&users.User{}).Where("id = ?", lesson.CreatedByID).
		UpdateColumn("total_lessons", gorm.Expr("GREATEST(total_lessons - 1, 0)"))

	c.JSON(http.StatusOK, gin.H{"message": "Lesson deleted successfully"})
}

func deleteLessonCascade(lesson lessons.Lesson) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&favorites.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&lessons.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&lessons.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&lessons.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&lessons.Lesson{}, lesson.ID).Error
	})
}
