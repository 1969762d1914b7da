package favorites

import (
	"net/http"

	"lessons-app/database"
	"lessons-app/internal/domain/favorites"
	"lessons-app/internal/domain/lessons"
	"lessons-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ToggleFavorite(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var lesson lessons.Lesson
	if err := database.DB.First(&lesson, c.Param("lessonId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	var existing favorites.Favorite
	err := database.DB.Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&existing).Error

	if err == nil {
		database.DB.Delete(&existing)
		adjustCounters(lesson.ID, userID, -1)
		c.JSON(http.StatusOK, gin.H{"favorited": false})
		return
	}

	fav := favorites.Favorite{UserID: userID, LessonID: lesson.ID}
	if err := database.DB.Create(&fav).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle favorite"})
		return
	}
	adjustCounters(lesson.ID, userID, 1)

	c.JSON(http.StatusOK, gin.H{"favorited": true})
}

func RemoveFavorite(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var existing favorites.Favorite
	err := database.DB.Where("user_id = ? AND lesson_id = ?", userID, c.Param("lessonId")).First(&existing).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
		return
	}

	database.DB.Delete(&existing)
	adjustCounters(existing.LessonID, userID, -1)

	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed", "favorited": false})
}

func ListMyFavorites(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var favs []favorites.Favorite
	if err := database.DB.
		Preload("Lesson").
		Where("user_id = ?", userID).
		Find(&favs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch favorites"})
		return
	}

	category := c.Query("category")
	tone := c.Query("emotionalTone")

	result := make([]lessons.Lesson, 0, len(favs))
	for _, f := range favs {
		if f.Lesson.ID == 0 {
			continue
		}
		if category != "" && f.Lesson.Category != category {
			continue
		}
		if tone != "" && f.Lesson.EmotionalTone != tone {
			continue
		}
		result = append(result, f.Lesson)
	}

	c.JSON(http.StatusOK, result)
}

func adjustCounters(lessonID, userID uint, delta int) {
	if delta > 0 {
		database.DB.Model(&lessons.Lesson{}).Where("id = ?", lessonID).
			UpdateColumn("favorites_count", gorm.Expr("favorites_count + 1"))
		database.DB.Model(&users.User{}).Where("id = ?", userID).
			UpdateColumn("total_favorites", gorm.Expr("total_favorites + 1"))
		return
	}
	database.DB.Model(&lessons.Lesson{}).Where("id = ?", lessonID).
		UpdateColumn("favorites_count", gorm.Expr("GREATEST(favorites_count - 1, 0)"))
	database.DB.Model(&users.User{}).Where("id = ?", userID).
		UpdateColumn("total_favorites", gorm.Expr("GREATEST(total_favorites - 1, 0)"))
}
