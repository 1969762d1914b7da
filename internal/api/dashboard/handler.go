package dashboard

import (
	"net/http"

	"lessons-app/database"
	"lessons-app/internal/domain/favorites"
	"lessons-app/internal/domain/lessons"
	"lessons-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func GetOverview(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var lessonCount int64
	database.DB.Model(&lessons.Lesson{}).Where("created_by_id = ?", userID).Count(&lessonCount)

	var favoriteCount int64
	database.DB.Model(&favorites.Favorite{}).Where("user_id = ?", userID).Count(&favoriteCount)

	var recent []lessons.Lesson
	database.DB.Where("created_by_id = ?", userID).
		Order("created_at DESC").
		Limit(5).
		Find(&recent)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"name":      user.Name,
			"email":     user.Email,
			"photoUrl":  user.PhotoURL,
			"isPremium": user.IsPremium,
		},
		"totalLessons":   lessonCount,
		"totalFavorites": favoriteCount,
		"recentLessons":  recent,
	})
}
