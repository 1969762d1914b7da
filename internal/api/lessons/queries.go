package lessons

import (
	"net/http"
	"strconv"

	"lessons-app/database"
	"lessons-app/internal/domain/lessons"

	"github.com/gin-gonic/gin"
)

func ListPublicLessons(c *gin.Context) {
	query := database.DB.Model(&lessons.Lesson{}).Where("visibility = ?", lessons.VisibilityPublic)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if tone := c.Query("emotionalTone"); tone != "" {
		query = query.Where("emotional_tone = ?", tone)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	switch c.DefaultQuery("sort", "newest") {
	case "mostSaved":
		query = query.Order("favorites_count DESC, created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch public lessons"})
		return
	}

	var result []lessons.Lesson
	if err := query.
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&result).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch public lessons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"page":    page,
		"limit":   limit,
		"lessons": result,
	})
}

func ListFeaturedLessons(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	if limit < 1 {
		limit = 6
	}
	if limit > 100 {
		limit = 100
	}

	var result []lessons.Lesson
	if err := database.DB.
		Where("visibility = ? AND is_featured = ?", lessons.VisibilityPublic, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&result).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch featured lessons"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func ListLessonsByAuthor(c *gin.Context) {
	authorID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid User ID provided"})
		return
	}

	var result []lessons.Lesson
	if err := database.DB.
		Where("created_by_id = ? AND visibility = ?", authorID, lessons.VisibilityPublic).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch author lessons"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func ListMyLessons(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var result []lessons.Lesson
	if err := database.DB.
		Where("created_by_id = ?", userID).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch my lessons"})
		return
	}

	c.JSON(http.StatusOK, result)
}
