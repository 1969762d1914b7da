package lessons

import (
	"net/http"

	"lessons-app/database"
	"lessons-app/internal/domain/lessons"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ToggleLike(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var lesson lessons.Lesson
	if err := database.DB.First(&lesson, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	var like lessons.Like
	err := database.DB.Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&like).Error

	if err == nil {
		database.DB.Delete(&like)
		database.DB.Model(&lesson).
			UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count - 1, 0)"))

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Unliked",
			"liked":      false,
			"likesCount": max(0, lesson.LikesCount-1),
		})
		return
	}

	newLike := lessons.Like{UserID: userID, LessonID: lesson.ID}
	if err := database.DB.Create(&newLike).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}
	database.DB.Model(&lesson).
		UpdateColumn("likes_count", gorm.Expr("likes_count + 1"))

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Liked",
		"liked":      true,
		"likesCount": lesson.LikesCount + 1,
	})
}

func ReportLesson(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var lesson lessons.Lesson
	if err := database.DB.First(&lesson, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	var input struct {
		Reason  string `json:"reason" binding:"required"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !lessons.IsValidReportReason(input.Reason) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report reason"})
		return
	}

	report := lessons.Report{
		LessonID:   lesson.ID,
		ReporterID: userID,
		Reason:     input.Reason,
		Message:    input.Message,
	}
	if err := database.DB.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Report submitted"})
}

func ListComments(c *gin.Context) {
	var comments []lessons.Comment
	if err := database.DB.
		Preload("User").
		Where("lesson_id = ?", c.Param("id")).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

func CreateComment(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var lesson lessons.Lesson
	if err := database.DB.First(&lesson, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := lessons.Comment{
		UserID:   userID,
		LessonID: lesson.ID,
		Text:     input.Text,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	database.DB.Preload("User").First(&comment, comment.ID)

	c.JSON(http.StatusCreated, comment)
}
