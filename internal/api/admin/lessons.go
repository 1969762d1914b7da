package admin

import (
	"net/http"

	"lessons-app/database"
	"lessons-app/internal/domain/favorites"
	"lessons-app/internal/domain/lessons"
	"lessons-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListAllLessons(c *gin.Context) {
	q := database.DB.Model(&lessons.Lesson{})

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if visibility := c.Query("visibility"); visibility != "" {
		q = q.Where("visibility = ?", visibility)
	}
	if c.Query("flagged") == "true" {
		q = q.Where("id IN (?)",
			database.DB.Model(&lessons.Report{}).Distinct("lesson_id"))
	}

	var all []lessons.Lesson
	if err := q.Order("created_at DESC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load lessons"})
		return
	}

	c.JSON(http.StatusOK, all)
}

func ToggleFeatured(c *gin.Context) {
	var lesson lessons.Lesson
	if err := database.DB.First(&lesson, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	if err := database.DB.Model(&lesson).Update("is_featured", !lesson.IsFeatured).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lesson"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": lesson.ID, "isFeatured": !lesson.IsFeatured})
}

func DeleteLesson(c *gin.Context) {
	var lesson lessons.Lesson
	if err := database.DB.First(&lesson, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
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
		if err := tx.Delete(&lesson).Error; err != nil {
			return err
		}
		return tx.Model(&users.User{}).Where("id = ?", lesson.CreatedByID).
			UpdateColumn("total_lessons", gorm.Expr("GREATEST(total_lessons - 1, 0)")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete lesson"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lesson deleted"})
}

type reportedLesson struct {
	LessonID    uint   `json:"lessonId"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	CreatorName string `json:"creatorName"`
	ReportCount int64  `json:"reportCount"`
}

func ListReportedLessons(c *gin.Context) {
	var rows []reportedLesson
	err := database.DB.Model(&lessons.Report{}).
		Select("lesson_reports.lesson_id, lessons.title, lessons.category, lessons.creator_name, COUNT(lesson_reports.id) AS report_count").
		Joins("JOIN lessons ON lessons.id = lesson_reports.lesson_id").
		Group("lesson_reports.lesson_id, lessons.title, lessons.category, lessons.creator_name").
		Order("report_count DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reports"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

func ListLessonReports(c *gin.Context) {
	var lesson lessons.Lesson
	if err := database.DB.First(&lesson, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	var reports []lessons.Report
	if err := database.DB.Preload("Reporter").
		Where("lesson_id = ?", lesson.ID).
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lesson": lesson, "reports": reports})
}
