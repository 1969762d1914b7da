package admin

import (
	"net/http"
	"time"

	"lessons-app/database"
	"lessons-app/internal/domain/lessons"
	"lessons-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	IsVerified   bool   `json:"is_verified"`
	IsPremium    bool   `json:"is_premium"`
	TotalLessons int    `json:"total_lessons"`
	CreatedAt    string `json:"created_at"`
}

type AdminStats struct {
	TotalUsers      int64 `json:"totalUsers"`
	TotalLessons    int64 `json:"totalLessons"`
	TodayLessons    int64 `json:"todayLessons"`
	ReportedLessons int64 `json:"reportedLessons"`
}

// startOfDay is midnight in the server's timezone, not the UTC day boundary.
func startOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func GetStats(c *gin.Context) {
	var stats AdminStats

	database.DB.Model(&users.User{}).Count(&stats.TotalUsers)
	database.DB.Model(&lessons.Lesson{}).Count(&stats.TotalLessons)

	database.DB.Model(&lessons.Lesson{}).
		Where("created_at >= ?", startOfDay(time.Now())).
		Count(&stats.TodayLessons)

	database.DB.Model(&lessons.Report{}).
		Distinct("lesson_id").
		Count(&stats.ReportedLessons)

	c.JSON(http.StatusOK, stats)
}

func ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := database.DB.Order("created_at DESC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	adminUsers := make([]AdminUser, 0, len(all))
	for _, u := range all {
		adminUsers = append(adminUsers, AdminUser{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Role:         u.Role,
			IsVerified:   u.IsVerified,
			IsPremium:    u.IsPremium,
			TotalLessons: u.TotalLessons,
			CreatedAt:    u.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}

func UpdateUserRole(c *gin.Context) {
	var body struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || (body.Role != "user" && body.Role != "admin") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be 'user' or 'admin'"})
		return
	}

	var user users.User
	if err := database.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := database.DB.Model(&user).Update("role", body.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "id": user.ID, "role": body.Role})
}
