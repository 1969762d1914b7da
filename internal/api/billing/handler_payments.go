package billing

import (
	"net/http"

	"lessons-app/database"
	"lessons-app/internal/domain/billing"
	"lessons-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func GetPaymentHistory(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payments []billing.Payment
	if err := database.DB.
		Omit("Metadata").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}

func GetPaymentStatus(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	var completed int64
	database.DB.Model(&billing.Payment{}).
		Where("user_id = ? AND status = ?", userID, billing.PaymentStatusCompleted).
		Count(&completed)

	var latest billing.Payment
	var latestPayment gin.H
	err := database.DB.
		Where("user_id = ? AND status = ?", userID, billing.PaymentStatusCompleted).
		Order("created_at DESC").
		First(&latest).Error
	if err == nil {
		latestPayment = gin.H{
			"amount":      latest.Amount,
			"currency":    latest.Currency,
			"paymentDate": latest.PaymentDate,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"isPremium":     user.IsPremium || completed > 0,
		"totalPayments": completed,
		"latestPayment": latestPayment,
	})
}
