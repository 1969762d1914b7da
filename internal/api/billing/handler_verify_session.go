package billing

import (
	"errors"
	"net/http"

	"lessons-app/database"
	"lessons-app/internal/domain/billing"
	"lessons-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type paymentSummary struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	PaymentDate string `json:"paymentDate"`
}

func summarize(p *billing.Payment) paymentSummary {
	return paymentSummary{
		Amount:      p.Amount,
		Currency:    p.Currency,
		Status:      p.Status,
		PaymentDate: p.PaymentDate.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// VerifySession is the synchronous half of reconciliation: the browser lands
// back from Stripe with only a session id, so the authoritative status has
// to be fetched before the engine runs. It races the webhook for the same
// session and both orderings are fine.
func (h *Handler) VerifySession(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	details, err := h.provider.RetrieveSession(c.Request.Context(), body.SessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	result, err := h.engine.Reconcile(c.Request.Context(), details, userID)
	if err != nil {
		if errors.Is(err, billing.ErrAccountUnresolvable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No matching account for this checkout session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session"})
		return
	}

	switch result.Outcome {
	case billing.OutcomeReconciled:
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"isPremium": true,
			"message":   "Payment verified successfully",
			"payment":   summarize(result.Payment),
		})

	case billing.OutcomeAlreadyReconciled:
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"isPremium": true,
			"message":   "Payment already verified",
			"payment":   summarize(result.Payment),
		})

	default: // not completed
		var user users.User
		isPremium := false
		if err := database.DB.First(&user, userID).Error; err == nil {
			isPremium = user.IsPremium
		}
		c.JSON(http.StatusOK, gin.H{
			"success":       false,
			"isPremium":     isPremium,
			"message":       "Payment not completed",
			"paymentStatus": result.PaymentStatus,
		})
	}
}
