package billing

import (
	"fmt"
	"net/http"

	"lessons-app/config"
	"lessons-app/database"
	"lessons-app/internal/domain/billing"
	"lessons-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	if user.IsPremium {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are already a Premium user"})
		return
	}

	var body struct {
		SuccessURL string `json:"successUrl"`
		CancelURL  string `json:"cancelUrl"`
	}
	// Body is optional; the client URL defaults cover the redirect pair.
	_ = c.ShouldBindJSON(&body)

	successURL := body.SuccessURL
	if successURL == "" {
		successURL = config.CLIENT_URL + "/payment/success?session_id={CHECKOUT_SESSION_ID}"
	}
	cancelURL := body.CancelURL
	if cancelURL == "" {
		cancelURL = config.CLIENT_URL + "/payment/cancel"
	}

	session, err := h.provider.CreateSession(c.Request.Context(), billing.CreateSessionParams{
		Amount:        premiumAmount,
		Currency:      premiumCurrency,
		ProductName:   premiumName,
		ProductDesc:   premiumDesc,
		CustomerEmail: user.Email,
		Metadata: map[string]string{
			billing.MetadataUserIDKey: fmt.Sprint(user.ID),
			"name":                    user.Name,
		},
		ClientRef:  fmt.Sprint(user.ID),
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": session.ID, "url": session.URL})
}
