package stripewebhooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"lessons-app/internal/domain/billing"
	"lessons-app/internal/infra/checkout"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

// Handler receives Stripe's asynchronous event notifications. It is the
// "push" half of payment reconciliation; the authenticated verify-session
// endpoint is the "pull" half, and both feed the same engine.
type Handler struct {
	secret string
	engine *billing.Reconciler
}

func NewHandler(secret string, engine *billing.Reconciler) *Handler {
	return &Handler{secret: secret, engine: engine}
}

func (h *Handler) HandleWebhook(c *gin.Context) {
	if h.secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	// The raw body must be verified before anything in it is trusted.
	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		fmt.Println("❌ Stripe signature verification failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	if event.Type != "checkout.session.completed" {
		// Acknowledge everything else so Stripe stops retrying it.
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse session"})
		return
	}

	// A completed event already carries the full session, so no follow-up
	// Stripe call is needed here. No caller context either: webhooks have
	// no authenticated end user behind them.
	result, err := h.engine.Reconcile(c.Request.Context(), checkout.SessionDetailsFromStripe(&session), 0)
	if err != nil {
		if errors.Is(err, billing.ErrAccountUnresolvable) {
			fmt.Println("⚠️ Webhook: no account for session", session.ID)
			c.JSON(http.StatusBadRequest, gin.H{"error": "No matching account for checkout session"})
			return
		}
		// Store trouble: a 500 tells Stripe to retry, which is safe
		// because the engine is idempotent.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if result.Outcome == billing.OutcomeReconciled {
		fmt.Printf("✅ Premium activated via webhook for %s (session %s)\n", result.Payment.Email, session.ID)
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
