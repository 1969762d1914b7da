package checkout

import (
	"testing"

	"lessons-app/internal/domain/billing"

	"github.com/stripe/stripe-go/v75"
)

func TestSessionDetailsFromStripe(t *testing.T) {
	s := &stripe.CheckoutSession{
		ID:            "sess_1",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_1"},
		AmountTotal:   150000,
		Currency:      stripe.CurrencyBDT,
		CustomerEmail: "checkout@example.com",
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{
			Email: "alice@example.com",
			Name:  "Alice",
		},
		PaymentMethodTypes: []string{"card"},
		Metadata:           map[string]string{"user_id": "7"},
	}

	details := SessionDetailsFromStripe(s)

	if details.ID != "sess_1" {
		t.Errorf("id = %q", details.ID)
	}
	if details.PaymentStatus != billing.SessionPaid {
		t.Errorf("payment status = %q, want paid", details.PaymentStatus)
	}
	if details.PaymentIntentID != "pi_1" {
		t.Errorf("payment intent = %q", details.PaymentIntentID)
	}
	if details.Amount != 150000 || details.Currency != "bdt" {
		t.Errorf("amount/currency = %d/%q", details.Amount, details.Currency)
	}
	if details.CustomerEmail != "alice@example.com" {
		t.Errorf("customer email = %q, want the customer_details one", details.CustomerEmail)
	}
	if details.CustomerName != "Alice" {
		t.Errorf("customer name = %q", details.CustomerName)
	}
	if details.PaymentMethod != "card" {
		t.Errorf("payment method = %q", details.PaymentMethod)
	}
	if details.Metadata["user_id"] != "7" {
		t.Errorf("metadata = %v", details.Metadata)
	}
}

func TestSessionDetailsFromStripeSparse(t *testing.T) {
	// Webhook payloads may omit customer details, intent and method types.
	s := &stripe.CheckoutSession{
		ID:            "sess_2",
		CustomerEmail: "checkout@example.com",
	}

	details := SessionDetailsFromStripe(s)

	if details.PaymentStatus != billing.SessionUnpaid {
		t.Errorf("payment status = %q, want unpaid for a missing status", details.PaymentStatus)
	}
	if details.PaymentIntentID != "" {
		t.Errorf("payment intent = %q, want empty", details.PaymentIntentID)
	}
	if details.CustomerEmail != "checkout@example.com" {
		t.Errorf("customer email = %q, want the top-level fallback", details.CustomerEmail)
	}
	if details.PaymentMethod != "" {
		t.Errorf("payment method = %q, want empty", details.PaymentMethod)
	}
}

func TestNormalizePaymentStatus(t *testing.T) {
	if got := NormalizePaymentStatus(""); got != billing.SessionUnpaid {
		t.Errorf("empty status = %q, want unpaid", got)
	}
	if got := NormalizePaymentStatus("paid"); got != "paid" {
		t.Errorf("paid = %q", got)
	}
	if got := NormalizePaymentStatus("no_payment_required"); got != "no_payment_required" {
		t.Errorf("no_payment_required = %q, should pass through", got)
	}
}
