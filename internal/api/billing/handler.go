package billing

import (
	"lessons-app/internal/domain/billing"
)

// Handler bundles the payment endpoints that need the checkout provider and
// the reconciliation engine. Read-only endpoints (history, status) live in
// handler_payments.go and hit the database directly.
type Handler struct {
	provider billing.CheckoutProvider
	engine   *billing.Reconciler
}

func NewHandler(provider billing.CheckoutProvider, engine *billing.Reconciler) *Handler {
	return &Handler{provider: provider, engine: engine}
}

// One-time lifetime upgrade, priced in BDT subunits.
const (
	premiumAmount   = 1500 * 100
	premiumCurrency = "bdt"
	premiumName     = "Digital Life Lessons Premium – Lifetime"
	premiumDesc     = "One-time payment for lifetime premium access"
)
