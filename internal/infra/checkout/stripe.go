package checkout

import (
	"context"
	"fmt"

	"lessons-app/internal/domain/billing"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// StripeProvider implements billing.CheckoutProvider against the Stripe API
// with its own client handle, so nothing mutates the package-global key.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(apiKey string) *StripeProvider {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeProvider{api: api}
}

var _ billing.CheckoutProvider = (*StripeProvider)(nil)

func (p *StripeProvider) CreateSession(ctx context.Context, params billing.CreateSessionParams) (billing.CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(params.Currency),
					UnitAmount: stripe.Int64(params.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(params.ProductName),
						Description: stripe.String(params.ProductDesc),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail:     stripe.String(params.CustomerEmail),
		ClientReferenceID: stripe.String(params.ClientRef),
		SuccessURL:        stripe.String(params.SuccessURL),
		CancelURL:         stripe.String(params.CancelURL),
	}
	sessionParams.Context = ctx
	for k, v := range params.Metadata {
		sessionParams.AddMetadata(k, v)
	}

	s, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return billing.CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}
	return billing.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (p *StripeProvider) RetrieveSession(ctx context.Context, sessionID string) (billing.SessionDetails, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return billing.SessionDetails{}, fmt.Errorf("retrieve checkout session %s: %w", sessionID, err)
	}
	return SessionDetailsFromStripe(s), nil
}

// SessionDetailsFromStripe maps a Stripe checkout session onto the slice
// reconciliation needs. The webhook uses it on the event payload directly;
// RetrieveSession uses it on a fresh lookup.
func SessionDetailsFromStripe(s *stripe.CheckoutSession) billing.SessionDetails {
	details := billing.SessionDetails{
		ID:            s.ID,
		PaymentStatus: NormalizePaymentStatus(string(s.PaymentStatus)),
		Amount:        s.AmountTotal,
		Currency:      string(s.Currency),
		CustomerEmail: s.CustomerEmail,
		Metadata:      s.Metadata,
	}

	if s.PaymentIntent != nil {
		details.PaymentIntentID = s.PaymentIntent.ID
	}
	if s.CustomerDetails != nil {
		if s.CustomerDetails.Email != "" {
			details.CustomerEmail = s.CustomerDetails.Email
		}
		details.CustomerName = s.CustomerDetails.Name
	}
	if len(s.PaymentMethodTypes) > 0 {
		details.PaymentMethod = s.PaymentMethodTypes[0]
	}

	return details
}

// NormalizePaymentStatus collapses the session payment_status values Stripe
// may report down to the ones reconciliation distinguishes.
func NormalizePaymentStatus(s string) string {
	switch s {
	case "":
		return billing.SessionUnpaid
	default:
		return s
	}
}
